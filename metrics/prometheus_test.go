package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()
	m.Observe(Job{Backend: "slurm", Outcome: Submitted, Tasks: 3, Cores: 4, MemoryGB: 2, Duration: time.Second})
	m.Observe(Job{Backend: "slurm", Outcome: Failed, Tasks: 1, Cores: 8})
	m.Observe(Job{Backend: "slurm", Outcome: DryRun, Tasks: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("slurm", Submitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("slurm", Failed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues("slurm", DryRun)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.tasks.WithLabelValues("slurm")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.requestedCores.WithLabelValues("slurm")))
	assert.Equal(t, float64(2<<30), testutil.ToFloat64(m.requestedMemory.WithLabelValues("slurm")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Observe(Job{Backend: "local", Outcome: Submitted})
}

func TestWriteToTextfile(t *testing.T) {
	m := New()
	m.Observe(Job{Backend: "gridengine", Outcome: Submitted, Tasks: 1})

	path := filepath.Join(t.TempDir(), "yatamana.prom")
	require.NoError(t, m.WriteToTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `yatamana_jobs_submissions_total{backend="gridengine",outcome="submitted"} 1`)
}
