package slurm

import (
	"errors"
	"testing"

	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	b := NewBackend()
	opts := task.NewOptions(
		task.Name("Align-s4lt"),
		task.CurrentWorkingDirectory(true),
		task.LogFilename("/shared/logs/Align-s4lt.%(job_id)s.log"),
		task.Walltime(93784),
		task.QOS("long"),
		task.Cores(4),
		task.Memory(8),
		task.DependencyIDs{11, 12},
		task.Modules{"bwa"},
		task.Raw{"--exclusive"},
	)

	args, err := b.Map(opts)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"-J", "Align-s4lt",
		"-D", ".",
		"-o", "/shared/logs/Align-s4lt.%j.log",
		"-t", "01-02:03:04",
		"--qos=long",
		"-n", "4",
		"--mem-per-cpu=8G",
		"-d", "afterok:11:12",
		"--exclusive",
	}, args.Flatten())
}

func TestMapLogDirectory(t *testing.T) {
	args, err := NewBackend().Map(task.NewOptions(task.LogDirectory("/shared/logs/")))
	require.NoError(t, err)
	assert.Equal(t, []string{"-o", "/shared/logs/%x.%j.log"}, args.Flatten())
}

func TestMapUnknown(t *testing.T) {
	_, err := NewBackend().Map(task.NewOptions(task.Unknown{Name: "gpus", Value: 2.0}))
	var ue *compute.UnmappedOptionError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "gpus", ue.Key)
	assert.Equal(t, "slurm", ue.Backend)
}

func TestParseJobID(t *testing.T) {
	b := NewBackend()
	id, err := b.ParseJobID("Submitted batch job 67890\n")
	require.NoError(t, err)
	assert.Equal(t, task.JobID(67890), id)

	_, err = b.ParseJobID("sbatch: error: invalid partition\n")
	var pe *compute.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestDefaults(t *testing.T) {
	b := NewBackend()
	assert.Equal(t, "slurm", b.Name())
	assert.Equal(t, "sbatch", b.DefaultSubmitCommand())
}
