package submit

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
	"github.com/ohsu-comp-bio/yatamana/cmd/util"
	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/config/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandFlags(t *testing.T) {
	fileConf := config.DefaultConfig()
	fileConf.Manager = "slurm"
	tmp, cleanup := util.TempConfigFile(fileConf, "testconfig.yaml")
	defer cleanup()

	c, h := newCommandHooks()
	var called bool
	h.Submit = func(ctx context.Context, conf config.Config, req *Request, out io.Writer) error {
		called = true
		assert.Equal(t, "slurm", conf.Manager)
		assert.True(t, conf.DryRun)
		assert.False(t, conf.StrictOptions)

		expected := &Request{
			Class:   "AlignTask",
			Command: []string{"bwa", "mem", "ref.fa", ">", "out.sam"},
			After:   []int64{12, 13},
			Opts: map[string]interface{}{
				"cores":   4,
				"memory":  "8G",
				"modules": []string{"bwa", "samtools"},
			},
		}
		if diff := deep.Equal(req, expected); diff != nil {
			t.Error(diff)
		}
		return nil
	}

	c.SetArgs([]string{
		"--config", tmp, "--dry-run", "--lenient",
		"--class", "AlignTask", "--cores", "4", "--memory", "8G",
		"--module", "bwa,samtools", "--after", "12", "-a", "13",
		"bwa mem ref.fa > out.sam",
	})
	require.NoError(t, c.Execute())
	assert.True(t, called)
}

func TestCommandArgs(t *testing.T) {
	c, h := newCommandHooks()
	h.Submit = func(ctx context.Context, conf config.Config, req *Request, out io.Writer) error {
		assert.Equal(t, []string{"echo", "a b"}, req.Command)
		assert.Empty(t, req.Opts)
		return nil
	}
	c.SetArgs([]string{"--", "echo", "a b"})
	require.NoError(t, c.Execute())
}

func TestSubmitDryRun(t *testing.T) {
	conf := testconfig.TestifyConfig(t, config.DefaultConfig())
	conf.Manager = "slurm"
	conf.DryRun = true

	var out bytes.Buffer
	err := Submit(context.Background(), conf, &Request{
		Command: []string{"sort", "in.txt"},
		After:   []int64{7},
		Opts:    map[string]interface{}{"walltime": "1:00:00"},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "-1\n", out.String())
}

func TestSubmitLocal(t *testing.T) {
	conf := testconfig.TestifyConfig(t, config.DefaultConfig())
	outFile := filepath.Join(conf.SharedTmp, "out.txt")
	req := &Request{
		Class:   "EchoTask",
		Command: []string{"echo", "hi", ">", outFile},
		Out:     outFile,
	}

	var out bytes.Buffer
	require.NoError(t, Submit(context.Background(), conf, req, &out))
	assert.Equal(t, "1\n", out.String())
	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", string(b))

	// The output exists now, so nothing is submitted.
	out.Reset()
	require.NoError(t, Submit(context.Background(), conf, req, &out))
	assert.Empty(t, out.String())
}

func TestSubmitBadOption(t *testing.T) {
	conf := testconfig.TestifyConfig(t, config.DefaultConfig())
	conf.DryRun = true
	err := Submit(context.Background(), conf, &Request{
		Command: []string{"true"},
		Opts:    map[string]interface{}{"memory": "lots"},
	}, &bytes.Buffer{})
	assert.Error(t, err)
}
