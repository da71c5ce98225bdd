package compute

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackend() *HPCBackend {
	return &HPCBackend{
		BackendName: "test",
		SubmitCmd:   "qsub",
		Render: func(v task.Value) ([]string, bool) {
			switch x := v.(type) {
			case task.Name:
				return []string{"--name", string(x)}, true
			case task.Modules:
				return nil, true
			}
			return nil, false
		},
		ExtractID: FieldJobID("test", 1),
	}
}

func TestMapPartial(t *testing.T) {
	b := testBackend()
	opts := task.NewOptions(task.Name("x"), task.Cores(2), task.Modules{"gcc"}, task.QOS("hi"))

	args, err := b.Map(opts)
	require.Error(t, err)
	assert.Equal(t, []string{"--name", "x"}, args.Flatten())
	assert.Equal(t, []string{task.KeyName}, args.Keys())

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 2)
	var ue *UnmappedOptionError
	require.True(t, errors.As(merr.Errors[0], &ue))
	assert.Equal(t, task.KeyCores, ue.Key)
	require.True(t, errors.As(merr.Errors[1], &ue))
	assert.Equal(t, task.KeyQOS, ue.Key)
}

func TestMapEmpty(t *testing.T) {
	args, err := testBackend().Map(task.NewOptions())
	assert.NoError(t, err)
	assert.Empty(t, args.Flatten())
}

func TestFieldJobID(t *testing.T) {
	extract := FieldJobID("test", 1)

	id, err := extract("job 42 queued\n")
	require.NoError(t, err)
	assert.Equal(t, task.JobID(42), id)

	for _, out := range []string{"", "job", "job forty-two"} {
		_, err := extract(out)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), out)
	}
}

func TestArgs(t *testing.T) {
	a := NewArgs()
	a.Add("b", "-b", "1")
	a.Add("a", "-a")
	a.Add("b", "-c")
	assert.Equal(t, []string{"b", "a"}, a.Keys())
	assert.Equal(t, []string{"-b", "1", "-c"}, a.Get("b"))
	assert.Equal(t, []string{"-b", "1", "-c", "-a"}, a.Flatten())

	var nilArgs *Args
	assert.Nil(t, nilArgs.Flatten())
}

func TestJoinJobIDs(t *testing.T) {
	assert.Equal(t, "1,2,30", JoinJobIDs([]task.JobID{1, 2, 30}, ","))
	assert.Equal(t, "", JoinJobIDs(nil, ":"))
}
