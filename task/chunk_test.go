package task

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ohsu-comp-bio/yatamana/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunkEmpty(t *testing.T) {
	c, err := NewChunk()
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrEmptyChunk))
}

func TestChunkAggregation(t *testing.T) {
	d1, d2, d3 := New("P", "true"), New("P", "true"), New("P", "true")
	jobs := jobTable{d1.Key(): 1, d2.Key(): 2, d3.Key(): 3}

	a := New("ATask", "a")
	a.Opts().Set(Cores(2))
	a.Opts().Set(WalltimeSpec("1"))
	a.Opts().Set(Dependencies{d1.Key(), d2.Key()})
	a.Opts().Set(Raw{"--exclusive"})

	b := New("BTask", "b")
	b.Opts().Set(Cores(4))
	b.Opts().Set(Memory(16))
	b.Opts().Set(WalltimeSpec("2"))
	b.Opts().Set(Dependencies{d2.Key(), d3.Key()})

	c := New("CTask", "c")
	c.Opts().Set(Cores(1))

	chunk, err := NewChunk(a, b, c)
	require.NoError(t, err)

	got, err := chunk.Resolve(testContext(jobs), true)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Cores())
	assert.Equal(t, 16, got.Memory())
	assert.Equal(t, 180, got.Walltime())
	assert.Equal(t, []JobID{1, 2, 3}, got.DependencyIDs())
	// Unmodeled keys come from the first member.
	assert.Equal(t, "A-s4lt", got.Name())
	raw, _ := got.Get(KeyRaw)
	assert.Equal(t, Raw{"--exclusive"}, raw)

	assert.Same(t, got, chunk.Opts())
	// Members were resolved in place.
	assert.Equal(t, "B-s4lt", b.Opts().Name())
}

func TestChunkNoAggregates(t *testing.T) {
	chunk, err := NewChunk(New("ATask", "a"), New("ATask", "b"))
	require.NoError(t, err)

	got, err := chunk.Resolve(testContext(nil), false)
	require.NoError(t, err)
	assert.False(t, got.Has(KeyCores))
	assert.False(t, got.Has(KeyMemory))
	assert.False(t, got.Has(KeyWalltime))
	assert.False(t, got.Has(KeyDependencies))
}

func TestChunkModulesMismatchWarns(t *testing.T) {
	var buf bytes.Buffer
	conf := logger.DefaultConfig()
	conf.Formatter = "json"
	log := logger.NewLogger("chunk", conf)
	log.SetOutput(&buf)

	a := New("ATask", "a")
	a.Opts().Set(Modules{"gcc", "python"})
	b := New("ATask", "b")
	b.Opts().Set(Modules{"python", "gcc"})
	c := New("ATask", "c")
	c.Opts().Set(Modules{"R"})

	chunk, err := NewChunk(a, b, c)
	require.NoError(t, err)
	chunk.Log = log

	got, err := chunk.Resolve(testContext(nil), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"gcc", "python"}, got.Modules())
	assert.Equal(t, 1, strings.Count(buf.String(), "differing modules"))
}

func TestChunkRenderCommand(t *testing.T) {
	chunk, err := NewChunk(New("ATask", "echo", "1"), New("ATask", "echo", "2"))
	require.NoError(t, err)

	cmd, err := chunk.RenderCommand()
	require.NoError(t, err)
	assert.Equal(t, "echo 1 && \\\necho 2", cmd)

	out, err := chunk.RenderRunner("%(command)s\n")
	require.NoError(t, err)
	assert.Equal(t, "echo 1 && \\\necho 2\n", out)
}

func TestChunkRunnerPrefix(t *testing.T) {
	var tasks []Task
	for _, class := range []string{"A", "A", "A", "B", "B"} {
		tasks = append(tasks, New(class, "x"))
	}
	chunk, err := NewChunk(tasks...)
	require.NoError(t, err)
	assert.Equal(t, "ChunkOfAx3Bx2", chunk.RunnerPrefix())

	assert.Equal(t, "EmptyChunkOfTasks", (&Chunk{Base: New(ChunkClass)}).RunnerPrefix())
}

func TestChunkIsFinished(t *testing.T) {
	dir := t.TempDir()
	a := NewFileTask("ATask", dir, "true")
	b := New("ATask", "true")

	chunk, err := NewChunk(a)
	require.NoError(t, err)
	assert.True(t, chunk.IsFinished())

	chunk, err = NewChunk(a, b)
	require.NoError(t, err)
	assert.False(t, chunk.IsFinished())
}
