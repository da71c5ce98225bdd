package task

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/logger"
)

// ChunkClass is the class of every chunk. Its per-class defaults hold the
// chunk_size table.
const ChunkClass = "ChunkOfTasksTask"

// ChunkSeparator joins member commands so the chunk stops at the first
// failing member.
const ChunkSeparator = " && \\\n"

// ErrEmptyChunk is returned when creating a chunk without members.
var ErrEmptyChunk = errors.New("a chunk needs at least one task")

// Chunk runs several tasks sequentially as a single job. Its options are
// derived from its members on Resolve.
type Chunk struct {
	*Base
	Tasks []Task
	Log   *logger.Logger
}

// NewChunk groups tasks into a chunk.
func NewChunk(tasks ...Task) (*Chunk, error) {
	if len(tasks) == 0 {
		return nil, ErrEmptyChunk
	}
	return &Chunk{
		Base:  New(ChunkClass),
		Tasks: append([]Task(nil), tasks...),
	}, nil
}

// Resolve resolves every member and folds their options: the maximum of
// cores and memory, the sum of walltimes and the union of dependencies.
// Everything else comes from the first member.
func (c *Chunk) Resolve(ctx *Context, updateSelf bool) (*Options, error) {
	var (
		cores, memory, walltime int
		deps                    = map[JobID]struct{}{}
		modules                 []string
	)
	for i, t := range c.Tasks {
		opts, err := t.Resolve(ctx, true)
		if err != nil {
			return nil, err
		}
		if n := opts.Cores(); n > cores {
			cores = n
		}
		if n := opts.Memory(); n > memory {
			memory = n
		}
		walltime += opts.Walltime()
		for _, id := range opts.DependencyIDs() {
			deps[id] = struct{}{}
		}

		mods := opts.Modules()
		if i == 0 {
			modules = mods
		} else if !sameSet(modules, mods) {
			c.Log.Warn("Tasks in chunk request differing modules",
				"first", modules, "task", t.String(), "modules", mods)
		}
	}

	resolved := c.Tasks[0].Opts().Clone()
	if cores > 0 {
		resolved.Set(Cores(cores))
	}
	if memory > 0 {
		resolved.Set(Memory(memory))
	}
	if walltime != 0 {
		resolved.Set(Walltime(walltime))
	}
	if len(deps) > 0 {
		resolved.Set(sortedJobIDs(deps))
	}

	if updateSelf {
		c.opts = resolved
	}
	return resolved, nil
}

// RenderCommand joins the member commands with ChunkSeparator.
func (c *Chunk) RenderCommand() (string, error) {
	cmds := make([]string, 0, len(c.Tasks))
	for _, t := range c.Tasks {
		cmd, err := t.RenderCommand()
		if err != nil {
			return "", err
		}
		cmds = append(cmds, cmd)
	}
	return strings.Join(cmds, ChunkSeparator), nil
}

// RenderRunner fills the runner template with the chunk command.
func (c *Chunk) RenderRunner(template string) (string, error) {
	return renderRunner(c, template)
}

// RunnerPrefix run-length encodes the member classes, for example
// ChunkOfAx3Bx2.
func (c *Chunk) RunnerPrefix() string {
	if len(c.Tasks) == 0 {
		return "EmptyChunkOfTasks"
	}
	var b strings.Builder
	b.WriteString("ChunkOf")
	class, count := c.Tasks[0].Class(), 0
	for _, t := range c.Tasks {
		if t.Class() != class {
			fmt.Fprintf(&b, "%sx%d", class, count)
			class, count = t.Class(), 0
		}
		count++
	}
	fmt.Fprintf(&b, "%sx%d", class, count)
	return b.String()
}

// IsFinished reports whether every member is finished.
func (c *Chunk) IsFinished() bool {
	for _, t := range c.Tasks {
		if !t.IsFinished() {
			return false
		}
	}
	return true
}

func (c *Chunk) String() string {
	return describe(c.RunnerPrefix(), c.opts, c.jobID, c.assigned)
}

func sameSet(a, b []string) bool {
	set := func(s []string) []string {
		m := map[string]struct{}{}
		for _, v := range s {
			m[v] = struct{}{}
		}
		out := make([]string, 0, len(m))
		for v := range m {
			out = append(out, v)
		}
		sort.Strings(out)
		return out
	}
	x, y := set(a), set(b)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
