package manager

import (
	"context"

	"github.com/ohsu-comp-bio/yatamana/task"
)

// Chunker groups a stream of tasks into chunks of a fixed size and
// enqueues each chunk as soon as it is full.
type Chunker struct {
	m       *Manager
	n       int
	pending []task.Task
}

// NewChunker returns a chunker enqueuing chunks of n tasks. With n < 1
// the size is looked up from the chunk_size configuration of the class of
// the first task added.
func (m *Manager) NewChunker(n int) *Chunker {
	return &Chunker{m: m, n: n}
}

// Add queues t. When the window is full the chunk is enqueued and
// returned; otherwise Add returns nil.
func (c *Chunker) Add(ctx context.Context, t task.Task) (*task.Chunk, error) {
	if c.n < 1 {
		c.n = c.m.conf.ChunkSize(t.Class())
	}
	c.pending = append(c.pending, t)
	if len(c.pending) < c.n {
		return nil, nil
	}
	return c.Flush(ctx)
}

// Flush enqueues the queued tasks, if any, as a chunk.
func (c *Chunker) Flush(ctx context.Context) (*task.Chunk, error) {
	if len(c.pending) == 0 {
		return nil, nil
	}
	tasks := c.pending
	c.pending = nil
	return c.m.EnqueueGroup(ctx, tasks)
}

// EnqueueChunked enqueues tasks in chunks of n (see NewChunker) and calls
// yield with every enqueued chunk. A final partial chunk is enqueued too.
// A non-nil error from yield stops the iteration.
func (m *Manager) EnqueueChunked(ctx context.Context, tasks []task.Task, n int, yield func(*task.Chunk) error) error {
	c := m.NewChunker(n)
	for _, t := range tasks {
		chunk, err := c.Add(ctx, t)
		if err != nil {
			return err
		}
		if chunk != nil && yield != nil {
			if err := yield(chunk); err != nil {
				return err
			}
		}
	}
	chunk, err := c.Flush(ctx)
	if err != nil {
		return err
	}
	if chunk != nil && yield != nil {
		return yield(chunk)
	}
	return nil
}
