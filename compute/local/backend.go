package local

import (
	"sync"

	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/task"
)

// NewBackend returns a new local Backend instance. Runner scripts are run
// in the foreground with bash; job ids are issued from a counter.
func NewBackend() *Backend {
	b := &Backend{}
	b.HPCBackend = compute.HPCBackend{
		BackendName: "local",
		SubmitCmd:   "bash",
		Render:      render,
		ExtractID: func(string) (task.JobID, error) {
			return b.nextID(), nil
		},
	}
	return b
}

// Backend represents the local backend.
type Backend struct {
	compute.HPCBackend

	mtx    sync.Mutex
	lastID task.JobID
}

func (b *Backend) nextID() task.JobID {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.lastID++
	return b.lastID
}

func render(v task.Value) ([]string, bool) {
	switch x := v.(type) {
	case task.Raw:
		return append([]string{}, x...), true
	case task.CurrentWorkingDirectory, task.LogFilename, task.LogDirectory,
		task.Name, task.DependencyIDs, task.Modules:
		return nil, true
	}
	return nil, false
}
