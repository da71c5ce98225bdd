package gridengine

import (
	"fmt"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/task"
)

// NewBackend returns a new Grid Engine HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "gridengine",
		SubmitCmd:   "qsub",
		Render:      render,
		// Example response:
		// Your job 12345 ("Align-x1") has been submitted
		ExtractID: compute.FieldJobID("gridengine", 2),
	}
}

// Walltime and memory have no task-level rule; sites pass them as raw
// resource requests (-l h_rt=..., -l h_vmem=...).
func render(v task.Value) ([]string, bool) {
	switch x := v.(type) {
	case task.Raw:
		return append([]string{}, x...), true
	case task.CurrentWorkingDirectory:
		return []string{"-cwd"}, true
	case task.LogFilename:
		return []string{"-j", "yes", "-o", strings.ReplaceAll(string(x), "%(job_id)s", "$JOB_ID")}, true
	case task.LogDirectory:
		return []string{"-j", "yes", "-o", strings.TrimRight(string(x), "/") + "/$JOB_NAME.$JOB_ID.log"}, true
	case task.Name:
		return []string{"-N", string(x)}, true
	case task.Cores:
		return []string{"-pe", "smp", fmt.Sprint(int(x))}, true
	case task.DependencyIDs:
		return []string{"-hold_jid", compute.JoinJobIDs(x, ",")}, true
	case task.Modules:
		return nil, true
	}
	return nil, false
}
