package slurm

import (
	"fmt"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/task"
	"github.com/ohsu-comp-bio/yatamana/walltime"
)

// NewBackend returns a new Slurm HPCBackend instance.
func NewBackend() *compute.HPCBackend {
	return &compute.HPCBackend{
		BackendName: "slurm",
		SubmitCmd:   "sbatch",
		Render:      render,
		// Example response:
		// Submitted batch job 2
		ExtractID: compute.FieldJobID("slurm", 3),
	}
}

func render(v task.Value) ([]string, bool) {
	switch x := v.(type) {
	case task.Raw:
		return append([]string{}, x...), true
	case task.CurrentWorkingDirectory:
		return []string{"-D", "."}, true
	case task.LogFilename:
		return []string{"-o", strings.ReplaceAll(string(x), "%(job_id)s", "%j")}, true
	case task.LogDirectory:
		return []string{"-o", strings.TrimRight(string(x), "/") + "/%x.%j.log"}, true
	case task.Name:
		return []string{"-J", string(x)}, true
	case task.Walltime:
		return []string{"-t", walltime.Format(int(x))}, true
	case task.QOS:
		return []string{"--qos=" + string(x)}, true
	case task.Cores:
		return []string{"-n", fmt.Sprint(int(x))}, true
	case task.Memory:
		return []string{fmt.Sprintf("--mem-per-cpu=%dG", int(x))}, true
	case task.DependencyIDs:
		return []string{"-d", "afterok:" + compute.JoinJobIDs(x, ":")}, true
	case task.Modules:
		return nil, true
	}
	return nil, false
}
