package manager

import (
	"strings"

	"github.com/ohsu-comp-bio/yatamana/compute"
	"github.com/ohsu-comp-bio/yatamana/compute/gridengine"
	"github.com/ohsu-comp-bio/yatamana/compute/local"
	"github.com/ohsu-comp-bio/yatamana/compute/slurm"
)

// NewBackend returns the backend named by the manager configuration key.
func NewBackend(name string) (compute.Backend, error) {
	switch strings.ToLower(name) {
	case "local":
		return local.NewBackend(), nil
	case "sge", "gridengine":
		return gridengine.NewBackend(), nil
	case "slurm":
		return slurm.NewBackend(), nil
	}
	return nil, &ConfigurationError{Section: "manager", Reason: "unknown task manager: " + name}
}
