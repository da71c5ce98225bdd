package manager

import (
	"context"

	"github.com/ohsu-comp-bio/yatamana/util"
)

// Launcher runs a submission command and returns its output.
type Launcher interface {
	Run(ctx context.Context, args []string) (string, error)
}

// LauncherFunc adapts a function to the Launcher interface.
type LauncherFunc func(ctx context.Context, args []string) (string, error)

// Run calls f.
func (f LauncherFunc) Run(ctx context.Context, args []string) (string, error) {
	return f(ctx, args)
}

// ExternalLauncher runs submission commands as child processes.
var ExternalLauncher Launcher = LauncherFunc(util.RunExternal)
