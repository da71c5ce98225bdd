package util

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/armon/circbuf"
)

// MaxCommandOutput bounds the captured output of external commands.
const MaxCommandOutput = 64 * 1024

// commandWaitDelay is how long a canceled command may take to exit after
// SIGTERM before it is killed.
var commandWaitDelay = 10 * time.Second

// ExitError is returned by RunExternal when the command exits with a
// non-zero status.
type ExitError struct {
	Args   []string
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("error running %q (%d): %s",
		strings.Join(e.Args, " "), e.Code, strings.TrimSpace(e.Output))
}

// RunExternal runs args[0] with the remaining arguments and returns its
// combined stdout and stderr. When ctx is canceled the child receives
// SIGTERM and RunExternal waits for it to exit before returning the
// context's error.
func RunExternal(ctx context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("no command given")
	}

	out, err := circbuf.NewBuffer(MaxCommandOutput)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = commandWaitDelay

	err = cmd.Run()
	if ctx.Err() != nil {
		return out.String(), ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out.String(), &ExitError{
			Args:   append([]string(nil), args...),
			Code:   exitErr.ExitCode(),
			Output: out.String(),
		}
	}
	if err != nil {
		return out.String(), err
	}
	return out.String(), nil
}
