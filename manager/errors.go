package manager

import (
	"fmt"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/config"
	"github.com/ohsu-comp-bio/yatamana/task"
)

// ConfigurationError reports a missing or invalid configuration section.
type ConfigurationError = config.ConfigurationError

// InvariantViolation reports a programming error, such as enqueuing a task
// which already has a job id.
type InvariantViolation = task.InvariantViolation

// SubmissionError is returned when the submission command fails.
type SubmissionError struct {
	Command []string
	Output  string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submitting %q: %s", strings.Join(e.Command, " "), e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
