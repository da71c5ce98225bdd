package compute

import (
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ohsu-comp-bio/yatamana/task"
)

// RenderFunc renders a single resolved option. It returns false when the
// backend has no rule for the option. A nil token list with true means
// the option is accepted and ignored.
type RenderFunc func(task.Value) ([]string, bool)

// HPCBackend represents an HPC scheduler such as Slurm or Grid Engine,
// described by its submission command, option table and job id extraction.
type HPCBackend struct {
	BackendName string
	SubmitCmd   string
	Render      RenderFunc
	ExtractID   func(string) (task.JobID, error)
}

// Name returns the backend name.
func (b *HPCBackend) Name() string {
	return b.BackendName
}

// DefaultSubmitCommand returns the submission command, e.g. "sbatch".
func (b *HPCBackend) DefaultSubmitCommand() string {
	return b.SubmitCmd
}

// Map renders every option through the option table.
func (b *HPCBackend) Map(opts *task.Options) (*Args, error) {
	args := NewArgs()
	var errs *multierror.Error
	for _, v := range opts.Values() {
		tokens, ok := b.Render(v)
		if !ok {
			errs = multierror.Append(errs, &UnmappedOptionError{b.BackendName, v.Key()})
			continue
		}
		if tokens != nil {
			args.Add(v.Key(), tokens...)
		}
	}
	return args, errs.ErrorOrNil()
}

// ParseJobID extracts the job id from submission output.
func (b *HPCBackend) ParseJobID(output string) (task.JobID, error) {
	return b.ExtractID(output)
}

// FieldJobID returns an extractor reading the job id from the
// whitespace-separated field at index i.
func FieldJobID(backend string, i int) func(string) (task.JobID, error) {
	return func(output string) (task.JobID, error) {
		fields := strings.Fields(output)
		if len(fields) <= i {
			return 0, &ParseError{backend, output, "too few fields"}
		}
		id, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return 0, &ParseError{backend, output, err.Error()}
		}
		return task.JobID(id), nil
	}
}

// JoinJobIDs formats job ids separated by sep.
func JoinJobIDs(ids []task.JobID, sep string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	return strings.Join(parts, sep)
}
