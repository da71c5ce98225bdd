// Package task describes units of work submitted to a batch scheduler and
// resolves their declarative options into a backend-agnostic form.
package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/util"
)

// Key identifies a task. Dependencies refer to tasks by key.
type Key string

// JobID is the identifier assigned to a submitted job by the backend.
type JobID int64

// DryRunJobID is assigned to tasks prepared without being submitted.
const DryRunJobID JobID = -1

// ErrNoCommand is returned when rendering a task without a command.
var ErrNoCommand = errors.New("task has no command")

// InvariantViolation reports a programming error such as assigning a job id
// twice. It should not be caught and retried.
type InvariantViolation struct {
	Task   string
	Reason string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated for %s: %s", e.Task, e.Reason)
}

// UnresolvedDependencyError is returned when a dependency refers to a task
// that has no job id yet.
type UnresolvedDependencyError struct {
	Key Key
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("dependency %s has not been submitted", e.Key)
}

// JobLookup returns the job id recorded for a task key.
type JobLookup interface {
	JobIDOf(Key) (JobID, bool)
}

// Context holds the submission-time values used to resolve options.
type Context struct {
	// Values are substituted into %(key)s references in name and log options.
	Values map[string]string
	// Jobs resolves dependency keys into job ids.
	Jobs JobLookup
}

// Task is a unit of work which can be submitted.
type Task interface {
	fmt.Stringer
	Key() Key
	// Class names the kind of task. It selects the per-class defaults and
	// labels the runner script.
	Class() string
	Opts() *Options
	Defaults() *Options
	UpdateDefaults(*Options)
	// Resolve merges the options over the defaults and normalizes them
	// against ctx. With updateSelf the result replaces Opts.
	Resolve(ctx *Context, updateSelf bool) (*Options, error)
	RenderCommand() (string, error)
	// RenderRunner fills %(command)s and %(modules)s in template.
	RenderRunner(template string) (string, error)
	RunnerPrefix() string
	JobID() (JobID, bool)
	SetJobID(JobID) error
	// IsFinished is an advisory check used by callers to skip work that
	// already completed.
	IsFinished() bool
}

// Base is a plain task running a single command.
type Base struct {
	Command []string

	key      Key
	class    string
	opts     *Options
	defaults *Options
	jobID    JobID
	assigned bool

	// formats holds the format strings replaced by the last Resolve with
	// updateSelf, and written the values they resolved to.
	formats *Options
	written *Options
}

// formatKeys name the options whose values are format strings.
var formatKeys = []string{KeyName, KeyLogFilename, KeyLogDirectory}

// New returns a task of the given class running command. The job name
// defaults to the class without a trailing "Task", followed by the salt.
func New(class string, command ...string) *Base {
	name := strings.TrimSuffix(class, "Task") + "-%(salt)s"
	return &Base{
		Command:  command,
		key:      Key(util.GenTaskKey()),
		class:    class,
		opts:     NewOptions(Name(name)),
		defaults: NewOptions(CurrentWorkingDirectory(true)),
	}
}

func (b *Base) Key() Key           { return b.key }
func (b *Base) Class() string      { return b.class }
func (b *Base) Opts() *Options     { return b.opts }
func (b *Base) Defaults() *Options { return b.defaults }

// UpdateDefaults merges defaults over the current defaults.
func (b *Base) UpdateDefaults(defaults *Options) {
	b.defaults.Merge(defaults)
}

// JobID returns the job id and whether one was assigned.
func (b *Base) JobID() (JobID, bool) {
	return b.jobID, b.assigned
}

// SetJobID assigns the job id. It may be called only once.
func (b *Base) SetJobID(id JobID) error {
	if b.assigned {
		return &InvariantViolation{b.String(), fmt.Sprintf("job id already assigned (%d)", b.jobID)}
	}
	b.jobID = id
	b.assigned = true
	return nil
}

// IsFinished always returns false.
func (b *Base) IsFinished() bool {
	return false
}

// RunnerPrefix returns the class name.
func (b *Base) RunnerPrefix() string {
	return b.class
}

// RenderCommand joins the command with single spaces.
func (b *Base) RenderCommand() (string, error) {
	if len(b.Command) == 0 {
		return "", fmt.Errorf("%s: %w", b, ErrNoCommand)
	}
	return strings.Join(b.Command, " "), nil
}

// RenderRunner fills the runner template.
func (b *Base) RenderRunner(template string) (string, error) {
	return renderRunner(b, template)
}

// Resolve merges opts over defaults and normalizes every option. Resolving
// again starts from the original format strings unless they were changed in
// between, so a resolved "%%" is not interpreted twice.
func (b *Base) Resolve(ctx *Context, updateSelf bool) (*Options, error) {
	merged := b.defaults.Clone().Merge(b.unresolvedOpts())
	resolved := NewOptions()

	rc := &resolveContext{ctx: ctx}
	if v, ok := merged.Get(KeyName); ok {
		name, err := Interpolate(string(v.(Name)), ctx.values())
		if err != nil {
			return nil, err
		}
		rc.name = name
		rc.hasName = true
		resolved.Set(Name(name))
	}

	for _, v := range merged.Values() {
		if _, ok := v.(Name); ok {
			continue
		}
		r, err := resolveValue(v, rc)
		if err != nil {
			return nil, fmt.Errorf("resolving %s of %s: %w", v.Key(), b, err)
		}
		if r != nil {
			resolved.Set(r)
		}
	}

	if updateSelf {
		b.formats = NewOptions()
		b.written = NewOptions()
		for _, key := range formatKeys {
			if v, ok := merged.Get(key); ok {
				b.formats.Set(v)
			}
			if v, ok := resolved.Get(key); ok {
				b.written.Set(v)
			}
		}
		b.opts = resolved
	}
	return resolved, nil
}

// unresolvedOpts returns opts with resolved format strings swapped back for
// their formats. Values set since the last Resolve are kept.
func (b *Base) unresolvedOpts() *Options {
	if b.formats == nil {
		return b.opts
	}
	opts := b.opts.Clone()
	for _, key := range formatKeys {
		format, ok := b.formats.Get(key)
		if !ok {
			continue
		}
		cur, ok := b.opts.Get(key)
		if w, wok := b.written.Get(key); ok && wok && cur == w {
			opts.Set(format)
		}
	}
	return opts
}

func (b *Base) String() string {
	return describe(b.class, b.opts, b.jobID, b.assigned)
}

func describe(class string, opts *Options, id JobID, assigned bool) string {
	jid := "None"
	if assigned {
		jid = fmt.Sprint(id)
	}
	return fmt.Sprintf("%s[name=%s, id=%s]", class, opts.Name(), jid)
}

func renderRunner(t Task, template string) (string, error) {
	cmd, err := t.RenderCommand()
	if err != nil {
		return "", err
	}
	modules := strings.Join(t.Opts().Modules(), " ")
	return Interpolate(template, map[string]string{
		"command": cmd,
		"modules": modules,
	})
}

func (c *Context) values() map[string]string {
	if c == nil || c.Values == nil {
		return map[string]string{}
	}
	return c.Values
}
