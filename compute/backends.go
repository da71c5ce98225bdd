package compute

import (
	"fmt"
	"strings"

	"github.com/ohsu-comp-bio/yatamana/task"
)

// Backend maps resolved task options to the command line of a batch
// scheduler and reads job ids from its submission output.
type Backend interface {
	Name() string
	// DefaultSubmitCommand is used when the configuration does not name a
	// submission command.
	DefaultSubmitCommand() string
	// Map renders resolved options into submission arguments. Options
	// without a rendering rule are returned as *UnmappedOptionError values
	// (aggregated with go-multierror) alongside the arguments that could be
	// rendered.
	Map(opts *task.Options) (*Args, error)
	ParseJobID(output string) (task.JobID, error)
}

// UnmappedOptionError reports an option the backend cannot render.
type UnmappedOptionError struct {
	Backend string
	Key     string
}

func (e *UnmappedOptionError) Error() string {
	return fmt.Sprintf("%s: cannot map option %q", e.Backend, e.Key)
}

// ParseError reports submission output without a recognizable job id.
type ParseError struct {
	Backend string
	Output  string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: cannot parse job id from %q: %s",
		e.Backend, strings.TrimSpace(e.Output), e.Reason)
}

// Args holds rendered command-line tokens per option key, in option order.
type Args struct {
	keys   []string
	tokens map[string][]string
}

// NewArgs returns empty arguments.
func NewArgs() *Args {
	return &Args{tokens: map[string][]string{}}
}

// Add appends tokens for key.
func (a *Args) Add(key string, tokens ...string) {
	if _, ok := a.tokens[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.tokens[key] = append(a.tokens[key], tokens...)
}

// Get returns the tokens rendered for key.
func (a *Args) Get(key string) []string {
	if a == nil {
		return nil
	}
	return a.tokens[key]
}

// Keys returns the keys in order.
func (a *Args) Keys() []string {
	if a == nil {
		return nil
	}
	return append([]string(nil), a.keys...)
}

// Flatten concatenates the tokens of every key in order.
func (a *Args) Flatten() []string {
	if a == nil {
		return nil
	}
	var out []string
	for _, k := range a.keys {
		out = append(out, a.tokens[k]...)
	}
	return out
}
