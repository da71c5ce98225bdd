package task

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mohae/deepcopy"
)

// Recognized option keys.
const (
	KeyRaw                     = "raw"
	KeyCurrentWorkingDirectory = "current_working_directory"
	KeyLogFilename             = "log_filename"
	KeyLogDirectory            = "log_directory"
	KeyName                    = "name"
	KeyWalltime                = "walltime"
	KeyQOS                     = "qos"
	KeyCores                   = "cores"
	KeyMemory                  = "memory"
	KeyDependencies            = "dependencies"
	KeyModules                 = "modules"
)

// vocabulary lists the recognized keys in canonical order.
var vocabulary = []string{
	KeyRaw,
	KeyCurrentWorkingDirectory,
	KeyLogFilename,
	KeyLogDirectory,
	KeyName,
	KeyWalltime,
	KeyQOS,
	KeyCores,
	KeyMemory,
	KeyDependencies,
	KeyModules,
}

// IsRecognized reports whether key belongs to the option vocabulary.
func IsRecognized(key string) bool {
	for _, k := range vocabulary {
		if k == key {
			return true
		}
	}
	return false
}

// Value is a single option. The set of implementations is closed; backends
// switch on the concrete type to render it.
type Value interface {
	Key() string
	clone() Value
}

// Raw holds extra command-line tokens passed to the submission command
// unchanged.
type Raw []string

// CurrentWorkingDirectory asks the backend to run the job in the submission
// directory.
type CurrentWorkingDirectory bool

// LogFilename is the job log path. Before resolution it is a format string;
// after resolution it may still contain the %(job_id)s placeholder, which
// the backend replaces with its own job id variable.
type LogFilename string

// LogDirectory is a directory receiving job logs under the backend's default
// log file name.
type LogDirectory string

// Name is the job name. Before resolution it is a format string.
type Name string

// WalltimeSpec is an unresolved walltime in any format accepted by the
// walltime package.
type WalltimeSpec string

// Walltime is a resolved walltime in seconds.
type Walltime int

// QOS is a Slurm quality of service.
type QOS string

// Cores is the number of requested cores.
type Cores int

// Memory is the requested memory in GB.
type Memory int

// Dependencies references tasks which must finish successfully first.
type Dependencies []Key

// DependencyIDs are resolved dependencies: the job ids of the referenced
// tasks.
type DependencyIDs []JobID

// Modules lists environment modules loaded by the runner script.
type Modules []string

// Unknown carries an option outside the vocabulary. It survives resolution
// but no backend can map it.
type Unknown struct {
	Name  string
	Value interface{}
}

func (Raw) Key() string                     { return KeyRaw }
func (CurrentWorkingDirectory) Key() string { return KeyCurrentWorkingDirectory }
func (LogFilename) Key() string             { return KeyLogFilename }
func (LogDirectory) Key() string            { return KeyLogDirectory }
func (Name) Key() string                    { return KeyName }
func (WalltimeSpec) Key() string            { return KeyWalltime }
func (Walltime) Key() string                { return KeyWalltime }
func (QOS) Key() string                     { return KeyQOS }
func (Cores) Key() string                   { return KeyCores }
func (Memory) Key() string                  { return KeyMemory }
func (Dependencies) Key() string            { return KeyDependencies }
func (DependencyIDs) Key() string           { return KeyDependencies }
func (Modules) Key() string                 { return KeyModules }
func (u Unknown) Key() string               { return u.Name }

func (v Raw) clone() Value                     { return append(Raw(nil), v...) }
func (v CurrentWorkingDirectory) clone() Value { return v }
func (v LogFilename) clone() Value             { return v }
func (v LogDirectory) clone() Value            { return v }
func (v Name) clone() Value                    { return v }
func (v WalltimeSpec) clone() Value            { return v }
func (v Walltime) clone() Value                { return v }
func (v QOS) clone() Value                     { return v }
func (v Cores) clone() Value                   { return v }
func (v Memory) clone() Value                  { return v }
func (v Dependencies) clone() Value            { return append(Dependencies(nil), v...) }
func (v DependencyIDs) clone() Value           { return append(DependencyIDs(nil), v...) }
func (v Modules) clone() Value                 { return append(Modules(nil), v...) }
func (v Unknown) clone() Value                 { return Unknown{v.Name, deepcopy.Iface(v.Value)} }

// Options is an ordered mapping from option key to value. Setting an
// existing key keeps its position; new keys are appended.
type Options struct {
	keys   []string
	values map[string]Value
}

// NewOptions returns options holding the given values in order.
func NewOptions(vals ...Value) *Options {
	o := &Options{values: map[string]Value{}}
	for _, v := range vals {
		o.Set(v)
	}
	return o
}

// Set stores v under its key.
func (o *Options) Set(v Value) {
	if o.values == nil {
		o.values = map[string]Value{}
	}
	k := v.Key()
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Get returns the value stored under key.
func (o *Options) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Options) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Delete removes key.
func (o *Options) Delete(key string) {
	if o == nil {
		return
	}
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of options.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the option keys in order.
func (o *Options) Keys() []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.keys...)
}

// Values returns the option values in order.
func (o *Options) Values() []Value {
	if o == nil {
		return nil
	}
	out := make([]Value, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.values[k])
	}
	return out
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	c := NewOptions()
	if o == nil {
		return c
	}
	for _, k := range o.keys {
		c.Set(o.values[k].clone())
	}
	return c
}

// Merge copies every option of over into o, replacing existing keys, and
// returns o.
func (o *Options) Merge(over *Options) *Options {
	for _, v := range over.Values() {
		o.Set(v.clone())
	}
	return o
}

// Name returns the name option, if any.
func (o *Options) Name() string {
	v, _ := o.Get(KeyName)
	n, _ := v.(Name)
	return string(n)
}

// LogFilename returns the log filename option, if any.
func (o *Options) LogFilename() string {
	v, _ := o.Get(KeyLogFilename)
	s, _ := v.(LogFilename)
	return string(s)
}

// LogDirectory returns the log directory option, if any.
func (o *Options) LogDirectory() string {
	v, _ := o.Get(KeyLogDirectory)
	s, _ := v.(LogDirectory)
	return string(s)
}

// Cores returns the cores option, or 0.
func (o *Options) Cores() int {
	v, _ := o.Get(KeyCores)
	n, _ := v.(Cores)
	return int(n)
}

// Memory returns the memory option in GB, or 0.
func (o *Options) Memory() int {
	v, _ := o.Get(KeyMemory)
	n, _ := v.(Memory)
	return int(n)
}

// Walltime returns the resolved walltime in seconds, or 0.
func (o *Options) Walltime() int {
	v, _ := o.Get(KeyWalltime)
	n, _ := v.(Walltime)
	return int(n)
}

// DependencyIDs returns the resolved dependency job ids.
func (o *Options) DependencyIDs() []JobID {
	v, _ := o.Get(KeyDependencies)
	ids, _ := v.(DependencyIDs)
	return ids
}

// Modules returns the requested environment modules.
func (o *Options) Modules() []string {
	v, _ := o.Get(KeyModules)
	m, _ := v.(Modules)
	return m
}

func (o *Options) String() string {
	parts := make([]string, 0, o.Len())
	for _, v := range o.Values() {
		parts = append(parts, fmt.Sprintf("%s=%v", v.Key(), v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedJobIDs(set map[JobID]struct{}) DependencyIDs {
	out := make(DependencyIDs, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
