package config

import (
	"fmt"
	"math"

	"github.com/imdario/mergo"
	"github.com/mohae/deepcopy"
)

// ChunkClass is the class name under which chunk settings are configured.
const ChunkClass = "ChunkOfTasksTask"

// chunkSizeKey holds the per-class chunk sizes in the ChunkClass section.
// It is a setting, not a task option.
const chunkSizeKey = "chunk_size"

// TaskDefaults returns the default options of tasks of the given class:
// runner.opts overridden by tasks.<class>. The result is a deep copy and
// may be modified freely. found is false when there is no tasks.<class>
// section.
func (c Config) TaskDefaults(class string) (opts map[string]interface{}, found bool, err error) {
	if c.Runner == nil {
		return nil, false, &ConfigurationError{"runner", "missing a runner section"}
	}

	opts = map[string]interface{}{}
	if c.Runner.Opts != nil {
		opts = deepcopy.Copy(c.Runner.Opts).(map[string]interface{})
	}

	section, found := c.Tasks[class]
	if found && section != nil {
		override := deepcopy.Copy(section).(map[string]interface{})
		if err := mergo.Merge(&opts, override, mergo.WithOverride); err != nil {
			return nil, found, fmt.Errorf("merging defaults of %s: %w", class, err)
		}
	}

	if class == ChunkClass {
		delete(opts, chunkSizeKey)
	}
	return opts, found, nil
}

// ChunkSize returns the configured number of tasks per chunk for tasks of
// the given class, or DefaultChunkSize.
func (c Config) ChunkSize(class string) int {
	section := c.Tasks[ChunkClass]
	sizes, ok := section[chunkSizeKey].(map[string]interface{})
	if !ok {
		return DefaultChunkSize
	}
	switch n := sizes[class].(type) {
	case float64:
		if n >= 1 && n == math.Trunc(n) {
			return int(n)
		}
	case int:
		if n >= 1 {
			return n
		}
	}
	return DefaultChunkSize
}
