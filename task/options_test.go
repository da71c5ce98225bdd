package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionsOrder(t *testing.T) {
	o := NewOptions(Name("a"), Cores(2), QOS("normal"))
	o.Set(Cores(4))
	o.Set(Memory(8))
	assert.Equal(t, []string{KeyName, KeyCores, KeyQOS, KeyMemory}, o.Keys())
	assert.Equal(t, 4, o.Cores())

	o.Delete(KeyCores)
	assert.Equal(t, []string{KeyName, KeyQOS, KeyMemory}, o.Keys())
	assert.False(t, o.Has(KeyCores))
	assert.Equal(t, 0, o.Cores())
}

func TestOptionsMergeOverWins(t *testing.T) {
	defaults := NewOptions(CurrentWorkingDirectory(true), Cores(1), QOS("low"))
	opts := NewOptions(Name("n"), Cores(8))

	merged := defaults.Clone().Merge(opts)
	assert.Equal(t, []string{KeyCurrentWorkingDirectory, KeyCores, KeyQOS, KeyName}, merged.Keys())
	assert.Equal(t, 8, merged.Cores())
	// The source is untouched.
	assert.Equal(t, 1, defaults.Cores())
}

func TestOptionsCloneIsDeep(t *testing.T) {
	o := NewOptions(Raw{"-A", "proj"}, Modules{"gcc"}, Unknown{"extra", map[string]interface{}{"a": 1}})
	c := o.Clone()

	v, _ := c.Get(KeyRaw)
	raw := v.(Raw)
	raw[0] = "-B"
	u, _ := c.Get("extra")
	u.(Unknown).Value.(map[string]interface{})["a"] = 2

	orig, _ := o.Get(KeyRaw)
	assert.Equal(t, Raw{"-A", "proj"}, orig)
	ou, _ := o.Get("extra")
	assert.Equal(t, 1, ou.(Unknown).Value.(map[string]interface{})["a"])
}

func TestNilOptions(t *testing.T) {
	var o *Options
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	assert.False(t, o.Has(KeyName))
	assert.Equal(t, "", o.Name())
	assert.Equal(t, 0, o.Clone().Len())
}

func TestIsRecognized(t *testing.T) {
	assert.True(t, IsRecognized("log_directory"))
	assert.True(t, IsRecognized("qos"))
	assert.False(t, IsRecognized("mem"))
}
