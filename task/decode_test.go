package task

import (
	"errors"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeYAML(t *testing.T, doc string) map[string]interface{} {
	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(doc), &raw))
	return raw
}

func TestDecodeOptions(t *testing.T) {
	raw := decodeYAML(t, `
zeta: 1
modules: [gcc, python]
memory: 4G
cores: 8
walltime: "2:00:00"
raw: "-A 'my project'"
name: "%(salt)s-x"
alpha: true
`)
	var warned []string
	opts, err := DecodeOptions(raw, func(k string) { warned = append(warned, k) })
	require.NoError(t, err)

	expect := NewOptions(
		Raw{"-A", "my project"},
		Name("%(salt)s-x"),
		WalltimeSpec("2:00:00"),
		Cores(8),
		Memory(4),
		Modules{"gcc", "python"},
		Unknown{"alpha", true},
		Unknown{"zeta", float64(1)},
	)
	if diff := deep.Equal(opts.Values(), expect.Values()); diff != nil {
		t.Error(diff)
	}
	assert.Equal(t, []string{"alpha", "zeta"}, warned)
}

func TestDecodeOptionsWalltimeMinutes(t *testing.T) {
	opts, err := DecodeOptions(map[string]interface{}{"walltime": float64(125)}, nil)
	require.NoError(t, err)
	v, _ := opts.Get(KeyWalltime)
	assert.Equal(t, WalltimeSpec("125"), v)
}

func TestDecodeOptionsMemory(t *testing.T) {
	tests := []struct {
		in   interface{}
		want int
	}{
		{float64(3), 3},
		{"4G", 4},
		{"4GB", 4},
		{"2GiB", 2},
		{"512M", 1},
		{"1536MiB", 2},
		{"10", 10},
	}
	for _, tt := range tests {
		opts, err := DecodeOptions(map[string]interface{}{"memory": tt.in}, nil)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, opts.Memory(), "%v", tt.in)
	}
}

func TestDecodeOptionsErrors(t *testing.T) {
	raw := map[string]interface{}{
		"cores":        "many",
		"memory":       "lots",
		"walltime":     "1:2:3:4",
		"dependencies": []interface{}{"a"},
		"name":         "ok",
	}
	opts, err := DecodeOptions(raw, nil)
	require.Error(t, err)
	var fe *FormatError
	assert.True(t, errors.As(err, &fe))
	// Valid options are still decoded.
	assert.Equal(t, "ok", opts.Name())
	assert.False(t, opts.Has(KeyCores))
}
