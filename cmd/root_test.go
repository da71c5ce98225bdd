package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"submit", "chunk", "walltime", "jobs", "config", "version", "completion"} {
		assert.True(t, names[name], name)
	}
}

func TestWalltimeThroughRoot(t *testing.T) {
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetArgs([]string{"walltime", "120"})
	require.NoError(t, RootCmd.Execute())
	assert.Contains(t, out.String(), "00-02:00:00")
}
