package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := Version
	defer func() { Version = old }()

	Version = "1.2.3"
	GitCommit = "abc123"
	defer func() { GitCommit = "" }()

	s := String()
	assert.True(t, strings.HasSuffix(s, "version: 1.2.3"))
	assert.Contains(t, s, "git commit: abc123\n")
	assert.Equal(t, "1.2.3", Get())
	assert.Contains(t, LogFields(), "1.2.3")
}
