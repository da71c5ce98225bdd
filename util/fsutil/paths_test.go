package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	created, err := EnsureDir(dir)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, Exists(dir))

	created, err = EnsureDir(dir)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureDirOverFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(f, nil, 0644))

	_, err := EnsureDir(f)
	assert.Error(t, err)
}

func TestEnsurePath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "job.log")
	created, err := EnsurePath(p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, Exists(filepath.Dir(p)))
	assert.False(t, Exists(p))
}

func TestMakeExecutable(t *testing.T) {
	f := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(f, []byte("#!/bin/sh\n"), 0640))
	require.NoError(t, os.Chmod(f, 0640))

	require.NoError(t, MakeExecutable(f))
	fi, err := os.Stat(f)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0750), fi.Mode().Perm())
}
