package util

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExternal(t *testing.T) {
	out, err := RunExternal(context.Background(), []string{"sh", "-c", "echo Submitted batch job 42; echo warn >&2"})
	require.NoError(t, err)
	assert.Contains(t, out, "Submitted batch job 42\n")
	assert.Contains(t, out, "warn\n")
}

func TestRunExternalExitError(t *testing.T) {
	_, err := RunExternal(context.Background(), []string{"sh", "-c", "echo denied; exit 3"})
	var ee *ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 3, ee.Code)
	assert.Equal(t, "denied\n", ee.Output)
	assert.Contains(t, ee.Error(), "(3): denied")
}

func TestRunExternalNoCommand(t *testing.T) {
	_, err := RunExternal(context.Background(), nil)
	assert.Error(t, err)
}

func TestRunExternalCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := RunExternal(ctx, []string{"sleep", "30"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRunExternalOutputBounded(t *testing.T) {
	out, err := RunExternal(context.Background(), []string{"sh", "-c", "head -c 100000 /dev/zero | tr '\\0' a; echo END"})
	require.NoError(t, err)
	assert.Len(t, out, MaxCommandOutput)
	assert.True(t, strings.HasSuffix(out, "aEND\n"))
}
