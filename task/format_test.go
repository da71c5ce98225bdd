package task

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	vals := map[string]string{"salt": "x1y2", "n": "3"}

	tests := []struct {
		format string
		want   string
	}{
		{"Align-%(salt)s", "Align-x1y2"},
		{"%(n)d cores", "3 cores"},
		{"100%%", "100%"},
		{"%x.%j.log", "%x.%j.log"},
		{"trailing %", "trailing %"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := Interpolate(tt.format, vals)
		require.NoError(t, err, tt.format)
		assert.Equal(t, tt.want, got)
	}
}

func TestInterpolateErrors(t *testing.T) {
	for _, format := range []string{"%(missing)s", "%(salt", "%(salt)x", "%(salt)"} {
		_, err := Interpolate(format, map[string]string{"salt": "s"})
		var fe *FormatError
		assert.True(t, errors.As(err, &fe), format)
	}
}

func TestInterpolateDoesNotRescan(t *testing.T) {
	got, err := Interpolate("%(a)s", map[string]string{"a": "%(b)s"})
	require.NoError(t, err)
	assert.Equal(t, "%(b)s", got)
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("YTM_TEST_DIR", "/scratch")
	assert.Equal(t, "/scratch/logs", expandEnv("$YTM_TEST_DIR/logs"))
	assert.Equal(t, "/scratch/logs", expandEnv("${YTM_TEST_DIR}/logs"))
	assert.Equal(t, "$YTM_UNSET_VAR/x", expandEnv("$YTM_UNSET_VAR/x"))
	assert.Equal(t, "cost $5", expandEnv("cost $5"))
	assert.Equal(t, "a$", expandEnv("a$"))
	assert.Equal(t, "${open", expandEnv("${open"))
}
