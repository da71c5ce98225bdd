package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenTaskKey(t *testing.T) {
	a, b := GenTaskKey(), GenTaskKey()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 20)
}

func TestRandomToken(t *testing.T) {
	alnum := regexp.MustCompile(`^[A-Za-z0-9]*$`)
	for _, n := range []int{0, 1, 6, 7, 13} {
		tok := RandomToken(n)
		assert.Len(t, tok, n)
		assert.Regexp(t, alnum, tok)
	}
	assert.NotEqual(t, RandomToken(12), RandomToken(12))
}
