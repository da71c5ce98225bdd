package util

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalContext(t *testing.T) {
	ctx := SignalContext(context.Background(), 0, syscall.SIGUSR1)
	assert.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not canceled by the signal")
	}
}

func TestSignalContextParentCanceled(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := SignalContext(parent, time.Hour, syscall.SIGUSR2)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not canceled with its parent")
	}
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
