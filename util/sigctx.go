package util

import (
	"context"
	"os"
	"os/signal"
	"time"
)

// SignalContext returns a context canceled shortly after one of sigs
// arrives. The delay lets a running submission command see the signal
// first. Signal delivery is released once the context is done.
func SignalContext(ctx context.Context, delay time.Duration, sigs ...os.Signal) context.Context {
	sch := make(chan os.Signal, 1)
	sub, cancel := context.WithCancel(ctx)
	signal.Notify(sch, sigs...)

	go func() {
		defer signal.Stop(sch)
		select {
		case <-sub.Done():
		case <-sch:
			time.Sleep(delay)
			cancel()
		}
	}()

	return sub
}
