package cli

import (
	"context"
	"os"
	"os/signal"
)

// exit is replaced in tests.
var exit = os.Exit

// InterruptContext is cancelled when one of signals is received.
// A second signal exits the process with a non-zero code, so a stuck command can still be stopped.
// Calling stop releases the signal handler.
func InterruptContext(parent context.Context, signals ...os.Signal) (ctx context.Context, stop context.CancelFunc) {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt}
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, signals...)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigs:
			exit(1)
		case <-done:
		}
	}()
	return ctx, func() {
		signal.Stop(sigs)
		cancel()
		select {
		case <-done:
		default:
			close(done)
		}
	}
}
