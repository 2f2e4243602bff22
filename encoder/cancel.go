package encoder

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
)

// CancelFlag is a cooperative cancellation signal. It can be set from any
// goroutine; the encoder only looks at it between rows.
type CancelFlag struct {
	canceled atomic.Bool
}

// Cancel sets the flag. Calling it more than once has no further effect.
func (flag *CancelFlag) Cancel() {
	flag.canceled.Store(true)
}

// IsSet returns true if Cancel has been called. A nil flag is never set.
func (flag *CancelFlag) IsSet() bool {
	return flag != nil && flag.canceled.Load()
}

// CancelOnSignal sets the flag when any of the given signals arrive. Call the
// returned function to stop listening; it may be called more than once.
func (flag *CancelFlag) CancelOnSignal(signals ...os.Signal) (stop func()) {
	received := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(received, signals...)

	go func() {
		select {
		case <-received:
			flag.Cancel()
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(received)
			close(done)
		})
	}
}
