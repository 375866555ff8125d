package timer

import (
	"sync"
	"time"
)

// Scheduler arms a periodic callback. Every must not invoke fn synchronously;
// the returned stop function disarms it and is safe to call more than once.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler delivers ticks from a time.Ticker goroutine.
type TickerScheduler struct{}

// Every starts a ticker goroutine that calls fn on each tick until stopped.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	stopCh := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stopCh)
		})
	}
}
