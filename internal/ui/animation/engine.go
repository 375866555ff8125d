package animation

import (
	"context"
	"image/color"
	"sync"
	"time"
)

// Config contains animation timing values.
type Config struct {
	FlashOn    time.Duration
	FlashOff   time.Duration
	FlashCount int
}

// FlashSpec is the colour set of one flash sequence. Rest is painted when
// the sequence finishes or is cancelled.
type FlashSpec struct {
	On   color.Color
	Off  color.Color
	Rest color.Color
}

// Engine runs one colour animation at a time on its own goroutine.
type Engine struct {
	mu     sync.Mutex
	config Config
	paint  func(color.Color)
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new animation engine. paint must not block.
func New(config Config, paint func(color.Color)) *Engine {
	return &Engine{
		config: config,
		paint:  paint,
	}
}

// Flash blinks between spec.On and spec.Off, replacing any running animation.
func (engine *Engine) Flash(ctx context.Context, spec FlashSpec) {
	engine.start(ctx, func(runCtx context.Context) {
		defer engine.paint(spec.Rest)
		for i := 0; i < engine.config.FlashCount; i++ {
			engine.paint(spec.On)
			if !sleepWithContext(runCtx, engine.config.FlashOn) {
				return
			}
			engine.paint(spec.Off)
			if !sleepWithContext(runCtx, engine.config.FlashOff) {
				return
			}
		}
	})
}

// Stop terminates any active animation and waits for it to exit.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.stopLocked()

	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.cancel = cancel
	engine.done = done

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func (engine *Engine) stopLocked() {
	if engine.cancel == nil {
		return
	}
	engine.cancel()
	<-engine.done
	engine.cancel = nil
	engine.done = nil
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
