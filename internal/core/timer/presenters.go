package timer

import (
	"time"

	"go.uber.org/zap"
)

// ChannelPresenter forwards presenter callbacks to a buffered channel.
// Events are dropped when the observer falls behind.
type ChannelPresenter struct {
	events chan Event
	now    func() time.Time
}

// NewChannelPresenter creates a channel presenter with the given buffer.
func NewChannelPresenter(buffer int) *ChannelPresenter {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelPresenter{
		events: make(chan Event, buffer),
		now:    time.Now,
	}
}

// Events returns the observer channel.
func (presenter *ChannelPresenter) Events() <-chan Event {
	return presenter.events
}

func (presenter *ChannelPresenter) OnTick(display Display) {
	presenter.send(Event{Type: EventTick, Phase: display.Phase, Display: display, At: presenter.now()})
}

func (presenter *ChannelPresenter) OnPhaseChange(phase Phase) {
	presenter.send(Event{Type: EventPhaseChange, Phase: phase, At: presenter.now()})
}

func (presenter *ChannelPresenter) send(event Event) {
	select {
	case presenter.events <- event:
	default:
	}
}

// LogPresenter writes phase changes and start/pause transitions to a zap logger.
type LogPresenter struct {
	logger      *zap.Logger
	seen        bool
	lastRunning bool
}

// NewLogPresenter creates a presenter that logs through logger.
func NewLogPresenter(logger *zap.Logger) *LogPresenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPresenter{logger: logger}
}

func (presenter *LogPresenter) OnTick(display Display) {
	if presenter.seen && presenter.lastRunning == display.Running {
		return
	}
	presenter.seen = true
	presenter.lastRunning = display.Running
	presenter.logger.Info("timer state",
		zap.String("phase", string(display.Phase)),
		zap.Bool("running", display.Running),
		zap.String("remaining", display.Clock))
}

func (presenter *LogPresenter) OnPhaseChange(phase Phase) {
	presenter.logger.Info("phase changed", zap.String("phase", string(phase)))
}
