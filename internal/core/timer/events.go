package timer

import "time"

// Phase selects which duration governs the countdown.
type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

// Label returns a human readable phase name.
func (phase Phase) Label() string {
	switch phase {
	case PhaseWork:
		return "Work"
	case PhaseBreak:
		return "Break"
	default:
		return string(phase)
	}
}

// Display is the render-ready view of the timer.
type Display struct {
	Phase                 Phase
	Running               bool
	Remaining             int
	Total                 int
	Clock                 string
	Percent               float64
	CompletedWorkSessions int
}

// Presenter receives timer updates. Calls are serialized in the order the
// underlying state changes happened and are made without the timer lock held.
// A presenter must not call any SessionTimer method, accessors included,
// synchronously from a callback. Everything a callback needs is in Display.
type Presenter interface {
	OnTick(display Display)
	OnPhaseChange(phase Phase)
}

// EventType defines the type of timer event.
type EventType string

const (
	EventTick        EventType = "tick"
	EventPhaseChange EventType = "phase_change"
)

// Event is a presenter callback captured for channel observers.
type Event struct {
	Type    EventType
	Phase   Phase
	Display Display
	At      time.Time
}
