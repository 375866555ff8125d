package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"pomodoro/internal/core/model"

	"go.uber.org/zap"
)

// ErrNotRunning is returned by Tick when the timer is paused or idle.
var ErrNotRunning = errors.New("timer is not running")

// Recorder persists completed work sessions. It is called on its own
// goroutine and its result never changes timer state.
type Recorder interface {
	RecordSession(ctx context.Context, session CompletedSession) error
}

// CompletedSession describes a work phase that counted down to zero.
type CompletedSession struct {
	Number      int
	Duration    time.Duration
	CompletedAt time.Time
}

// Options contains runtime collaborators for SessionTimer.
type Options struct {
	TickInterval  time.Duration
	Scheduler     Scheduler
	Recorder      Recorder
	RecordTimeout time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

// SessionTimer is the work/break state machine.
type SessionTimer struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex

	config     model.TimerConfig
	options    Options
	logger     *zap.Logger
	phase      Phase
	remaining  int
	total      int
	running    bool
	completed  int
	generation uint64
	stopTicks  func()
	presenters []Presenter
	closed     bool

	recordCtx    context.Context
	cancelRecord context.CancelFunc
	records      sync.WaitGroup
}

// notice carries everything a state change has to publish once the lock is released.
type notice struct {
	presenters   []Presenter
	display      Display
	phaseChanged bool
	record       *CompletedSession
}

// New creates an idle timer in the Work phase with the full work duration.
func New(config model.TimerConfig, options Options) (*SessionTimer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Scheduler == nil {
		options.Scheduler = TickerScheduler{}
	}
	if options.RecordTimeout <= 0 {
		options.RecordTimeout = 10 * time.Second
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	recordCtx, cancelRecord := context.WithCancel(context.Background())
	timer := &SessionTimer{
		config:       config,
		options:      options,
		logger:       logger,
		recordCtx:    recordCtx,
		cancelRecord: cancelRecord,
	}
	timer.setPhaseLocked(PhaseWork)
	return timer, nil
}

// AddPresenter registers a presenter and immediately sends it the current display.
func (timer *SessionTimer) AddPresenter(presenter Presenter) {
	timer.mu.Lock()
	timer.presenters = append(timer.presenters, presenter)
	display := timer.snapshotLocked()
	timer.dispatchMu.Lock()
	timer.mu.Unlock()
	defer timer.dispatchMu.Unlock()

	presenter.OnTick(display)
}

// Start arms the tick source. It is a no-op while running.
func (timer *SessionTimer) Start() {
	timer.mu.Lock()
	if timer.running || timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.armLocked()
	timer.publish(timer.noticeLocked())
}

// Pause disarms the tick source and keeps the remaining time.
func (timer *SessionTimer) Pause() {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return
	}
	timer.running = false
	timer.disarmLocked()
	timer.publish(timer.noticeLocked())
}

// Toggle starts an idle timer or pauses a running one.
func (timer *SessionTimer) Toggle() {
	if timer.Running() {
		timer.Pause()
		return
	}
	timer.Start()
}

// Reset stops the timer and returns to a full Work phase.
func (timer *SessionTimer) Reset() {
	timer.mu.Lock()
	timer.disarmLocked()
	timer.running = false
	previous := timer.phase
	timer.setPhaseLocked(PhaseWork)

	n := timer.noticeLocked()
	n.phaseChanged = previous != PhaseWork
	timer.publish(n)
}

// Tick advances the countdown by one second. It returns ErrNotRunning and
// changes nothing when the timer is not running.
func (timer *SessionTimer) Tick() error {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return ErrNotRunning
	}
	timer.publish(timer.advanceLocked())
	return nil
}

// UpdateSettings replaces the phase durations. The active phase total is
// re-derived and the remaining time clamped to it.
func (timer *SessionTimer) UpdateSettings(config model.TimerConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	timer.mu.Lock()
	fresh := !timer.running && timer.remaining == timer.total
	timer.config = config
	total := timer.durationLocked(timer.phase)
	if total != timer.total {
		timer.total = total
		if fresh || timer.remaining > timer.total {
			timer.remaining = timer.total
		}
	}
	timer.publish(timer.noticeLocked())
	return nil
}

// Close disarms ticks, rejects further starts and waits for in-flight recorder calls.
func (timer *SessionTimer) Close() {
	timer.mu.Lock()
	if timer.closed {
		timer.mu.Unlock()
		return
	}
	timer.closed = true
	timer.running = false
	timer.disarmLocked()
	timer.mu.Unlock()

	timer.records.Wait()
	timer.cancelRecord()
}

// Phase returns the active phase.
func (timer *SessionTimer) Phase() Phase {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.phase
}

// Running reports whether a tick source is armed.
func (timer *SessionTimer) Running() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.running
}

// CompletedWorkSessions returns how many work phases reached zero.
func (timer *SessionTimer) CompletedWorkSessions() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.completed
}

// RemainingSeconds returns the countdown value.
func (timer *SessionTimer) RemainingSeconds() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.remaining
}

// TotalSeconds returns the active phase duration.
func (timer *SessionTimer) TotalSeconds() int {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.total
}

// Config returns the active durations.
func (timer *SessionTimer) Config() model.TimerConfig {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.config
}

// FormattedTime returns the remaining time as MM:SS.
func (timer *SessionTimer) FormattedTime() string {
	return FormatClock(timer.RemainingSeconds())
}

// ProgressPercent returns the elapsed share of the active phase.
func (timer *SessionTimer) ProgressPercent() float64 {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return Percent(timer.total, timer.remaining)
}

// Snapshot returns the current display values.
func (timer *SessionTimer) Snapshot() Display {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.snapshotLocked()
}

func (timer *SessionTimer) scheduledTick(generation uint64) {
	timer.mu.Lock()
	if !timer.running || generation != timer.generation {
		timer.mu.Unlock()
		return
	}
	timer.publish(timer.advanceLocked())
}

func (timer *SessionTimer) advanceLocked() notice {
	if timer.remaining > 0 {
		timer.remaining--
	}
	if timer.remaining > 0 {
		return timer.noticeLocked()
	}
	return timer.completePhaseLocked()
}

func (timer *SessionTimer) completePhaseLocked() notice {
	var record *CompletedSession
	if timer.phase == PhaseWork {
		timer.completed++
		if timer.options.Recorder != nil && !timer.closed {
			record = &CompletedSession{
				Number:      timer.completed,
				Duration:    timer.config.WorkDuration,
				CompletedAt: timer.options.Now(),
			}
			timer.records.Add(1)
		}
		timer.setPhaseLocked(PhaseBreak)
	} else {
		timer.setPhaseLocked(PhaseWork)
	}

	n := timer.noticeLocked()
	n.phaseChanged = true
	n.record = record
	return n
}

func (timer *SessionTimer) setPhaseLocked(phase Phase) {
	timer.phase = phase
	timer.total = timer.durationLocked(phase)
	timer.remaining = timer.total
}

func (timer *SessionTimer) durationLocked(phase Phase) int {
	if phase == PhaseBreak {
		return timer.config.BreakSeconds()
	}
	return timer.config.WorkSeconds()
}

func (timer *SessionTimer) armLocked() {
	timer.generation++
	generation := timer.generation
	timer.stopTicks = timer.options.Scheduler.Every(timer.options.TickInterval, func() {
		timer.scheduledTick(generation)
	})
}

func (timer *SessionTimer) disarmLocked() {
	timer.generation++
	if timer.stopTicks != nil {
		timer.stopTicks()
		timer.stopTicks = nil
	}
}

func (timer *SessionTimer) snapshotLocked() Display {
	return Display{
		Phase:                 timer.phase,
		Running:               timer.running,
		Remaining:             timer.remaining,
		Total:                 timer.total,
		Clock:                 FormatClock(timer.remaining),
		Percent:               Percent(timer.total, timer.remaining),
		CompletedWorkSessions: timer.completed,
	}
}

func (timer *SessionTimer) noticeLocked() notice {
	return notice{
		presenters: append([]Presenter(nil), timer.presenters...),
		display:    timer.snapshotLocked(),
	}
}

// publish must be called with mu held; it releases mu before invoking presenters.
func (timer *SessionTimer) publish(n notice) {
	timer.dispatchMu.Lock()
	timer.mu.Unlock()
	defer timer.dispatchMu.Unlock()

	for _, presenter := range n.presenters {
		if n.phaseChanged {
			presenter.OnPhaseChange(n.display.Phase)
		}
		presenter.OnTick(n.display)
	}
	if n.record != nil {
		go timer.record(*n.record)
	}
}

func (timer *SessionTimer) record(session CompletedSession) {
	defer timer.records.Done()

	ctx, cancel := context.WithTimeout(timer.recordCtx, timer.options.RecordTimeout)
	defer cancel()

	if err := timer.options.Recorder.RecordSession(ctx, session); err != nil {
		timer.logger.Warn("record completed session",
			zap.Int("session", session.Number),
			zap.Duration("duration", session.Duration),
			zap.Error(err))
		return
	}
	timer.logger.Debug("completed session recorded", zap.Int("session", session.Number))
}
