package timer

import "fmt"

// WarningThreshold is the number of seconds left at which a countdown
// enters its warning window.
const WarningThreshold = 60

// Event reports the lifecycle callbacks that fired during a single tick.
type Event uint8

const (
	EventWarning Event = 1 << iota // crossed into the warning window
	EventExpired                   // reached zero
)

// EventNone means the tick fired no callbacks.
const EventNone Event = 0

// Has reports whether e includes flag.
func (e Event) Has(flag Event) bool {
	return e&flag != 0
}

// Option configures optional Countdown callbacks.
type Option func(*Countdown)

// WithWarning registers a callback fired once per run when the countdown
// drops to WarningThreshold seconds or below.
func WithWarning(fn func()) Option {
	return func(c *Countdown) {
		c.onWarning = fn
	}
}

// WithTickObserver registers a callback invoked after every effective tick.
// The observer sees the state but cannot change it.
func WithTickObserver(fn func(timeLeft, duration int)) Option {
	return func(c *Countdown) {
		c.onTick = fn
	}
}

// Countdown is a per-step countdown measured in whole seconds. It does not
// own a clock: the caller delivers ticks, normally once per second.
//
// The warning and expire callbacks are latched. Each fires at most once
// until Reset is called, no matter how many ticks, pauses or restarts happen.
type Countdown struct {
	duration int
	timeLeft int
	running  bool

	warned  bool
	expired bool

	onExpire  func()
	onWarning func()
	onTick    func(timeLeft, duration int)
}

// New creates a stopped countdown of duration seconds. onExpire may be nil.
// Non-positive durations are clamped to one second.
func New(duration int, onExpire func(), opts ...Option) *Countdown {
	if duration < 1 {
		duration = 1
	}
	c := &Countdown{
		duration: duration,
		timeLeft: duration,
		onExpire: onExpire,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start resumes ticking. Starting an expired countdown only marks it
// running: time left stays at zero and expire does not fire again.
func (c *Countdown) Start() {
	c.running = true
}

// Pause freezes the countdown. No callbacks fire while paused.
func (c *Countdown) Pause() {
	c.running = false
}

// Reset restores the full duration, stops the countdown and re-arms the
// warning and expire callbacks.
func (c *Countdown) Reset() {
	c.timeLeft = c.duration
	c.running = false
	c.warned = false
	c.expired = false
}

// Tick advances the countdown by one second and returns the callbacks that
// fired. Ticks while paused or at zero are ignored.
func (c *Countdown) Tick() Event {
	if !c.running || c.timeLeft <= 0 {
		return EventNone
	}

	c.timeLeft--
	if c.timeLeft < 0 {
		c.timeLeft = 0
	}

	if c.onTick != nil {
		c.onTick(c.timeLeft, c.duration)
	}

	ev := EventNone
	if c.timeLeft <= WarningThreshold && !c.warned {
		c.warned = true
		ev |= EventWarning
		if c.onWarning != nil {
			c.onWarning()
		}
	}
	if c.timeLeft <= 0 && !c.expired {
		c.expired = true
		ev |= EventExpired
		if c.onExpire != nil {
			c.onExpire()
		}
	}
	return ev
}

// Duration returns the configured duration in seconds.
func (c *Countdown) Duration() int { return c.duration }

// TimeLeft returns the remaining seconds, never negative.
func (c *Countdown) TimeLeft() int { return c.timeLeft }

// Running reports whether the countdown accepts ticks.
func (c *Countdown) Running() bool { return c.running }

// Elapsed returns the seconds consumed so far.
func (c *Countdown) Elapsed() int { return c.duration - c.timeLeft }

// IsWarning reports whether the countdown is inside the warning window
// but not yet expired.
func (c *Countdown) IsWarning() bool {
	return c.timeLeft > 0 && c.timeLeft <= WarningThreshold
}

// IsExpired reports whether no time is left.
func (c *Countdown) IsExpired() bool {
	return c.timeLeft <= 0
}

// Format renders the remaining time as m:ss.
func (c *Countdown) Format() string {
	return FormatSeconds(c.timeLeft)
}

// PercentRemaining returns 100 * timeLeft / duration.
func (c *Countdown) PercentRemaining() float64 {
	return 100 * float64(c.timeLeft) / float64(c.duration)
}

// FormatSeconds renders secs as m:ss.
func FormatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
