package timer

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
)

// Interval is the wall-clock length of one tick.
const Interval = time.Second

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg drives a Model. ID and Tag let a Model drop ticks that belong to a
// replaced model or to a tick chain started before the last pause.
type TickMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// WarningMsg is emitted when a Model enters its warning window.
type WarningMsg struct {
	ID int
}

// ExpiredMsg is emitted once when a Model's countdown reaches zero.
type ExpiredMsg struct {
	ID int
}

// Model adapts a Countdown to Bubble Tea. Screens create a new Model
// whenever the exercise step changes.
type Model struct {
	id        int
	tag       int
	countdown *Countdown
}

// NewModel creates a stopped Model counting down from duration seconds.
func NewModel(duration int, opts ...Option) *Model {
	return &Model{
		id:        nextID(),
		countdown: New(duration, nil, opts...),
	}
}

// ID identifies this model's messages.
func (m *Model) ID() int { return m.id }

// Countdown exposes the underlying countdown for rendering.
func (m *Model) Countdown() *Countdown { return m.countdown }

// Start resumes the countdown and schedules the next tick.
func (m *Model) Start() tea.Cmd {
	if m.countdown.Running() {
		return nil
	}
	m.countdown.Start()
	m.tag++
	return m.tick()
}

// Pause stops the countdown. Pending ticks are invalidated.
func (m *Model) Pause() {
	m.countdown.Pause()
	m.tag++
}

// Reset restores the full duration and stops the countdown.
func (m *Model) Reset() {
	m.countdown.Reset()
	m.tag++
}

// Update handles TickMsg values addressed to this model.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || tick.Tag != m.tag {
		return nil
	}

	ev := m.countdown.Tick()

	var cmds []tea.Cmd
	if ev.Has(EventWarning) {
		id := m.id
		cmds = append(cmds, func() tea.Msg { return WarningMsg{ID: id} })
	}
	if ev.Has(EventExpired) {
		id := m.id
		cmds = append(cmds, func() tea.Msg { return ExpiredMsg{ID: id} })
	}
	if m.countdown.Running() && !m.countdown.IsExpired() {
		cmds = append(cmds, m.tick())
	}
	return tea.Batch(cmds...)
}

// View renders the remaining time as m:ss.
func (m *Model) View() string {
	return m.countdown.Format()
}

func (m *Model) tick() tea.Cmd {
	id, tag := m.id, m.tag
	return tea.Tick(Interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag, Time: t}
	})
}
