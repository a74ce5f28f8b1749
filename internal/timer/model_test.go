package timer

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func tickFor(m *Model) TickMsg {
	return TickMsg{ID: m.id, Tag: m.tag, Time: time.Now()}
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestModel_IgnoresForeignTicks(t *testing.T) {
	a := NewModel(10)
	b := NewModel(10)
	a.Start()
	b.Start()

	if cmd := a.Update(tickFor(b)); cmd != nil {
		t.Error("expected nil cmd for another model's tick")
	}
	if a.Countdown().TimeLeft() != 10 {
		t.Errorf("TimeLeft = %d, want 10", a.Countdown().TimeLeft())
	}
}

func TestModel_IgnoresStaleTagAfterPause(t *testing.T) {
	m := NewModel(10)
	m.Start()
	stale := tickFor(m)
	m.Pause()
	m.Start()

	m.Update(stale)
	if m.Countdown().TimeLeft() != 10 {
		t.Errorf("TimeLeft = %d after stale tick, want 10", m.Countdown().TimeLeft())
	}

	m.Update(tickFor(m))
	if m.Countdown().TimeLeft() != 9 {
		t.Errorf("TimeLeft = %d after live tick, want 9", m.Countdown().TimeLeft())
	}
}

func TestModel_EmitsExpiredOnce(t *testing.T) {
	m := NewModel(1)
	m.Start()

	cmd := m.Update(tickFor(m))
	var expired, warned int
	for _, msg := range collect(cmd) {
		switch msg := msg.(type) {
		case ExpiredMsg:
			if msg.ID != m.ID() {
				t.Errorf("ExpiredMsg.ID = %d, want %d", msg.ID, m.ID())
			}
			expired++
		case WarningMsg:
			warned++
		case TickMsg:
			t.Error("expired model scheduled another tick")
		}
	}
	if expired != 1 {
		t.Errorf("ExpiredMsg count = %d, want 1", expired)
	}
	if warned != 1 {
		t.Errorf("WarningMsg count = %d, want 1", warned)
	}

	if cmd := m.Update(tickFor(m)); cmd != nil {
		for _, msg := range collect(cmd) {
			if _, ok := msg.(ExpiredMsg); ok {
				t.Error("ExpiredMsg emitted twice")
			}
		}
	}
}

func TestModel_StartWhileRunningIsNoop(t *testing.T) {
	m := NewModel(5)
	if cmd := m.Start(); cmd == nil {
		t.Fatal("expected tick cmd from first Start")
	}
	tag := m.tag
	if cmd := m.Start(); cmd != nil {
		t.Error("expected nil cmd from second Start")
	}
	if m.tag != tag {
		t.Errorf("tag changed on redundant Start: %d -> %d", tag, m.tag)
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(125)
	if got := m.View(); got != "2:05" {
		t.Errorf("View = %q, want %q", got, "2:05")
	}
}
