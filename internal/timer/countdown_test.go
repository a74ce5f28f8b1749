package timer

import "testing"

func TestCountdown_ExpiresAfterDurationTicks(t *testing.T) {
	for _, d := range []int{1, 2, 5, 61, 120, 420} {
		fired := 0
		c := New(d, func() { fired++ })
		c.Start()
		for i := 0; i < d; i++ {
			c.Tick()
		}
		if c.TimeLeft() != 0 {
			t.Errorf("d=%d: TimeLeft = %d, want 0", d, c.TimeLeft())
		}
		if !c.IsExpired() {
			t.Errorf("d=%d: IsExpired = false, want true", d)
		}
		if fired != 1 {
			t.Errorf("d=%d: onExpire fired %d times, want 1", d, fired)
		}
	}
}

func TestCountdown_ExpireNeverRefiresWithoutReset(t *testing.T) {
	fired := 0
	c := New(3, func() { fired++ })
	c.Start()
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	c.Pause()
	c.Tick()
	c.Start()
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if fired != 1 {
		t.Fatalf("onExpire fired %d times, want 1", fired)
	}

	c.Reset()
	c.Start()
	for i := 0; i < 3; i++ {
		c.Tick()
	}
	if fired != 2 {
		t.Errorf("onExpire fired %d times after reset run, want 2", fired)
	}
}

func TestCountdown_PauseFreezesAndResumeContinues(t *testing.T) {
	c := New(10, nil)
	c.Start()
	c.Tick()
	c.Tick()
	c.Pause()

	for i := 0; i < 4; i++ {
		if ev := c.Tick(); ev != EventNone {
			t.Errorf("tick while paused fired %v", ev)
		}
	}
	if c.TimeLeft() != 8 {
		t.Fatalf("TimeLeft after pause = %d, want 8", c.TimeLeft())
	}

	c.Start()
	c.Tick()
	if c.TimeLeft() != 7 {
		t.Errorf("TimeLeft after resume = %d, want 7", c.TimeLeft())
	}
}

func TestCountdown_StartIsIdempotent(t *testing.T) {
	c := New(5, nil)
	c.Start()
	c.Start()
	c.Tick()
	if c.TimeLeft() != 4 {
		t.Errorf("TimeLeft = %d, want 4", c.TimeLeft())
	}
}

func TestCountdown_StartExpiredOnlySetsRunning(t *testing.T) {
	fired := 0
	c := New(1, func() { fired++ })
	c.Start()
	c.Tick()
	c.Pause()

	c.Start()
	if !c.Running() {
		t.Error("Running = false, want true")
	}
	if c.TimeLeft() != 0 {
		t.Errorf("TimeLeft = %d, want 0", c.TimeLeft())
	}
	c.Tick()
	if fired != 1 {
		t.Errorf("onExpire fired %d times, want 1", fired)
	}
}

func TestCountdown_WarningFiresOnce(t *testing.T) {
	warned := 0
	c := New(63, nil, WithWarning(func() { warned++ }))
	c.Start()

	c.Tick() // 62
	c.Tick() // 61
	if warned != 0 {
		t.Fatalf("warning fired early at %d", c.TimeLeft())
	}
	c.Tick() // 60
	if warned != 1 {
		t.Fatalf("warning fired %d times at 60s, want 1", warned)
	}
	if !c.IsWarning() {
		t.Error("IsWarning = false at 60s")
	}
	for c.TimeLeft() > 0 {
		c.Tick()
	}
	if warned != 1 {
		t.Errorf("warning fired %d times, want 1", warned)
	}
	if c.IsWarning() {
		t.Error("IsWarning = true after expiry")
	}
}

func TestCountdown_ResetRearms(t *testing.T) {
	warned, expired := 0, 0
	c := New(2, func() { expired++ }, WithWarning(func() { warned++ }))
	c.Start()
	c.Tick()
	c.Tick()

	c.Reset()
	if c.Running() {
		t.Error("Running = true after Reset")
	}
	if c.TimeLeft() != 2 {
		t.Errorf("TimeLeft = %d after Reset, want 2", c.TimeLeft())
	}

	c.Start()
	ev := c.Tick()
	if !ev.Has(EventWarning) {
		t.Errorf("first tick after reset = %v, want warning", ev)
	}
	ev = c.Tick()
	if !ev.Has(EventExpired) {
		t.Errorf("second tick after reset = %v, want expired", ev)
	}
	if warned != 2 || expired != 2 {
		t.Errorf("warned=%d expired=%d, want 2 and 2", warned, expired)
	}
}

func TestCountdown_TickObserver(t *testing.T) {
	var seen []int
	c := New(3, nil, WithTickObserver(func(left, total int) {
		if total != 3 {
			t.Errorf("observer duration = %d, want 3", total)
		}
		seen = append(seen, left)
	}))
	c.Start()
	for i := 0; i < 5; i++ {
		c.Tick()
	}

	want := []int{2, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("observer called %d times, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestCountdown_Display(t *testing.T) {
	tests := []struct {
		duration int
		ticks    int
		format   string
		percent  float64
	}{
		{420, 0, "7:00", 100},
		{420, 210, "3:30", 50},
		{90, 81, "0:09", 10},
		{60, 60, "0:00", 0},
		{600, 1, "9:59", 100 * 599.0 / 600.0},
	}
	for _, tt := range tests {
		c := New(tt.duration, nil)
		c.Start()
		for i := 0; i < tt.ticks; i++ {
			c.Tick()
		}
		if got := c.Format(); got != tt.format {
			t.Errorf("Format(%d after %d) = %q, want %q", tt.duration, tt.ticks, got, tt.format)
		}
		if got := c.PercentRemaining(); got != tt.percent {
			t.Errorf("PercentRemaining(%d after %d) = %v, want %v", tt.duration, tt.ticks, got, tt.percent)
		}
	}
}

func TestCountdown_Elapsed(t *testing.T) {
	c := New(30, nil)
	c.Start()
	for i := 0; i < 12; i++ {
		c.Tick()
	}
	if c.Elapsed() != 12 {
		t.Errorf("Elapsed = %d, want 12", c.Elapsed())
	}
}

func TestNew_ClampsDuration(t *testing.T) {
	c := New(0, nil)
	if c.Duration() != 1 {
		t.Errorf("Duration = %d, want 1", c.Duration())
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := map[int]string{
		0:    "0:00",
		5:    "0:05",
		65:   "1:05",
		3600: "60:00",
		-3:   "0:00",
	}
	for in, want := range tests {
		if got := FormatSeconds(in); got != want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", in, got, want)
		}
	}
}
