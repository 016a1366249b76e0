package drag

import (
	"sync"
	"time"
)

// FrameScheduler runs a per-frame callback until the callback returns false
// or Stop is called. Start while running replaces the callback.
type FrameScheduler interface {
	Start(frame func() bool)
	Stop()
	Running() bool
}

// TickerScheduler drives frames from a time.Ticker on its own goroutine.
type TickerScheduler struct {
	interval time.Duration

	mu    sync.Mutex
	frame func() bool
	stop  chan struct{}
	done  chan struct{}
}

// NewTickerScheduler creates a scheduler firing every interval (16ms when
// interval is not positive).
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &TickerScheduler{interval: interval}
}

// Start begins calling frame on every tick.
func (t *TickerScheduler) Start(frame func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = frame
	if t.stop != nil {
		return
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.loop(t.stop, t.done)
}

func (t *TickerScheduler) loop(stop, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.mu.Lock()
			frame := t.frame
			t.mu.Unlock()
			if frame == nil || !frame() {
				t.mu.Lock()
				if t.stop == stop {
					t.stop, t.done, t.frame = nil, nil, nil
				}
				t.mu.Unlock()
				return
			}
		}
	}
}

// Stop cancels the loop and waits for the goroutine to exit.
func (t *TickerScheduler) Stop() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	t.stop, t.done, t.frame = nil, nil, nil
	t.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the loop goroutine is active.
func (t *TickerScheduler) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// ManualScheduler runs frames only when Tick is called. Tests use it to
// step auto-scroll deterministically.
type ManualScheduler struct {
	frame func() bool
}

// Start registers frame.
func (m *ManualScheduler) Start(frame func() bool) { m.frame = frame }

// Stop drops the registered frame.
func (m *ManualScheduler) Stop() { m.frame = nil }

// Running reports whether a frame is registered.
func (m *ManualScheduler) Running() bool { return m.frame != nil }

// Tick runs one frame and reports whether the loop continues.
func (m *ManualScheduler) Tick() bool {
	if m.frame == nil {
		return false
	}
	if !m.frame() {
		m.frame = nil
		return false
	}
	return true
}
