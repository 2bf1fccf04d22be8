package gpio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sweeney/call-alert/internal/logic"
)

// FakeVibrator is a test double that records vibration commands.
// Not safe for concurrent use; the controller only calls it from one goroutine.
type FakeVibrator struct {
	// Present controls the return value of HasVibrator.
	Present bool

	// Waveforms contains every waveform passed to Vibrate, in order.
	Waveforms []logic.Waveform

	// Cancels counts calls to Cancel.
	Cancels int

	// VibrateError, if set, will be returned by Vibrate.
	VibrateError error

	// Closed tracks if Close was called.
	Closed bool

	active bool
}

// NewFakeVibrator creates a FakeVibrator with a motor present.
func NewFakeVibrator() *FakeVibrator {
	return &FakeVibrator{Present: true}
}

// HasVibrator reports the configured presence.
func (f *FakeVibrator) HasVibrator() bool {
	return f.Present
}

// Vibrate records the waveform.
func (f *FakeVibrator) Vibrate(w logic.Waveform) error {
	if f.VibrateError != nil {
		return f.VibrateError
	}
	f.Waveforms = append(f.Waveforms, w)
	f.active = w.Repeat != logic.NoRepeat
	return nil
}

// Cancel records the cancellation.
func (f *FakeVibrator) Cancel() error {
	f.Cancels++
	f.active = false
	return nil
}

// Active reports whether a looping waveform is playing.
func (f *FakeVibrator) Active() bool {
	return f.active
}

// Close marks the vibrator as closed.
func (f *FakeVibrator) Close() error {
	f.Closed = true
	return nil
}

// TorchCall is one recorded SetTorch command.
type TorchCall struct {
	ID string
	On bool
}

// FakeTorch is a test double that records torch commands.
// Safe for concurrent use: blink loops call it from their own goroutines.
type FakeTorch struct {
	mu       sync.Mutex
	ids      []string
	calls    []TorchCall
	setErr   error
	failFrom int
	closed   bool
}

// NewFakeTorch creates a FakeTorch with the given torch ids.
// No ids means no flash capability.
func NewFakeTorch(ids ...string) *FakeTorch {
	return &FakeTorch{ids: ids, failFrom: -1}
}

// HasFlash reports whether any torch id was configured.
func (f *FakeTorch) HasFlash() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ids) > 0
}

// Torches returns the configured torch ids.
func (f *FakeTorch) Torches() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ids) == 0 {
		return nil, errors.New("no torch available")
	}
	return append([]string(nil), f.ids...), nil
}

// SetTorch records the command, failing once FailAfter calls have been made.
func (f *FakeTorch) SetTorch(id string, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFrom >= 0 && len(f.calls) >= f.failFrom {
		return f.setErr
	}
	found := false
	for _, known := range f.ids {
		if known == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown torch %q", id)
	}
	f.calls = append(f.calls, TorchCall{ID: id, On: on})
	return nil
}

// FailAfter makes SetTorch return err once n calls have succeeded.
func (f *FakeTorch) FailAfter(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failFrom = n
	f.setErr = err
}

// Calls returns a copy of the recorded commands.
func (f *FakeTorch) Calls() []TorchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TorchCall(nil), f.calls...)
}

// Close marks the torch as closed.
func (f *FakeTorch) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Closed reports whether Close was called.
func (f *FakeTorch) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Reset clears recorded commands and failures.
func (f *FakeTorch) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.failFrom = -1
	f.setErr = nil
	f.closed = false
}
