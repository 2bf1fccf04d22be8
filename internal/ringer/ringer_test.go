package ringer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/channel"
	"github.com/sweeney/call-alert/internal/gpio"
	"github.com/sweeney/call-alert/internal/logic"
)

type harness struct {
	dev    *FakeDevice
	vib    *gpio.FakeVibrator
	torch  *gpio.FakeTorch
	ring   *audio.FakeRingtonePlayer
	tones  *audio.FakeToneFactory
	events *EventLog
	blink  *channel.Torch
	ctrl   *Controller
}

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		dev:    NewFakeDevice(),
		vib:    gpio.NewFakeVibrator(),
		torch:  gpio.NewFakeTorch("torch0"),
		ring:   audio.NewFakeRingtonePlayer(),
		tones:  audio.NewFakeToneFactory(),
		events: &EventLog{},
	}
	h.blink = channel.NewTorch(h.torch, time.Millisecond)
	h.ctrl = New(Deps{
		Filter:    h.dev,
		Ringtones: h.dev,
		Settings:  h.dev,
		Dialer:    h.dev,
		Audio:     h.dev,
		Haptic:    channel.NewHaptic(h.vib),
		Audible:   channel.NewAudible(h.ring, h.tones),
		Torch:     h.blink,
		Patterns:  logic.NewLibrary(logic.PatternPulse),
		Events:    h.events,
		Now:       func() time.Time { return testNow },
	})
	t.Cleanup(func() {
		h.blink.Stop()
		if task := h.blink.Current(); task != nil {
			<-task.Done()
		}
	})
	return h
}

// assertNoChannels fails if any alert channel was started.
func (h *harness) assertNoChannels(t *testing.T) {
	t.Helper()
	if len(h.ring.Plays) != 0 {
		t.Errorf("expected no ringtone, got %d plays", len(h.ring.Plays))
	}
	if len(h.vib.Waveforms) != 0 {
		t.Errorf("expected no vibration, got %d", len(h.vib.Waveforms))
	}
	if h.blink.Current() != nil {
		t.Error("expected no torch blink")
	}
}

func TestStartRingingNilCall(t *testing.T) {
	h := newHarness(t)

	if h.ctrl.StartRinging(nil, true) {
		t.Error("nil call should not acquire focus")
	}
	h.assertNoChannels(t)
	if len(h.events.Events) != 0 {
		t.Errorf("expected no events, got %v", h.events.Types())
	}
}

func TestStartRingingAudible(t *testing.T) {
	h := newHarness(t)
	call := &logic.Call{ID: "c1", Contact: "tel:+441234"}

	if !h.ctrl.StartRinging(call, false) {
		t.Error("audible ring should acquire focus")
	}

	if len(h.ring.Plays) != 1 {
		t.Fatalf("expected 1 play, got %d", len(h.ring.Plays))
	}
	if h.ring.Plays[0].Call != call {
		t.Error("ringtone played for wrong call")
	}
	if len(h.vib.Waveforms) != 1 || h.vib.Waveforms[0].Name != "pulse" {
		t.Errorf("expected pulse vibration, got %+v", h.vib.Waveforms)
	}
	if h.blink.Current() != nil {
		t.Error("torch off should not blink")
	}
	if len(h.dev.Filtered) != 1 || h.dev.Filtered[0] != "tel:+441234" {
		t.Errorf("filter consulted with %v", h.dev.Filtered)
	}
	if len(h.dev.Resolved) != 1 {
		t.Errorf("ringtone should be resolved once, got %d", len(h.dev.Resolved))
	}

	want := []logic.EventType{logic.EventStartRinger, logic.EventStartVibrator}
	got := h.events.Types()
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if h.events.Events[0].CallID != "c1" || !h.events.Events[0].Timestamp.Equal(testNow) {
		t.Errorf("unexpected event: %+v", h.events.Events[0])
	}

	snap := h.ctrl.Snapshot()
	if snap.RingingCall != "c1" || snap.VibratingCall != "c1" || !snap.Vibrating {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStartRingingIncreasingRing(t *testing.T) {
	h := newHarness(t)
	h.dev.IncreasingEnabled = true
	h.dev.IncreasingStart = 0.1
	h.dev.IncreasingRampMillis = 20000

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if len(h.ring.Plays) != 1 {
		t.Fatalf("expected 1 play, got %d", len(h.ring.Plays))
	}
	want := logic.VolumeRamp{StartVolume: 0.1, RampMillis: 20000}
	if h.ring.Plays[0].Ramp != want {
		t.Errorf("ramp: got %+v, want %+v", h.ring.Plays[0].Ramp, want)
	}
}

func TestStartRingingEmbeddedVibration(t *testing.T) {
	h := newHarness(t)
	embedded, err := logic.NewWaveform("embedded", []int{100, 100}, []int{255, 0}, 0)
	if err != nil {
		t.Fatal(err)
	}
	h.dev.Ringtone.Vibration = &embedded

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if len(h.vib.Waveforms) != 1 || h.vib.Waveforms[0].Name != "embedded" {
		t.Errorf("expected embedded vibration, got %+v", h.vib.Waveforms)
	}
}

func TestStartRingingVolumeZero(t *testing.T) {
	h := newHarness(t)
	h.dev.Volume = 0
	embedded := logic.SimpleWaveform()
	h.dev.Ringtone.Vibration = &embedded

	if h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false) {
		t.Error("inaudible ring without HFP should not acquire focus")
	}
	if len(h.ring.Plays) != 0 {
		t.Error("inaudible ring should not play a ringtone")
	}
	if len(h.vib.Waveforms) != 1 || h.vib.Waveforms[0].Name != "pulse" {
		t.Errorf("expected default vibration, got %+v", h.vib.Waveforms)
	}
	if h.ctrl.Snapshot().RingingCall != "" {
		t.Error("inaudible ring should not record a ringing call")
	}
}

func TestStartRingingVolumeZeroHFP(t *testing.T) {
	h := newHarness(t)
	h.dev.Volume = 0

	if !h.ctrl.StartRinging(&logic.Call{ID: "c1"}, true) {
		t.Error("HFP attached with contact match should acquire focus")
	}
}

func TestStartRingingTheaterMode(t *testing.T) {
	h := newHarness(t)
	h.dev.Theater = true
	h.dev.Torch = logic.TorchAlways
	h.dev.Mode = logic.RingerVibrate

	// Call-waiting tone should survive an early-ended ring.
	h.ctrl.d.Audible.StartCallWaitingTone()

	if !h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false) {
		t.Error("focus is computed independently of theater mode")
	}
	h.assertNoChannels(t)
	if !h.ctrl.d.Audible.CallWaitingActive() {
		t.Error("early end should not stop the call-waiting tone")
	}
	if h.events.Count(logic.EventSkipRinging) != 0 {
		t.Error("theater mode should not emit SKIP_RINGING")
	}
}

func TestStartRingingDialerHandlesRinging(t *testing.T) {
	h := newHarness(t)
	h.dev.DialerRings = true

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	h.assertNoChannels(t)
	if h.events.Count(logic.EventSkipRinging) != 1 {
		t.Errorf("expected SKIP_RINGING, got %v", h.events.Types())
	}
}

func TestStartRingingSelfManagedVibrateMode(t *testing.T) {
	h := newHarness(t)
	h.dev.Mode = logic.RingerVibrate
	h.dev.Volume = 0

	if !h.ctrl.StartRinging(&logic.Call{ID: "c1", SelfManaged: true}, false) {
		t.Error("self-managed call should acquire focus")
	}
	h.assertNoChannels(t)
}

func TestStartRingingExternalRinger(t *testing.T) {
	h := newHarness(t)

	call := &logic.Call{ID: "c1", Extras: map[string]any{logic.ExtraExternalRinger: true}}
	if !h.ctrl.StartRinging(call, false) {
		t.Error("audible external-ringer call should still acquire focus")
	}
	h.assertNoChannels(t)
}

func TestStartRingingOverlappingCallsVibrateOnce(t *testing.T) {
	h := newHarness(t)

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
	h.ctrl.StartRinging(&logic.Call{ID: "c2"}, false)
	h.ctrl.StartRinging(&logic.Call{ID: "c3"}, false)

	if len(h.vib.Waveforms) != 1 {
		t.Errorf("expected a single vibration, got %d", len(h.vib.Waveforms))
	}
	if h.events.Count(logic.EventSkipVibration) != 2 {
		t.Errorf("expected 2 SKIP_VIBRATION, got %v", h.events.Types())
	}
	for _, e := range h.events.Events {
		if e.Type == logic.EventSkipVibration && e.Detail != "already vibrating" {
			t.Errorf("skip detail: got %q", e.Detail)
		}
	}

	snap := h.ctrl.Snapshot()
	if snap.VibratingCall != "c1" {
		t.Errorf("vibrating call: got %q, want c1", snap.VibratingCall)
	}
	if snap.RingingCall != "c3" {
		t.Errorf("ringing call: got %q, want c3", snap.RingingCall)
	}
}

func TestStartRingingStopsCallWaiting(t *testing.T) {
	h := newHarness(t)

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})
	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if h.ctrl.d.Audible.CallWaitingActive() {
		t.Error("ringing should stop the call-waiting tone")
	}
	if h.tones.Created[0].Stops != 1 {
		t.Errorf("expected tone stop, got %d", h.tones.Created[0].Stops)
	}
	if h.events.Count(logic.EventStopCallWaitingTone) != 1 {
		t.Errorf("expected STOP_CALL_WAITING_TONE, got %v", h.events.Types())
	}
	if h.ctrl.Snapshot().CallWaitingCall != "" {
		t.Error("call-waiting call should be cleared")
	}
}

func TestStartRingingSilentModeSkipsVibration(t *testing.T) {
	h := newHarness(t)
	h.dev.Mode = logic.RingerSilent

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if len(h.vib.Waveforms) != 0 {
		t.Error("silent mode should not vibrate")
	}
	if h.events.Count(logic.EventSkipVibration) != 1 {
		t.Errorf("expected SKIP_VIBRATION, got %v", h.events.Types())
	}
}

func TestStartRingingFlash(t *testing.T) {
	h := newHarness(t)
	h.dev.Torch = logic.TorchRing

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	task := h.blink.Current()
	if task == nil {
		t.Fatal("expected torch blink")
	}
	if h.events.Count(logic.EventStartFlash) != 1 {
		t.Errorf("expected START_FLASH, got %v", h.events.Types())
	}
	if !h.ctrl.Snapshot().Flashing {
		t.Error("snapshot should report flashing as soon as the blink is requested")
	}

	h.ctrl.StopRinging()
	if n := h.events.Count(logic.EventStopFlash); n != 1 {
		t.Errorf("expected one STOP_FLASH, got %d: %v", n, h.events.Types())
	}
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("blink loop did not stop")
	}
	if calls := h.torch.Calls(); len(calls) > 0 && calls[len(calls)-1].On {
		t.Errorf("torch should end off, calls=%+v", calls)
	}
}

func TestStartRingingFlashPairedWithStop(t *testing.T) {
	h := newHarness(t)
	h.dev.Torch = logic.TorchAlways

	for i := 0; i < 200; i++ {
		h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
		h.ctrl.StopRinging()
	}

	starts := h.events.Count(logic.EventStartFlash)
	stops := h.events.Count(logic.EventStopFlash)
	if starts != 200 || stops != 200 {
		t.Errorf("START_FLASH=%d STOP_FLASH=%d, want 200 each", starts, stops)
	}
}

func TestStartRingingFlashDetailIsEvaluatedMode(t *testing.T) {
	h := newHarness(t)
	h.dev.Torch = logic.TorchAlways

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
	h.dev.Torch = logic.TorchOff

	for _, e := range h.events.Events {
		if e.Type == logic.EventStartFlash && e.Detail != string(logic.TorchAlways) {
			t.Errorf("START_FLASH detail: got %q, want %q", e.Detail, logic.TorchAlways)
		}
	}
}

func TestStartRingingFlashNoTorchFitted(t *testing.T) {
	h := newHarness(t)
	h.dev.Torch = logic.TorchAlways
	h.blink = channel.NewTorch(gpio.NewFakeTorch(), time.Millisecond)
	h.ctrl.d.Torch = h.blink

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
	if h.events.Count(logic.EventStartFlash) != 0 {
		t.Errorf("device without a torch should not flash, got %v", h.events.Types())
	}
	if h.ctrl.Snapshot().Flashing {
		t.Error("device without a torch should not report flashing")
	}

	h.ctrl.StopRinging()
	if h.events.Count(logic.EventStopFlash) != 0 {
		t.Errorf("unexpected STOP_FLASH: %v", h.events.Types())
	}
}

func TestStartRingingVibrateModeNoMotor(t *testing.T) {
	h := newHarness(t)
	h.vib.Present = false
	h.dev.Mode = logic.RingerVibrate

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if len(h.vib.Waveforms) != 0 {
		t.Error("no motor should mean no vibration")
	}
	if h.events.Count(logic.EventStartVibrator) != 0 {
		t.Errorf("unexpected START_VIBRATOR: %v", h.events.Types())
	}
	var skipped []logic.Event
	for _, e := range h.events.Events {
		if e.Type == logic.EventSkipVibration {
			skipped = append(skipped, e)
		}
	}
	if len(skipped) != 1 {
		t.Fatalf("expected one SKIP_VIBRATION, got %v", h.events.Types())
	}
	if !strings.Contains(skipped[0].Detail, "has_vibrator=false") {
		t.Errorf("skip detail: got %q", skipped[0].Detail)
	}
}

func TestStartRingingFlashWithoutVibrationOrAudio(t *testing.T) {
	h := newHarness(t)
	h.dev.Torch = logic.TorchSilent
	h.dev.Volume = 0
	h.dev.Mode = logic.RingerSilent

	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	if h.blink.Current() == nil {
		t.Error("silent torch mode should flash for an inaudible ring")
	}
	if len(h.vib.Waveforms) != 0 || len(h.ring.Plays) != 0 {
		t.Error("no audio or vibration expected")
	}
}

func TestChannelFailuresAreIsolated(t *testing.T) {
	h := newHarness(t)
	h.vib.VibrateError = errors.New("motor jammed")
	h.ring.PlayError = errors.New("no audio device")
	h.torch.FailAfter(0, errors.New("torch busy"))
	h.dev.Torch = logic.TorchAlways

	if !h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false) {
		t.Error("channel failures should not change the focus decision")
	}

	if h.blink.Current() == nil {
		t.Error("torch should still be attempted")
	}
	if h.ctrl.Snapshot().Vibrating {
		t.Error("failed vibration should not be recorded")
	}
	if h.events.Count(logic.EventStartVibrator) != 0 {
		t.Error("failed vibration should not emit START_VIBRATOR")
	}

	// A later ring can still vibrate once the motor recovers.
	h.vib.VibrateError = nil
	h.ctrl.StartRinging(&logic.Call{ID: "c2"}, false)
	if len(h.vib.Waveforms) != 1 {
		t.Errorf("expected recovery vibration, got %d", len(h.vib.Waveforms))
	}
}

func TestStopRinging(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	h.ctrl.StopRinging()

	if h.ring.Playing() {
		t.Error("ringtone should be stopped")
	}
	if h.vib.Cancels != 1 {
		t.Errorf("expected 1 cancel, got %d", h.vib.Cancels)
	}
	snap := h.ctrl.Snapshot()
	if snap.RingingCall != "" || snap.VibratingCall != "" || snap.Vibrating {
		t.Errorf("session should be cleared: %+v", snap)
	}
	if h.events.Count(logic.EventStopRinger) != 1 || h.events.Count(logic.EventStopVibrator) != 1 {
		t.Errorf("unexpected events: %v", h.events.Types())
	}
	for _, e := range h.events.Events {
		if e.Type == logic.EventStopVibrator && e.CallID != "c1" {
			t.Errorf("STOP_VIBRATOR call: got %q, want c1", e.CallID)
		}
	}
}

func TestStopRingingIdempotent(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	h.ctrl.StopRinging()
	n := len(h.events.Events)
	cancels := h.vib.Cancels

	h.ctrl.StopRinging()

	if len(h.events.Events) != n {
		t.Errorf("second stop emitted events: %v", h.events.Types()[n:])
	}
	if h.vib.Cancels != cancels {
		t.Error("second stop should not touch the vibrator")
	}
}

func TestStopRingingWhenIdle(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StopRinging()

	if h.vib.Cancels != 0 {
		t.Error("idle stop should not cancel the vibrator")
	}
	if len(h.events.Events) != 0 {
		t.Errorf("idle stop should emit nothing, got %v", h.events.Types())
	}
}

func TestStartCallWaiting(t *testing.T) {
	h := newHarness(t)
	call := &logic.Call{ID: "w1"}

	h.ctrl.StartCallWaiting(call)

	if len(h.tones.Created) != 1 || !h.tones.Created[0].Playing {
		t.Fatalf("expected one playing tone, got %+v", h.tones.Created)
	}
	if h.tones.Created[0].Kind != audio.ToneCallWaiting {
		t.Errorf("kind: got %s", h.tones.Created[0].Kind)
	}
	if h.ctrl.Snapshot().CallWaitingCall != "w1" {
		t.Error("call-waiting call should be recorded")
	}
	if h.events.Count(logic.EventStartCallWaitingTone) != 1 {
		t.Errorf("expected START_CALL_WAITING_TONE, got %v", h.events.Types())
	}
	if len(h.vib.Waveforms) != 0 {
		t.Error("no burst without the call-waiting vibration setting")
	}
}

func TestStartCallWaitingTwiceOneTone(t *testing.T) {
	h := newHarness(t)

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})
	h.ctrl.StartCallWaiting(&logic.Call{ID: "w2"})

	if len(h.tones.Created) != 1 {
		t.Errorf("expected 1 tone player, got %d", len(h.tones.Created))
	}
	if h.ctrl.Snapshot().CallWaitingCall != "w1" {
		t.Error("first call-waiting call should be kept")
	}
}

func TestStartCallWaitingVibrationBurst(t *testing.T) {
	h := newHarness(t)
	h.dev.VibrateCallWaiting = true

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})

	if len(h.vib.Waveforms) != 1 {
		t.Fatalf("expected one burst, got %d", len(h.vib.Waveforms))
	}
	w := h.vib.Waveforms[0]
	if w.Name != "call_waiting" || w.Repeat != logic.NoRepeat || len(w.Steps) != 3 {
		t.Errorf("unexpected burst: %+v", w)
	}
	if h.ctrl.Snapshot().Vibrating {
		t.Error("burst should not mark the session vibrating")
	}

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})
	if len(h.vib.Waveforms) != 2 {
		t.Errorf("expected one burst per call, got %d", len(h.vib.Waveforms))
	}
}

func TestStartCallWaitingNoVibrator(t *testing.T) {
	h := newHarness(t)
	h.dev.VibrateCallWaiting = true
	h.vib.Present = false

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})

	if len(h.vib.Waveforms) != 0 {
		t.Error("no burst without a vibrator")
	}
	if len(h.tones.Created) != 1 {
		t.Error("tone should still play")
	}
}

func TestStartCallWaitingSuppressed(t *testing.T) {
	tests := []struct {
		name     string
		call     *logic.Call
		mutate   func(*FakeDevice)
		wantSkip int
		detail   string
	}{
		{"theater mode", &logic.Call{ID: "w1"}, func(d *FakeDevice) { d.Theater = true }, 0, ""},
		{"dialer rings", &logic.Call{ID: "w1"}, func(d *FakeDevice) { d.DialerRings = true }, 1, ""},
		{"self managed", &logic.Call{ID: "w1", SelfManaged: true}, func(d *FakeDevice) {}, 1, "Self-managed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.dev.VibrateCallWaiting = true
			tt.mutate(h.dev)
			h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
			before := len(h.events.Events)

			h.ctrl.StartCallWaiting(tt.call)

			if len(h.tones.Created) != 0 {
				t.Error("no tone expected")
			}
			events := h.events.Events[before:]
			if len(events) != tt.wantSkip {
				t.Fatalf("events: got %d, want %d", len(events), tt.wantSkip)
			}
			if tt.wantSkip == 1 {
				if events[0].Type != logic.EventSkipRinging || events[0].Detail != tt.detail {
					t.Errorf("unexpected event: %+v", events[0])
				}
			}
		})
	}
}

func TestStartCallWaitingStopsRinging(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})

	if h.ring.Playing() {
		t.Error("ringtone should stop for call waiting")
	}
	if h.ctrl.Snapshot().Vibrating {
		t.Error("vibration should stop for call waiting")
	}
	if h.ctrl.Snapshot().RingingCall != "" {
		t.Error("ringing call should be cleared")
	}
}

func TestStartCallWaitingNilCall(t *testing.T) {
	h := newHarness(t)
	h.ctrl.StartCallWaiting(nil)
	if len(h.tones.Created) != 0 {
		t.Error("nil call should not start a tone")
	}
}

func TestStopCallWaiting(t *testing.T) {
	h := newHarness(t)

	h.ctrl.StopCallWaiting() // safe when idle
	if len(h.events.Events) != 0 {
		t.Errorf("idle stop emitted %v", h.events.Types())
	}

	h.ctrl.StartCallWaiting(&logic.Call{ID: "w1"})
	h.ctrl.StopCallWaiting()
	h.ctrl.StopCallWaiting()

	if h.tones.Created[0].Stops != 1 {
		t.Errorf("expected 1 tone stop, got %d", h.tones.Created[0].Stops)
	}
	if h.events.Count(logic.EventStopCallWaitingTone) != 1 {
		t.Errorf("expected 1 STOP_CALL_WAITING_TONE, got %v", h.events.Types())
	}
	snap := h.ctrl.Snapshot()
	if snap.CallWaitingCall != "" || snap.CallWaitingTone {
		t.Errorf("call waiting should be cleared: %+v", snap)
	}
}

func TestEventSinkFunc(t *testing.T) {
	var got []logic.Event
	sink := EventSinkFunc(func(e logic.Event) { got = append(got, e) })
	sink.Record(logic.Event{Type: logic.EventStartRinger})
	if len(got) != 1 {
		t.Errorf("expected 1 event, got %d", len(got))
	}
}

func TestNilEventSink(t *testing.T) {
	h := newHarness(t)
	h.ctrl.d.Events = nil
	h.ctrl.StartRinging(&logic.Call{ID: "c1"}, false)
	h.ctrl.StopRinging()
}
