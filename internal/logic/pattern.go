package logic

import (
	"errors"
	"fmt"
)

// NoRepeat marks a waveform that plays once and stops.
const NoRepeat = -1

// MaxAmplitude is the strongest vibration amplitude.
const MaxAmplitude = 255

// Step is one timed segment of a vibration waveform.
type Step struct {
	Millis    int
	Amplitude int // 0..MaxAmplitude
}

// Waveform is an ordered sequence of steps. Playback runs every step once,
// then loops over Steps[Repeat:] until cancelled. Repeat == NoRepeat plays once.
type Waveform struct {
	Name   string
	Steps  []Step
	Repeat int
	// Binary waveforms carry no amplitude control; non-zero steps run at the
	// hardware's default strength.
	Binary bool
}

// IsZero reports whether the waveform has no steps.
func (w Waveform) IsZero() bool {
	return len(w.Steps) == 0
}

// Validate checks the waveform invariants.
func (w Waveform) Validate() error {
	if len(w.Steps) == 0 {
		return errors.New("waveform has no steps")
	}
	if w.Repeat != NoRepeat && (w.Repeat < 0 || w.Repeat >= len(w.Steps)) {
		return fmt.Errorf("repeat index %d out of range [0,%d)", w.Repeat, len(w.Steps))
	}
	for i, s := range w.Steps {
		if s.Millis < 0 {
			return fmt.Errorf("step %d: negative duration %d", i, s.Millis)
		}
		if s.Amplitude < 0 || s.Amplitude > MaxAmplitude {
			return fmt.Errorf("step %d: amplitude %d out of range [0,%d]", i, s.Amplitude, MaxAmplitude)
		}
	}
	if w.Repeat != NoRepeat && w.CycleMillis() == 0 {
		return errors.New("repeating tail has zero duration")
	}
	return nil
}

// CycleMillis returns the duration of one repetition of the looping tail,
// or 0 for a waveform that does not repeat.
func (w Waveform) CycleMillis() int {
	if w.Repeat == NoRepeat || w.Repeat < 0 || w.Repeat >= len(w.Steps) {
		return 0
	}
	total := 0
	for _, s := range w.Steps[w.Repeat:] {
		total += s.Millis
	}
	return total
}

// StepAt returns the n-th step played, counting repetitions.
// Returns false once a non-repeating waveform has finished.
func (w Waveform) StepAt(n int) (Step, bool) {
	if n < 0 || len(w.Steps) == 0 {
		return Step{}, false
	}
	if n < len(w.Steps) {
		return w.Steps[n], true
	}
	if w.Repeat == NoRepeat {
		return Step{}, false
	}
	tail := len(w.Steps) - w.Repeat
	return w.Steps[w.Repeat+(n-len(w.Steps))%tail], true
}

// NewWaveform builds a waveform from parallel timing and amplitude slices.
func NewWaveform(name string, timings, amplitudes []int, repeat int) (Waveform, error) {
	if len(timings) != len(amplitudes) {
		return Waveform{}, fmt.Errorf("timings (%d) and amplitudes (%d) differ in length", len(timings), len(amplitudes))
	}
	w := Waveform{Name: name, Repeat: repeat, Steps: make([]Step, len(timings))}
	for i := range timings {
		w.Steps[i] = Step{Millis: timings[i], Amplitude: amplitudes[i]}
	}
	if err := w.Validate(); err != nil {
		return Waveform{}, err
	}
	return w, nil
}

// PatternStyle selects the process-wide default waveform.
type PatternStyle string

const (
	PatternPulse  PatternStyle = "pulse"
	PatternSimple PatternStyle = "simple"
)

// PatternRef names a built-in waveform.
type PatternRef string

const (
	PatternDefault     PatternRef = "default"
	PatternCallWaiting PatternRef = "call_waiting"
)

// Repeat indices for the built-in patterns. The pulse pattern skips its
// priming segment when looping.
const (
	pulseRepeatAt  = 5
	simpleRepeatAt = 1
)

var (
	pulseTimings = []int{
		0, 12, 250, 12, 500, // priming + interval
		50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 50, // ease-in
		300,  // peak
		1000, // pause before repetition
	}
	pulseAmplitudes = []int{
		0, 255, 0, 255, 0,
		77, 77, 78, 79, 81, 84, 87, 93, 101, 114, 133, 162, 205, 255, // min amplitude = 30%
		255,
		0,
	}

	simpleTimings    = []int{0, 1000, 1000}
	simpleAmplitudes = []int{0, 255, 0}

	// Off, on, off. Played once.
	callWaitingTimings = []int{200, 300, 500}
)

// PulseWaveform returns the rich ease-in pulse pattern.
func PulseWaveform() Waveform {
	w, _ := NewWaveform("pulse", pulseTimings, pulseAmplitudes, pulseRepeatAt)
	return w
}

// SimpleWaveform returns the one-second buzz pattern.
func SimpleWaveform() Waveform {
	w, _ := NewWaveform("simple", simpleTimings, simpleAmplitudes, simpleRepeatAt)
	return w
}

// CallWaitingWaveform returns the short non-looping call-waiting burst.
func CallWaitingWaveform() Waveform {
	w := Waveform{Name: "call_waiting", Repeat: NoRepeat, Binary: true}
	for i, ms := range callWaitingTimings {
		amp := 0
		if i%2 == 1 {
			amp = MaxAmplitude
		}
		w.Steps = append(w.Steps, Step{Millis: ms, Amplitude: amp})
	}
	return w
}

// Library holds the built-in waveforms. The default is fixed at construction.
type Library struct {
	style       PatternStyle
	def         Waveform
	callWaiting Waveform
}

// NewLibrary builds the pattern library. Any style other than PatternSimple
// selects the pulse pattern.
func NewLibrary(style PatternStyle) *Library {
	l := &Library{style: PatternPulse, callWaiting: CallWaitingWaveform()}
	if style == PatternSimple {
		l.style = PatternSimple
		l.def = SimpleWaveform()
	} else {
		l.def = PulseWaveform()
	}
	return l
}

// Style returns the style chosen at construction.
func (l *Library) Style() PatternStyle {
	return l.style
}

// Default returns the process-wide default waveform.
func (l *Library) Default() Waveform {
	return l.def
}

// CallWaiting returns the call-waiting burst.
func (l *Library) CallWaiting() Waveform {
	return l.callWaiting
}

// Resolve returns the waveform for ref, or false for an unknown ref.
func (l *Library) Resolve(ref PatternRef) (Waveform, bool) {
	switch ref {
	case PatternDefault:
		return l.def, true
	case PatternCallWaiting:
		return l.callWaiting, true
	}
	return Waveform{}, false
}
