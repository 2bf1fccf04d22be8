// Package audio provides the ringtone and in-call tone players the audible
// channel drives. Mixing, routing and ringtone decoding live behind these
// interfaces.
package audio

import "github.com/sweeney/call-alert/internal/logic"

// Ringtone is the result of resolving the ringtone for a call.
type Ringtone struct {
	Present   bool
	URI       string
	Vibration *logic.Waveform // vibration data embedded in the ringtone, if any
}

// RingtonePlayer plays the ringtone for an incoming call.
type RingtonePlayer interface {
	// Play starts the ringtone and returns immediately.
	Play(call *logic.Call, tone Ringtone, ramp logic.VolumeRamp) error

	// Stop stops the ringtone. Safe to call when not playing.
	Stop()
}

// ToneKind identifies an in-call tone.
type ToneKind string

const (
	ToneCallWaiting ToneKind = "call_waiting"
)

// TonePlayer plays a single in-call tone until stopped.
type TonePlayer interface {
	StartTone() error
	StopTone()
}

// TonePlayerFactory creates a fresh TonePlayer for each tone.
type TonePlayerFactory interface {
	CreatePlayer(kind ToneKind) TonePlayer
}
