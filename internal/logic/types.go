// Package logic contains the pure decision logic for incoming-call alerting.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// ExtraExternalRinger is the call extras key set by callers whose call is
// already alerting through hardware or software outside this controller.
const ExtraExternalRinger = "external_ringer"

// Call is a non-owning view of a call that may need alerting.
type Call struct {
	ID          string
	Contact     string // empty when the caller is unknown
	SelfManaged bool
	Extras      map[string]any
}

// HasExternalRinger reports whether the call extras flag an external ringer.
// Anything other than a boolean true counts as false.
func (c *Call) HasExternalRinger() bool {
	if c == nil || c.Extras == nil {
		return false
	}
	v, ok := c.Extras[ExtraExternalRinger].(bool)
	return ok && v
}

// RingerMode is the device-wide ringer mode.
type RingerMode string

const (
	RingerNormal  RingerMode = "normal"
	RingerVibrate RingerMode = "vibrate"
	RingerSilent  RingerMode = "silent"
)

// TorchMode is the user's flash-on-call setting.
type TorchMode string

const (
	TorchOff    TorchMode = "off"
	TorchRing   TorchMode = "ring"   // only when the ringer is audible
	TorchSilent TorchMode = "silent" // only when the ringer is not audible
	TorchAlways TorchMode = "always"
)

// Env is a snapshot of everything the evaluator needs besides the call.
type Env struct {
	RingVolume           int
	ShouldRingForContact bool
	RingtonePresent      bool
	RingtoneVibration    *Waveform // vibration embedded in the ringtone, if any
	TheaterMode          bool
	DialerHandlesRinging bool
	HFPAttached          bool
	RingerMode           RingerMode
	HasVibrator          bool
	VibrateWhenRinging   bool
	AlreadyVibrating     bool
	TorchMode            TorchMode
	IncreasingRing       bool
	RampStartVolume      float64
	RampMillis           int
	DefaultVibration     Waveform // process-wide fallback chosen at construction
}

// VolumeRamp describes how the ringtone volume grows after it starts.
type VolumeRamp struct {
	StartVolume float64
	RampMillis  int
}

// Decision is the outcome of evaluating one call against an Env.
type Decision struct {
	RingerAudible     bool
	AcquireAudioFocus bool
	EndEarly          bool // no channel is touched; only AcquireAudioFocus is meaningful
	RingAudibly       bool
	Vibrate           bool
	Flash             bool
	Effect            Waveform
	Ramp              VolumeRamp
	Reasons           Reasons
}

// Reasons carries the intermediate flags behind a Decision, for diagnostics only.
type Reasons struct {
	VolumeOverZero       bool
	ShouldRingForContact bool
	RingtonePresent      bool
	SelfManaged          bool
	ExternalRinger       bool
	TheaterMode          bool
	DialerHandlesRinging bool
	VibrateGlobally      bool
	AlreadyVibrating     bool
	TorchMode            TorchMode
}

// EventType names a diagnostic alerting event.
type EventType string

const (
	EventStartRinger          EventType = "START_RINGER"
	EventStopRinger           EventType = "STOP_RINGER"
	EventSkipRinging          EventType = "SKIP_RINGING"
	EventStartVibrator        EventType = "START_VIBRATOR"
	EventSkipVibration        EventType = "SKIP_VIBRATION"
	EventStopVibrator         EventType = "STOP_VIBRATOR"
	EventStartCallWaitingTone EventType = "START_CALL_WAITING_TONE"
	EventStopCallWaitingTone  EventType = "STOP_CALL_WAITING_TONE"
	EventStartFlash           EventType = "START_FLASH"
	EventStopFlash            EventType = "STOP_FLASH"
)

// Event is a diagnostic marker. Consumers must not use it for control flow.
type Event struct {
	Timestamp time.Time
	Type      EventType
	CallID    string
	Detail    string
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Rings            int
	RingsSkipped     int
	Vibrations       int
	VibrationSkipped int
	CallWaiting      int
	Flashes          int
}

// Add counts a single event.
func (c *EventCounts) Add(e Event) {
	switch e.Type {
	case EventStartRinger:
		c.Rings++
	case EventSkipRinging:
		c.RingsSkipped++
	case EventStartVibrator:
		c.Vibrations++
	case EventSkipVibration:
		c.VibrationSkipped++
	case EventStartCallWaitingTone:
		c.CallWaiting++
	case EventStartFlash:
		c.Flashes++
	}
}
