package ringer

import (
	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/logic"
)

// FakeDevice is a scriptable stand-in for every device collaborator the
// controller reads: notification filter, ringtone resolver, settings, dialer
// and audio environment.
type FakeDevice struct {
	Volume               int
	Mode                 logic.RingerMode
	ContactMatches       bool
	Ringtone             audio.Ringtone
	Theater              bool
	DialerRings          bool
	VibrateRinging       bool
	VibrateCallWaiting   bool
	Torch                logic.TorchMode
	IncreasingEnabled    bool
	IncreasingStart      float64
	IncreasingRampMillis int

	// Resolved records every call passed to Resolve.
	Resolved []*logic.Call
	// Filtered records every contact passed to MatchesFilter.
	Filtered []string
}

// NewFakeDevice returns a device on which a call rings audibly and vibrates.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{
		Volume:         5,
		Mode:           logic.RingerNormal,
		ContactMatches: true,
		Ringtone:       audio.Ringtone{Present: true, URI: "builtin:classic"},
		VibrateRinging: true,
		Torch:          logic.TorchOff,
	}
}

func (f *FakeDevice) MatchesFilter(contact string) bool {
	f.Filtered = append(f.Filtered, contact)
	return f.ContactMatches
}

func (f *FakeDevice) Resolve(call *logic.Call) audio.Ringtone {
	f.Resolved = append(f.Resolved, call)
	return f.Ringtone
}

func (f *FakeDevice) TheaterMode() bool { return f.Theater }

func (f *FakeDevice) IncreasingRing() (bool, float64, int) {
	return f.IncreasingEnabled, f.IncreasingStart, f.IncreasingRampMillis
}

func (f *FakeDevice) VibrateWhenRinging() bool     { return f.VibrateRinging }
func (f *FakeDevice) VibrateOnCallWaiting() bool   { return f.VibrateCallWaiting }
func (f *FakeDevice) TorchMode() logic.TorchMode   { return f.Torch }
func (f *FakeDevice) SupportsRinging() bool        { return f.DialerRings }
func (f *FakeDevice) RingVolume() int              { return f.Volume }
func (f *FakeDevice) RingerMode() logic.RingerMode { return f.Mode }

// EventLog is an EventSink that keeps every event.
type EventLog struct {
	Events []logic.Event
}

// Record appends e.
func (l *EventLog) Record(e logic.Event) {
	l.Events = append(l.Events, e)
}

// Types returns the recorded event types in order.
func (l *EventLog) Types() []logic.EventType {
	out := make([]logic.EventType, len(l.Events))
	for i, e := range l.Events {
		out[i] = e.Type
	}
	return out
}

// Count returns how many events of type t were recorded.
func (l *EventLog) Count(t logic.EventType) int {
	n := 0
	for _, e := range l.Events {
		if e.Type == t {
			n++
		}
	}
	return n
}
