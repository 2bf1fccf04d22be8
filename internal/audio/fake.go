package audio

import "github.com/sweeney/call-alert/internal/logic"

// Play is one recorded RingtonePlayer.Play call.
type Play struct {
	Call *logic.Call
	Tone Ringtone
	Ramp logic.VolumeRamp
}

// FakeRingtonePlayer records ringtone commands for test assertions.
type FakeRingtonePlayer struct {
	// Plays contains every Play call, in order.
	Plays []Play

	// Stops counts calls to Stop.
	Stops int

	// PlayError, if set, will be returned by Play.
	PlayError error

	playing bool
}

// NewFakeRingtonePlayer creates a FakeRingtonePlayer.
func NewFakeRingtonePlayer() *FakeRingtonePlayer {
	return &FakeRingtonePlayer{}
}

// Play records the call.
func (f *FakeRingtonePlayer) Play(call *logic.Call, tone Ringtone, ramp logic.VolumeRamp) error {
	if f.PlayError != nil {
		return f.PlayError
	}
	f.Plays = append(f.Plays, Play{Call: call, Tone: tone, Ramp: ramp})
	f.playing = true
	return nil
}

// Stop records the stop.
func (f *FakeRingtonePlayer) Stop() {
	f.Stops++
	f.playing = false
}

// Playing reports whether Play was called since the last Stop.
func (f *FakeRingtonePlayer) Playing() bool {
	return f.playing
}

// FakeTonePlayer records start/stop of one tone.
type FakeTonePlayer struct {
	Kind    ToneKind
	Starts  int
	Stops   int
	Playing bool
}

// StartTone records the start.
func (f *FakeTonePlayer) StartTone() error {
	f.Starts++
	f.Playing = true
	return nil
}

// StopTone records the stop.
func (f *FakeTonePlayer) StopTone() {
	f.Stops++
	f.Playing = false
}

// FakeToneFactory records every player it creates.
type FakeToneFactory struct {
	Created []*FakeTonePlayer
}

// NewFakeToneFactory creates a FakeToneFactory.
func NewFakeToneFactory() *FakeToneFactory {
	return &FakeToneFactory{}
}

// CreatePlayer returns a new FakeTonePlayer and records it.
func (f *FakeToneFactory) CreatePlayer(kind ToneKind) TonePlayer {
	p := &FakeTonePlayer{Kind: kind}
	f.Created = append(f.Created, p)
	return p
}

// Active returns the players currently playing.
func (f *FakeToneFactory) Active() []*FakeTonePlayer {
	var out []*FakeTonePlayer
	for _, p := range f.Created {
		if p.Playing {
			out = append(out, p)
		}
	}
	return out
}
