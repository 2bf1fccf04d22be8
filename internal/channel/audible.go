package channel

import (
	"fmt"

	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/logic"
)

// Audible sequences the ringtone player and the call-waiting tone player.
type Audible struct {
	ringtones   audio.RingtonePlayer
	tones       audio.TonePlayerFactory
	callWaiting audio.TonePlayer
}

// NewAudible creates an audible channel.
func NewAudible(ringtones audio.RingtonePlayer, tones audio.TonePlayerFactory) *Audible {
	return &Audible{ringtones: ringtones, tones: tones}
}

// StartRing starts the ringtone for call.
func (a *Audible) StartRing(call *logic.Call, tone audio.Ringtone, ramp logic.VolumeRamp) error {
	if err := a.ringtones.Play(call, tone, ramp); err != nil {
		return fmt.Errorf("start ring: %w", err)
	}
	return nil
}

// StopRing stops the ringtone.
func (a *Audible) StopRing() {
	a.ringtones.Stop()
}

// CallWaitingActive reports whether a call-waiting tone player exists.
func (a *Audible) CallWaitingActive() bool {
	return a.callWaiting != nil
}

// StartCallWaitingTone starts the call-waiting tone unless one is already
// playing. Returns true if a new tone was started.
func (a *Audible) StartCallWaitingTone() (bool, error) {
	if a.callWaiting != nil {
		return false, nil
	}
	p := a.tones.CreatePlayer(audio.ToneCallWaiting)
	if err := p.StartTone(); err != nil {
		return false, fmt.Errorf("start call-waiting tone: %w", err)
	}
	a.callWaiting = p
	return true, nil
}

// StopCallWaitingTone stops and forgets the call-waiting tone. Returns true if
// one was playing.
func (a *Audible) StopCallWaitingTone() bool {
	if a.callWaiting == nil {
		return false
	}
	a.callWaiting.StopTone()
	a.callWaiting = nil
	return true
}
