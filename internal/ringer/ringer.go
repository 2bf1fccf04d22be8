// Package ringer is the alerting session controller. It evaluates the alert
// policy for a call and drives the audible, haptic and torch channels.
//
// A Controller is not safe for concurrent use. Every method must be called
// from the same goroutine (or otherwise serialized by the caller); only the
// torch blink loop runs on its own goroutine.
package ringer

import (
	"fmt"
	"log"
	"time"

	"github.com/sweeney/call-alert/internal/audio"
	"github.com/sweeney/call-alert/internal/channel"
	"github.com/sweeney/call-alert/internal/logic"
)

// NotificationFilter decides whether a contact may interrupt the user.
type NotificationFilter interface {
	// MatchesFilter reports whether a call from contact should ring.
	// An empty contact means the caller is unknown.
	MatchesFilter(contact string) bool
}

// RingtoneResolver picks the ringtone for a call.
type RingtoneResolver interface {
	Resolve(call *logic.Call) audio.Ringtone
}

// Settings exposes the user settings read on each alert.
type Settings interface {
	TheaterMode() bool
	// IncreasingRing returns the ramp settings; enabled is false when the
	// ringtone should start at full volume.
	IncreasingRing() (enabled bool, startVolume float64, rampMillis int)
	VibrateWhenRinging() bool
	VibrateOnCallWaiting() bool
	TorchMode() logic.TorchMode
}

// Dialer is the connected dialer app.
type Dialer interface {
	// SupportsRinging reports whether the dialer plays its own ringing.
	SupportsRinging() bool
}

// AudioEnvironment reports the ring stream state.
type AudioEnvironment interface {
	RingVolume() int
	RingerMode() logic.RingerMode
}

// EventSink receives diagnostic events.
type EventSink interface {
	Record(e logic.Event)
}

// EventSinkFunc adapts a function to an EventSink.
type EventSinkFunc func(e logic.Event)

// Record calls f(e).
func (f EventSinkFunc) Record(e logic.Event) { f(e) }

// Deps are the collaborators a Controller drives.
type Deps struct {
	Filter    NotificationFilter
	Ringtones RingtoneResolver
	Settings  Settings
	Dialer    Dialer
	Audio     AudioEnvironment

	Haptic  *channel.Haptic
	Audible *channel.Audible
	Torch   *channel.Torch

	// Patterns holds the default waveform, fixed for the controller's lifetime.
	Patterns *logic.Library

	// Events may be nil.
	Events EventSink
	// Now defaults to time.Now.
	Now func() time.Time
}

// session is the per-process alert state. Vibration state lives in the
// haptic channel.
type session struct {
	ringingCall     *logic.Call
	callWaitingCall *logic.Call
}

// Controller coordinates alert channels across overlapping calls.
type Controller struct {
	d       Deps
	now     func() time.Time
	session session
}

// New creates a Controller.
func New(d Deps) *Controller {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{d: d, now: now}
}

// Evaluate computes the alert decision for call without acting on it.
func (c *Controller) Evaluate(call *logic.Call, hfpAttached bool) (logic.Decision, audio.Ringtone) {
	if call == nil {
		return logic.Decision{}, audio.Ringtone{}
	}
	tone := c.d.Ringtones.Resolve(call)
	increasing, startVolume, rampMillis := c.d.Settings.IncreasingRing()

	env := logic.Env{
		RingVolume:           c.d.Audio.RingVolume(),
		ShouldRingForContact: c.d.Filter.MatchesFilter(call.Contact),
		RingtonePresent:      tone.Present,
		RingtoneVibration:    tone.Vibration,
		TheaterMode:          c.d.Settings.TheaterMode(),
		DialerHandlesRinging: c.d.Dialer.SupportsRinging(),
		HFPAttached:          hfpAttached,
		RingerMode:           c.d.Audio.RingerMode(),
		HasVibrator:          c.d.Haptic.HasVibrator(),
		VibrateWhenRinging:   c.d.Settings.VibrateWhenRinging(),
		AlreadyVibrating:     c.d.Haptic.Vibrating(),
		TorchMode:            c.d.Settings.TorchMode(),
		IncreasingRing:       increasing,
		RampStartVolume:      startVolume,
		RampMillis:           rampMillis,
		DefaultVibration:     c.d.Patterns.Default(),
	}
	return logic.Evaluate(call, env), tone
}

// StartRinging alerts the user to an incoming call and reports whether the
// caller should request audio focus. A nil call is a caller defect: it is
// logged and no focus is requested.
func (c *Controller) StartRinging(call *logic.Call, hfpAttached bool) bool {
	if call == nil {
		log.Printf("wtf: ringer: StartRinging called with no call")
		return false
	}

	d, tone := c.Evaluate(call, hfpAttached)
	r := d.Reasons

	if d.EndEarly {
		if r.DialerHandlesRinging {
			c.emit(logic.EventSkipRinging, call, "")
		}
		log.Printf("ringer: ending early -- theater=%v dialer_rings=%v self_managed=%v external_ringer=%v",
			r.TheaterMode, r.DialerHandlesRinging, r.SelfManaged, r.ExternalRinger)
		return d.AcquireAudioFocus
	}

	c.StopCallWaiting()

	if d.RingAudibly {
		c.session.ringingCall = call
		c.emit(logic.EventStartRinger, call, "")
		if err := c.d.Audible.StartRing(call, tone, d.Ramp); err != nil {
			log.Printf("ringer: %v", err)
		}
	} else {
		log.Printf("ringer: skipping ringtone, ringer would not be audible -- volume_over_zero=%v ring_for_contact=%v ringtone_present=%v",
			r.VolumeOverZero, r.ShouldRingForContact, r.RingtonePresent)
	}

	if d.Flash {
		if t := c.d.Torch.Start(); t.State() == channel.BlinkBlinking {
			c.emit(logic.EventStartFlash, call, string(r.TorchMode))
		}
	}

	c.vibrate(call, d)

	return d.AcquireAudioFocus
}

func (c *Controller) vibrate(call *logic.Call, d logic.Decision) {
	detail := fmt.Sprintf("has_vibrator=%v ringer_mode=%s vibrating=%v effect=%s",
		c.d.Haptic.HasVibrator(), c.d.Audio.RingerMode(), d.Reasons.AlreadyVibrating, d.Effect.Name)

	if !d.Vibrate {
		if d.Reasons.AlreadyVibrating {
			c.emit(logic.EventSkipVibration, call, "already vibrating")
		} else {
			c.emit(logic.EventSkipVibration, call, detail)
		}
		return
	}
	if !c.d.Haptic.HasVibrator() {
		c.emit(logic.EventSkipVibration, call, detail)
		return
	}

	started, err := c.d.Haptic.Start(call, d.Effect)
	if err != nil {
		log.Printf("ringer: %v", err)
		return
	}
	if started {
		c.emit(logic.EventStartVibrator, call, detail)
	}
}

// StartCallWaiting plays the call-waiting tone for a call arriving during
// another call.
func (c *Controller) StartCallWaiting(call *logic.Call) {
	if call == nil {
		log.Printf("wtf: ringer: StartCallWaiting called with no call")
		return
	}

	if c.d.Settings.TheaterMode() {
		return
	}
	if c.d.Dialer.SupportsRinging() {
		c.emit(logic.EventSkipRinging, call, "")
		return
	}
	if call.SelfManaged {
		c.emit(logic.EventSkipRinging, call, "Self-managed")
		return
	}

	log.Printf("ringer: playing call-waiting tone for %s", call.ID)

	c.StopRinging()

	if c.d.Settings.VibrateOnCallWaiting() {
		if _, err := c.d.Haptic.Burst(c.d.Patterns.CallWaiting()); err != nil {
			log.Printf("ringer: %v", err)
		}
	}

	if c.d.Audible.CallWaitingActive() {
		return
	}
	c.emit(logic.EventStartCallWaitingTone, call, "")
	c.session.callWaitingCall = call
	if _, err := c.d.Audible.StartCallWaitingTone(); err != nil {
		log.Printf("ringer: %v", err)
		c.session.callWaitingCall = nil
	}
}

// StopRinging stops the ringtone, the torch and any vibration. Safe to call
// when nothing is ringing.
func (c *Controller) StopRinging() {
	if c.session.ringingCall != nil {
		c.emit(logic.EventStopRinger, c.session.ringingCall, "")
		c.session.ringingCall = nil
	}

	c.d.Audible.StopRing()

	if c.d.Torch.Blinking() {
		c.emit(logic.EventStopFlash, nil, "")
	}
	c.d.Torch.Stop()

	if c.d.Haptic.Vibrating() {
		c.emit(logic.EventStopVibrator, c.d.Haptic.Call(), "")
		c.d.Haptic.Stop()
	}
}

// StopCallWaiting stops the call-waiting tone if one is playing.
func (c *Controller) StopCallWaiting() {
	if !c.d.Audible.CallWaitingActive() {
		return
	}
	if c.session.callWaitingCall != nil {
		c.emit(logic.EventStopCallWaitingTone, c.session.callWaitingCall, "")
		c.session.callWaitingCall = nil
	}
	c.d.Audible.StopCallWaitingTone()
}

// Snapshot is a point-in-time view of the alert session, for diagnostics.
type Snapshot struct {
	RingingCall     string
	VibratingCall   string
	CallWaitingCall string
	Vibrating       bool
	Flashing        bool
	CallWaitingTone bool
	PatternStyle    logic.PatternStyle
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		RingingCall:     callID(c.session.ringingCall),
		VibratingCall:   callID(c.d.Haptic.Call()),
		CallWaitingCall: callID(c.session.callWaitingCall),
		Vibrating:       c.d.Haptic.Vibrating(),
		Flashing:        c.d.Torch.Blinking(),
		CallWaitingTone: c.d.Audible.CallWaitingActive(),
		PatternStyle:    c.d.Patterns.Style(),
	}
}

func (c *Controller) emit(t logic.EventType, call *logic.Call, detail string) {
	e := logic.Event{
		Timestamp: c.now(),
		Type:      t,
		CallID:    callID(call),
		Detail:    detail,
	}
	if detail != "" {
		log.Printf("ringer: %s call=%s %s", e.Type, e.CallID, detail)
	} else {
		log.Printf("ringer: %s call=%s", e.Type, e.CallID)
	}
	if c.d.Events != nil {
		c.d.Events.Record(e)
	}
}

func callID(call *logic.Call) string {
	if call == nil {
		return ""
	}
	return call.ID
}
