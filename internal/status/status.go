// Package status provides a thread-safe status tracker for the call-alert daemon.
// It is read by the HTTP handlers and the MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/call-alert/internal/logic"
)

// Session mirrors the controller's alert session. This is a local copy to
// avoid importing internal/ringer from status.
type Session struct {
	RingingCall     string
	VibratingCall   string
	CallWaitingCall string
	Vibrating       bool
	Flashing        bool
	CallWaitingTone bool
	PatternStyle    string
}

// Config contains daemon configuration for display.
type Config struct {
	HeartbeatMs  int64
	Broker       string
	HTTPPort     string
	SettingsPath string
	VibratorPin  int
	TorchPins    []int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Session       Session
	Counts        logic.EventCounts
	LastEvent     *logic.Event
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Alerting reports whether any alert channel is active.
func (s Snapshot) Alerting() bool {
	return s.Session.RingingCall != "" || s.Session.Vibrating ||
		s.Session.Flashing || s.Session.CallWaitingTone
}

// RecentEvents is how many alert events the tracker keeps for diagnostics.
const RecentEvents = 50

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu     sync.RWMutex
	snap   Snapshot
	recent []logic.Event // oldest first, at most RecentEvents
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetSession replaces the alert session view.
// Called from runLoop after every command.
func (t *Tracker) SetSession(s Session) {
	t.mu.Lock()
	t.snap.Session = s
	t.mu.Unlock()
}

// RecordEvent counts e, remembers it as the latest event and appends it to
// the recent history.
func (t *Tracker) RecordEvent(e logic.Event) {
	t.mu.Lock()
	t.snap.Counts.Add(e)
	t.snap.LastEvent = &e
	if len(t.recent) == RecentEvents {
		copy(t.recent, t.recent[1:])
		t.recent = t.recent[:RecentEvents-1]
	}
	t.recent = append(t.recent, e)
	t.mu.Unlock()
}

// Recent returns up to n of the most recent events, newest first. n <= 0
// returns all of them.
func (t *Tracker) Recent(n int) []logic.Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if n <= 0 || n > len(t.recent) {
		n = len(t.recent)
	}
	out := make([]logic.Event, n)
	for i := range out {
		out[i] = t.recent[len(t.recent)-1-i]
	}
	return out
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.LastEvent != nil {
		e := *s.LastEvent
		s.LastEvent = &e
	}
	s.Config.TorchPins = append([]int(nil), s.Config.TorchPins...)
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
