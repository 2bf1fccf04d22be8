package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/call-alert/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Alerting      bool           `json:"alerting"`
	Session       SessionJSON    `json:"session"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	LastEvent     *LastEventJSON `json:"last_event,omitempty"`
	Config        ConfigJSON     `json:"config"`
}

// SessionJSON is the JSON representation of the alert session.
type SessionJSON struct {
	RingingCall     string `json:"ringing_call,omitempty"`
	VibratingCall   string `json:"vibrating_call,omitempty"`
	CallWaitingCall string `json:"call_waiting_call,omitempty"`
	Vibrating       bool   `json:"vibrating"`
	Flashing        bool   `json:"flashing"`
	CallWaitingTone bool   `json:"call_waiting_tone"`
	PatternStyle    string `json:"pattern_style"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Rings            int `json:"rings"`
	RingsSkipped     int `json:"rings_skipped"`
	Vibrations       int `json:"vibrations"`
	VibrationSkipped int `json:"vibrations_skipped"`
	CallWaiting      int `json:"call_waiting"`
	Flashes          int `json:"flashes"`
}

// LastEventJSON is the JSON representation of the most recent alert event.
type LastEventJSON struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	CallID    string `json:"call_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Broker       string `json:"broker"`
	HTTPPort     string `json:"http_port"`
	SettingsPath string `json:"settings_path,omitempty"`
	VibratorPin  int    `json:"vibrator_pin"`
	TorchPins    []int  `json:"torch_pins"`
}

func buildInner(snap Snapshot) StatusInner {
	pins := snap.Config.TorchPins
	if pins == nil {
		pins = []int{}
	}

	inner := StatusInner{
		Alerting: snap.Alerting(),
		Session: SessionJSON{
			RingingCall:     snap.Session.RingingCall,
			VibratingCall:   snap.Session.VibratingCall,
			CallWaitingCall: snap.Session.CallWaitingCall,
			Vibrating:       snap.Session.Vibrating,
			Flashing:        snap.Session.Flashing,
			CallWaitingTone: snap.Session.CallWaitingTone,
			PatternStyle:    snap.Session.PatternStyle,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Rings:            snap.Counts.Rings,
			RingsSkipped:     snap.Counts.RingsSkipped,
			Vibrations:       snap.Counts.Vibrations,
			VibrationSkipped: snap.Counts.VibrationSkipped,
			CallWaiting:      snap.Counts.CallWaiting,
			Flashes:          snap.Counts.Flashes,
		},
		Config: ConfigJSON{
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Broker:       snap.Config.Broker,
			HTTPPort:     snap.Config.HTTPPort,
			SettingsPath: snap.Config.SettingsPath,
			VibratorPin:  snap.Config.VibratorPin,
			TorchPins:    pins,
		},
	}

	if e := snap.LastEvent; e != nil {
		ej := eventJSON(*e)
		inner.LastEvent = &ej
	}
	return inner
}

func eventJSON(e logic.Event) LastEventJSON {
	return LastEventJSON{
		Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
		Event:     string(e.Type),
		CallID:    e.CallID,
		Detail:    e.Detail,
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// EventsJSON is the JSON envelope for the recent event history.
type EventsJSON struct {
	Events []LastEventJSON `json:"events"`
}

// FormatEvents returns the recent events, newest first, for the web endpoint.
func FormatEvents(events []logic.Event) []byte {
	out := EventsJSON{Events: make([]LastEventJSON, 0, len(events))}
	for _, e := range events {
		out.Events = append(out.Events, eventJSON(e))
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	return data
}
