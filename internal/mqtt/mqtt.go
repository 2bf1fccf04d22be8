// Package mqtt publishes alert diagnostics to an MQTT broker and receives
// alert commands from it.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/call-alert/internal/logic"
)

// MQTT topics. Alert events go out at QoS 0, lifecycle events at QoS 1, and
// commands are subscribed at QoS 1.
const (
	Topic        = "phone/alert/events"
	TopicSystem  = "phone/alert/system"
	TopicCommand = "phone/alert/command"
)

// Publisher sends diagnostics to the broker. A failed publish is reported
// to the caller and never retried by it; alerting carries on regardless.
type Publisher interface {
	Publish(event logic.Event) error
	PublishSystem(event SystemEvent) error
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a daemon lifecycle event: STARTUP, SHUTDOWN or HEARTBEAT.
type SystemEvent struct {
	Timestamp time.Time
	Event     string
	Reason    string // SHUTDOWN only: SIGINT, SIGTERM or MQTT_DISCONNECT
	// RawPayload, when set, is sent as is instead of the minimal payload.
	RawPayload []byte
	Retained   bool
}

// Payload is the JSON document published on Topic.
type Payload struct {
	Alert AlertPayload `json:"alert"`
}

// AlertPayload contains the alert event details.
type AlertPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	CallID    string `json:"call_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// FormatPayload creates the JSON payload for an alert event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Alert: AlertPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			CallID:    event.CallID,
			Detail:    event.Detail,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is the minimal lifecycle document, used for the broker will
// and any event published without a status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
