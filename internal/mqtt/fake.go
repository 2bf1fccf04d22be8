package mqtt

import (
	"github.com/sweeney/call-alert/internal/logic"
)

// FakeMessage is one message as RealPublisher would hand it to the broker.
type FakeMessage struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// FakePublisher records what would have been published, for test
// assertions. It applies the same topics, QoS and payload formatting as
// RealPublisher but never buffers.
type FakePublisher struct {
	// Messages holds every published message in order, both topics.
	Messages []FakeMessage

	// Events and Payloads hold alert events and their encoded form.
	Events   []logic.Event
	Payloads [][]byte

	// SystemEvents and SystemPayloads hold lifecycle events and their
	// encoded form.
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// PublishError and PublishSystemError fail the matching call; nothing is
	// recorded for a failed call.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool
}

// NewFakePublisher creates a disconnected FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records an alert event on Topic.
func (f *FakePublisher) Publish(event logic.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	f.Messages = append(f.Messages, FakeMessage{Topic: Topic, Payload: payload})
	return nil
}

// PublishSystem records a lifecycle event on TopicSystem.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	f.Messages = append(f.Messages, FakeMessage{Topic: TopicSystem, QoS: 1, Retained: event.Retained, Payload: payload})
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// EventTypes returns the type of every recorded alert event.
func (f *FakePublisher) EventTypes() []logic.EventType {
	out := make([]logic.EventType, len(f.Events))
	for i, e := range f.Events {
		out[i] = e.Type
	}
	return out
}

// SystemEventNames returns the name of every recorded lifecycle event.
func (f *FakePublisher) SystemEventNames() []string {
	out := make([]string, len(f.SystemEvents))
	for i, e := range f.SystemEvents {
		out[i] = e.Event
	}
	return out
}

// Reset returns the fake to its freshly constructed state.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
