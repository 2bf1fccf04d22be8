package mqtt

import "log"

// bufferedMsg stores a serialized MQTT message for replay after reconnection.
type bufferedMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds messages published while disconnected, oldest first.
//
// A retained message replaces any earlier retained message on the same topic.
// When full, the oldest QoS 0 alert event is evicted before any lifecycle
// message.
// Not safe for concurrent use; the caller must synchronize.
type outbox struct {
	msgs     []bufferedMsg
	capacity int
	dropped  int // evicted since the last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{
		msgs:     make([]bufferedMsg, 0, capacity),
		capacity: capacity,
	}
}

func (o *outbox) push(msg bufferedMsg) {
	if msg.retained {
		kept := o.msgs[:0]
		for _, m := range o.msgs {
			if !(m.retained && m.topic == msg.topic) {
				kept = append(kept, m)
			}
		}
		o.msgs = kept
	}

	if len(o.msgs) == o.capacity {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.capacity)
		}
		o.evict()
		o.dropped++
	}
	o.msgs = append(o.msgs, msg)
}

// evict removes the oldest QoS 0 message, or the oldest message when every
// buffered message is QoS 1.
func (o *outbox) evict() {
	victim := 0
	for i, m := range o.msgs {
		if m.qos == 0 {
			victim = i
			break
		}
	}
	o.msgs = append(o.msgs[:victim], o.msgs[victim+1:]...)
}

// drain empties the outbox, returning the messages in publish order and how
// many were evicted to make room for them.
func (o *outbox) drain() ([]bufferedMsg, int) {
	var out []bufferedMsg
	if len(o.msgs) > 0 {
		out = make([]bufferedMsg, len(o.msgs))
		copy(out, o.msgs)
	}
	dropped := o.dropped

	o.msgs = o.msgs[:0]
	o.dropped = 0
	return out, dropped
}

func (o *outbox) len() int {
	return len(o.msgs)
}
