package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/call-alert/internal/logic"
)

// DefaultBufferSize is how many messages are held while disconnected.
const DefaultBufferSize = 256

// Config configures a RealPublisher.
type Config struct {
	Broker     string
	ClientID   string
	BufferSize int
	// OnCommand receives every valid message on TopicCommand. It runs on the
	// MQTT client's goroutine and must not block.
	OnCommand func(Command)
}

// RealPublisher publishes to an actual MQTT broker and subscribes to the
// command topic. Messages published while disconnected are buffered and
// replayed, oldest first, on reconnect.
type RealPublisher struct {
	client    paho.Client
	onCommand func(Command)

	mu  sync.Mutex
	out *outbox
}

// NewRealPublisher creates a publisher for the given broker. If the broker is
// not reachable yet the publisher is still returned and keeps retrying in the
// background.
func NewRealPublisher(cfg Config) (*RealPublisher, error) {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "call-alert"
	}

	p := &RealPublisher{
		onCommand: cfg.OnCommand,
		out:       newOutbox(cfg.BufferSize),
	}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetBinaryWill(TopicSystem, will, 1, true).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, buffering until connected", cfg.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// onConnect runs on every (re)connect: it restores the command subscription
// and replays buffered messages.
func (p *RealPublisher) onConnect(c paho.Client) {
	log.Printf("mqtt: connected")

	if p.onCommand != nil {
		token := c.Subscribe(TopicCommand, 1, p.handleCommand)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("mqtt: subscribe %s: %v", TopicCommand, token.Error())
		}
	}

	p.mu.Lock()
	pending, dropped := p.out.drain()
	p.mu.Unlock()

	if len(pending) > 0 {
		log.Printf("mqtt: replaying %d buffered messages (%d dropped while offline)", len(pending), dropped)
	}
	for _, msg := range pending {
		if err := p.publish(msg); err != nil {
			log.Printf("mqtt: replay to %s: %v", msg.topic, err)
		}
	}
}

func (p *RealPublisher) handleCommand(_ paho.Client, m paho.Message) {
	cmd, err := ParseCommand(m.Payload())
	if err != nil {
		log.Printf("mqtt: dropping command: %v", err)
		return
	}
	p.onCommand(cmd)
}

// Publish sends an alert event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.publish(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.publish(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.out.push(msg)
		p.mu.Unlock()
		return nil
	}

	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		p.mu.Lock()
		p.out.push(msg)
		p.mu.Unlock()
		return fmt.Errorf("publish to %s timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", msg.topic, err)
	}

	return nil
}

// Buffered returns how many messages are waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.len()
}

// IsConnected reports whether the broker connection is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
