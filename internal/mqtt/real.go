package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/shelf-lights/internal/mode"
)

// bufferSize is how many messages are held while the broker is unreachable.
const bufferSize = 100

// queueSize bounds messages waiting for the publish worker. It holds a full
// replayed buffer plus live traffic.
const queueSize = 2 * bufferSize

// publishTimeout bounds the worker's wait for a broker acknowledgement.
const publishTimeout = 5 * time.Second

// client is the part of paho.Client the publisher uses.
type client interface {
	Connect() paho.Token
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an MQTT broker. Publish and PublishSystem never
// wait on the network: messages go to a worker goroutine that alone waits for
// acknowledgements. Messages published while the connection is down are
// buffered and replayed in order on reconnect.
type RealPublisher struct {
	client client
	queue  chan bufferedMsg
	done   chan struct{}

	mu     sync.Mutex
	buf    *ringBuffer
	live   bool // connected and buffer replayed
	closed bool
}

// NewRealPublisher starts connecting to broker in the background and returns
// immediately; the lights must not wait on the network.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{}

	will, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("shelf-lights").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.replay() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.lost(err) })

	p.start(paho.NewClient(opts))
	p.client.Connect()
	return p
}

func (p *RealPublisher) start(c client) {
	p.client = c
	p.queue = make(chan bufferedMsg, queueSize)
	p.done = make(chan struct{})
	p.buf = newRingBuffer(bufferSize)
	go p.run()
}

// run publishes queued messages until the queue is closed.
func (p *RealPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		if err := p.publish(msg); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
}

// Publish sends a lighting event at QoS 0.
func (p *RealPublisher) Publish(event mode.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(bufferedMsg{topic: Topic, payload: payload})
}

// PublishSystem sends a lifecycle event at QoS 1.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(bufferedMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// send buffers msg while the publisher is not live, otherwise hands it to the
// worker. It never blocks.
func (p *RealPublisher) send(msg bufferedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publish %s: publisher closed", msg.topic)
	}
	if !p.live || !p.client.IsConnectionOpen() {
		p.buf.push(msg)
		return nil
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return fmt.Errorf("publish %s: queue full", msg.topic)
	}
}

func (p *RealPublisher) publish(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", msg.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", msg.topic, err)
	}
	return nil
}

// replay runs on every (re)connect. Buffered messages are queued ahead of any
// new ones: the publisher only goes live once they are all queued.
func (p *RealPublisher) replay() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	dropped := p.buf.dropped
	msgs := p.buf.drainAll()
	if len(msgs) == 0 {
		log.Printf("mqtt: connected")
	} else {
		log.Printf("mqtt: connected, replaying %d buffered messages (%d dropped)", len(msgs), dropped)
	}
	for i, m := range msgs {
		select {
		case p.queue <- m:
		default:
			log.Printf("mqtt: replay: queue full, dropping %d messages", len(msgs)-i)
			p.live = true
			return
		}
	}
	p.live = true
}

// lost sends new messages to the buffer until the next replay.
func (p *RealPublisher) lost(err error) {
	p.mu.Lock()
	p.live = false
	p.mu.Unlock()
	log.Printf("mqtt: connection lost: %v", err)
}

// Buffered returns the number of messages waiting for the broker to come back.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buf.len()
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close lets the worker finish the queued messages, waiting at most
// publishTimeout, then disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-time.After(publishTimeout):
		log.Printf("mqtt: close: gave up waiting for queued messages")
	}
	p.client.Disconnect(1000)
	return nil
}
