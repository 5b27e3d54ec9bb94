// Package messaging mirrors bridge lifecycle events to a broker.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/Lydiiiiia27/ups-delivery-system/config"
)

var errNotConnected = errors.New("messaging: broker not connected")

// broker is one concrete transport behind Client.
type broker interface {
	connect() error
	send(topic string, payload []byte) error
	ready() bool
	close()
}

// Client publishes bridge events to the configured broker (mqtt or kafka).
type Client struct {
	mu        sync.RWMutex
	backend   string
	b         broker
	connected bool
}

func NewClient(cfg *config.MessagingConfig) *Client {
	c := &Client{backend: cfg.Backend}
	switch cfg.Backend {
	case "mqtt":
		c.b = &mqttBroker{cfg: cfg.MQTT}
	case "kafka":
		c.b = &kafkaBroker{brokers: cfg.Kafka.Brokers, topic: cfg.EventsTopic}
	}
	return c
}

// Connect establishes the broker connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.b == nil {
		return fmt.Errorf("unknown messaging backend: %q", c.backend)
	}
	if err := c.b.connect(); err != nil {
		return err
	}
	c.connected = true
	return nil
}

// Publish sends payload to topic.
func (c *Client) Publish(topic string, payload []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.b == nil || !c.connected {
		return fmt.Errorf("%w (%s)", errNotConnected, c.backend)
	}
	return c.b.send(topic, payload)
}

func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.b != nil && c.connected && c.b.ready()
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.b != nil && c.connected {
		c.b.close()
	}
	c.connected = false
}

// mqttBroker publishes with QoS 1 so partner dashboards see every transition.
type mqttBroker struct {
	cfg  config.MQTTConfig
	conn mqtt.Client
}

func (m *mqttBroker) connect() error {
	addr := fmt.Sprintf("tcp://%s:%d", m.cfg.Broker, m.cfg.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(addr).
		SetClientID(m.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("messaging: mqtt connection lost: %v", err)
		})

	conn := mqtt.NewClient(opts)
	tok := conn.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("mqtt connect: timed out reaching %s", addr)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	m.conn = conn
	log.Printf("messaging: mqtt connected to %s", addr)
	return nil
}

func (m *mqttBroker) send(topic string, payload []byte) error {
	if !m.ready() {
		return errNotConnected
	}
	tok := m.conn.Publish(topic, 1, false, payload)
	tok.Wait()
	return tok.Error()
}

func (m *mqttBroker) ready() bool { return m.conn != nil && m.conn.IsConnected() }

func (m *mqttBroker) close() {
	if m.conn != nil {
		m.conn.Disconnect(250)
		m.conn = nil
	}
}

// kafkaBroker writes event records keyed by topic; the events topic is
// created up front when the cluster allows it.
type kafkaBroker struct {
	brokers []string
	topic   string
	w       *kafkago.Writer
}

func (k *kafkaBroker) connect() error {
	if len(k.brokers) == 0 {
		return fmt.Errorf("kafka connect: no brokers configured")
	}
	conn, err := dialAny(k.brokers)
	if err != nil {
		return fmt.Errorf("kafka connect: %w", err)
	}
	createTopic(conn, k.topic)
	conn.Close()

	k.w = &kafkago.Writer{
		Addr:         kafkago.TCP(k.brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	return nil
}

func (k *kafkaBroker) send(topic string, payload []byte) error {
	if k.w == nil {
		return errNotConnected
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return k.w.WriteMessages(ctx, kafkago.Message{Topic: topic, Value: payload})
}

func (k *kafkaBroker) ready() bool { return k.w != nil }

func (k *kafkaBroker) close() {
	if k.w != nil {
		if err := k.w.Close(); err != nil {
			log.Printf("messaging: kafka writer close: %v", err)
		}
		k.w = nil
	}
}

// dialAny returns a connection to the first reachable broker.
func dialAny(brokers []string) (*kafkago.Conn, error) {
	var lastErr error
	for _, addr := range brokers {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, err := kafkago.DialContext(ctx, "tcp", addr)
		cancel()
		if err == nil {
			log.Printf("messaging: kafka connected to %s", addr)
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// createTopic asks the controller for a single-partition topic. Failure is
// only logged since clusters with auto-create work without it.
func createTopic(conn *kafkago.Conn, topic string) {
	if topic == "" {
		return
	}
	ctrl, err := conn.Controller()
	if err != nil {
		log.Printf("messaging: kafka controller lookup: %v", err)
		return
	}
	cc, err := kafkago.Dial("tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		log.Printf("messaging: kafka controller dial: %v", err)
		return
	}
	defer cc.Close()
	if err := cc.CreateTopics(kafkago.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1}); err != nil {
		log.Printf("messaging: create topic %s: %v", topic, err)
	}
}
