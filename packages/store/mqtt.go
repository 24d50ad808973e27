package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// Publisher is the subset of mqtt.Client used to fan records out.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes every record as JSON to <prefix>/<table>/<partitionKey>.
// It is a write-only sink; readers go to another store.
type MQTT struct {
	client  Publisher
	prefix  string
	qos     byte
	timeout time.Duration
}

// MQTTOption is a functional option for MQTT
type MQTTOption func(*MQTT)

// WithTopicPrefix sets the topic prefix, default "hitrelay".
func WithTopicPrefix(prefix string) MQTTOption {
	return func(m *MQTT) {
		m.prefix = strings.Trim(prefix, "/")
	}
}

// NewMQTT wraps an already connected publisher.
func NewMQTT(client Publisher, opts ...MQTTOption) *MQTT {
	m := &MQTT{
		client:  client,
		prefix:  "hitrelay",
		qos:     1,
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DialMQTT connects to broker and returns the connected client.
func DialMQTT(broker string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker)
	opts.SetClientID("hitrelay-" + uuid.New().String())
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", broker, token.Error())
	}
	return client, nil
}

// Topic returns the topic a record for table and partitionKey is published on.
func (m *MQTT) Topic(table, partitionKey string) string {
	parts := []string{m.prefix, table}
	if partitionKey != "" {
		parts = append(parts, partitionKey)
	}
	return strings.Join(parts, "/")
}

func (m *MQTT) PutRecord(ctx context.Context, table string, record any) (PutResult, error) {
	if table == "" {
		return PutResult{}, ErrMissingTable
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return PutResult{}, fmt.Errorf("marshal record: %w", err)
	}
	pk, _ := RecordKey(record)

	token := m.client.Publish(m.Topic(table, pk), m.qos, false, payload)

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if !token.WaitTimeout(timeout) {
		return PutResult{OK: false, Message: "mqtt publish timed out"}, nil
	}
	if err := token.Error(); err != nil {
		return PutResult{}, fmt.Errorf("mqtt publish: %w", err)
	}

	return PutResult{OK: true}, nil
}
