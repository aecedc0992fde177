// Package kafka carries domain events over Apache Kafka: a routing publisher
// that serializes events into a transport-neutral envelope, and a consumer
// that decodes envelopes and dispatches them to subscribed handlers.
package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config holds broker connection settings.
type Config struct {
	Brokers  []string `default:"localhost:9092" usage:"Kafka bootstrap brokers"`
	ClientID string   `default:"order-service" usage:"Kafka client id"`
	GroupID  string   `default:"order-service-group" usage:"Consumer group id"`
	Consume  bool     `default:"false" usage:"Run the order event consumer in-process"`
}

type Client struct {
	Brokers  []string
	ClientID string
	GroupID  string
}

func NewClient(cfg Config) *Client {
	brokers := []string{}
	for _, b := range cfg.Brokers {
		for _, part := range strings.Split(b, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				brokers = append(brokers, part)
			}
		}
	}
	return &Client{Brokers: brokers, ClientID: cfg.ClientID, GroupID: cfg.GroupID}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

// NewWriter returns a writer without a fixed topic: every message names its own.
// Messages are hashed by key so all events of one order land on one partition.
func (c *Client) NewWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		Transport:              &kafka.Transport{ClientID: c.ClientID},
	}
}

// NewReader returns a consumer-group reader over topics.
func (c *Client) NewReader(topics []string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Brokers,
		GroupID:     c.GroupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		Dialer: &kafka.Dialer{
			ClientID:  c.ClientID,
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
}
