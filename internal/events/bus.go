// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/anuragksng/foodrec/internal/metrics"
)

// ErrBusClosed is returned by Publish after Close.
var ErrBusClosed = errors.New("event bus closed")

// Config configures the event bus.
type Config struct {
	// Enabled turns change events on. When false the bus is not built.
	Enabled bool `koanf:"enabled" json:"enabled"`

	// NATSURL selects core NATS. Empty means in-process gochannel.
	NATSURL string `koanf:"nats_url" json:"nats_url"`

	// BufferSize is the gochannel output buffer.
	BufferSize int64 `koanf:"buffer_size" json:"buffer_size"`

	MaxReconnects int           `koanf:"max_reconnects" json:"max_reconnects"`
	ReconnectWait time.Duration `koanf:"reconnect_wait" json:"reconnect_wait"`
	CloseTimeout  time.Duration `koanf:"close_timeout" json:"close_timeout"`
}

// DefaultConfig returns defaults for an in-process bus.
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		BufferSize:    256,
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
		CloseTimeout:  10 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BufferSize < 0 {
		return fmt.Errorf("events.buffer_size must be non-negative, got %d", c.BufferSize)
	}
	if c.NATSURL != "" && c.ReconnectWait <= 0 {
		return fmt.Errorf("events.reconnect_wait must be positive, got %v", c.ReconnectWait)
	}
	return nil
}

// Bus publishes and subscribes to change events.
type Bus struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter

	// shared is set when pub and sub are the same gochannel
	shared bool

	mu     sync.RWMutex
	closed bool
}

// NewBus builds a gochannel or NATS bus depending on cfg.NATSURL.
func NewBus(cfg *Config, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = watermill.NopLogger{}
	}

	if cfg.NATSURL == "" {
		gc := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: cfg.BufferSize,
		}, logger)
		return &Bus{pub: gc, sub: gc, logger: logger, shared: true}, nil
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
	marshaler := &wmNats.NATSMarshaler{}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.NATSURL,
		NatsOptions: natsOpts,
		Marshaler:   marshaler,
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.NATSURL,
		SubscribersCount: 1,
		CloseTimeout:     cfg.CloseTimeout,
		NatsOptions:      natsOpts,
		Unmarshaler:      marshaler,
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Bus{pub: pub, sub: sub, logger: logger}, nil
}

// Publish sends a change on its kind's topic.
//
//nolint:gocritic // Change is small and immutable
func (b *Bus) Publish(_ context.Context, c Change) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	msg := message.NewMessage(c.ID, data)
	msg.Metadata.Set("kind", string(c.Kind))

	topic := c.Kind.Topic()
	if err := b.pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.RecordEventPublished(topic)
	return nil
}

// Subscribe returns the message channel for topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.sub.Subscribe(ctx, topic)
}

// Close closes the publisher and the subscriber.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	pubErr := b.pub.Close()
	if b.shared {
		return pubErr
	}
	return errors.Join(pubErr, b.sub.Close())
}
