// Foodrec - Weather-Aware Food Recommendation Service
// Copyright 2026 The Foodrec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anuragksng/foodrec

package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/anuragksng/foodrec/internal/metrics"
)

// Handler reacts to one change.
type Handler func(ctx context.Context, c Change)

// Subscriber is the part of Bus the Invalidator needs.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Invalidator subscribes to every change topic and calls the registered
// handlers. It implements suture.Service.
type Invalidator struct {
	sub    Subscriber
	logger zerolog.Logger

	mu       sync.RWMutex
	handlers []Handler
}

// NewInvalidator creates an invalidator reading from sub.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewInvalidator(sub Subscriber, logger zerolog.Logger) *Invalidator {
	return &Invalidator{
		sub:    sub,
		logger: logger.With().Str("component", "invalidator").Logger(),
	}
}

// Register adds a handler. Handlers run in registration order.
func (i *Invalidator) Register(h Handler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.handlers = append(i.handlers, h)
}

// Serve runs until ctx is cancelled.
func (i *Invalidator) Serve(ctx context.Context) error {
	type delivery struct {
		topic string
		msg   *message.Message
	}
	in := make(chan delivery)

	var wg sync.WaitGroup
	for _, kind := range Kinds {
		topic := kind.Topic()
		ch, err := i.sub.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range ch {
				select {
				case in <- delivery{topic: topic, msg: msg}:
				case <-ctx.Done():
					msg.Nack()
					return
				}
			}
		}()
	}

	i.logger.Info().Int("topics", len(Kinds)).Msg("change invalidator started")

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			i.logger.Info().Msg("change invalidator stopped")
			return ctx.Err()
		case d := <-in:
			i.handle(ctx, d.topic, d.msg)
		}
	}
}

func (i *Invalidator) handle(ctx context.Context, topic string, msg *message.Message) {
	c, err := ParseChange(msg.Payload)
	if err != nil {
		i.logger.Warn().Err(err).Str("topic", topic).Str("message_id", msg.UUID).Msg("dropping malformed change")
		metrics.RecordEventConsumed(topic, false)
		msg.Ack()
		return
	}

	i.mu.RLock()
	handlers := append([]Handler(nil), i.handlers...)
	i.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, c)
	}
	metrics.RecordEventConsumed(topic, true)
	msg.Ack()
}

// String implements fmt.Stringer for suture logging.
func (i *Invalidator) String() string {
	return "change-invalidator"
}
