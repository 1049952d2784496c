// Package events publishes auth lifecycle events onto a watermill bus.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/aussiebroadwan/reel/internal/auth/domain"
)

// Publisher sends each event to the topic named by its type.
type Publisher struct {
	publisher message.Publisher
}

// NewPublisher wraps an existing watermill publisher.
func NewPublisher(publisher message.Publisher) *Publisher {
	return &Publisher{publisher: publisher}
}

// NewMemoryPublisher publishes onto an in-process channel. The returned
// GoChannel can be used to subscribe to the same topics.
func NewMemoryPublisher(logger *slog.Logger) (*Publisher, *gochannel.GoChannel) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return NewPublisher(ch), ch
}

// NewRedisPublisher publishes onto redis streams.
func NewRedisPublisher(client redis.UniversalClient, logger *slog.Logger) (*Publisher, error) {
	pub, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: client,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	return NewPublisher(pub), nil
}

// Publish marshals ev as JSON and sends it.
func (p *Publisher) Publish(ctx context.Context, ev domain.AuthEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", string(ev.Type))

	if err := p.publisher.Publish(string(ev.Type), msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.publisher.Close()
}
