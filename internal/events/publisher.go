// Package events publishes domain events to Pub/Sub for downstream
// notification tooling. The API runs fine without eventing configured; the
// publisher is nil-safe and every publish failure is logged, never surfaced
// to the request that triggered it.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/avilamfg/exhibit-backend/pkg/logger"
	"github.com/google/uuid"
)

const publishTimeout = 15 * time.Second

// EventTypeInquiryCreated identifies the event emitted after a public inquiry
// submission is persisted.
const EventTypeInquiryCreated = "inquiry.created"

// InquiryCreatedEvent is the payload published for each new inquiry.
type InquiryCreatedEvent struct {
	InquiryID int64     `json:"inquiry_id"`
	ProductID *int64    `json:"product_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) *gcppubsub.PublishResult
}

// Publisher emits inquiry events on a Pub/Sub topic.
type Publisher struct {
	topic publisher
	logg  *logger.Logger
}

// NewPublisher wraps the inquiry topic publisher. Passing a nil topic is an
// error; callers that run without eventing should hold a nil *Publisher
// instead.
func NewPublisher(topic publisher, logg *logger.Logger) (*Publisher, error) {
	if topic == nil {
		return nil, errors.New("topic publisher is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Publisher{topic: topic, logg: logg}, nil
}

// PublishInquiryCreated publishes the event and waits for the server ack. A
// nil receiver is a no-op so callers never need to branch on eventing being
// enabled.
func (p *Publisher) PublishInquiryCreated(ctx context.Context, event InquiryCreatedEvent) error {
	if p == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_id":     uuid.NewString(),
			"event_type":   EventTypeInquiryCreated,
			"inquiry_id":   strconv.FormatInt(event.InquiryID, 10),
			"published_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	result := p.topic.Publish(publishCtx, msg)
	if _, err := result.Get(publishCtx); err != nil {
		return err
	}

	p.logg.Info(p.logg.WithFields(ctx, map[string]any{
		"event_type": EventTypeInquiryCreated,
		"inquiry_id": event.InquiryID,
	}), "event.published")
	return nil
}
