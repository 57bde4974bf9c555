// Package eventbridge publishes review lifecycle events to an EventBridge
// bus. Publishing is best-effort and never blocks the request path outcome.
package eventbridge

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"bookreviews-backend/domain/review"
)

const eventSource = "bookreviews.api"

// Publisher sends review events to EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	logger  *zap.Logger
}

// NewPublisher creates a new Publisher
func NewPublisher(client *eventbridge.Client, busName string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		logger:  logger,
	}
}

// Publish sends a single review event. Errors are returned for logging by
// the caller but carry no request-path consequence.
func (p *Publisher) Publish(ctx context.Context, eventType string, r review.Review) error {
	detail, err := json.Marshal(r)
	if err != nil {
		return err
	}

	input := &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.busName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(eventType),
				Detail:       aws.String(string(detail)),
			},
		},
	}

	result, err := p.client.PutEvents(ctx, input)
	if err != nil {
		p.logger.Warn("Failed to publish review event",
			zap.String("eventType", eventType),
			zap.String("reviewID", r.ID),
			zap.Error(err),
		)
		return err
	}

	if result.FailedEntryCount > 0 {
		p.logger.Warn("Review event not accepted by bus",
			zap.String("eventType", eventType),
			zap.String("reviewID", r.ID),
			zap.Int32("failedEntries", result.FailedEntryCount),
		)
	}

	return nil
}

// NoopPublisher discards all events. Used when event publishing is disabled.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that drops everything
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish implements ports.EventPublisher
func (NoopPublisher) Publish(ctx context.Context, eventType string, r review.Review) error {
	return nil
}
