package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backtrace-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// source identifies this service on the bus
const source = "backtrace.graph"

// Publisher implements the EventBus interface using AWS EventBridge
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventBus {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// Publish sends a single graph event to EventBridge
func (p *Publisher) Publish(ctx context.Context, event ports.GraphEvent) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	entry := types.PutEventsRequestEntry{
		EventBusName: aws.String(p.eventBusName),
		Source:       aws.String(source),
		DetailType:   aws.String(event.Type),
		Detail:       aws.String(string(detail)),
		Time:         aws.Time(time.Now()),
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{entry},
	})
	if err != nil {
		return fmt.Errorf("failed to publish event to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		failed := result.Entries[0]
		p.logger.Error("EventBridge rejected event",
			zap.String("eventType", event.Type),
			zap.String("errorCode", aws.ToString(failed.ErrorCode)),
			zap.String("errorMessage", aws.ToString(failed.ErrorMessage)),
		)
		return fmt.Errorf("EventBridge rejected event %s: %s", event.Type, aws.ToString(failed.ErrorCode))
	}

	return nil
}
