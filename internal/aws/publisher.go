package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Publisher emits order-created events to an SQS queue. The queue feeds the
// metrics worker; publishing is best-effort and must never fail a create that
// is already durable.
type Publisher struct {
	SQS      SQSAPI
	QueueURL string
}

// OrderCreatedEvent is the payload sent to the queue after a successful create.
type OrderCreatedEvent struct {
	OrderID       string `json:"order_id"`
	PickupTimeTs  int64  `json:"pickup_time_ts"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// SendOrderCreated publishes the event with string message attributes for
// queue-side filtering.
func (p *Publisher) SendOrderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	bodyStr := string(body)

	attrs := map[string]sqstypes.MessageAttributeValue{
		"order_id": {
			DataType:    awsString("String"),
			StringValue: &ev.OrderID,
		},
		"pickup_time_ts": {
			DataType:    awsString("String"),
			StringValue: awsString(strconv.FormatInt(ev.PickupTimeTs, 10)),
		},
	}
	if ev.CorrelationID != "" {
		attrs["correlation_id"] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: &ev.CorrelationID,
		}
	}

	_, err = p.SQS.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          &p.QueueURL,
		MessageBody:       &bodyStr,
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
