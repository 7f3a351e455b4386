package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/imrishuroy/go-pickup-orders/internal/aws"
)

const metricNamespace = "PickupOrders"

// Processor consumes order-created events and publishes CloudWatch metrics:
// an OrdersCreated count and the lead time between creation and pickup.
type Processor struct {
	cloudwatch aws.CloudWatchAPI
	nowFunc    func() time.Time
}

// NewProcessor creates a worker processor with AWS clients injected.
func NewProcessor(clients *aws.AWSClients) *Processor {
	return &Processor{
		cloudwatch: clients.CloudWatch,
		nowFunc:    time.Now,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times,
			// the message goes to the DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg orderCreatedMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s corr=%s", msg.OrderID, msg.CorrelationID)

	now := p.nowFunc().UTC()
	leadSeconds := float64(msg.PickupTimeTs - now.Unix())

	input := &cloudwatch.PutMetricDataInput{
		Namespace: awsString(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: awsString("OrdersCreated"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      awsFloat(1),
			},
			{
				MetricName: awsString("PickupLeadSeconds"),
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitSeconds,
				Value:      &leadSeconds,
			},
		},
	}
	if _, err := p.cloudwatch.PutMetricData(ctx, input); err != nil {
		return fmt.Errorf("put metric data: %w", err)
	}

	log.Printf("[worker] recorded metrics for order=%s", msg.OrderID)
	return nil
}

func awsString(s string) *string { return &s }

func awsFloat(f float64) *float64 { return &f }
