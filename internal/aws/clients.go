package aws

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// AWSClients bundles all service clients for convenience.
type AWSClients struct {
	DynamoDB   DynamoDBAPI
	SQS        SQSAPI
	CloudWatch CloudWatchAPI
}

// NewAWSClients loads AWS config and returns concrete service clients that
// implement our interfaces. DB_ENDPOINT_URL, when set, points the DynamoDB
// client at a local instance for development and integration tests.
func NewAWSClients(ctx context.Context) (*AWSClients, error) {
	cfg, err := LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}

	dynamoOpts := func(o *dynamodb.Options) {
		if endpoint := os.Getenv("DB_ENDPOINT_URL"); endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	}

	return &AWSClients{
		DynamoDB:   dynamodb.NewFromConfig(cfg, dynamoOpts),
		SQS:        sqs.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}, nil
}
