package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/imrishuroy/go-pickup-orders/internal/aws"
	"github.com/imrishuroy/go-pickup-orders/internal/buckets"
)

// activeOrdersIndex is the secondary index used by ListActive: partition key
// pickupHourTs, range key pickupTimeTsOrderId.
const activeOrdersIndex = "pickupHourTsPickupTimeTsOrderIdIndex"

// ErrConflict indicates an order with the same orderId already exists.
// A duplicate orderId is a client error, not a transient fault; callers must
// surface it, never retry it.
var ErrConflict = errors.New("order already exists")

// Store encapsulates operations on the orders table.
type Store struct {
	client     aws.DynamoDBAPI
	tableName  string
	expiration time.Duration // how long after pickup an order stays stored
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string, expiration time.Duration) *Store {
	return &Store{
		client:     client,
		tableName:  tableName,
		expiration: expiration,
	}
}

// Create persists a validated order as a single atomic conditional write:
// insert-if-absent on orderId, so at most one create per id succeeds under
// concurrent callers. Returns ErrConflict if the id is taken. Derived
// attributes are computed here and never leak back to the caller.
func (s *Store) Create(ctx context.Context, order Order) error {
	pickup, err := ParsePickupTime(order.PickupTime)
	if err != nil {
		return fmt.Errorf("parse pickup time: %w", err)
	}

	item, err := attributevalue.MarshalMap(toRecord(order, pickup, s.expiration))
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(orderId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrConflict
		}
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Get fetches an order by orderId. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"orderId": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var r record
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	o := fromRecord(r)
	return &o, nil
}

// ListActive returns every stored order whose pickup time falls within
// [start, end], ascending by pickup time. The range is decomposed into
// per-hour bucket queries by the planner; either all bucket queries succeed
// or the whole call fails.
func (s *Store) ListActive(ctx context.Context, start, end time.Time) ([]Order, error) {
	var records []record
	for _, q := range buckets.Plan(start, end) {
		recs, err := s.queryBucket(ctx, q)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	// The index range key is the string pickupTimeTsOrderId, whose
	// lexicographic order is not numeric order. Re-sort explicitly.
	sort.Slice(records, func(i, j int) bool {
		if records[i].PickupTimeTs != records[j].PickupTimeTs {
			return records[i].PickupTimeTs < records[j].PickupTimeTs
		}
		return records[i].OrderID < records[j].OrderID
	})

	result := make([]Order, 0, len(records))
	for _, r := range records {
		result = append(result, fromRecord(r))
	}
	return result, nil
}

func (s *Store) queryBucket(ctx context.Context, q buckets.Query) ([]record, error) {
	input := &dyn.QueryInput{
		TableName:              &s.tableName,
		IndexName:              awsString(activeOrdersIndex),
		KeyConditionExpression: awsString("pickupHourTs = :hour"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":hour": numberAttr(q.HourTs),
		},
	}

	switch {
	case q.MinTs != nil && q.MaxTs != nil:
		input.FilterExpression = awsString("pickupTimeTs BETWEEN :min AND :max")
		input.ExpressionAttributeValues[":min"] = numberAttr(*q.MinTs)
		input.ExpressionAttributeValues[":max"] = numberAttr(*q.MaxTs)
	case q.MinTs != nil:
		input.FilterExpression = awsString("pickupTimeTs >= :min")
		input.ExpressionAttributeValues[":min"] = numberAttr(*q.MinTs)
	case q.MaxTs != nil:
		input.FilterExpression = awsString("pickupTimeTs <= :max")
		input.ExpressionAttributeValues[":max"] = numberAttr(*q.MaxTs)
	}

	var records []record
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query bucket %d: %w", q.HourTs, err)
		}
		for _, item := range out.Items {
			var r record
			if err := attributevalue.UnmarshalMap(item, &r); err != nil {
				return nil, fmt.Errorf("unmarshal order: %w", err)
			}
			records = append(records, r)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return records, nil
}

func numberAttr(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

func awsString(s string) *string { return &s }
