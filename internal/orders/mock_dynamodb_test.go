package orders

import (
	"context"
	"errors"
	"strconv"
	"sync"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the orders table supporting
// the calls the store issues: conditional PutItem, GetItem, and Query against
// the pickupHourTs index. Items are returned in map iteration order on
// purpose, so tests catch any missing re-sort.
type mockDynamo struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue

	putCalls   int
	queryCalls int
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{
		table: map[string]map[string]types.AttributeValue{},
	}
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++

	keyAttr, ok := params.Item["orderId"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing orderId in put item")
	}
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(orderId)" {
		if _, exists := m.table[keyAttr.Value]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[keyAttr.Value] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keyAttr, ok := params.Key["orderId"].(*types.AttributeValueMemberS)
	if !ok {
		return nil, errors.New("missing orderId key")
	}
	item, ok := m.table[keyAttr.Value]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) Query(ctx context.Context, params *dyn.QueryInput, optFns ...func(*dyn.Options)) (*dyn.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++

	if params.KeyConditionExpression == nil || *params.KeyConditionExpression != "pickupHourTs = :hour" {
		return nil, errors.New("unsupported key condition")
	}
	hour, err := numberValue(params.ExpressionAttributeValues, ":hour")
	if err != nil {
		return nil, err
	}

	var min, max *int64
	if params.FilterExpression != nil {
		switch *params.FilterExpression {
		case "pickupTimeTs BETWEEN :min AND :max":
			min, max = mustBound(params, ":min"), mustBound(params, ":max")
		case "pickupTimeTs >= :min":
			min = mustBound(params, ":min")
		case "pickupTimeTs <= :max":
			max = mustBound(params, ":max")
		default:
			return nil, errors.New("unsupported filter expression")
		}
	}

	out := &dyn.QueryOutput{}
	for _, item := range m.table {
		hourTs, err := numberValue(item, "pickupHourTs")
		if err != nil || hourTs != hour {
			continue
		}
		ts, err := numberValue(item, "pickupTimeTs")
		if err != nil {
			return nil, err
		}
		if min != nil && ts < *min {
			continue
		}
		if max != nil && ts > *max {
			continue
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

func numberValue(attrs map[string]types.AttributeValue, key string) (int64, error) {
	n, ok := attrs[key].(*types.AttributeValueMemberN)
	if !ok {
		return 0, errors.New("missing number attribute " + key)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

func mustBound(params *dyn.QueryInput, key string) *int64 {
	v, err := numberValue(params.ExpressionAttributeValues, key)
	if err != nil {
		panic(err)
	}
	return &v
}
