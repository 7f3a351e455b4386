package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Order types accepted at validation time. The type only exists so a future
// extension can apply per-type pickup-time policies; it is stripped before
// persistence and never returned to the client.
const (
	TypeCurrent   = "CURRENT"
	TypeScheduled = "SCHEDULED"
)

// Order is the client-facing order shape, used both on the wire and (minus
// orderType, plus derived attributes) in the orders DynamoDB table.
// Decimal fields are pointers so an absent field is distinguishable from a
// legitimate zero: required rejects nil, while a present zero value passes.
type Order struct {
	OrderID    string   `json:"orderId" dynamodbav:"orderId" validate:"required"`
	OrderTotal *Decimal `json:"orderTotal" dynamodbav:"orderTotal" validate:"required,gte=0"`
	OrderCount int      `json:"orderCount" dynamodbav:"orderCount" validate:"required,gte=1"`
	OrderType  string   `json:"orderType,omitempty" dynamodbav:"-" validate:"required,oneof=CURRENT SCHEDULED"`
	PickupTime string   `json:"pickupTime" dynamodbav:"pickupTime" validate:"required"`
	OrderItems []Item   `json:"orderItems" dynamodbav:"orderItems" validate:"required,min=1,dive"`
}

// Item is a single order line item.
type Item struct {
	Name     string   `json:"name" dynamodbav:"name" validate:"required"`
	Price    *Decimal `json:"price" dynamodbav:"price" validate:"required,gte=0"`
	Quantity int      `json:"quantity" dynamodbav:"quantity" validate:"required,gte=1"`
}

// ParsePickupTime parses an ISO-8601 timestamp with an explicit offset.
// Both the Z suffix and numeric offsets are accepted here; whether the offset
// is actually UTC is the validator's concern, not the parser's.
func ParsePickupTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// Decimal wraps shopspring decimal so money fields survive both JSON and
// DynamoDB round trips with exact decimal semantics. JSON output is a bare
// number (not the quoted string shopspring emits by default); the DynamoDB
// representation is the native number type, which is itself decimal.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal builds a Decimal from its exact string form. Panics on malformed
// input; intended for literals in tests and fixtures.
func NewDecimal(s string) *Decimal {
	return &Decimal{decimal.RequireFromString(s)}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	parsed, err := decimal.NewFromString(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	d.Decimal = parsed
	return nil
}

func (d Decimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.String()}, nil
}

func (d *Decimal) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return fmt.Errorf("expected number attribute, got %T", av)
	}
	parsed, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("parse number attribute: %w", err)
	}
	d.Decimal = parsed
	return nil
}
