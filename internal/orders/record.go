package orders

import (
	"fmt"
	"time"

	"github.com/imrishuroy/go-pickup-orders/internal/buckets"
)

// record is the full storage shape: the client-facing order plus the derived
// attributes the table and its secondary index key on. Derived attributes are
// never supplied by clients and never returned to them.
type record struct {
	Order
	PickupTimeTs        int64  `dynamodbav:"pickupTimeTs"`
	PickupHourTs        int64  `dynamodbav:"pickupHourTs"`
	PickupTimeTsOrderID string `dynamodbav:"pickupTimeTsOrderId"`
	ExpirationTs        int64  `dynamodbav:"expirationTs"`
}

// toRecord computes the derived attributes for pickup and attaches them,
// leaving the caller's order untouched. pickupTimeTsOrderId is stored for
// layout compatibility; no current query consumes it. expirationTs marks when
// an external reaper may drop the item.
func toRecord(o Order, pickup time.Time, expiration time.Duration) record {
	ts := pickup.Unix()
	return record{
		Order:               o,
		PickupTimeTs:        ts,
		PickupHourTs:        buckets.Hour(pickup).Unix(),
		PickupTimeTsOrderID: fmt.Sprintf("%d:%s", ts, o.OrderID),
		ExpirationTs:        pickup.Add(expiration).Unix(),
	}
}

// fromRecord strips the derived attributes back out.
func fromRecord(r record) Order {
	return r.Order
}
