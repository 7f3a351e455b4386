package validation

import (
	"reflect"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/imrishuroy/go-pickup-orders/internal/orders"
	"github.com/shopspring/decimal"
)

// Pickup-time window bounds, relative to the clock at validation time.
// The grace period absorbs clock skew between client and server.
const (
	pastGrace     = 5 * time.Second
	futureHorizon = 3 * 24 * time.Hour
)

// Validator runs the ordered order checks. The clock is injected so every
// time-boundary condition is deterministic under test.
type Validator struct {
	validate *validatorv10.Validate
	now      func() time.Time
}

// New returns a Validator using the given clock; nil means wall clock.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}

	v := validatorv10.New()
	// Decimal fields validate as their float value so numeric tags (gte)
	// apply. Exactness does not matter here: only the sign check uses this,
	// the total cross-check below is pure decimal arithmetic.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(orders.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, orders.Decimal{})

	return &Validator{validate: v, now: now}
}

// Validate runs the checks in a fixed order, short-circuiting on the first
// failure: structure, item count, decimal total, pickup-time parse, UTC
// offset, past/future window. The order is part of the API contract; clients
// key on the first failing rule's error code.
func (v *Validator) Validate(o *orders.Order) *Error {
	if err := v.validate.Struct(o); err != nil {
		return &Error{Kind: KindInvalidOrderFormat, Details: formatDetail(err)}
	}

	if o.OrderCount != len(o.OrderItems) {
		return &Error{Kind: KindInvalidOrderCount}
	}

	total := decimal.Zero
	for _, it := range o.OrderItems {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !total.Equal(o.OrderTotal.Decimal) {
		return &Error{Kind: KindInvalidOrderTotal}
	}

	pickup, err := orders.ParsePickupTime(o.PickupTime)
	if err != nil {
		if isNaiveTimestamp(o.PickupTime) {
			return &Error{Kind: KindPickupTimeNotUTC}
		}
		return &Error{Kind: KindInvalidPickupTime}
	}
	if _, offset := pickup.Zone(); offset != 0 {
		return &Error{Kind: KindPickupTimeNotUTC}
	}

	now := v.now().UTC()
	if now.Sub(pickup) > pastGrace {
		return &Error{Kind: KindPickupTimeInPast}
	}
	if pickup.Sub(now) > futureHorizon {
		return &Error{Kind: KindPickupTimeTooFarInFuture}
	}
	return nil
}

// naiveLayouts cover ISO-8601 timestamps that parse fine but carry no offset.
// Those are not malformed, they are simply not UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func isNaiveTimestamp(s string) bool {
	for _, layout := range naiveLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// formatDetail reduces a validator error to the first field failure, which is
// the one a fail-fast API reports.
func formatDetail(err error) string {
	if ve, ok := err.(validatorv10.ValidationErrors); ok && len(ve) > 0 {
		return ve[0].Error()
	}
	return err.Error()
}
