package validation

// Error kinds surfaced to clients as the "error" field of a 400 response.
const (
	KindInvalidJSON              = "invalid_json"
	KindInvalidOrderFormat       = "invalid_order_format"
	KindInvalidOrderCount        = "invalid_order_count"
	KindInvalidOrderTotal        = "invalid_order_total"
	KindInvalidPickupTime        = "invalid_pickup_time"
	KindPickupTimeNotUTC         = "pickup_time_not_utc"
	KindPickupTimeInPast         = "pickup_time_in_past"
	KindPickupTimeTooFarInFuture = "pickup_time_too_far_in_future"
)

// Error is a client input error: a machine-readable kind plus an optional
// human-readable detail (only structural failures carry one).
type Error struct {
	Kind    string
	Details string
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Kind + ": " + e.Details
	}
	return e.Kind
}
