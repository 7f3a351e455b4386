package main

// orderCreatedMessage is the payload sent from API -> SQS -> worker.
type orderCreatedMessage struct {
	OrderID       string `json:"order_id"`
	PickupTimeTs  int64  `json:"pickup_time_ts"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
