package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/imrishuroy/go-pickup-orders/internal/orders"
)

// DecodeOrder parses a raw request body into an order. A body that is not
// well-formed JSON (including an absent body) is invalid_json; well-formed
// JSON that does not fit the schema (unknown fields, wrong types) is
// invalid_order_format.
func DecodeOrder(body []byte) (*orders.Order, *Error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var o orders.Order
	if err := dec.Decode(&o); err != nil {
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			// absent, truncated, or malformed body
			return nil, &Error{Kind: KindInvalidJSON}
		default:
			// well-formed JSON that does not fit the schema: unknown
			// fields, wrong types, unparsable decimals
			return nil, &Error{Kind: KindInvalidOrderFormat, Details: err.Error()}
		}
	}
	if dec.More() {
		// trailing data after the order object
		return nil, &Error{Kind: KindInvalidJSON}
	}
	return &o, nil
}
