package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyPayload is returned when an event carries no payload to decode
var ErrEmptyPayload = errors.New("event has no payload")

// DecodePayload returns the payload of a material event as T.
// In-process events carry T or *T directly. Events read back from the
// dead-letter file carry raw JSON or a generic map, which are decoded.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case nil:
		return result, ErrEmptyPayload
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, ErrEmptyPayload
		}
		return *v, nil
	case json.RawMessage:
		return result, decodeJSON(v, &result)
	case []byte:
		return result, decodeJSON(v, &result)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, fmt.Errorf("re-encode %T payload: %w", input, err)
	}
	return result, decodeJSON(data, &result)
}

func decodeJSON(data []byte, out interface{}) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %T payload: %w", out, err)
	}
	return nil
}
