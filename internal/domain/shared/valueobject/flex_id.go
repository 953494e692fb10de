package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexID is a document identifier that may arrive as a JSON number or a JSON
// string. It is echoed back in the form it was received.
type FlexID struct {
	value   string
	numeric bool
}

// StringID creates a string identifier
func StringID(s string) FlexID {
	return FlexID{value: s}
}

// IntID creates a numeric identifier
func IntID(i int64) FlexID {
	return FlexID{value: strconv.FormatInt(i, 10), numeric: true}
}

// String returns the identifier text, used as the storage key
func (id FlexID) String() string {
	return id.value
}

// IsZero reports whether the identifier is empty
func (id FlexID) IsZero() bool {
	return id.value == ""
}

// IsNumeric reports whether the identifier was received as a number
func (id FlexID) IsNumeric() bool {
	return id.numeric
}

// MarshalJSON encodes numeric identifiers as numbers and the rest as strings
func (id FlexID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts a JSON number, a JSON string or null
func (id *FlexID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(raw, []byte("null")):
		*id = FlexID{}
		return nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = FlexID{value: s}
		return nil
	default:
		var num json.Number
		if err := json.Unmarshal(raw, &num); err != nil {
			return fmt.Errorf("identifier must be a number or a string: %w", err)
		}
		*id = FlexID{value: num.String(), numeric: true}
		return nil
	}
}
