package persistence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// incrementField adds delta to a top-level numeric field of a JSON object.
// A missing or non-numeric field is treated as zero.
func incrementField(data []byte, field string, delta int64) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if obj == nil {
		obj = make(map[string]json.RawMessage)
	}

	var current int64
	if raw, ok := obj[field]; ok {
		var n json.Number
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&n); err == nil {
			if i, err := n.Int64(); err == nil {
				current = i
			} else if f, err := n.Float64(); err == nil {
				current = int64(f)
			}
		}
	}

	obj[field] = json.RawMessage(strconv.FormatInt(current+delta, 10))
	return json.Marshal(obj)
}
