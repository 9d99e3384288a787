package billing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// The billing collaborator speaks Mongo extended JSON: numeric fields arrive
// as plain numbers, as strings, or as wrappers like {"$numberLong":"11000"}.
// FlexInt64 and FlexString absorb all of those shapes so a payload variation
// never panics a dashboard render. Unparseable values coerce to the zero
// value rather than failing the whole document.

type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("billing.FlexInt64: %w", err)
		}
		*f = FlexInt64(parseInt64(s))
		return nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return fmt.Errorf("billing.FlexInt64: %w", err)
		}
		for _, key := range []string{"$numberLong", "$numberInt", "$numberDouble"} {
			if raw, ok := wrapper[key]; ok {
				var inner FlexInt64
				if err := inner.UnmarshalJSON(raw); err != nil {
					return err
				}
				*f = inner
				return nil
			}
		}
		*f = 0
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt64(n)
		return nil
	}
}

func (f FlexInt64) Int64() int64 { return int64(f) }

type FlexFloat64 float64

func (f *FlexFloat64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("billing.FlexFloat64: %w", err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			v = 0
		}
		*f = FlexFloat64(v)
		return nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return fmt.Errorf("billing.FlexFloat64: %w", err)
		}
		for _, key := range []string{"$numberDouble", "$numberLong", "$numberInt"} {
			if raw, ok := wrapper[key]; ok {
				var inner FlexFloat64
				if err := inner.UnmarshalJSON(raw); err != nil {
					return err
				}
				*f = inner
				return nil
			}
		}
		*f = 0
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			*f = 0
			return nil
		}
		*f = FlexFloat64(n)
		return nil
	}
}

func (f FlexFloat64) Float64() float64 { return float64(f) }

// FlexString accepts plain strings, {"$oid":"..."} wrappers, and bare
// numbers (stringified).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("billing.FlexString: %w", err)
		}
		*f = FlexString(s)
		return nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return fmt.Errorf("billing.FlexString: %w", err)
		}
		for _, key := range []string{"$oid", "$numberLong", "$numberInt"} {
			if raw, ok := wrapper[key]; ok {
				var inner FlexString
				if err := inner.UnmarshalJSON(raw); err != nil {
					return err
				}
				*f = inner
				return nil
			}
		}
		*f = ""
		return nil
	default:
		*f = FlexString(bytes.TrimSpace(data))
		return nil
	}
}

func (f FlexString) String() string { return string(f) }

func parseInt64(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// Some payloads stringify doubles ("11000.0").
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(v)
	}
	return 0
}
