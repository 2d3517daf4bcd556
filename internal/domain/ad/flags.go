package ad

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Truthy normalizes the legacy encodings of is_active. Only boolean true,
// integer 1 and the string "true" count as active.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t == "true"
	case []byte:
		return string(t) == "true"
	case ActiveFlag:
		return t.Bool()
	case *ActiveFlag:
		return t != nil && t.Bool()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 1
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 1
	}
	return false
}

// ActiveFlag is the is_active column. It keeps whatever representation the
// row holds and is always written back as a boolean.
type ActiveFlag struct {
	raw any
}

func NewActiveFlag(active bool) ActiveFlag {
	return ActiveFlag{raw: active}
}

func (f ActiveFlag) Bool() bool {
	return Truthy(f.raw)
}

// Raw returns the value as it was read from storage.
func (f ActiveFlag) Raw() any {
	return f.raw
}

func (f *ActiveFlag) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	f.raw = src
	return nil
}

func (f ActiveFlag) Value() (driver.Value, error) {
	return f.Bool(), nil
}

func (ActiveFlag) GormDataType() string {
	return "bool"
}

func (f ActiveFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Bool())
}

func (f *ActiveFlag) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	// JSON numbers decode as float64; Truthy handles them.
	f.raw = v
	return nil
}

// Timestamp is a created_at value that tolerates unparseable storage values.
// Invalid timestamps are reported through Valid instead of failing the scan.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Valid: !t.IsZero()}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses the textual forms Postgres, SQLite and JSON clients produce.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
	case time.Time:
		*t = NewTimestamp(v)
	case string:
		parsed, ok := ParseTimestamp(v)
		*t = Timestamp{Time: parsed, Valid: ok}
	case []byte:
		parsed, ok := ParseTimestamp(string(v))
		*t = Timestamp{Time: parsed, Valid: ok}
	case int64:
		*t = NewTimestamp(time.Unix(v, 0).UTC())
	default:
		*t = Timestamp{}
	}
	return nil
}

func (t Timestamp) Value() (driver.Value, error) {
	if !t.Valid {
		return nil, nil
	}
	return t.Time, nil
}

func (Timestamp) GormDataType() string {
	return "time"
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	parsed, ok := ParseTimestamp(s)
	*t = Timestamp{Time: parsed, Valid: ok}
	return nil
}
