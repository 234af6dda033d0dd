package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DetailsJSON is an opaque JSON document stored in a JSONB column.
type DetailsJSON json.RawMessage

func (d DetailsJSON) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	if !json.Valid(d) {
		return nil, fmt.Errorf("invalid JSON document")
	}
	return string(d), nil
}

func (d *DetailsJSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[:0], v...)
	case string:
		*d = DetailsJSON(v)
	default:
		return fmt.Errorf("expected []byte, got %T", value)
	}
	return nil
}

func (d DetailsJSON) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *DetailsJSON) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}
	*d = append((*d)[:0], data...)
	return nil
}
