package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings persisted as JSON text.
// A nil list is stored as NULL, an empty list as "[]".
type StringList []string

// GormDataType keeps the column portable across postgres and sqlite.
func (StringList) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("string list: unsupported column type %T", src)
	}

	if len(raw) == 0 {
		*l = nil
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: decode %q: %w", raw, err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}
