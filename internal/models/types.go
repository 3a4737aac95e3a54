package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONStringArray stores an ordered list of strings as a JSON document column.
type JSONStringArray []string

// Value implements the driver.Valuer interface
func (a JSONStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONStringArray{}
		return nil
	}
	return scanJSON(value, a)
}

// Conditions stores the health conditions of a diary entry as a JSON document column.
type Conditions []HealthCondition

// Value implements the driver.Valuer interface
func (c Conditions) Value() (driver.Value, error) {
	if len(c) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]HealthCondition(c))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (c *Conditions) Scan(value interface{}) error {
	if value == nil {
		*c = Conditions{}
		return nil
	}
	return scanJSON(value, c)
}

func scanJSON(value interface{}, dst interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported column type %T", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dst)
}
