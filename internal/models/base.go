// Package models holds shared column types used across feature packages.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDSlice is a JSONB column holding a list of user IDs.
type IDSlice []uint

func (s IDSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan unmarshals a JSONB column into the slice.
func (s *IDSlice) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("IDSlice: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, s)
}

// Contains reports whether id is present in the slice.
func (s IDSlice) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
