package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShelterSnapshot captures the shelter an order was handed to, denormalized
// onto the order so history survives shelter edits.
type ShelterSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Value implements driver.Valuer, encoding the snapshot as JSON.
func (s ShelterSnapshot) Value() (driver.Value, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("shelter snapshot: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb shelter column.
func (s *ShelterSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ShelterSnapshot{}
		return nil
	}
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("shelter snapshot: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*s = ShelterSnapshot{}
		return nil
	}
	return json.Unmarshal(raw, s)
}
