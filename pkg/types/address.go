package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is the delivery address snapshot taken when an order is placed,
// stored as JSON. Older records carry the recipient name under different
// keys, so display resolution has a fixed priority.
type Address struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Name      string `json:"name,omitempty"`
	FullName  string `json:"fullName,omitempty"`

	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// DisplayName resolves the recipient's name: firstName/lastName first, then
// name, then fullName, then empty.
func (a Address) DisplayName() string {
	first := strings.TrimSpace(a.FirstName)
	last := strings.TrimSpace(a.LastName)
	if first != "" || last != "" {
		return strings.TrimSpace(first + " " + last)
	}
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	if full := strings.TrimSpace(a.FullName); full != "" {
		return full
	}
	return ""
}

// Value implements driver.Valuer, encoding the address as JSON.
func (a Address) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb address column.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*a = Address{}
		return nil
	}
	return json.Unmarshal(raw, a)
}
