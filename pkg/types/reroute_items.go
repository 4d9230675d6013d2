package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RerouteItem is the normalized form an order line takes on a shelter
// assignment: name plus a single quantity field.
type RerouteItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price,omitempty"`
}

// RerouteItems is the jsonb items column of a reroute record.
type RerouteItems []RerouteItem

// Total sums price times quantity across the lines.
func (r RerouteItems) Total() int64 {
	var total int64
	for _, item := range r {
		total += item.Price * int64(item.Quantity)
	}
	return total
}

// NormalizeOrderItems flattens order lines into reroute items, collapsing
// the quantity/qty split.
func NormalizeOrderItems(items OrderItems) RerouteItems {
	out := make(RerouteItems, 0, len(items))
	for _, item := range items {
		out = append(out, RerouteItem{Name: item.Name, Quantity: item.Count(), Price: item.Price})
	}
	return out
}

// Value implements driver.Valuer, encoding the slice as JSON.
func (r RerouteItems) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("reroute items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb items column.
func (r *RerouteItems) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("reroute items: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*r = RerouteItems{}
		return nil
	}
	return json.Unmarshal(raw, r)
}
