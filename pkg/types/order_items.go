package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderItem is one line of an order, stored as JSON. Item payloads arrive
// from several frontend generations, so the dietary flag and the quantity
// live under more than one key.
type OrderItem struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity,omitempty"`
	Qty      int    `json:"qty,omitempty"`

	IsVeg        *bool `json:"isVeg,omitempty"`
	Veg          *bool `json:"veg,omitempty"`
	IsVegetarian *bool `json:"isVegetarian,omitempty"`

	Category string `json:"category,omitempty"`
}

// Count returns the effective quantity, preferring "quantity" over "qty" and
// defaulting to 1 when neither is set.
func (i OrderItem) Count() int {
	if i.Quantity > 0 {
		return i.Quantity
	}
	if i.Qty > 0 {
		return i.Qty
	}
	return 1
}

// VegFlag resolves the item's dietary flag. Boolean fields win over the
// category string; the first of isVeg, veg, isVegetarian that is present is
// authoritative. The second return is false when nothing on the item says
// either way.
func (i OrderItem) VegFlag() (isVeg, known bool) {
	for _, flag := range []*bool{i.IsVeg, i.Veg, i.IsVegetarian} {
		if flag != nil {
			return *flag, true
		}
	}

	category := strings.ToLower(strings.TrimSpace(i.Category))
	if category == "" {
		return false, false
	}
	if strings.Contains(category, "non") {
		return false, true
	}
	if strings.Contains(category, "veg") {
		return true, true
	}
	return false, false
}

// OrderItems is the jsonb items column of an order.
type OrderItems []OrderItem

// Value implements driver.Valuer, encoding the slice as JSON.
func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb items column.
func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("order items: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*o = OrderItems{}
		return nil
	}
	return json.Unmarshal(raw, o)
}

func toBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
