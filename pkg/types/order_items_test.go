package types

import "testing"

func boolPtr(v bool) *bool { return &v }

func TestOrderItemVegFlagPriority(t *testing.T) {
	tests := []struct {
		name  string
		item  OrderItem
		veg   bool
		known bool
	}{
		{name: "isVeg wins over category", item: OrderItem{IsVeg: boolPtr(false), Category: "veg"}, veg: false, known: true},
		{name: "veg used when isVeg absent", item: OrderItem{Veg: boolPtr(true), Category: "non-veg"}, veg: true, known: true},
		{name: "isVegetarian last boolean", item: OrderItem{IsVegetarian: boolPtr(true)}, veg: true, known: true},
		{name: "category non-veg", item: OrderItem{Category: "Non-Veg"}, veg: false, known: true},
		{name: "category non veg with space", item: OrderItem{Category: "non veg"}, veg: false, known: true},
		{name: "category veg", item: OrderItem{Category: "veg"}, veg: true, known: true},
		{name: "category vegetarian", item: OrderItem{Category: "vegetarian"}, veg: true, known: true},
		{name: "unrelated category", item: OrderItem{Category: "beverages"}, known: false},
		{name: "nothing set", item: OrderItem{}, known: false},
	}
	for _, tt := range tests {
		veg, known := tt.item.VegFlag()
		if known != tt.known || (known && veg != tt.veg) {
			t.Fatalf("%s: VegFlag() = (%v, %v), want (%v, %v)", tt.name, veg, known, tt.veg, tt.known)
		}
	}
}

func TestOrderItemCount(t *testing.T) {
	if got := (OrderItem{Quantity: 3, Qty: 7}).Count(); got != 3 {
		t.Fatalf("quantity should win, got %d", got)
	}
	if got := (OrderItem{Qty: 7}).Count(); got != 7 {
		t.Fatalf("qty fallback, got %d", got)
	}
	if got := (OrderItem{}).Count(); got != 1 {
		t.Fatalf("default quantity should be 1, got %d", got)
	}
}

func TestOrderItemsRoundTrip(t *testing.T) {
	items := OrderItems{{Name: "Paneer Wrap", Price: 250, Quantity: 2, IsVeg: boolPtr(true)}}

	value, err := items.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var decoded OrderItems
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Name != "Paneer Wrap" || decoded[0].Price != 250 {
		t.Fatalf("round trip lost data: %+v", decoded)
	}
	if decoded[0].IsVeg == nil || !*decoded[0].IsVeg {
		t.Fatalf("isVeg flag lost: %+v", decoded[0])
	}
}

func TestAddressDisplayName(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want string
	}{
		{name: "first and last", addr: Address{FirstName: "Asha", LastName: "Rao", Name: "ignored", FullName: "ignored"}, want: "Asha Rao"},
		{name: "first only", addr: Address{FirstName: " Asha "}, want: "Asha"},
		{name: "name fallback", addr: Address{Name: "Asha R", FullName: "ignored"}, want: "Asha R"},
		{name: "fullName fallback", addr: Address{FullName: "Asha Rao"}, want: "Asha Rao"},
		{name: "nothing", addr: Address{}, want: ""},
	}
	for _, tt := range tests {
		if got := tt.addr.DisplayName(); got != tt.want {
			t.Fatalf("%s: DisplayName() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
