package enums

import "fmt"

// FoodCategory summarizes the dietary makeup of an order's items.
type FoodCategory string

const (
	FoodCategoryVeg    FoodCategory = "veg"
	FoodCategoryNonVeg FoodCategory = "nonveg"
	FoodCategoryMixed  FoodCategory = "mixed"
)

var validFoodCategories = []FoodCategory{
	FoodCategoryVeg,
	FoodCategoryNonVeg,
	FoodCategoryMixed,
}

// String implements fmt.Stringer.
func (f FoodCategory) String() string {
	return string(f)
}

// IsValid reports whether the value is a known FoodCategory.
func (f FoodCategory) IsValid() bool {
	for _, candidate := range validFoodCategories {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFoodCategory converts raw input into a FoodCategory.
func ParseFoodCategory(value string) (FoodCategory, error) {
	for _, candidate := range validFoodCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid food category %q", value)
}
