package orders

import (
	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

// DeriveFoodCategory summarizes an item list for redistribution targeting.
// Items that carry no dietary signal at all are ignored; when nothing on the
// order says either way, the order counts as mixed.
func DeriveFoodCategory(items types.OrderItems) enums.FoodCategory {
	sawVeg := false
	sawNonVeg := false
	for _, item := range items {
		veg, known := item.VegFlag()
		if !known {
			continue
		}
		if veg {
			sawVeg = true
		} else {
			sawNonVeg = true
		}
	}

	switch {
	case sawVeg && !sawNonVeg:
		return enums.FoodCategoryVeg
	case sawNonVeg && !sawVeg:
		return enums.FoodCategoryNonVeg
	default:
		return enums.FoodCategoryMixed
	}
}
