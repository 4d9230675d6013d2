package redistribution

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

// sweetCategoryKeywords marks an item as dessert by its menu category.
// Includes the common "desert" misspelling seen in stored categories.
var sweetCategoryKeywords = []string{
	"cake",
	"dessert",
	"desert",
	"sweet",
}

// sweetNameKeywords is the fallback when the category is missing or does not
// identify the item.
var sweetNameKeywords = []string{
	"cake",
	"dessert",
	"desert",
	"sweets",
	"ice cream",
	"ice-cream",
	"gelato",
	"baklava",
	"tiramisu",
	"pastry",
	"pudding",
}

// UserPrefs is the slice of a user profile that offer targeting consults.
type UserPrefs struct {
	DietPreference  enums.DietPreference
	SugarPreference enums.SugarPreference
}

// ContainsSweets reports whether any item is a dessert. The item's category
// is checked first; the name substring match is the fallback for items whose
// category is missing or inconsistent.
func ContainsSweets(items types.OrderItems) bool {
	for _, item := range items {
		category := strings.ToLower(item.Category)
		for _, keyword := range sweetCategoryKeywords {
			if strings.Contains(category, keyword) {
				return true
			}
		}
		name := strings.ToLower(item.Name)
		for _, keyword := range sweetNameKeywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}

// offerProfile derives the targeting flags for an event. The order's food
// category wins; only when it is absent do the item flags decide. A dessert
// order is always treated as vegetarian.
func offerProfile(event Event) (vegOnly, hasSweets bool) {
	hasSweets = ContainsSweets(event.Items)

	switch event.FoodCategory {
	case enums.FoodCategoryVeg:
		vegOnly = true
	case enums.FoodCategoryNonVeg, enums.FoodCategoryMixed:
		vegOnly = false
	default:
		vegOnly = allItemsVeg(event.Items)
	}

	if hasSweets && !vegOnly {
		vegOnly = true
	}
	return vegOnly, hasSweets
}

// allItemsVeg reports whether no item is known non-veg. Items that say
// nothing either way count as veg, so an empty or unflagged list defaults to
// vegetarian-compatible.
func allItemsVeg(items types.OrderItems) bool {
	for _, item := range items {
		if veg, known := item.VegFlag(); known && !veg {
			return false
		}
	}
	return true
}

// EligibleRecipients filters the connected users down to those who may be
// offered the event, preserving connection order. The cancelling user is
// never offered their own order; users with unknown preferences are assumed
// to take anything.
func EligibleRecipients(event Event, connected []uuid.UUID, prefs map[uuid.UUID]UserPrefs) []uuid.UUID {
	vegOnly, hasSweets := offerProfile(event)

	out := make([]uuid.UUID, 0, len(connected))
	for _, userID := range connected {
		if userID == event.CancelledBy {
			continue
		}
		p, known := prefs[userID]
		if !known {
			out = append(out, userID)
			continue
		}
		if !vegOnly && p.DietPreference == enums.DietPreferenceVegOnly {
			continue
		}
		if hasSweets && p.SugarPreference.RefusesSweets() {
			continue
		}
		out = append(out, userID)
	}
	return out
}
