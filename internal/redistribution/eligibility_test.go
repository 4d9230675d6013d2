package redistribution

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mealbridge/mealbridge-backend/pkg/enums"
	"github.com/mealbridge/mealbridge-backend/pkg/types"
)

func TestContainsSweets(t *testing.T) {
	assert.True(t, ContainsSweets(types.OrderItems{{Name: "Chocolate Cake"}}))
	assert.True(t, ContainsSweets(types.OrderItems{{Name: "Mango ICE CREAM"}}))
	assert.True(t, ContainsSweets(types.OrderItems{{Name: "desert platter"}}), "misspelling should still match")
	assert.False(t, ContainsSweets(types.OrderItems{{Name: "Paneer Tikka"}, {Name: "Naan"}}))
	assert.False(t, ContainsSweets(nil))
}

func TestContainsSweetsChecksCategoryFirst(t *testing.T) {
	// The category identifies desserts whose names give nothing away.
	assert.True(t, ContainsSweets(types.OrderItems{{Name: "Black Forest Special", Category: "Cake"}}))
	assert.True(t, ContainsSweets(types.OrderItems{{Name: "Rasmalai", Category: "Deserts"}}), "misspelled category tab should still match")
	assert.False(t, ContainsSweets(types.OrderItems{{Name: "Veg Thali", Category: "Mains"}}))
}

func TestEligibleRecipientsExcludesCanceller(t *testing.T) {
	canceller := uuid.New()
	other := uuid.New()
	event := Event{
		CancelledBy:  canceller,
		FoodCategory: enums.FoodCategoryVeg,
		Items:        types.OrderItems{{Name: "Dal"}},
	}

	got := EligibleRecipients(event, []uuid.UUID{canceller, other}, nil)
	assert.Equal(t, []uuid.UUID{other}, got)
}

func TestEligibleRecipientsVegOnlyUsersSkipNonVegOrders(t *testing.T) {
	vegFalse := false
	vegUser := uuid.New()
	anyUser := uuid.New()
	event := Event{
		CancelledBy:  uuid.New(),
		FoodCategory: enums.FoodCategoryNonVeg,
		Items:        types.OrderItems{{Name: "Chicken Curry", IsVeg: &vegFalse}},
	}
	prefs := map[uuid.UUID]UserPrefs{
		vegUser: {DietPreference: enums.DietPreferenceVegOnly, SugarPreference: enums.SugarPreferenceAny},
		anyUser: {DietPreference: enums.DietPreferenceAny, SugarPreference: enums.SugarPreferenceAny},
	}

	got := EligibleRecipients(event, []uuid.UUID{vegUser, anyUser}, prefs)
	assert.Equal(t, []uuid.UUID{anyUser}, got)
}

func TestEligibleRecipientsNoSweetsUsersSkipDessertOrders(t *testing.T) {
	noSweets := uuid.New()
	anyUser := uuid.New()
	event := Event{
		CancelledBy:  uuid.New(),
		FoodCategory: enums.FoodCategoryVeg,
		Items:        types.OrderItems{{Name: "Carrot Cake"}},
	}
	prefs := map[uuid.UUID]UserPrefs{
		noSweets: {DietPreference: enums.DietPreferenceAny, SugarPreference: enums.SugarPreferenceNoSweets},
		anyUser:  {DietPreference: enums.DietPreferenceAny, SugarPreference: enums.SugarPreferenceAny},
	}

	got := EligibleRecipients(event, []uuid.UUID{noSweets, anyUser}, prefs)
	assert.Equal(t, []uuid.UUID{anyUser}, got)
}

func TestDessertOrdersCountAsVegetarian(t *testing.T) {
	// A cake order with no category set must still reach veg-only users.
	vegUser := uuid.New()
	event := Event{
		CancelledBy: uuid.New(),
		Items:       types.OrderItems{{Name: "Tiramisu"}},
	}
	prefs := map[uuid.UUID]UserPrefs{
		vegUser: {DietPreference: enums.DietPreferenceVegOnly, SugarPreference: enums.SugarPreferenceAny},
	}

	got := EligibleRecipients(event, []uuid.UUID{vegUser}, prefs)
	assert.Equal(t, []uuid.UUID{vegUser}, got)
}

func TestSweetCategoryExcludesNoSweetsUsers(t *testing.T) {
	noSweets := uuid.New()
	event := Event{
		CancelledBy: uuid.New(),
		Items:       types.OrderItems{{Name: "Black Forest Special", Category: "Cake"}},
	}
	prefs := map[uuid.UUID]UserPrefs{
		noSweets: {DietPreference: enums.DietPreferenceAny, SugarPreference: enums.SugarPreferenceNoSweets},
	}

	got := EligibleRecipients(event, []uuid.UUID{noSweets}, prefs)
	assert.Empty(t, got, "a no-sweets user must never be offered a dessert-category order")
}

func TestUnflaggedItemsDefaultToVegetarian(t *testing.T) {
	// Items that say nothing about diet must still reach veg-only users.
	vegUser := uuid.New()
	event := Event{
		CancelledBy: uuid.New(),
		Items:       types.OrderItems{{Name: "Thali"}},
	}
	prefs := map[uuid.UUID]UserPrefs{
		vegUser: {DietPreference: enums.DietPreferenceVegOnly, SugarPreference: enums.SugarPreferenceAny},
	}

	got := EligibleRecipients(event, []uuid.UUID{vegUser}, prefs)
	assert.Equal(t, []uuid.UUID{vegUser}, got)
	assert.True(t, allItemsVeg(nil), "an empty item list defaults to veg")
}

func TestEligibleRecipientsUnknownPrefsIncluded(t *testing.T) {
	stranger := uuid.New()
	event := Event{
		CancelledBy:  uuid.New(),
		FoodCategory: enums.FoodCategoryNonVeg,
		Items:        types.OrderItems{{Name: "Fish Fry"}},
	}

	got := EligibleRecipients(event, []uuid.UUID{stranger}, map[uuid.UUID]UserPrefs{})
	assert.Equal(t, []uuid.UUID{stranger}, got)
}

func TestEligibleRecipientsPreservesConnectionOrder(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()
	event := Event{
		CancelledBy:  uuid.New(),
		FoodCategory: enums.FoodCategoryVeg,
		Items:        types.OrderItems{{Name: "Dal"}},
	}

	got := EligibleRecipients(event, []uuid.UUID{first, second, third}, nil)
	assert.Equal(t, []uuid.UUID{first, second, third}, got)
}

func TestOfferProfileCategoryWinsOverItems(t *testing.T) {
	vegTrue := true
	// Items look veg but the category says mixed: category wins.
	event := Event{
		FoodCategory: enums.FoodCategoryMixed,
		Items:        types.OrderItems{{Name: "Dal", IsVeg: &vegTrue}},
	}
	vegOnly, hasSweets := offerProfile(event)
	assert.False(t, vegOnly)
	assert.False(t, hasSweets)
}

func TestOfferProfileItemFallback(t *testing.T) {
	vegTrue := true
	event := Event{
		Items: types.OrderItems{{Name: "Dal", IsVeg: &vegTrue}, {Name: "Rice", Category: "veg"}},
	}
	vegOnly, _ := offerProfile(event)
	assert.True(t, vegOnly)
}
