package enums

import "fmt"

// DietPreference is a user's standing dietary restriction, consulted when
// deciding who may receive a redistribution offer.
type DietPreference string

const (
	DietPreferenceAny     DietPreference = "any"
	DietPreferenceVegOnly DietPreference = "veg-only"
)

var validDietPreferences = []DietPreference{
	DietPreferenceAny,
	DietPreferenceVegOnly,
}

// String implements fmt.Stringer.
func (d DietPreference) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DietPreference.
func (d DietPreference) IsValid() bool {
	for _, candidate := range validDietPreferences {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDietPreference converts raw input into a DietPreference.
func ParseDietPreference(value string) (DietPreference, error) {
	for _, candidate := range validDietPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid diet preference %q", value)
}
