package enums

import (
	"fmt"
	"strings"
)

// SugarPreference is a user's standing stance on dessert items, consulted
// when deciding who may receive a redistribution offer.
type SugarPreference string

const (
	SugarPreferenceAny      SugarPreference = "any"
	SugarPreferenceNoSweets SugarPreference = "no-sweets"
)

var validSugarPreferences = []SugarPreference{
	SugarPreferenceAny,
	SugarPreferenceNoSweets,
}

// String implements fmt.Stringer.
func (s SugarPreference) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SugarPreference.
func (s SugarPreference) IsValid() bool {
	for _, candidate := range validSugarPreferences {
		if candidate == s {
			return true
		}
	}
	return false
}

// RefusesSweets reports whether the preference rules out dessert items.
// Historical records stored free-form variants like "no sweets" and
// "no-sweet", so any value containing both "no" and "sweet" counts.
func (s SugarPreference) RefusesSweets() bool {
	folded := strings.ToLower(string(s))
	return strings.Contains(folded, "no") && strings.Contains(folded, "sweet")
}

// ParseSugarPreference converts raw input into a SugarPreference.
func ParseSugarPreference(value string) (SugarPreference, error) {
	for _, candidate := range validSugarPreferences {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sugar preference %q", value)
}
