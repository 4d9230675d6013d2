package enums

import "fmt"

// RerouteStatus tracks a shelter assignment from creation to the shelter's
// decision.
type RerouteStatus string

const (
	RerouteStatusPending  RerouteStatus = "pending"
	RerouteStatusAccepted RerouteStatus = "accepted"
	RerouteStatusRejected RerouteStatus = "rejected"
)

var validRerouteStatuses = []RerouteStatus{
	RerouteStatusPending,
	RerouteStatusAccepted,
	RerouteStatusRejected,
}

// String implements fmt.Stringer.
func (r RerouteStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RerouteStatus.
func (r RerouteStatus) IsValid() bool {
	for _, candidate := range validRerouteStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRerouteStatus converts raw input into a RerouteStatus.
func ParseRerouteStatus(value string) (RerouteStatus, error) {
	for _, candidate := range validRerouteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reroute status %q", value)
}
