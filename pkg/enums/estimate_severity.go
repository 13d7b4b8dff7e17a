package enums

import "fmt"

// EstimateSeverity classifies an exhaustion projection for UI emphasis.
type EstimateSeverity string

const (
	EstimateSeverityNormal   EstimateSeverity = "normal"
	EstimateSeverityWarning  EstimateSeverity = "warning"
	EstimateSeverityCritical EstimateSeverity = "critical"
)

var validEstimateSeverities = []EstimateSeverity{
	EstimateSeverityNormal,
	EstimateSeverityWarning,
	EstimateSeverityCritical,
}

// String implements fmt.Stringer.
func (s EstimateSeverity) String() string {
	return string(s)
}

// IsValid reports whether the value is a known EstimateSeverity.
func (s EstimateSeverity) IsValid() bool {
	for _, candidate := range validEstimateSeverities {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseEstimateSeverity converts raw input into an EstimateSeverity.
func ParseEstimateSeverity(value string) (EstimateSeverity, error) {
	for _, candidate := range validEstimateSeverities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid estimate severity %q", value)
}
