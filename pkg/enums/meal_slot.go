package enums

import "fmt"

// MealSlot is the unit of meal planning within a day.
type MealSlot string

const (
	MealSlotMorning MealSlot = "morning"
	MealSlotLunch   MealSlot = "lunch"
	MealSlotDinner  MealSlot = "dinner"
)

var validMealSlots = []MealSlot{
	MealSlotMorning,
	MealSlotLunch,
	MealSlotDinner,
}

// String implements fmt.Stringer.
func (s MealSlot) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MealSlot.
func (s MealSlot) IsValid() bool {
	for _, candidate := range validMealSlots {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseMealSlot converts raw input into a MealSlot.
func ParseMealSlot(value string) (MealSlot, error) {
	for _, candidate := range validMealSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meal slot %q", value)
}
