package enums

import "fmt"

// FoodCategory tags a pantry item by the role it plays in a meal.
type FoodCategory string

const (
	FoodCategoryBase    FoodCategory = "base"
	FoodCategoryTopping FoodCategory = "topping"
	FoodCategorySnack   FoodCategory = "snack"
)

var validFoodCategories = []FoodCategory{
	FoodCategoryBase,
	FoodCategoryTopping,
	FoodCategorySnack,
}

// String implements fmt.Stringer.
func (c FoodCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known FoodCategory.
func (c FoodCategory) IsValid() bool {
	for _, candidate := range validFoodCategories {
		if candidate == c {
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
