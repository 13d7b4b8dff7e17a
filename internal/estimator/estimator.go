package estimator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hyejinmoon/babysteps-backend/pkg/enums"
	"github.com/hyejinmoon/babysteps-backend/pkg/types"
)

// InfiniteDaysLeft is the sentinel day count used when usage is declared but
// effectively zero, so the stock never runs out under the current rate.
const InfiniteDaysLeft = 999

// MealSnapshot is the slice of a meal record the estimator needs. Estimates
// are pure functions of snapshots plus a reference date; they never touch the
// store or the clock.
type MealSnapshot struct {
	Date     types.Date
	Slot     enums.MealSlot
	Eaten    bool
	Base     string
	Toppings []string
	Snack    []string
	Foods    []string
}

// references reports whether the snapshot mentions the food anywhere,
// including the flat food list written by the consumption-log flow. Matching
// is exact-string only.
func (m MealSnapshot) references(food string) bool {
	if m.Base == food {
		return true
	}
	return contains(m.Toppings, food) ||
		contains(m.Snack, food) ||
		contains(m.Foods, food)
}

// plannedUseOf reports whether the snapshot plans the food as base, topping,
// or snack.
func (m MealSnapshot) plannedUseOf(food string) bool {
	if m.Base == food {
		return true
	}
	return contains(m.Toppings, food) || contains(m.Snack, food)
}

func contains(values []string, needle string) bool {
	for _, v := range values {
		if v == needle {
			return true
		}
	}
	return false
}

// Estimate is the projection shown next to a pantry row.
type Estimate struct {
	HasEstimate bool
	DaysLeft    int
	Severity    enums.EstimateSeverity
	Display     string
}

// Estimator holds the windows and severity thresholds for projections.
type Estimator struct {
	HistoryDays     int
	PlanHorizonDays int
	CriticalDays    int
	WarningDays     int
}

// Default mirrors the app's historical behavior: a trailing week of history,
// a 30-day plan horizon, and severity cutoffs at 1 and 3 days.
func Default() Estimator {
	return Estimator{
		HistoryDays:     7,
		PlanHorizonDays: 30,
		CriticalDays:    1,
		WarningDays:     3,
	}
}

// UsageAverage projects exhaustion from the trailing usage history: the count
// of meals referencing the food over the history window (today inclusive,
// future excluded) becomes a daily average, and the stock is extrapolated
// linearly. Zero history yields a neutral no-estimate result, never an error.
func (e Estimator) UsageAverage(food string, quantity int, meals []MealSnapshot, today types.Date) Estimate {
	windowStart := today.AddDays(-(e.HistoryDays - 1))

	var used int
	for _, meal := range meals {
		if meal.Date.Before(windowStart) || meal.Date.After(today) {
			continue
		}
		if meal.references(food) {
			used++
		}
	}

	if used == 0 {
		return Estimate{
			Severity: enums.EstimateSeverityNormal,
			Display:  "사용 기록 없음",
		}
	}

	dailyAvg := float64(used) / float64(e.HistoryDays)
	if dailyAvg <= 0 {
		return e.classify(InfiniteDaysLeft)
	}
	return e.classify(int(float64(quantity) / dailyAvg))
}

// FixedRate projects exhaustion from a declared daily-use rate instead of
// history. A zero or negative rate maps to the no-estimate result.
func (e Estimator) FixedRate(quantity int, rate decimal.Decimal) Estimate {
	if rate.Sign() <= 0 {
		return Estimate{
			Severity: enums.EstimateSeverityNormal,
			Display:  "사용량 미설정",
		}
	}
	days := decimal.NewFromInt(int64(quantity)).Div(rate).IntPart()
	return e.classify(int(days))
}

func (e Estimator) classify(daysLeft int) Estimate {
	est := Estimate{
		HasEstimate: true,
		DaysLeft:    daysLeft,
	}
	switch {
	case daysLeft <= e.CriticalDays:
		est.Severity = enums.EstimateSeverityCritical
		est.Display = "오늘 소진"
	case daysLeft <= e.WarningDays:
		est.Severity = enums.EstimateSeverityWarning
		est.Display = fmt.Sprintf("약 %d일", daysLeft)
	default:
		est.Severity = enums.EstimateSeverityNormal
		est.Display = fmt.Sprintf("약 %d일", daysLeft)
	}
	return est
}

// LastPlannedUse scans meals planned within the horizon (today inclusive)
// that are not yet eaten, and returns the latest date on which the food
// appears as base, topping, or snack. The boolean is false when nothing in
// the plan references the food. No quantity arithmetic happens here: the
// answer is "stock is allocated through this date", not "stock hits zero".
func (e Estimator) LastPlannedUse(food string, meals []MealSnapshot, today types.Date) (types.Date, bool) {
	horizon := today.AddDays(e.PlanHorizonDays)

	var (
		latest types.Date
		found  bool
	)
	for _, meal := range meals {
		if meal.Eaten {
			continue
		}
		if meal.Date.Before(today) || meal.Date.After(horizon) {
			continue
		}
		if !meal.plannedUseOf(food) {
			continue
		}
		if !found || meal.Date.After(latest) {
			latest = meal.Date
			found = true
		}
	}
	return latest, found
}
