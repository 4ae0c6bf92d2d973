package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitValid(t *testing.T) {
	for _, u := range []Unit{UnitMG, UnitG, UnitKG, UnitML, UnitL, UnitTSP, UnitTBSP, UnitCup} {
		assert.True(t, u.Valid(), string(u))
	}
	assert.False(t, Unit("").Valid())
	assert.False(t, Unit("oz").Valid())
	assert.False(t, Unit("G").Valid(), "enum values are case sensitive")
}

func TestMealTypeValid(t *testing.T) {
	for _, m := range []MealType{MealBreakfast, MealLunch, MealDinner, MealSnacks, MealWater} {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, MealType("brunch").Valid())
}

func TestGoalEnumsValid(t *testing.T) {
	assert.True(t, GoalCalculated.Valid())
	assert.True(t, GoalManual.Valid())
	assert.False(t, GoalType("auto").Valid())

	assert.True(t, GenderMale.Valid())
	assert.True(t, GenderFemale.Valid())
	assert.False(t, Gender("other").Valid())

	for _, a := range []ActivityLevel{ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive} {
		assert.True(t, a.Valid(), string(a))
	}
	assert.False(t, ActivityLevel("extreme").Valid())

	for _, w := range []WeightGoalType{WeightGoalLose, WeightGoalMaintain, WeightGoalGain} {
		assert.True(t, w.Valid(), string(w))
	}
	assert.False(t, WeightGoalType("bulk").Valid())

	for _, p := range []WeightChangePace{PaceSlow, PaceModerate, PaceAggressive} {
		assert.True(t, p.Valid(), string(p))
	}
	assert.False(t, WeightChangePace("fast").Valid())
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, Day("2026-03-01"), d)
	assert.True(t, d.Valid())
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d.Time())

	for _, bad := range []string{"", "2026-3-1", "2026-13-01", "01-03-2026", "2026-02-30"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
		assert.False(t, Day(bad).Valid(), bad)
	}
}

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("east", 5*3600)
	at := time.Date(2026, 3, 1, 2, 30, 0, 0, loc) // 2026-02-28 21:30 UTC
	assert.Equal(t, Day("2026-02-28"), DayOf(at))
	assert.Equal(t, Day("2026-03-01"), DayOf(time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)))
}

func TestDayOrdering(t *testing.T) {
	// Lexicographic order doubles as chronological order.
	assert.True(t, Day("2026-02-28") < Day("2026-03-01"))
	assert.True(t, Day("2025-12-31") < Day("2026-01-01"))
}
