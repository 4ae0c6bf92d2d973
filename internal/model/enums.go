package model

// The enumerations below are closed value sets shared by the API and
// the database.  They are plain string types with parse helpers; no
// behavior hangs off them.

// Unit is a measurement unit for portion base amounts and diary
// entry amounts.
type Unit string

const (
	UnitMG   Unit = "mg"
	UnitG    Unit = "g"
	UnitKG   Unit = "kg"
	UnitML   Unit = "ml"
	UnitL    Unit = "l"
	UnitTSP  Unit = "tsp"
	UnitTBSP Unit = "tbsp"
	UnitCup  Unit = "cup"
)

// Valid reports whether u is one of the known units.
func (u Unit) Valid() bool {
	switch u {
	case UnitMG, UnitG, UnitKG, UnitML, UnitL, UnitTSP, UnitTBSP, UnitCup:
		return true
	}
	return false
}

// MealType tags a diary entry with the meal it belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnacks    MealType = "snacks"
	MealWater     MealType = "water"
)

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnacks, MealWater:
		return true
	}
	return false
}

// GoalType distinguishes calculated goals (derived from body
// metrics) from manual ones.
type GoalType string

const (
	GoalCalculated GoalType = "calculated"
	GoalManual     GoalType = "manual"
)

// Valid reports whether g is a known goal type.
func (g GoalType) Valid() bool { return g == GoalCalculated || g == GoalManual }

// Gender is used by the BMR formula only.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is a known gender value.
func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// ActivityLevel scales BMR into TDEE.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Valid reports whether a is a known activity level.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	}
	return false
}

// WeightGoalType is the direction of a weight goal.
type WeightGoalType string

const (
	WeightGoalLose     WeightGoalType = "lose"
	WeightGoalMaintain WeightGoalType = "maintain"
	WeightGoalGain     WeightGoalType = "gain"
)

// Valid reports whether w is a known weight goal type.
func (w WeightGoalType) Valid() bool {
	return w == WeightGoalLose || w == WeightGoalMaintain || w == WeightGoalGain
}

// WeightChangePace selects the calorie deficit or surplus applied to
// TDEE for lose/gain goals.
type WeightChangePace string

const (
	PaceSlow       WeightChangePace = "slow"
	PaceModerate   WeightChangePace = "moderate"
	PaceAggressive WeightChangePace = "aggressive"
)

// Valid reports whether p is a known pace.
func (p WeightChangePace) Valid() bool {
	return p == PaceSlow || p == PaceModerate || p == PaceAggressive
}
