package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/model"
)

// Pure goal arithmetic.  Everything here is deterministic; the only
// external input is "today", passed in so the service's injected
// clock reaches the age calculation.

// activityMultipliers scale BMR into TDEE.
var activityMultipliers = map[model.ActivityLevel]decimal.Decimal{
	model.ActivitySedentary:  decimal.NewFromFloat(1.2),
	model.ActivityLight:      decimal.NewFromFloat(1.375),
	model.ActivityModerate:   decimal.NewFromFloat(1.55),
	model.ActivityActive:     decimal.NewFromFloat(1.725),
	model.ActivityVeryActive: decimal.NewFromFloat(1.9),
}

// paceAdjustments are the daily deficit (lose) or surplus (gain) in
// kcal per weight change pace.
var paceAdjustments = map[model.WeightChangePace]int{
	model.PaceSlow:       250, // ~0.25 kg/week
	model.PaceModerate:   500, // ~0.5 kg/week
	model.PaceAggressive: 750, // ~0.75 kg/week
}

// defaultMacros are the macro percentage splits per goal direction.
var defaultMacros = map[model.WeightGoalType]macroSplit{
	model.WeightGoalLose:     {Protein: 30, Carbs: 35, Fat: 35},
	model.WeightGoalMaintain: {Protein: 25, Carbs: 45, Fat: 30},
	model.WeightGoalGain:     {Protein: 30, Carbs: 45, Fat: 25},
}

type macroSplit struct {
	Protein, Carbs, Fat int
}

// minCalories is the floor applied to lose-weight targets.
const minCalories = 1200

// mlPerKG is the recommended daily water intake per kg of body
// weight (middle of the common 30-35 guideline).
const mlPerKG = 33

// ageYears computes completed years between birth and today.
func ageYears(birth model.Day, today time.Time) int {
	b := birth.Time()
	t := today.UTC()
	age := t.Year() - b.Year()
	if t.Month() < b.Month() || (t.Month() == b.Month() && t.Day() < b.Day()) {
		age--
	}
	return age
}

// calcBMR applies the Mifflin-St Jeor equation:
// 10*weight + 6.25*height - 5*age, +5 for male, -161 for female.
func calcBMR(gender model.Gender, weightKG, heightCM decimal.Decimal, age int) int {
	base := weightKG.Mul(decimal.NewFromInt(10)).
		Add(heightCM.Mul(decimal.NewFromFloat(6.25))).
		Sub(decimal.NewFromInt(int64(5 * age)))
	if gender == model.GenderMale {
		base = base.Add(decimal.NewFromInt(5))
	} else {
		base = base.Sub(decimal.NewFromInt(161))
	}
	return int(base.IntPart())
}

// calcTDEE scales BMR by the activity multiplier.
func calcTDEE(bmr int, level model.ActivityLevel) int {
	return int(decimal.NewFromInt(int64(bmr)).Mul(activityMultipliers[level]).IntPart())
}

// targetCalories applies the pace deficit or surplus to TDEE.  Lose
// targets never drop below minCalories; a nil pace means moderate.
func targetCalories(tdee int, goal model.WeightGoalType, pace *model.WeightChangePace) int {
	if goal == model.WeightGoalMaintain {
		return tdee
	}
	p := model.PaceModerate
	if pace != nil {
		p = *pace
	}
	adj := paceAdjustments[p]
	if goal == model.WeightGoalLose {
		if c := tdee - adj; c > minCalories {
			return c
		}
		return minCalories
	}
	return tdee + adj
}

// macroGrams converts a calorie budget and percentage split into
// grams at 4/4/9 kcal per gram.
func macroGrams(calories, proteinPct, carbsPct, fatPct int) (protein, carbs, fat int) {
	protein = calories * proteinPct / 100 / 4
	carbs = calories * carbsPct / 100 / 4
	fat = calories * fatPct / 100 / 9
	return
}

// waterML recommends daily water intake from body weight.
func waterML(weightKG decimal.Decimal) int {
	return int(weightKG.Mul(decimal.NewFromInt(mlPerKG)).IntPart())
}

// healthyWeightRange returns the kg range spanning BMI 18.5 to 24.9
// for the height, rounded to one decimal.
func healthyWeightRange(heightCM decimal.Decimal) (minKG, maxKG decimal.Decimal) {
	heightM := heightCM.Div(decimal.NewFromInt(100))
	sq := heightM.Mul(heightM)
	minKG = decimal.NewFromFloat(18.5).Mul(sq).Round(1)
	maxKG = decimal.NewFromFloat(24.9).Mul(sq).Round(1)
	return
}

// calcBMI returns the rounded BMI and its WHO category.
func calcBMI(weightKG, heightCM decimal.Decimal) (decimal.Decimal, string) {
	heightM := heightCM.Div(decimal.NewFromInt(100))
	bmi := weightKG.Div(heightM.Mul(heightM)).Round(1)
	switch {
	case bmi.LessThan(decimal.NewFromFloat(18.5)):
		return bmi, "underweight"
	case bmi.LessThan(decimal.NewFromInt(25)):
		return bmi, "normal"
	case bmi.LessThan(decimal.NewFromInt(30)):
		return bmi, "overweight"
	default:
		return bmi, "obese"
	}
}
