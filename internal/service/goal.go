package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

// Goals manages nutrition targets.  At most one live goal exists per
// device: creating a goal of either kind tombstones the previous ones
// in the same transaction.
type Goals struct {
	store store.Store
	now   func() time.Time
}

// NewGoals builds the goal service.
func NewGoals(st store.Store) *Goals {
	return &Goals{store: st, now: time.Now}
}

// CreateCalculatedInput carries the body metrics driving a calculated
// goal.  Optional percentage overrides replace the per-goal-type
// defaults; an optional water override replaces the weight-derived
// recommendation.
type CreateCalculatedInput struct {
	Gender           model.Gender
	BirthDate        model.Day
	HeightCM         decimal.Decimal
	CurrentWeightKG  decimal.Decimal
	ActivityLevel    model.ActivityLevel
	WeightGoalType   model.WeightGoalType
	TargetWeightKG   decimal.NullDecimal
	WeightChangePace *model.WeightChangePace
	ProteinPercent   *int
	CarbsPercent     *int
	FatPercent       *int
	WaterML          *int
}

func (in *CreateCalculatedInput) validate(today time.Time) error {
	if !in.Gender.Valid() {
		return validationf("unknown gender %q", in.Gender)
	}
	if !in.BirthDate.Valid() {
		return validationf("invalid birth date %q", in.BirthDate)
	}
	if !in.BirthDate.Time().Before(today) {
		return validationf("birth date must be in the past")
	}
	if !in.HeightCM.IsPositive() {
		return validationf("height must be positive")
	}
	if !in.CurrentWeightKG.IsPositive() {
		return validationf("weight must be positive")
	}
	if !in.ActivityLevel.Valid() {
		return validationf("unknown activity level %q", in.ActivityLevel)
	}
	if !in.WeightGoalType.Valid() {
		return validationf("unknown weight goal type %q", in.WeightGoalType)
	}
	if in.WeightChangePace != nil && !in.WeightChangePace.Valid() {
		return validationf("unknown pace %q", *in.WeightChangePace)
	}
	if in.TargetWeightKG.Valid && !in.TargetWeightKG.Decimal.IsPositive() {
		return validationf("target weight must be positive")
	}
	return validateSplit(in.ProteinPercent, in.CarbsPercent, in.FatPercent)
}

// validateSplit accepts either no percentage overrides or all three
// summing to 100.
func validateSplit(protein, carbs, fat *int) error {
	set := 0
	for _, p := range []*int{protein, carbs, fat} {
		if p == nil {
			continue
		}
		set++
		if *p < 0 || *p > 100 {
			return validationf("macro percentage out of range")
		}
	}
	if set == 0 {
		return nil
	}
	if set != 3 {
		return validationf("macro percentages must be given together")
	}
	if *protein+*carbs+*fat != 100 {
		return validationf("macro percentages must sum to 100")
	}
	return nil
}

// CreateCalculated derives the full target set from body metrics:
// BMR, TDEE, pace-adjusted calories, macro grams, water, healthy
// weight range and BMI snapshot.
func (s *Goals) CreateCalculated(ctx context.Context, deviceID uuid.UUID, in CreateCalculatedInput) (*model.Goal, error) {
	now := s.now().UTC()
	if err := in.validate(now); err != nil {
		return nil, err
	}

	age := ageYears(in.BirthDate, now)
	bmr := calcBMR(in.Gender, in.CurrentWeightKG, in.HeightCM, age)
	tdee := calcTDEE(bmr, in.ActivityLevel)
	calories := targetCalories(tdee, in.WeightGoalType, in.WeightChangePace)

	split := defaultMacros[in.WeightGoalType]
	if in.ProteinPercent != nil {
		split = macroSplit{Protein: *in.ProteinPercent, Carbs: *in.CarbsPercent, Fat: *in.FatPercent}
	}
	proteinG, carbsG, fatG := macroGrams(calories, split.Protein, split.Carbs, split.Fat)

	water := waterML(in.CurrentWeightKG)
	if in.WaterML != nil {
		water = *in.WaterML
	}
	minKG, maxKG := healthyWeightRange(in.HeightCM)
	bmi, category := calcBMI(in.CurrentWeightKG, in.HeightCM)

	gender := in.Gender
	birth := in.BirthDate
	level := in.ActivityLevel
	goalType := in.WeightGoalType
	g := &model.Goal{
		ID:       uuid.New(),
		DeviceID: deviceID,
		GoalType: model.GoalCalculated,

		Gender:           &gender,
		BirthDate:        &birth,
		HeightCM:         decimal.NewNullDecimal(in.HeightCM),
		CurrentWeightKG:  decimal.NewNullDecimal(in.CurrentWeightKG),
		ActivityLevel:    &level,
		WeightGoalType:   &goalType,
		TargetWeightKG:   in.TargetWeightKG,
		WeightChangePace: in.WeightChangePace,

		BMRKcal:  &bmr,
		TDEEKcal: &tdee,

		DailyCaloriesKcal: calories,
		ProteinPercent:    split.Protein,
		CarbsPercent:      split.Carbs,
		FatPercent:        split.Fat,
		ProteinGrams:      proteinG,
		CarbsGrams:        carbsG,
		FatGrams:          fatG,
		WaterML:           &water,

		HealthyWeightMinKG: decimal.NewNullDecimal(minKG),
		HealthyWeightMaxKG: decimal.NewNullDecimal(maxKG),
		CurrentBMI:         decimal.NewNullDecimal(bmi),
		BMICategory:        &category,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.replaceCurrent(ctx, deviceID, g, now); err != nil {
		return nil, err
	}
	return g, nil
}

// CreateManualInput carries an explicit target set.
type CreateManualInput struct {
	DailyCaloriesKcal int
	ProteinPercent    int
	CarbsPercent      int
	FatPercent        int
	WaterML           *int
}

func (in *CreateManualInput) validate() error {
	if in.DailyCaloriesKcal <= 0 {
		return validationf("calories must be positive")
	}
	if in.WaterML != nil && *in.WaterML <= 0 {
		return validationf("water must be positive")
	}
	return validateSplit(&in.ProteinPercent, &in.CarbsPercent, &in.FatPercent)
}

// CreateManual stores explicit targets, deriving only the macro
// grams.
func (s *Goals) CreateManual(ctx context.Context, deviceID uuid.UUID, in CreateManualInput) (*model.Goal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	proteinG, carbsG, fatG := macroGrams(in.DailyCaloriesKcal, in.ProteinPercent, in.CarbsPercent, in.FatPercent)
	now := s.now().UTC()
	g := &model.Goal{
		ID:       uuid.New(),
		DeviceID: deviceID,
		GoalType: model.GoalManual,

		DailyCaloriesKcal: in.DailyCaloriesKcal,
		ProteinPercent:    in.ProteinPercent,
		CarbsPercent:      in.CarbsPercent,
		FatPercent:        in.FatPercent,
		ProteinGrams:      proteinG,
		CarbsGrams:        carbsG,
		FatGrams:          fatG,
		WaterML:           in.WaterML,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.replaceCurrent(ctx, deviceID, g, now); err != nil {
		return nil, err
	}
	return g, nil
}

// replaceCurrent tombstones the previous goals and inserts the new
// one in a single transaction.
func (s *Goals) replaceCurrent(ctx context.Context, deviceID uuid.UUID, g *model.Goal, now time.Time) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.SoftDeleteGoals(ctx, deviceID, now); err != nil {
		return err
	}
	if err := tx.InsertGoal(ctx, g); err != nil {
		return err
	}
	return tx.Commit()
}

// Current returns the device's live goal.
func (s *Goals) Current(ctx context.Context, deviceID uuid.UUID) (*model.Goal, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := tx.CurrentGoal(ctx, deviceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, tx.Commit()
}

// Update adjusts the daily targets of the current goal and recomputes
// macro grams from the patched values.
func (s *Goals) Update(ctx context.Context, deviceID, goalID uuid.UUID, patch model.GoalPatch) (*model.Goal, error) {
	if patch.DailyCaloriesKcal != nil && *patch.DailyCaloriesKcal <= 0 {
		return nil, validationf("calories must be positive")
	}
	if patch.WaterML != nil && *patch.WaterML <= 0 {
		return nil, validationf("water must be positive")
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	g, err := tx.GetGoal(ctx, deviceID, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if patch.DailyCaloriesKcal != nil {
		g.DailyCaloriesKcal = *patch.DailyCaloriesKcal
	}
	if patch.ProteinPercent != nil {
		g.ProteinPercent = *patch.ProteinPercent
	}
	if patch.CarbsPercent != nil {
		g.CarbsPercent = *patch.CarbsPercent
	}
	if patch.FatPercent != nil {
		g.FatPercent = *patch.FatPercent
	}
	if err := validateSplit(&g.ProteinPercent, &g.CarbsPercent, &g.FatPercent); err != nil {
		return nil, err
	}
	if patch.WaterML != nil {
		g.WaterML = patch.WaterML
	}
	g.ProteinGrams, g.CarbsGrams, g.FatGrams = macroGrams(g.DailyCaloriesKcal, g.ProteinPercent, g.CarbsPercent, g.FatPercent)
	g.UpdatedAt = s.now().UTC()
	if err := tx.UpdateGoal(ctx, g); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return g, nil
}

// SoftDelete tombstones a goal, leaving the device with none.
func (s *Goals) SoftDelete(ctx context.Context, deviceID, goalID uuid.UUID) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	g, err := tx.GetGoal(ctx, deviceID, goalID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	now := s.now().UTC()
	g.DeletedAt = &now
	g.UpdatedAt = now
	if err := tx.UpdateGoal(ctx, g); err != nil {
		return err
	}
	return tx.Commit()
}
