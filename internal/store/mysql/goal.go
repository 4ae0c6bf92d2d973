package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Konstantin212/countOnMe/internal/model"
	"github.com/Konstantin212/countOnMe/internal/store"
)

const goalColumns = `id, device_id, goal_type,
	gender, birth_date, height_cm, current_weight_kg, activity_level,
	weight_goal_type, target_weight_kg, weight_change_pace,
	bmr_kcal, tdee_kcal,
	daily_calories_kcal, protein_percent, carbs_percent, fat_percent,
	protein_grams, carbs_grams, fat_grams, water_ml,
	healthy_weight_min_kg, healthy_weight_max_kg, current_bmi, bmi_category,
	created_at, updated_at, deleted_at`

func scanGoal(row rowScanner) (*model.Goal, error) {
	var (
		g                                model.Goal
		idRaw, devRaw, typeRaw           string
		gender, activity, goalKind, pace sql.NullString
		birthDate                        sql.NullTime
		bmr, tdee, water                 sql.NullInt64
		bmiCategory                      sql.NullString
		deletedAt                        sql.NullTime
	)
	if err := row.Scan(
		&idRaw, &devRaw, &typeRaw,
		&gender, &birthDate, &g.HeightCM, &g.CurrentWeightKG, &activity,
		&goalKind, &g.TargetWeightKG, &pace,
		&bmr, &tdee,
		&g.DailyCaloriesKcal, &g.ProteinPercent, &g.CarbsPercent, &g.FatPercent,
		&g.ProteinGrams, &g.CarbsGrams, &g.FatGrams, &water,
		&g.HealthyWeightMinKG, &g.HealthyWeightMaxKG, &g.CurrentBMI, &bmiCategory,
		&g.CreatedAt, &g.UpdatedAt, &deletedAt,
	); err != nil {
		return nil, noRows(err)
	}
	var err error
	if g.ID, err = uuid.Parse(idRaw); err != nil {
		return nil, err
	}
	if g.DeviceID, err = uuid.Parse(devRaw); err != nil {
		return nil, err
	}
	g.GoalType = model.GoalType(typeRaw)
	if gender.Valid {
		v := model.Gender(gender.String)
		g.Gender = &v
	}
	if birthDate.Valid {
		v := model.DayOf(birthDate.Time)
		g.BirthDate = &v
	}
	if activity.Valid {
		v := model.ActivityLevel(activity.String)
		g.ActivityLevel = &v
	}
	if goalKind.Valid {
		v := model.WeightGoalType(goalKind.String)
		g.WeightGoalType = &v
	}
	if pace.Valid {
		v := model.WeightChangePace(pace.String)
		g.WeightChangePace = &v
	}
	if bmr.Valid {
		v := int(bmr.Int64)
		g.BMRKcal = &v
	}
	if tdee.Valid {
		v := int(tdee.Int64)
		g.TDEEKcal = &v
	}
	if water.Valid {
		v := int(water.Int64)
		g.WaterML = &v
	}
	if bmiCategory.Valid {
		v := bmiCategory.String
		g.BMICategory = &v
	}
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	g.DeletedAt = nullTime(deletedAt)
	return &g, nil
}

func strArg[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func intArg(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func dayArg(v *model.Day) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

// InsertGoal creates a goal row.
func (t *Tx) InsertGoal(ctx context.Context, g *model.Goal) error {
	const q = `INSERT INTO user_goals (` + goalColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := t.tx.ExecContext(ctx, q,
		g.ID.String(), g.DeviceID.String(), string(g.GoalType),
		strArg(g.Gender), dayArg(g.BirthDate), g.HeightCM, g.CurrentWeightKG, strArg(g.ActivityLevel),
		strArg(g.WeightGoalType), g.TargetWeightKG, strArg(g.WeightChangePace),
		intArg(g.BMRKcal), intArg(g.TDEEKcal),
		g.DailyCaloriesKcal, g.ProteinPercent, g.CarbsPercent, g.FatPercent,
		g.ProteinGrams, g.CarbsGrams, g.FatGrams, intArg(g.WaterML),
		g.HealthyWeightMinKG, g.HealthyWeightMaxKG, g.CurrentBMI, g.BMICategory,
		g.CreatedAt.UTC(), g.UpdatedAt.UTC(), timeArg(g.DeletedAt))
	if isDuplicateEntry(err) {
		return store.ErrDuplicate
	}
	return err
}

// GetGoal loads a live goal owned by the device.
func (t *Tx) GetGoal(ctx context.Context, deviceID, goalID uuid.UUID) (*model.Goal, error) {
	const q = `SELECT ` + goalColumns + ` FROM user_goals
	           WHERE id = ? AND device_id = ? AND deleted_at IS NULL`
	return scanGoal(t.tx.QueryRowContext(ctx, q, goalID.String(), deviceID.String()))
}

// CurrentGoal loads the newest live goal of the device.
func (t *Tx) CurrentGoal(ctx context.Context, deviceID uuid.UUID) (*model.Goal, error) {
	const q = `SELECT ` + goalColumns + ` FROM user_goals
	           WHERE device_id = ? AND deleted_at IS NULL
	           ORDER BY created_at DESC, id DESC
	           LIMIT 1`
	return scanGoal(t.tx.QueryRowContext(ctx, q, deviceID.String()))
}

// SoftDeleteGoals tombstones every live goal of the device; creating
// a goal supersedes all previous ones.
func (t *Tx) SoftDeleteGoals(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	const q = `UPDATE user_goals SET deleted_at = ?, updated_at = ?
	           WHERE device_id = ? AND deleted_at IS NULL`
	_, err := t.tx.ExecContext(ctx, q, at.UTC(), at.UTC(), deviceID.String())
	return err
}

// UpdateGoal persists the mutable target columns of a goal.
func (t *Tx) UpdateGoal(ctx context.Context, g *model.Goal) error {
	const q = `UPDATE user_goals
	           SET daily_calories_kcal = ?, protein_percent = ?, carbs_percent = ?, fat_percent = ?,
	               protein_grams = ?, carbs_grams = ?, fat_grams = ?, water_ml = ?,
	               updated_at = ?, deleted_at = ?
	           WHERE id = ? AND device_id = ?`
	_, err := t.tx.ExecContext(ctx, q,
		g.DailyCaloriesKcal, g.ProteinPercent, g.CarbsPercent, g.FatPercent,
		g.ProteinGrams, g.CarbsGrams, g.FatGrams, intArg(g.WaterML),
		g.UpdatedAt.UTC(), timeArg(g.DeletedAt),
		g.ID.String(), g.DeviceID.String())
	return err
}
