package database

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations run in order on startup.  Statements are idempotent so a
// restart against an already-migrated database is a no-op.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		id           CHAR(36)     NOT NULL,
		token_digest CHAR(64)     NOT NULL,
		created_at   DATETIME(6)  NOT NULL,
		last_seen_at DATETIME(6)  NOT NULL,
		PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS products (
		id         CHAR(36)     NOT NULL,
		device_id  CHAR(36)     NOT NULL,
		name       VARCHAR(255) NOT NULL,
		created_at DATETIME(6)  NOT NULL,
		updated_at DATETIME(6)  NOT NULL,
		deleted_at DATETIME(6)  NULL,
		PRIMARY KEY (id),
		KEY idx_products_feed (device_id, updated_at, id),
		CONSTRAINT fk_products_device FOREIGN KEY (device_id) REFERENCES devices (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS product_portions (
		id          CHAR(36)      NOT NULL,
		device_id   CHAR(36)      NOT NULL,
		product_id  CHAR(36)      NOT NULL,
		label       VARCHAR(255)  NOT NULL,
		base_amount DECIMAL(12,3) NOT NULL,
		base_unit   VARCHAR(16)   NOT NULL,
		calories    DECIMAL(12,3) NOT NULL,
		protein     DECIMAL(12,3) NULL,
		carbs       DECIMAL(12,3) NULL,
		fat         DECIMAL(12,3) NULL,
		is_default  BOOLEAN       NOT NULL DEFAULT FALSE,
		created_at  DATETIME(6)   NOT NULL,
		updated_at  DATETIME(6)   NOT NULL,
		deleted_at  DATETIME(6)   NULL,
		PRIMARY KEY (id),
		KEY idx_portions_product (device_id, product_id, deleted_at),
		KEY idx_portions_feed (device_id, updated_at, id),
		CONSTRAINT fk_portions_device FOREIGN KEY (device_id) REFERENCES devices (id),
		CONSTRAINT fk_portions_product FOREIGN KEY (product_id) REFERENCES products (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS food_entries (
		id         CHAR(36)      NOT NULL,
		device_id  CHAR(36)      NOT NULL,
		product_id CHAR(36)      NOT NULL,
		portion_id CHAR(36)      NOT NULL,
		day        DATE          NOT NULL,
		meal_type  VARCHAR(16)   NOT NULL,
		amount     DECIMAL(12,3) NOT NULL,
		unit       VARCHAR(16)   NOT NULL,
		created_at DATETIME(6)   NOT NULL,
		updated_at DATETIME(6)   NOT NULL,
		deleted_at DATETIME(6)   NULL,
		PRIMARY KEY (id),
		KEY idx_entries_day (device_id, day, deleted_at),
		KEY idx_entries_feed (device_id, updated_at, id),
		CONSTRAINT fk_entries_device FOREIGN KEY (device_id) REFERENCES devices (id),
		CONSTRAINT fk_entries_product FOREIGN KEY (product_id) REFERENCES products (id),
		CONSTRAINT fk_entries_portion FOREIGN KEY (portion_id) REFERENCES product_portions (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS body_weights (
		id         CHAR(36)      NOT NULL,
		device_id  CHAR(36)      NOT NULL,
		day        DATE          NOT NULL,
		weight_kg  DECIMAL(12,3) NOT NULL,
		created_at DATETIME(6)   NOT NULL,
		updated_at DATETIME(6)   NOT NULL,
		deleted_at DATETIME(6)   NULL,
		PRIMARY KEY (id),
		KEY idx_weights_day (device_id, day, deleted_at),
		CONSTRAINT fk_weights_device FOREIGN KEY (device_id) REFERENCES devices (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS user_goals (
		id                    CHAR(36)      NOT NULL,
		device_id             CHAR(36)      NOT NULL,
		goal_type             VARCHAR(16)   NOT NULL,
		gender                VARCHAR(8)    NULL,
		birth_date            DATE          NULL,
		height_cm             DECIMAL(12,3) NULL,
		current_weight_kg     DECIMAL(12,3) NULL,
		activity_level        VARCHAR(16)   NULL,
		weight_goal_type      VARCHAR(16)   NULL,
		target_weight_kg      DECIMAL(12,3) NULL,
		weight_change_pace    VARCHAR(16)   NULL,
		bmr_kcal              INT           NULL,
		tdee_kcal             INT           NULL,
		daily_calories_kcal   INT           NOT NULL,
		protein_percent       INT           NOT NULL,
		carbs_percent         INT           NOT NULL,
		fat_percent           INT           NOT NULL,
		protein_grams         INT           NOT NULL,
		carbs_grams           INT           NOT NULL,
		fat_grams             INT           NOT NULL,
		water_ml              INT           NULL,
		healthy_weight_min_kg DECIMAL(12,3) NULL,
		healthy_weight_max_kg DECIMAL(12,3) NULL,
		current_bmi           DECIMAL(12,3) NULL,
		bmi_category          VARCHAR(32)   NULL,
		created_at            DATETIME(6)   NOT NULL,
		updated_at            DATETIME(6)   NOT NULL,
		deleted_at            DATETIME(6)   NULL,
		PRIMARY KEY (id),
		KEY idx_goals_current (device_id, deleted_at, created_at),
		CONSTRAINT fk_goals_device FOREIGN KEY (device_id) REFERENCES devices (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates the schema if it does not exist.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
