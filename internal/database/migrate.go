package database

import (
	"errors"
	"fmt"

	"inmoplaza/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgExclusionViolation is the PostgreSQL SQLSTATE for exclusion constraint violations.
const pgExclusionViolation = "23P01"

// Registry lists every model that participates in schema migration.
func Registry() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Listing{},
		&models.AvailabilityWindow{},
		&models.Comment{},
	}
}

// Migrate runs schema auto-migration and applies constraints that gorm cannot
// express. The range-exclusion constraint makes the per-listing non-overlap
// invariant hold even when two requests race past the application-level check.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Registry()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Skip raw-SQL constraints on non-PostgreSQL dialects (mocked tests).
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("failed to create btree_gist extension: %w", err)
	}

	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'availability_windows_no_overlap'
			) THEN
				ALTER TABLE availability_windows
					ADD CONSTRAINT availability_windows_no_overlap
					EXCLUDE USING gist (
						listing_id WITH =,
						daterange(start_date::date, end_date::date, '[]') WITH &&
					);
			END IF;
		END
		$$;
	`).Error; err != nil {
		return fmt.Errorf("failed to create overlap exclusion constraint: %w", err)
	}

	if err := db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'comments_rating_range'
			) THEN
				ALTER TABLE comments
					ADD CONSTRAINT comments_rating_range
					CHECK (rating IS NULL OR (rating >= 1 AND rating <= 5));
			END IF;
		END
		$$;
	`).Error; err != nil {
		return fmt.Errorf("failed to create rating check constraint: %w", err)
	}

	return nil
}

// IsExclusionViolation reports whether err is a PostgreSQL exclusion
// constraint violation (two windows claiming overlapping date ranges).
func IsExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}
