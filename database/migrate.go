package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) DDL beyond what AutoMigrate handles:
// - Indexes the triage views depend on
// - Basic CHECK constraints
// Postgres only; sqlite deployments rely on AutoMigrate alone.
func Migrate() error {
	if DB.Dialector.Name() != "postgres" {
		return nil
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_enquiries_created_at ON enquiries (created_at DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_enquiries_status_queue ON enquiries (status, queue)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs (entity_type, entity_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Part-exchange mileage must be positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'enquiry_part_exes'::regclass
					  AND conname  = 'chk_enquiry_part_exes_mileage_positive'
				) THEN
					ALTER TABLE enquiry_part_exes
					ADD CONSTRAINT chk_enquiry_part_exes_mileage_positive
					CHECK (mileage > 0);
				END IF;
			END $$;`,
			// Enquiry name must not be empty
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'enquiries'::regclass
					  AND conname  = 'chk_enquiries_name_nonempty'
				) THEN
					ALTER TABLE enquiries
					ADD CONSTRAINT chk_enquiries_name_nonempty
					CHECK (length(name) > 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
