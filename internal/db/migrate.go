package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/mathforge/curriculum-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Hierarchy nodes, parent-first
		&types.Grade{},
		&types.Textbook{},
		&types.Unit{},
		&types.Lesson{},
		&types.Format{},
		&types.ExerciseType{},

		// Fact table
		&types.Exercise{},
	)
}

// EnsureCurriculumIndexes creates the constraints AutoMigrate cannot express:
// foreign keys, the per-scope case-insensitive name uniqueness, and the
// embedding search index.
//
// Name uniqueness is enforced on lower(name) over active rows only, so a
// soft-deleted node never blocks re-creating its name, and two concurrent
// importers of a brand-new name cannot both insert.
func EnsureCurriculumIndexes(db *gorm.DB) error {
	statements := []struct {
		label string
		sql   string
	}{
		{"fk_textbook_grade_id", `
			DO $$ BEGIN
				ALTER TABLE "textbook"
					ADD CONSTRAINT "fk_textbook_grade_id"
					FOREIGN KEY ("grade_id") REFERENCES "grade"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_unit_textbook_id", `
			DO $$ BEGIN
				ALTER TABLE "unit"
					ADD CONSTRAINT "fk_unit_textbook_id"
					FOREIGN KEY ("textbook_id") REFERENCES "textbook"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_lesson_unit_id", `
			DO $$ BEGIN
				ALTER TABLE "lesson"
					ADD CONSTRAINT "fk_lesson_unit_id"
					FOREIGN KEY ("unit_id") REFERENCES "unit"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_exercise_type_lesson_id", `
			DO $$ BEGIN
				ALTER TABLE "exercise_type"
					ADD CONSTRAINT "fk_exercise_type_lesson_id"
					FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_exercise_lesson_id", `
			DO $$ BEGIN
				ALTER TABLE "exercise"
					ADD CONSTRAINT "fk_exercise_lesson_id"
					FOREIGN KEY ("lesson_id") REFERENCES "lesson"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_exercise_format_id", `
			DO $$ BEGIN
				ALTER TABLE "exercise"
					ADD CONSTRAINT "fk_exercise_format_id"
					FOREIGN KEY ("format_id") REFERENCES "format"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},
		{"fk_exercise_type_id", `
			DO $$ BEGIN
				ALTER TABLE "exercise"
					ADD CONSTRAINT "fk_exercise_type_id"
					FOREIGN KEY ("type_id") REFERENCES "exercise_type"("id");
			EXCEPTION WHEN duplicate_object THEN NULL;
			END $$;`},

		{"uq_grade_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_grade_name_active
			ON "grade" ((lower(name)))
			WHERE deleted_at IS NULL;`},
		{"uq_format_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_format_name_active
			ON "format" ((lower(name)))
			WHERE deleted_at IS NULL;`},
		{"uq_textbook_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_textbook_name_active
			ON "textbook" (grade_id, (lower(name)))
			WHERE deleted_at IS NULL;`},
		{"uq_unit_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_unit_name_active
			ON "unit" (textbook_id, (lower(name)))
			WHERE deleted_at IS NULL;`},
		{"uq_lesson_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_lesson_name_active
			ON "lesson" (unit_id, (lower(name)))
			WHERE deleted_at IS NULL;`},
		{"uq_exercise_type_name_active", `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_exercise_type_name_active
			ON "exercise_type" (lesson_id, (lower(name)))
			WHERE deleted_at IS NULL;`},

		{"idx_exercise_question_embedding", `
			CREATE INDEX IF NOT EXISTS idx_exercise_question_embedding
			ON "exercise" USING ivfflat (question_embedding vector_l2_ops)
			WITH (lists = 100);`},
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("ensure %s: %w", stmt.label, err)
		}
	}
	return nil
}
