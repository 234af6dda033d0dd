package migrations

import (
	"github.com/memorylane/dailyquestion/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20260101_questions_answers",
		Name: "Create questions and answers tables",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS questions (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					content          TEXT NOT NULL,
					expected_answers TEXT[] NOT NULL DEFAULT '{}',
					source           TEXT NOT NULL DEFAULT 'manual'
					                 CHECK (source IN ('manual', 'generated', 'fallback')),
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS answers (
					id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					question_id      UUID NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
					user_id          BIGINT NOT NULL,
					audio_file_url   TEXT,
					text_content     TEXT,
					cognitive_score  DOUBLE PRECISION,
					analysis_details JSONB,
					semantic_score   DOUBLE PRECISION
					                 CHECK (semantic_score IS NULL OR (semantic_score >= 0 AND semantic_score <= 100)),
					scoring_status   TEXT NOT NULL DEFAULT 'unscored'
					                 CHECK (scoring_status IN ('scored', 'unscored')),
					unscored_reason  TEXT,
					client_device    TEXT,
					created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`).Error; err != nil {
				return err
			}

			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_answers_user_created ON answers(user_id, created_at DESC);
				CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers(question_id);
				CREATE INDEX IF NOT EXISTS idx_questions_created_at ON questions(created_at DESC);
			`).Error; err != nil {
				return err
			}
			return nil
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`
				DROP TABLE IF EXISTS answers;
				DROP TABLE IF EXISTS questions;
			`).Error
		},
	})
}
