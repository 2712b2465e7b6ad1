package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: STUDENTS & LEARNING HISTORY
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create students and learning history tables
-- Version: 001

CREATE TABLE IF NOT EXISTS students (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    age INTEGER NOT NULL DEFAULT 0,
    learning_style VARCHAR(20) NOT NULL DEFAULT 'unknown',
    interests JSONB NOT NULL DEFAULT '[]'::jsonb,
    strengths JSONB NOT NULL DEFAULT '[]'::jsonb,
    challenges JSONB NOT NULL DEFAULT '[]'::jsonb,
    grade VARCHAR(8) NOT NULL,
    subject VARCHAR(100) NOT NULL DEFAULT '',
    slos JSONB NOT NULL DEFAULT '[]'::jsonb,
    pre_slos JSONB NOT NULL DEFAULT '[]'::jsonb,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_learning_style CHECK (learning_style IN ('visual', 'auditory', 'kinesthetic', 'unknown')),
    CONSTRAINT valid_age CHECK (age >= 0)
);

CREATE INDEX IF NOT EXISTS idx_students_grade ON students(grade);
CREATE INDEX IF NOT EXISTS idx_students_subject ON students(subject);

CREATE TABLE IF NOT EXISTS learning_history (
    id BIGSERIAL PRIMARY KEY,
    student_id VARCHAR(64) NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    topic VARCHAR(255) NOT NULL,
    performance VARCHAR(20) NOT NULL,
    date DATE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_performance CHECK (performance IN ('excellent', 'good', 'fair', 'poor'))
);

CREATE INDEX IF NOT EXISTS idx_learning_history_student ON learning_history(student_id, date DESC);

-- Updated_at trigger for students
CREATE OR REPLACE FUNCTION update_updated_at_column()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ language 'plpgsql';

DROP TRIGGER IF EXISTS update_students_updated_at ON students;
CREATE TRIGGER update_students_updated_at
    BEFORE UPDATE ON students
    FOR EACH ROW
    EXECUTE FUNCTION update_updated_at_column();
`

const migration001Down = `
DROP TRIGGER IF EXISTS update_students_updated_at ON students;
DROP FUNCTION IF EXISTS update_updated_at_column();
DROP TABLE IF EXISTS learning_history;
DROP TABLE IF EXISTS students;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: TEMPLATES & ACTIVITY CATALOG
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create templates and activities tables with seed data
-- Version: 002

CREATE TABLE IF NOT EXISTS templates (
    key VARCHAR(16) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    stages JSONB NOT NULL DEFAULT '[]'::jsonb,
    best_for JSONB NOT NULL DEFAULT '[]'::jsonb,
    confidence_factors JSONB NOT NULL DEFAULT '[]'::jsonb,
    sort_order INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

INSERT INTO templates (key, name, description, stages, best_for, confidence_factors, sort_order) VALUES
    ('5e', '5E Instructional Model', 'Engage, Explore, Explain, Elaborate, Evaluate',
     '["Engage","Explore","Explain","Elaborate","Evaluate"]'::jsonb,
     '["Science","Mathematics","Inquiry-based learning"]'::jsonb,
     '["student_engagement","hands_on_learning","conceptual_understanding"]'::jsonb, 1),
    ('7e', '7E Instructional Model', 'Elicit, Engage, Explore, Explain, Elaborate, Evaluate, Extend',
     '["Elicit","Engage","Explore","Explain","Elaborate","Evaluate","Extend"]'::jsonb,
     '["Advanced science","Complex concepts","Extended learning"]'::jsonb,
     '["prior_knowledge","advanced_learning","comprehensive_coverage"]'::jsonb, 2),
    ('pbl', 'Problem-Based Learning', 'Challenge, Investigate, Create, Debrief',
     '["Challenge","Investigate","Create","Debrief"]'::jsonb,
     '["Real-world applications","Critical thinking","Collaborative learning"]'::jsonb,
     '["problem_solving","collaboration","real_world_relevance"]'::jsonb, 3),
    ('dynamic', 'Dynamic Learning Model', 'Adaptive stages based on student progress',
     '["Assess","Adapt","Implement","Review"]'::jsonb,
     '["Personalized learning","Adaptive instruction","Student-paced learning"]'::jsonb,
     '["personalization","adaptability","student_agency"]'::jsonb, 4)
ON CONFLICT (key) DO NOTHING;

CREATE TABLE IF NOT EXISTS activities (
    id BIGSERIAL PRIMARY KEY,
    stage VARCHAR(50) NOT NULL,
    type VARCHAR(30) NOT NULL,
    title VARCHAR(255) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    duration VARCHAR(30) NOT NULL DEFAULT '',
    materials JSONB NOT NULL DEFAULT '[]'::jsonb,
    adaptations JSONB NOT NULL DEFAULT '[]'::jsonb,
    sort_order INTEGER NOT NULL DEFAULT 0,

    UNIQUE(stage, title)
);

CREATE INDEX IF NOT EXISTS idx_activities_stage ON activities(lower(stage));

INSERT INTO activities (stage, type, title, description, duration, materials, adaptations, sort_order) VALUES
    ('Engage', 'discussion', 'Hook Discussion', 'Start with an intriguing question or real-world scenario', '10-15 minutes',
     '["Discussion prompts","Visual aids"]'::jsonb, '["Group discussion","Individual reflection","Interactive polling"]'::jsonb, 1),
    ('Engage', 'video', 'Inspirational Video', 'Show a short video related to the topic', '5-8 minutes',
     '["Video content","Discussion questions"]'::jsonb, '["Pause for discussion","Note-taking","Predictions"]'::jsonb, 2),
    ('Explore', 'hands_on', 'Guided Investigation', 'Students explore concepts through hands-on activities', '20-30 minutes',
     '["Lab materials","Safety equipment","Worksheets"]'::jsonb, '["Partner work","Individual exploration","Station rotation"]'::jsonb, 1),
    ('Explore', 'simulation', 'Digital Simulation', 'Use computer simulations to explore concepts', '15-25 minutes',
     '["Computer/tablet","Simulation software"]'::jsonb, '["Individual work","Small groups","Whole class demonstration"]'::jsonb, 2),
    ('Explain', 'lecture', 'Concept Explanation', 'Teacher explains key concepts with examples', '15-20 minutes',
     '["Presentation slides","Examples","Visual aids"]'::jsonb, '["Interactive lecture","Student questions","Real-time examples"]'::jsonb, 1),
    ('Explain', 'reading', 'Text Analysis', 'Students read and analyze relevant text', '20-25 minutes',
     '["Reading materials","Highlighters","Note-taking tools"]'::jsonb, '["Individual reading","Partner reading","Group discussion"]'::jsonb, 2),
    ('Elaborate', 'project', 'Extended Project', 'Students apply concepts in a longer project', '45-60 minutes',
     '["Project materials","Guidelines","Assessment rubrics"]'::jsonb, '["Individual projects","Group projects","Choice of project type"]'::jsonb, 1),
    ('Elaborate', 'application', 'Real-world Application', 'Apply concepts to real-world scenarios', '30-40 minutes',
     '["Case studies","Problem scenarios","Research tools"]'::jsonb, '["Individual work","Partner collaboration","Class presentation"]'::jsonb, 2),
    ('Evaluate', 'assessment', 'Formative Assessment', 'Check student understanding through various methods', '20-30 minutes',
     '["Assessment tools","Feedback forms","Rubrics"]'::jsonb, '["Individual assessment","Peer assessment","Self-assessment"]'::jsonb, 1),
    ('Evaluate', 'reflection', 'Learning Reflection', 'Students reflect on their learning journey', '15-20 minutes',
     '["Reflection prompts","Journal entries","Discussion questions"]'::jsonb, '["Written reflection","Oral reflection","Creative reflection"]'::jsonb, 2)
ON CONFLICT (stage, title) DO NOTHING;
`

const migration002Down = `
DROP TABLE IF EXISTS activities;
DROP TABLE IF EXISTS templates;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 003: LESSON PLANS & LLM INTERACTIONS
// ══════════════════════════════════════════════════════════════════════════════

const migration003Up = `
-- Migration: Create lesson plans and LLM interaction log
-- Version: 003

CREATE TABLE IF NOT EXISTS lesson_plans (
    id UUID PRIMARY KEY,
    student_id VARCHAR(64) NOT NULL REFERENCES students(id) ON DELETE CASCADE,
    template_key VARCHAR(16) NOT NULL REFERENCES templates(key),
    status VARCHAR(20) NOT NULL DEFAULT 'draft',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_plan_status CHECK (status IN ('draft', 'complete'))
);

CREATE INDEX IF NOT EXISTS idx_lesson_plans_student ON lesson_plans(student_id, created_at DESC);

-- Stage assignments: which activities a plan uses per stage.
CREATE TABLE IF NOT EXISTS lesson_plan_activities (
    id BIGSERIAL PRIMARY KEY,
    lesson_plan_id UUID NOT NULL REFERENCES lesson_plans(id) ON DELETE CASCADE,
    stage VARCHAR(50) NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    activity JSONB NOT NULL,

    UNIQUE(lesson_plan_id, stage, position)
);

CREATE INDEX IF NOT EXISTS idx_lesson_plan_activities_plan ON lesson_plan_activities(lesson_plan_id);

CREATE TABLE IF NOT EXISTS llm_interactions (
    id UUID PRIMARY KEY,
    student_id VARCHAR(64) REFERENCES students(id) ON DELETE SET NULL,
    kind VARCHAR(40) NOT NULL,
    prompt TEXT NOT NULL,
    response TEXT NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_llm_interactions_student ON llm_interactions(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_llm_interactions_kind ON llm_interactions(kind);
`

const migration003Down = `
DROP TABLE IF EXISTS llm_interactions;
DROP TABLE IF EXISTS lesson_plan_activities;
DROP TABLE IF EXISTS lesson_plans;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one schema version with up and down SQL.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	IsApplied bool
	AppliedAt time.Time
}

// GetMigrations returns all embedded migrations in order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_students", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_templates_activities", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_lesson_plans_interactions", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

// RequiredTables are the tables the setup CLI --check verifies.
var RequiredTables = []string{"students", "templates", "activities", "lesson_plans"}

// Migrator applies embedded migrations, tracking them in a
// schema_migrations table.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

// EnsureMigrationTable creates the tracking table if needed.
func (m *Migrator) EnsureMigrationTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns versions already applied.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	query := fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName)

	rows, err := m.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations, each in its own transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, isApplied := applied[mig.Version]; isApplied {
			continue
		}
		if mig.UpSQL == "" {
			return fmt.Errorf("%w: missing up SQL for migration %d", ErrMigrationFailed, mig.Version)
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}
			insertQuery := fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName)
			_, err := tx.Exec(ctx, insertQuery, mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}
	return nil
}

// Rollback reverts the last applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	var lastVersion int
	for v := range applied {
		if v > lastVersion {
			lastVersion = v
		}
	}
	if lastVersion == 0 {
		return nil
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == lastVersion {
			migration = &m.migrations[i]
			break
		}
	}
	if migration == nil || migration.DownSQL == "" {
		return fmt.Errorf("%w: missing down SQL for migration %d", ErrMigrationFailed, lastVersion)
	}

	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", lastVersion, err)
		}
		deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE version = $1", m.tableName)
		_, err := tx.Exec(ctx, deleteQuery, lastVersion)
		return err
	})
}

// Status returns every migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.EnsureMigrationTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Migration, len(m.migrations))
	copy(result, m.migrations)
	for i := range result {
		if appliedAt, ok := applied[result[i].Version]; ok {
			result[i].IsApplied = true
			result[i].AppliedAt = appliedAt
		}
	}
	return result, nil
}
