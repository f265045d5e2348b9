package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/archmeta/archmeta-go/internal/catalog"
	"github.com/archmeta/archmeta-go/internal/feedback"
)

// SQLiteStore implements storage using SQLite (for local/development)
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// Enable foreign keys and WAL mode for better concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conventions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS package_structures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		layer TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS coding_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		convention_id INTEGER NOT NULL,
		rule_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		rationale TEXT NOT NULL DEFAULT '',
		deleted INTEGER NOT NULL DEFAULT 0,
		deleted_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (convention_id) REFERENCES conventions(id)
	);

	CREATE TABLE IF NOT EXISTS class_templates (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		package_structure_id INTEGER NOT NULL,
		class_name TEXT NOT NULL,
		template_body TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		deleted INTEGER NOT NULL DEFAULT 0,
		deleted_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (package_structure_id) REFERENCES package_structures(id)
	);

	CREATE TABLE IF NOT EXISTS rule_examples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		coding_rule_id INTEGER NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		is_good INTEGER NOT NULL DEFAULT 1,
		explanation TEXT NOT NULL DEFAULT '',
		deleted INTEGER NOT NULL DEFAULT 0,
		deleted_at DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (coding_rule_id) REFERENCES coding_rules(id)
	);

	CREATE TABLE IF NOT EXISTS feedback_queue (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target_type TEXT NOT NULL,
		target_id INTEGER,
		feedback_type TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		review_notes TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_status ON feedback_queue(status);
	CREATE INDEX IF NOT EXISTS idx_feedback_target ON feedback_queue(target_type, target_id);
	CREATE INDEX IF NOT EXISTS idx_rules_convention ON coding_rules(convention_id);
	CREATE INDEX IF NOT EXISTS idx_templates_structure ON class_templates(package_structure_id);
	CREATE INDEX IF NOT EXISTS idx_examples_rule ON rule_examples(coding_rule_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Feedback queue operations

func (s *SQLiteStore) Create(ctx context.Context, q *feedback.Queue) error {
	query := `
		INSERT INTO feedback_queue
		(target_type, target_id, feedback_type, risk_level, payload, status, review_notes, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query,
		q.TargetType, q.TargetID, q.FeedbackType, q.RiskLevel,
		q.Payload, q.Status, q.ReviewNotes, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted feedback id: %w", err)
	}
	q.ID = id
	q.Version = 1
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, q *feedback.Queue) error {
	query := `
		UPDATE feedback_queue
		SET status = ?, review_notes = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		q.Status, q.ReviewNotes, q.UpdatedAt, q.ID, q.Version)
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", q.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", q.ID, err)
	}
	if affected == 0 {
		s.logger.WithField("feedback_id", q.ID).Warn("optimistic lock conflict on feedback update")
		return feedback.ErrConcurrentModification
	}
	q.Version++
	return nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*feedback.Queue, error) {
	var q feedback.Queue
	err := s.db.GetContext(ctx, &q, `SELECT * FROM feedback_queue WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &feedback.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return &q, nil
}

func (s *SQLiteStore) FindSlice(ctx context.Context, criteria feedback.SliceCriteria) ([]*feedback.Queue, error) {
	query, args := buildSliceQuery(criteria)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build slice query: %w", err)
	}

	var rows []*feedback.Queue
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query feedback slice: %w", err)
	}
	return rows, nil
}

// Catalog parent checks

func (s *SQLiteStore) ConventionExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(1) FROM conventions WHERE id = ?`, id)
}

func (s *SQLiteStore) PackageStructureExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(1) FROM package_structures WHERE id = ?`, id)
}

// Coding rule operations

func (s *SQLiteStore) GetCodingRule(ctx context.Context, id int64) (*catalog.CodingRule, error) {
	var rule catalog.CodingRule
	err := s.db.GetContext(ctx, &rule, `SELECT * FROM coding_rules WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get coding rule %d: %w", id, err)
	}
	return &rule, nil
}

func (s *SQLiteStore) CodingRuleExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(1) FROM coding_rules WHERE id = ? AND deleted = 0`, id)
}

func (s *SQLiteStore) CreateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO coding_rules
		(convention_id, rule_name, description, severity, rationale, deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, NULL, ?, ?)`,
		rule.ConventionID, rule.RuleName, rule.Description, rule.Severity, rule.Rationale,
		rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert coding rule: %w", err)
	}
	rule.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) UpdateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE coding_rules
		SET rule_name = ?, description = ?, severity = ?, rationale = ?,
		    deleted = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`,
		rule.RuleName, rule.Description, rule.Severity, rule.Rationale,
		rule.Deleted, rule.DeletedAt, rule.UpdatedAt, rule.ID)
	if err != nil {
		return fmt.Errorf("update coding rule %d: %w", rule.ID, err)
	}
	return nil
}

// Class template operations

func (s *SQLiteStore) GetClassTemplate(ctx context.Context, id int64) (*catalog.ClassTemplate, error) {
	var tmpl catalog.ClassTemplate
	err := s.db.GetContext(ctx, &tmpl, `SELECT * FROM class_templates WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get class template %d: %w", id, err)
	}
	return &tmpl, nil
}

func (s *SQLiteStore) ClassTemplateExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(1) FROM class_templates WHERE id = ? AND deleted = 0`, id)
}

func (s *SQLiteStore) CreateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO class_templates
		(package_structure_id, class_name, template_body, description, deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, NULL, ?, ?)`,
		tmpl.PackageStructureID, tmpl.ClassName, tmpl.TemplateBody, tmpl.Description,
		tmpl.CreatedAt, tmpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert class template: %w", err)
	}
	tmpl.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) UpdateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE class_templates
		SET class_name = ?, template_body = ?, description = ?,
		    deleted = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`,
		tmpl.ClassName, tmpl.TemplateBody, tmpl.Description,
		tmpl.Deleted, tmpl.DeletedAt, tmpl.UpdatedAt, tmpl.ID)
	if err != nil {
		return fmt.Errorf("update class template %d: %w", tmpl.ID, err)
	}
	return nil
}

// Rule example operations

func (s *SQLiteStore) GetRuleExample(ctx context.Context, id int64) (*catalog.RuleExample, error) {
	var ex catalog.RuleExample
	err := s.db.GetContext(ctx, &ex, `SELECT * FROM rule_examples WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get rule example %d: %w", id, err)
	}
	return &ex, nil
}

func (s *SQLiteStore) RuleExampleExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(1) FROM rule_examples WHERE id = ? AND deleted = 0`, id)
}

func (s *SQLiteStore) CreateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rule_examples
		(coding_rule_id, title, code, is_good, explanation, deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, NULL, ?, ?)`,
		ex.CodingRuleID, ex.Title, ex.Code, ex.IsGood, ex.Explanation,
		ex.CreatedAt, ex.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert rule example: %w", err)
	}
	ex.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) UpdateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE rule_examples
		SET title = ?, code = ?, is_good = ?, explanation = ?,
		    deleted = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`,
		ex.Title, ex.Code, ex.IsGood, ex.Explanation,
		ex.Deleted, ex.DeletedAt, ex.UpdatedAt, ex.ID)
	if err != nil {
		return fmt.Errorf("update rule example %d: %w", ex.ID, err)
	}
	return nil
}

// Seed helpers for parent containers. The CRUD services for these entities
// live outside this module; local setups and tests need a way to create the
// parents that feedback payloads reference.

func (s *SQLiteStore) SeedConvention(ctx context.Context, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO conventions (name, description, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, name, description)
	if err != nil {
		return 0, fmt.Errorf("seed convention: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) SeedPackageStructure(ctx context.Context, name, layer string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO package_structures (name, layer, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, name, layer)
	if err != nil {
		return 0, fmt.Errorf("seed package structure: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) exists(ctx context.Context, query string, id int64) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, query, id); err != nil {
		return false, err
	}
	return count > 0, nil
}
