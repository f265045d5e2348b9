package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/archmeta/archmeta-go/internal/catalog"
	"github.com/archmeta/archmeta-go/internal/feedback"
)

// PostgresStore implements storage using a PostgreSQL connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore creates a PostgreSQL store from a DSN and verifies
// connectivity before returning (fail fast on startup).
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN missing")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	logger := slog.Default().With("component", "postgres")
	logger.Info("postgres store connected")

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	s.logger.Info("postgres store closed")
	return nil
}

// Migrate creates the schema if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conventions (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS package_structures (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		layer TEXT,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS coding_rules (
		id BIGSERIAL PRIMARY KEY,
		convention_id BIGINT NOT NULL REFERENCES conventions(id),
		rule_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL DEFAULT '',
		rationale TEXT NOT NULL DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS class_templates (
		id BIGSERIAL PRIMARY KEY,
		package_structure_id BIGINT NOT NULL REFERENCES package_structures(id),
		class_name TEXT NOT NULL,
		template_body TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rule_examples (
		id BIGSERIAL PRIMARY KEY,
		coding_rule_id BIGINT NOT NULL REFERENCES coding_rules(id),
		title TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL DEFAULT '',
		is_good BOOLEAN NOT NULL DEFAULT TRUE,
		explanation TEXT NOT NULL DEFAULT '',
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feedback_queue (
		id BIGSERIAL PRIMARY KEY,
		target_type TEXT NOT NULL,
		target_id BIGINT,
		feedback_type TEXT NOT NULL,
		risk_level TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		review_notes TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_status ON feedback_queue(status);
	CREATE INDEX IF NOT EXISTS idx_feedback_target ON feedback_queue(target_type, target_id);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// HealthCheck verifies PostgreSQL connectivity.
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres health check failed: %w", err)
	}
	return nil
}

// Feedback queue operations

func (s *PostgresStore) Create(ctx context.Context, q *feedback.Queue) error {
	query := `
		INSERT INTO feedback_queue
		(target_type, target_id, feedback_type, risk_level, payload, status, review_notes, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)
		RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		q.TargetType, q.TargetID, q.FeedbackType, q.RiskLevel,
		q.Payload, q.Status, q.ReviewNotes, q.CreatedAt, q.UpdatedAt).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	q.Version = 1
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, q *feedback.Queue) error {
	query := `
		UPDATE feedback_queue
		SET status = $1, review_notes = $2, updated_at = $3, version = version + 1
		WHERE id = $4 AND version = $5
	`
	tag, err := s.pool.Exec(ctx, query, q.Status, q.ReviewNotes, q.UpdatedAt, q.ID, q.Version)
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", q.ID, err)
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn("optimistic lock conflict on feedback update", "feedback_id", q.ID)
		return feedback.ErrConcurrentModification
	}
	q.Version++
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*feedback.Queue, error) {
	query := `
		SELECT id, target_type, target_id, feedback_type, risk_level, payload,
		       status, review_notes, version, created_at, updated_at
		FROM feedback_queue WHERE id = $1
	`
	q, err := scanQueue(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &feedback.NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return q, nil
}

func (s *PostgresStore) FindSlice(ctx context.Context, criteria feedback.SliceCriteria) ([]*feedback.Queue, error) {
	query, args := buildSliceQuery(criteria)
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("build slice query: %w", err)
	}
	query = sqlx.Rebind(sqlx.DOLLAR, query)
	// The builder selects *, postgres scanning is positional.
	query = selectQueueColumns(query)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feedback slice: %w", err)
	}
	defer rows.Close()

	var out []*feedback.Queue
	for rows.Next() {
		q, err := scanQueue(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback row: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Catalog parent checks

func (s *PostgresStore) ConventionExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM conventions WHERE id = $1)`, id)
}

func (s *PostgresStore) PackageStructureExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM package_structures WHERE id = $1)`, id)
}

// Coding rule operations

func (s *PostgresStore) GetCodingRule(ctx context.Context, id int64) (*catalog.CodingRule, error) {
	query := `
		SELECT id, convention_id, rule_name, description, severity, rationale,
		       deleted, deleted_at, created_at, updated_at
		FROM coding_rules WHERE id = $1 AND NOT deleted
	`
	var rule catalog.CodingRule
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&rule.ID, &rule.ConventionID, &rule.RuleName, &rule.Description,
		&rule.Severity, &rule.Rationale, &rule.Deleted, &rule.DeletedAt,
		&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get coding rule %d: %w", id, err)
	}
	return &rule, nil
}

func (s *PostgresStore) CodingRuleExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM coding_rules WHERE id = $1 AND NOT deleted)`, id)
}

func (s *PostgresStore) CreateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	query := `
		INSERT INTO coding_rules
		(convention_id, rule_name, description, severity, rationale, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NULL, $6, $7)
		RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		rule.ConventionID, rule.RuleName, rule.Description, rule.Severity, rule.Rationale,
		rule.CreatedAt, rule.UpdatedAt).Scan(&rule.ID)
	if err != nil {
		return fmt.Errorf("insert coding rule: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateCodingRule(ctx context.Context, rule *catalog.CodingRule) error {
	query := `
		UPDATE coding_rules
		SET rule_name = $1, description = $2, severity = $3, rationale = $4,
		    deleted = $5, deleted_at = $6, updated_at = $7
		WHERE id = $8
	`
	_, err := s.pool.Exec(ctx, query,
		rule.RuleName, rule.Description, rule.Severity, rule.Rationale,
		rule.Deleted, rule.DeletedAt, rule.UpdatedAt, rule.ID)
	if err != nil {
		return fmt.Errorf("update coding rule %d: %w", rule.ID, err)
	}
	return nil
}

// Class template operations

func (s *PostgresStore) GetClassTemplate(ctx context.Context, id int64) (*catalog.ClassTemplate, error) {
	query := `
		SELECT id, package_structure_id, class_name, template_body, description,
		       deleted, deleted_at, created_at, updated_at
		FROM class_templates WHERE id = $1 AND NOT deleted
	`
	var tmpl catalog.ClassTemplate
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&tmpl.ID, &tmpl.PackageStructureID, &tmpl.ClassName, &tmpl.TemplateBody,
		&tmpl.Description, &tmpl.Deleted, &tmpl.DeletedAt,
		&tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get class template %d: %w", id, err)
	}
	return &tmpl, nil
}

func (s *PostgresStore) ClassTemplateExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM class_templates WHERE id = $1 AND NOT deleted)`, id)
}

func (s *PostgresStore) CreateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	query := `
		INSERT INTO class_templates
		(package_structure_id, class_name, template_body, description, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NULL, $5, $6)
		RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		tmpl.PackageStructureID, tmpl.ClassName, tmpl.TemplateBody, tmpl.Description,
		tmpl.CreatedAt, tmpl.UpdatedAt).Scan(&tmpl.ID)
	if err != nil {
		return fmt.Errorf("insert class template: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateClassTemplate(ctx context.Context, tmpl *catalog.ClassTemplate) error {
	query := `
		UPDATE class_templates
		SET class_name = $1, template_body = $2, description = $3,
		    deleted = $4, deleted_at = $5, updated_at = $6
		WHERE id = $7
	`
	_, err := s.pool.Exec(ctx, query,
		tmpl.ClassName, tmpl.TemplateBody, tmpl.Description,
		tmpl.Deleted, tmpl.DeletedAt, tmpl.UpdatedAt, tmpl.ID)
	if err != nil {
		return fmt.Errorf("update class template %d: %w", tmpl.ID, err)
	}
	return nil
}

// Rule example operations

func (s *PostgresStore) GetRuleExample(ctx context.Context, id int64) (*catalog.RuleExample, error) {
	query := `
		SELECT id, coding_rule_id, title, code, is_good, explanation,
		       deleted, deleted_at, created_at, updated_at
		FROM rule_examples WHERE id = $1 AND NOT deleted
	`
	var ex catalog.RuleExample
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&ex.ID, &ex.CodingRuleID, &ex.Title, &ex.Code, &ex.IsGood,
		&ex.Explanation, &ex.Deleted, &ex.DeletedAt,
		&ex.CreatedAt, &ex.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get rule example %d: %w", id, err)
	}
	return &ex, nil
}

func (s *PostgresStore) RuleExampleExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM rule_examples WHERE id = $1 AND NOT deleted)`, id)
}

func (s *PostgresStore) CreateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	query := `
		INSERT INTO rule_examples
		(coding_rule_id, title, code, is_good, explanation, deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NULL, $6, $7)
		RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		ex.CodingRuleID, ex.Title, ex.Code, ex.IsGood, ex.Explanation,
		ex.CreatedAt, ex.UpdatedAt).Scan(&ex.ID)
	if err != nil {
		return fmt.Errorf("insert rule example: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateRuleExample(ctx context.Context, ex *catalog.RuleExample) error {
	query := `
		UPDATE rule_examples
		SET title = $1, code = $2, is_good = $3, explanation = $4,
		    deleted = $5, deleted_at = $6, updated_at = $7
		WHERE id = $8
	`
	_, err := s.pool.Exec(ctx, query,
		ex.Title, ex.Code, ex.IsGood, ex.Explanation,
		ex.Deleted, ex.DeletedAt, ex.UpdatedAt, ex.ID)
	if err != nil {
		return fmt.Errorf("update rule example %d: %w", ex.ID, err)
	}
	return nil
}

// Seed helpers for parent containers, mirroring the SQLite store.

func (s *PostgresStore) SeedConvention(ctx context.Context, name, description string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO conventions (name, description, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW()) RETURNING id`, name, description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed convention: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) SeedPackageStructure(ctx context.Context, name, layer string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO package_structures (name, layer, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW()) RETURNING id`, name, layer).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("seed package structure: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	if err := s.pool.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func scanQueue(row pgx.Row) (*feedback.Queue, error) {
	var q feedback.Queue
	err := row.Scan(
		&q.ID, &q.TargetType, &q.TargetID, &q.FeedbackType, &q.RiskLevel,
		&q.Payload, &q.Status, &q.ReviewNotes, &q.Version, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func selectQueueColumns(query string) string {
	const star = "SELECT * FROM feedback_queue"
	const cols = "SELECT id, target_type, target_id, feedback_type, risk_level, payload, " +
		"status, review_notes, version, created_at, updated_at FROM feedback_queue"
	if len(query) >= len(star) && query[:len(star)] == star {
		return cols + query[len(star):]
	}
	return query
}
