package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026053001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	profile_id TEXT NOT NULL,
	prompt TEXT NOT NULL,
	frame_path TEXT NOT NULL,
	description TEXT,
	recommendation JSONB,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_status ON analyses(status);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);

CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	departure_at TIMESTAMPTZ NOT NULL,
	passenger_name TEXT NOT NULL,
	passenger_profile TEXT,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reservations_departure ON reservations(departure_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, analysis *domain.Analysis) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO analyses (
	id, profile_id, prompt, frame_path, description, recommendation, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		analysis.ID, analysis.ProfileID, analysis.Prompt, analysis.FramePath,
		analysis.Description, nil, string(analysis.Status), analysis.Error,
		analysis.CreatedAt, analysis.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, profile_id, prompt, frame_path, description, recommendation, status, error_message, created_at, updated_at
FROM analyses
WHERE id = $1
`, id)

	analysis, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("analysis not found: %s", id))
		}
		return nil, err
	}
	return analysis, nil
}

func (r *AnalysisRepository) List(ctx context.Context, limit int) ([]domain.Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, profile_id, prompt, frame_path, description, recommendation, status, error_message, created_at, updated_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Analysis, 0)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}

func (r *AnalysisRepository) UpdateStatus(ctx context.Context, id string, status domain.AnalysisStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update analysis status rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "update analysis status", fmt.Errorf("analysis not found: %s", id))
	}
	return nil
}

func (r *AnalysisRepository) SaveResult(ctx context.Context, id string, description string, rec domain.Recommendation) error {
	recJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE analyses
SET description = $2, recommendation = $3, updated_at = $4
WHERE id = $1
`, id, description, recJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save analysis result rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrNotFound, "save analysis result", fmt.Errorf("analysis not found: %s", id))
	}
	return nil
}

type analysisScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row analysisScanner) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var description sql.NullString
	var recRaw []byte
	var status string
	var errMessage sql.NullString

	err := row.Scan(
		&analysis.ID, &analysis.ProfileID, &analysis.Prompt, &analysis.FramePath,
		&description, &recRaw, &status, &errMessage,
		&analysis.CreatedAt, &analysis.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	analysis.Description = description.String
	analysis.Error = errMessage.String
	analysis.Status = domain.AnalysisStatus(status)
	if len(recRaw) > 0 {
		var rec domain.Recommendation
		if err := json.Unmarshal(recRaw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal recommendation: %w", err)
		}
		analysis.Recommendation = &rec
	}
	return &analysis, nil
}
