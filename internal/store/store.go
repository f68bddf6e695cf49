// Package store persists assembled analysis records. It is the engine's
// external persistence collaborator: the per-record finalize serialization
// guarantee lives here, at the database row level.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"statement-analyzer/internal/core"
)

var (
	// ErrNotFound is returned when no analysis exists for (company, period).
	ErrNotFound = errors.New("analysis not found")

	// ErrAlreadyFinal is returned when a save or finalize targets a record
	// that is already final. Final records are frozen: recompute requests
	// must fail, not overwrite.
	ErrAlreadyFinal = errors.New("analysis is already final")
)

// AnalysisSummary is one row of a company's analysis listing.
type AnalysisSummary struct {
	Period    string              `json:"period"`
	Status    core.AnalysisStatus `json:"status"`
	Version   int                 `json:"version"`
	Warnings  int                 `json:"warnings"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// AnalysisStore persists and freezes analysis records.
type AnalysisStore interface {
	// Save upserts the draft record for (company, period). Saving over a
	// final record fails with ErrAlreadyFinal and changes nothing.
	Save(ctx context.Context, a *core.FinancialAnalysis) error

	// Get returns the stored record, or ErrNotFound.
	Get(ctx context.Context, companyCode, period string) (*core.FinancialAnalysis, error)

	// List returns all analyses for a company, most recent period first.
	List(ctx context.Context, companyCode string) ([]AnalysisSummary, error)

	// Finalize transitions draft → final under a row-level guard: of any
	// number of concurrent attempts at most one wins, the rest get
	// ErrAlreadyFinal cleanly.
	Finalize(ctx context.Context, companyCode, period string) (*core.FinancialAnalysis, error)
}

type analysisStore struct {
	pool *pgxpool.Pool
}

// NewAnalysisStore constructs an AnalysisStore backed by the given pool.
func NewAnalysisStore(pool *pgxpool.Pool) AnalysisStore {
	return &analysisStore{pool: pool}
}

func (s *analysisStore) Save(ctx context.Context, a *core.FinancialAnalysis) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	// The conditional DO UPDATE freezes final rows: the upsert only lands on
	// rows still in draft.
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO analyses (company_code, period, status, version, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (company_code, period) DO UPDATE
		SET payload = EXCLUDED.payload,
		    version = EXCLUDED.version,
		    updated_at = now()
		WHERE analyses.status = $6
	`, a.CompanyCode, a.Period, string(core.StatusDraft), a.Version, payload, string(core.StatusDraft))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s/%s: %w", a.CompanyCode, a.Period, ErrAlreadyFinal)
	}
	return nil
}

func (s *analysisStore) Get(ctx context.Context, companyCode, period string) (*core.FinancialAnalysis, error) {
	var payload []byte
	var status string
	var createdAt, updatedAt time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT payload, status, created_at, updated_at
		FROM analyses
		WHERE company_code = $1 AND period = $2
	`, companyCode, period).Scan(&payload, &status, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("analysis %s/%s: %w", companyCode, period, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}
	return decodeAnalysis(payload, status, createdAt, updatedAt)
}

func (s *analysisStore) List(ctx context.Context, companyCode string) ([]AnalysisSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT period, status, version,
		       COALESCE(jsonb_array_length(payload->'warnings'), 0),
		       created_at, updated_at
		FROM analyses
		WHERE company_code = $1
		ORDER BY period DESC
	`, companyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisSummary
	for rows.Next() {
		var sm AnalysisSummary
		var status string
		if err := rows.Scan(&sm.Period, &status, &sm.Version, &sm.Warnings, &sm.CreatedAt, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		sm.Status = core.AnalysisStatus(status)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *analysisStore) Finalize(ctx context.Context, companyCode, period string) (*core.FinancialAnalysis, error) {
	var payload []byte
	var createdAt, updatedAt time.Time
	err := s.pool.QueryRow(ctx, `
		UPDATE analyses
		SET status = $3, updated_at = now()
		WHERE company_code = $1 AND period = $2 AND status = $4
		RETURNING payload, created_at, updated_at
	`, companyCode, period, string(core.StatusFinal), string(core.StatusDraft)).
		Scan(&payload, &createdAt, &updatedAt)
	if err == nil {
		return decodeAnalysis(payload, string(core.StatusFinal), createdAt, updatedAt)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to finalize analysis: %w", err)
	}

	// No draft row matched: distinguish "already final" from "missing".
	var status string
	err = s.pool.QueryRow(ctx,
		"SELECT status FROM analyses WHERE company_code = $1 AND period = $2",
		companyCode, period,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s/%s: %w", companyCode, period, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check analysis status: %w", err)
	}
	return nil, fmt.Errorf("analysis %s/%s: %w", companyCode, period, ErrAlreadyFinal)
}

// decodeAnalysis unmarshals a stored payload; the row columns are
// authoritative for status and timestamps.
func decodeAnalysis(payload []byte, status string, createdAt, updatedAt time.Time) (*core.FinancialAnalysis, error) {
	var a core.FinancialAnalysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
	}
	a.Status = core.AnalysisStatus(status)
	a.CreatedAt = createdAt
	a.UpdatedAt = updatedAt
	return &a, nil
}
