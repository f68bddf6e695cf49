package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"statement-analyzer/internal/ai"
	"statement-analyzer/internal/core"
	"statement-analyzer/internal/store"
)

type appService struct {
	pool       *pgxpool.Pool
	engine     *core.Engine
	analyses   store.AnalysisStore
	summarizer ai.SummarizerService
}

// NewAppService constructs an appService that satisfies ApplicationService.
// summarizer may be nil when no API key is configured; only the summary
// operation degrades.
func NewAppService(
	pool *pgxpool.Pool,
	engine *core.Engine,
	analyses store.AnalysisStore,
	summarizer ai.SummarizerService,
) ApplicationService {
	return &appService{
		pool:       pool,
		engine:     engine,
		analyses:   analyses,
		summarizer: summarizer,
	}
}

// Analyze runs the pipeline and persists the draft record. The previous
// period's stored ratios, when available, feed trend evaluation.
func (s *appService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if err := core.ValidatePeriod(req.Period); err != nil {
		return nil, err
	}

	var previous *core.FinancialRatios
	if prev, err := s.analyses.Get(ctx, req.CompanyCode, previousPeriod(req.Period)); err == nil {
		previous = &prev.Ratios
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	analysis, err := s.engine.Analyze(req.CompanyCode, req.Period, req.Input, previous)
	if err != nil {
		return nil, err
	}
	if err := s.analyses.Save(ctx, analysis); err != nil {
		return nil, err
	}
	return &AnalysisResult{Analysis: analysis}, nil
}

func (s *appService) GetAnalysis(ctx context.Context, companyCode, period string) (*AnalysisResult, error) {
	analysis, err := s.analyses.Get(ctx, companyCode, period)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Analysis: analysis}, nil
}

func (s *appService) ListAnalyses(ctx context.Context, companyCode string) (*AnalysisListResult, error) {
	summaries, err := s.analyses.List(ctx, companyCode)
	if err != nil {
		return nil, err
	}
	return &AnalysisListResult{CompanyCode: companyCode, Analyses: summaries}, nil
}

func (s *appService) FinalizeAnalysis(ctx context.Context, companyCode, period string) (*AnalysisResult, error) {
	analysis, err := s.analyses.Finalize(ctx, companyCode, period)
	if err != nil {
		return nil, err
	}
	return &AnalysisResult{Analysis: analysis}, nil
}

func (s *appService) SummarizeAnalysis(ctx context.Context, companyCode, period string) (*SummaryResult, error) {
	if s.summarizer == nil {
		return nil, errors.New("summarizer is not configured (OPENAI_API_KEY missing)")
	}
	analysis, err := s.analyses.Get(ctx, companyCode, period)
	if err != nil {
		return nil, err
	}
	summary, err := s.summarizer.Summarize(ctx, analysis)
	if err != nil {
		return nil, err
	}
	return &SummaryResult{Period: period, Summary: summary}, nil
}

// AuthenticateUser verifies credentials against the users table.
func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	var (
		session      UserSession
		passwordHash string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT u.id, u.company_id, c.company_code, u.username, u.role, u.password_hash
		FROM users u
		JOIN companies c ON c.id = u.company_id
		WHERE u.username = $1 AND u.is_active = true
	`, username).Scan(&session.UserID, &session.CompanyID, &session.CompanyCode,
		&session.Username, &session.Role, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("unknown user %q", username)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	return &session, nil
}

// previousPeriod returns the YYYY-MM immediately before period. The period
// has already been validated.
func previousPeriod(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return ""
	}
	return t.AddDate(0, -1, 0).Format("2006-01")
}
