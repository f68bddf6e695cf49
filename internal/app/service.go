package app

import (
	"context"
)

// ApplicationService is the single interface all adapters (web, CLI) call.
// It decouples presentation from the engine and its collaborators.
// Identity and company-ownership checks happen at this layer, strictly
// before the core pipeline runs; implementations contain no display logic.
type ApplicationService interface {
	// Analyze runs the full pipeline for one (company, period) ledger
	// snapshot, persists the resulting draft record, and returns it. The
	// prior period's stored ratios, when present, feed trend evaluation.
	// Fails if a final record already exists for the period.
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)

	// GetAnalysis returns the stored record for (company, period).
	GetAnalysis(ctx context.Context, companyCode, period string) (*AnalysisResult, error)

	// ListAnalyses returns the company's analyses, most recent period first.
	ListAnalyses(ctx context.Context, companyCode string) (*AnalysisListResult, error)

	// FinalizeAnalysis freezes the record for (company, period). At most one
	// concurrent finalize wins; later attempts fail cleanly.
	FinalizeAnalysis(ctx context.Context, companyCode, period string) (*AnalysisResult, error)

	// SummarizeAnalysis produces a narrative summary of the stored record.
	SummarizeAnalysis(ctx context.Context, companyCode, period string) (*SummaryResult, error)

	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error)
}
