package app

import (
	"statement-analyzer/internal/ai"
	"statement-analyzer/internal/core"
	"statement-analyzer/internal/store"
)

// AnalyzeRequest carries one period's statement data for analysis.
// CompanyCode comes from the authenticated session, never from the body.
type AnalyzeRequest struct {
	CompanyCode string              `json:"-"`
	Period      string              `json:"period"`
	Input       core.StatementInput `json:"input"`
}

// AnalysisResult is returned by Analyze, GetAnalysis and FinalizeAnalysis.
type AnalysisResult struct {
	Analysis *core.FinancialAnalysis `json:"analysis"`
}

// AnalysisListResult is returned by ListAnalyses.
type AnalysisListResult struct {
	CompanyCode string                  `json:"company_code"`
	Analyses    []store.AnalysisSummary `json:"analyses"`
}

// SummaryResult is returned by SummarizeAnalysis.
type SummaryResult struct {
	Period  string      `json:"period"`
	Summary *ai.Summary `json:"summary"`
}

// UserSession identifies an authenticated user and the company they may
// analyze.
type UserSession struct {
	UserID      int    `json:"user_id"`
	CompanyID   int    `json:"company_id"`
	CompanyCode string `json:"company_code"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}
