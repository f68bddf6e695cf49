package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidState is returned when finalize is attempted on an already-final
// analysis record. No state is changed.
var ErrInvalidState = errors.New("analysis is already final")

// ErrMalformedInput is returned when the malformed fraction of a request's
// ledger entries exceeds the engine threshold. The whole request fails;
// below the threshold malformed entries are contained and reported as
// warnings.
var ErrMalformedInput = errors.New("too many malformed ledger entries")

// DefaultMalformedThreshold is the fraction of malformed entries above which
// an analysis request fails fatally instead of degrading to warnings.
const DefaultMalformedThreshold = 0.25

// Engine runs the full classification → statements → ratios → status/trend
// pipeline over an immutable chart and benchmark table. It holds no mutable
// state: one Engine serves concurrent requests.
type Engine struct {
	classifier *Classifier
	benchmarks Benchmarks

	// malformedThreshold is the fatal malformed-entry fraction (0..1].
	malformedThreshold float64
}

// NewEngine builds an engine over a validated chart and benchmark table.
// threshold <= 0 selects DefaultMalformedThreshold.
func NewEngine(chart *Chart, benchmarks Benchmarks, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultMalformedThreshold
	}
	return &Engine{
		classifier:         NewClassifier(chart),
		benchmarks:         benchmarks,
		malformedThreshold: threshold,
	}
}

// ValidatePeriod checks the ISO YYYY-MM period format.
func ValidatePeriod(period string) error {
	if _, err := time.Parse("2006-01", period); err != nil {
		return fmt.Errorf("invalid period %q, want YYYY-MM: %w", period, err)
	}
	return nil
}

// Analyze runs the whole pipeline for one (company, period) snapshot and
// assembles a draft analysis record. previous, when non-nil, supplies the
// prior period's ratios for trend evaluation. The caller always receives
// either a complete record (possibly with warnings) or a single fatal error,
// never a partial silent success.
func (e *Engine) Analyze(companyCode, period string, input StatementInput, previous *FinancialRatios) (*FinancialAnalysis, error) {
	if companyCode == "" {
		return nil, errors.New("company code is required")
	}
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}

	bsAccounts, bsIssues := e.classifier.ClassifyEntries(input.BalanceSheet)
	isAccounts, isIssues := e.classifier.ClassifyEntries(input.IncomeStatement)
	cfAccounts, cfIssues := e.classifier.ClassifyEntries(input.CashFlow)

	total := len(input.BalanceSheet) + len(input.IncomeStatement) + len(input.CashFlow)
	malformed := len(bsIssues) + len(isIssues) + len(cfIssues)
	if total > 0 && float64(malformed)/float64(total) > e.malformedThreshold {
		return nil, fmt.Errorf("%w: %d of %d entries rejected", ErrMalformedInput, malformed, total)
	}

	statements := BuildStatements(bsAccounts, isAccounts, cfAccounts)
	ratios := ComputeRatios(statements)
	statuses := EvaluateStatuses(ratios, e.benchmarks)

	var trends map[string]TrendResult
	if previous != nil {
		trends = ComputeTrends(ratios, *previous)
	}

	a := &FinancialAnalysis{
		CompanyCode: companyCode,
		Period:      period,
		Statements:  statements,
		Ratios:      ratios,
		Statuses:    statuses,
		Trends:      trends,
	}
	a.Warnings = collectWarnings(statements, ratios, malformed,
		append(append(bsIssues, isIssues...), cfIssues...))

	now := time.Now().UTC()
	a.Status = StatusDraft
	a.Version = SchemaVersion
	a.CreatedAt = now
	a.UpdatedAt = now
	return a, nil
}

// collectWarnings turns contained per-account and per-ratio problems into
// structured metadata on the record.
func collectWarnings(s Statements, ratios FinancialRatios, malformed int, issues []InputIssue) []Warning {
	var warnings []Warning

	gap := s.BalanceSheet.UnclassifiedTotal.
		Add(s.IncomeStatement.UnclassifiedTotal).
		Add(s.CashFlow.UnclassifiedTotal)
	if !gap.IsZero() {
		warnings = append(warnings, Warning{
			Code:    WarnClassificationGap,
			Message: fmt.Sprintf("unclassified account total %s excluded from statement totals", gap),
		})
	}

	if !s.BalanceSheet.Balanced {
		warnings = append(warnings, Warning{
			Code:    WarnStatementImbalance,
			Message: fmt.Sprintf("assets differ from liabilities + equity by %s", s.BalanceSheet.Imbalance),
		})
	}

	groups := ratios.Groups()
	for _, name := range []string{"profitability", "liquidity", "efficiency", "leverage"} {
		if g := groups[name]; g.Incomplete {
			warnings = append(warnings, Warning{
				Code:    WarnRatioIncomplete,
				Message: fmt.Sprintf("%s group has ratios with zero denominators", name),
			})
		}
	}

	if malformed > 0 {
		for _, issue := range issues {
			warnings = append(warnings, Warning{
				Code:    WarnInputShape,
				Message: fmt.Sprintf("account %d rejected: %s", issue.AccountCode, issue.Reason),
			})
		}
	}
	return warnings
}

// Finalize transitions the record draft → final. The transition is one-way:
// finalizing an already-final record fails with ErrInvalidState and changes
// nothing. Persistence-level serialization of concurrent finalize attempts
// is the store's responsibility.
func (a *FinancialAnalysis) Finalize() error {
	if a.Status == StatusFinal {
		return ErrInvalidState
	}
	a.Status = StatusFinal
	a.UpdatedAt = time.Now().UTC()
	return nil
}
