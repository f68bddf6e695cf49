package core_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"statement-analyzer/internal/core"
)

func testEngine() *core.Engine {
	return core.NewEngine(testChart(), core.Benchmarks{
		core.RatioCurrent: decimal.RequireFromString("2.0"),
	}, 0)
}

func TestEngineAnalyze(t *testing.T) {
	engine := testEngine()

	input := core.StatementInput{
		BalanceSheet:    balancedTrialBalance(),
		IncomeStatement: incomeEntries(),
		CashFlow: []core.LedgerEntry{
			{AccountCode: 3110, Balance: "80000.00"},
			{AccountCode: 110, Balance: "-30000.00"},
		},
	}

	a, err := engine.Analyze("1000", "2026-06", input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Status != core.StatusDraft {
		t.Errorf("status = %s, want draft", a.Status)
	}
	if a.Version != core.SchemaVersion {
		t.Errorf("version = %d, want %d", a.Version, core.SchemaVersion)
	}
	if a.CreatedAt.IsZero() || !a.CreatedAt.Equal(a.UpdatedAt) {
		t.Errorf("timestamps not set at creation: created %v updated %v", a.CreatedAt, a.UpdatedAt)
	}
	if len(a.Warnings) != 0 {
		t.Errorf("clean input produced warnings: %v", a.Warnings)
	}

	cur := a.Ratios.Liquidity.Values[core.RatioCurrent]
	if !cur.Valid || !cur.Value.Equal(decimal.RequireFromString("4.5")) {
		t.Errorf("currentRatio = %+v, want 4.5", cur)
	}
	// 4.5 vs benchmark 2.0 is far above the dead-band.
	if a.Statuses[core.RatioCurrent] != core.DirectionUp {
		t.Errorf("currentRatio status = %s, want up", a.Statuses[core.RatioCurrent])
	}
	if a.Trends != nil {
		t.Error("no previous ratios supplied, trends must be empty")
	}
}

func TestEngineAnalyze_Trends(t *testing.T) {
	engine := testEngine()
	input := core.StatementInput{
		BalanceSheet:    balancedTrialBalance(),
		IncomeStatement: incomeEntries(),
	}

	first, err := engine.Analyze("1000", "2026-05", input, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Analyze("1000", "2026-06", input, &first.Ratios)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr, ok := second.Trends[core.RatioCurrent]
	if !ok {
		t.Fatal("expected a trend for currentRatio")
	}
	if tr.Direction != core.DirectionStable || !tr.PercentageChange.Value.IsZero() {
		t.Errorf("same input across periods: trend = %+v, want stable 0%%", tr)
	}
}

func TestEngineAnalyze_Warnings(t *testing.T) {
	engine := testEngine()

	// Unclassified account, one malformed entry, and an imbalance.
	input := core.StatementInput{
		BalanceSheet: append(balancedTrialBalance()[:9],
			core.LedgerEntry{AccountCode: 9999, Balance: "500.00"},
			core.LedgerEntry{AccountCode: 3110, Balance: "oops"},
		),
		IncomeStatement: []core.LedgerEntry{
			{AccountCode: 9010, Balance: "0"}, // zero revenue → incomplete ratios
		},
	}

	a, err := engine.Analyze("1000", "2026-06", input, nil)
	if err != nil {
		t.Fatalf("warnings must not be fatal: %v", err)
	}

	want := map[string]bool{
		core.WarnClassificationGap:  false,
		core.WarnStatementImbalance: false,
		core.WarnRatioIncomplete:    false,
		core.WarnInputShape:         false,
	}
	for _, w := range a.Warnings {
		want[w.Code] = true
	}
	for code, seen := range want {
		if !seen {
			t.Errorf("expected warning %s, got %v", code, a.Warnings)
		}
	}
}

func TestEngineAnalyze_MalformedThresholdFatal(t *testing.T) {
	engine := testEngine()

	input := core.StatementInput{
		BalanceSheet: []core.LedgerEntry{
			{AccountCode: 3010, Balance: "100.00"},
			{AccountCode: 3110, Balance: "not-a-number"},
			{AccountCode: 4010, Balance: ""},
		},
	}

	_, err := engine.Analyze("1000", "2026-06", input, nil)
	if !errors.Is(err, core.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestEngineAnalyze_InvalidPeriod(t *testing.T) {
	engine := testEngine()
	for _, period := range []string{"", "2026", "06-2026", "2026-13", "2026-06-01"} {
		if _, err := engine.Analyze("1000", period, core.StatementInput{}, nil); err == nil {
			t.Errorf("period %q: expected error", period)
		}
	}
}

func TestFinalize(t *testing.T) {
	engine := testEngine()
	a, err := engine.Analyze("1000", "2026-06", core.StatementInput{BalanceSheet: balancedTrialBalance()}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created := a.CreatedAt
	if err := a.Finalize(); err != nil {
		t.Fatalf("finalizing a draft failed: %v", err)
	}
	if a.Status != core.StatusFinal {
		t.Errorf("status = %s, want final", a.Status)
	}
	if !a.CreatedAt.Equal(created) {
		t.Error("createdAt must not change on finalize")
	}
	if a.UpdatedAt.Before(created) {
		t.Error("updatedAt must be refreshed on finalize")
	}

	// The transition is one-way.
	if err := a.Finalize(); !errors.Is(err, core.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on second finalize, got %v", err)
	}
	if a.Status != core.StatusFinal {
		t.Errorf("failed finalize must not change state, got %s", a.Status)
	}
}
