package core_test

import (
	"errors"
	"testing"

	"statement-analyzer/internal/core"
)

// m parses a matcher literal/range, panicking on bad test data.
func m(s string) core.Matcher {
	v, err := core.ParseMatcher(s)
	if err != nil {
		panic(err)
	}
	return v
}

// testChart is a reduced UzNAS-style chart shared across the core tests.
func testChart() *core.Chart {
	c := &core.Chart{
		Version: "test-1",
		Statement: []core.StatementRule{
			{Path: "assets.cash.cashOnHand", Matchers: []core.Matcher{m("3010")}},
			{Path: "assets.cash.cashInBank", Matchers: []core.Matcher{m("3110-3590")}},
			{Path: "assets.receivables.trade", Matchers: []core.Matcher{m("4010-4890")}},
			{Path: "assets.inventory.materials", Matchers: []core.Matcher{m("1010-1190")}},
			{Path: "assets.fixedAssets.property", Matchers: []core.Matcher{m("0100-0199")}},
			{Path: "contraAssets.accumulatedDepreciation", Matchers: []core.Matcher{m("0200-0299")}},
			{Path: "liabilities.current.payables", Matchers: []core.Matcher{m("6010-6890")}},
			{Path: "liabilities.longTerm.loans", Matchers: []core.Matcher{m("7010-7890")}},
			{Path: "equity.charterCapital", Matchers: []core.Matcher{m("8310-8390")}},
			{Path: "equity.retainedEarnings", Matchers: []core.Matcher{m("8710-8790")}},
			{Path: "revenue.sales", Matchers: []core.Matcher{m("9010-9090")}},
			{Path: "expenses.costOfGoodsSold", Matchers: []core.Matcher{m("9110-9190")}},
			{Path: "expenses.operating", Matchers: []core.Matcher{m("9410-9450")}},
			{Path: "expenses.interest", Matchers: []core.Matcher{m("9610")}},
		},
		CashFlow: []core.ActivityRule{
			{Activity: core.ActivityOperating, Matchers: []core.Matcher{
				m("3010"), m("3110-3590"), m("4010-4890"), m("1010-1190"),
				m("6010-6890"), m("9010-9190"), m("9410-9450"),
			}},
			{Activity: core.ActivityInvesting, Matchers: []core.Matcher{m("0100-0299")}},
			{Activity: core.ActivityFinancing, Matchers: []core.Matcher{
				m("7010-7890"), m("8310-8790"), m("9610"),
			}},
		},
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

func TestParseMatcher(t *testing.T) {
	tests := []struct {
		in         string
		start, end int
		wantErr    bool
	}{
		{in: "3010", start: 3010, end: 3010},
		{in: "3110-3590", start: 3110, end: 3590},
		{in: "0100-0199", start: 100, end: 199},
		{in: " 4010 - 4890 ", start: 4010, end: 4890},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "3590-3110", wantErr: true},
		{in: "3110-xyz", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := core.ParseMatcher(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				if !errors.Is(err, core.ErrConfiguration) {
					t.Errorf("expected ErrConfiguration, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Start != tt.start || got.End != tt.end {
				t.Errorf("got %d-%d, want %d-%d", got.Start, got.End, tt.start, tt.end)
			}
		})
	}
}

func TestChartValidate_CrossCategoryOverlap(t *testing.T) {
	c := &core.Chart{
		Statement: []core.StatementRule{
			{Path: "assets.fixedAssets.property", Matchers: []core.Matcher{m("0100-0299")}},
			{Path: "assets.investments.longTerm", Matchers: []core.Matcher{m("0250-0690")}},
		},
	}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected configuration error for overlapping ranges in different categories")
	}
	if !errors.Is(err, core.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestChartValidate_SamePathOverlapIgnored(t *testing.T) {
	// Redundant overlap under one path is permitted.
	c := &core.Chart{
		Statement: []core.StatementRule{
			{Path: "assets.cash.cashInBank", Matchers: []core.Matcher{m("3110-3590"), m("3110-3390")}},
		},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChartValidate_CrossActivityOverlap(t *testing.T) {
	c := &core.Chart{
		CashFlow: []core.ActivityRule{
			{Activity: core.ActivityOperating, Matchers: []core.Matcher{m("6010-6890")}},
			{Activity: core.ActivityFinancing, Matchers: []core.Matcher{m("6800-7890")}},
		},
	}
	if err := c.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestChartValidate_UnknownCategory(t *testing.T) {
	c := &core.Chart{
		Statement: []core.StatementRule{
			{Path: "funds.cash", Matchers: []core.Matcher{m("3010")}},
		},
	}
	if err := c.Validate(); !errors.Is(err, core.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestChartNormalize_CategoryPriorityOrder(t *testing.T) {
	c := &core.Chart{
		Statement: []core.StatementRule{
			{Path: "equity.charterCapital", Matchers: []core.Matcher{m("8310-8390")}},
			{Path: "assets.cash.cashOnHand", Matchers: []core.Matcher{m("3010")}},
			{Path: "contraAssets.accumulatedDepreciation", Matchers: []core.Matcher{m("0200-0299")}},
		},
	}
	c.Normalize()
	got := []core.Category{
		c.Statement[0].Path.Category(),
		c.Statement[1].Path.Category(),
		c.Statement[2].Path.Category(),
	}
	want := []core.Category{core.CategoryAssets, core.CategoryContraAssets, core.CategoryEquity}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCategoryNormalBalance(t *testing.T) {
	tests := []struct {
		category core.Category
		want     core.NormalBalance
	}{
		{core.CategoryAssets, core.DebitNormal},
		{core.CategoryExpenses, core.DebitNormal},
		{core.CategoryContraAssets, core.CreditNormal},
		{core.CategoryLiabilities, core.CreditNormal},
		{core.CategoryEquity, core.CreditNormal},
		{core.CategoryRevenue, core.CreditNormal},
	}
	for _, tt := range tests {
		if got := tt.category.NormalBalance(); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.category, got, tt.want)
		}
	}
}
