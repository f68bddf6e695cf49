package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Classifier maps numeric account codes to statement categories and cash-flow
// activities against an immutable chart. Classification is a pure function of
// the code and the chart: no hidden state, safe for concurrent use.
type Classifier struct {
	chart *Chart
}

// NewClassifier returns a classifier over the given chart. The chart must
// already have passed Validate.
func NewClassifier(chart *Chart) *Classifier {
	return &Classifier{chart: chart}
}

// Classify resolves the statement category for an account code. Rules are
// evaluated in fixed priority order; within each rule, literal matchers are
// tested before ranges and both bounds are inclusive. First match wins.
// A code matching no rule classifies to Unclassified.
func (c *Classifier) Classify(code int) CategoryPath {
	for _, r := range c.chart.Statement {
		if matchAny(r.Matchers, code) {
			return r.Path
		}
	}
	return Unclassified
}

// ClassifyActivity resolves the cash-flow activity for an account code,
// independently of the statement dimension. Returns "" when no activity rule
// matches.
func (c *Classifier) ClassifyActivity(code int) Activity {
	for _, r := range c.chart.CashFlow {
		if matchAny(r.Matchers, code) {
			return r.Activity
		}
	}
	return ""
}

// matchAny tests literal matchers first, then ranges, per the configured
// matcher set of one rule.
func matchAny(matchers []Matcher, code int) bool {
	for _, m := range matchers {
		if m.IsLiteral() && m.Contains(code) {
			return true
		}
	}
	for _, m := range matchers {
		if !m.IsLiteral() && m.Contains(code) {
			return true
		}
	}
	return false
}

// ClassifyEntries parses and classifies a batch of raw ledger entries.
// Malformed entries (missing account code, non-numeric balance) are excluded
// from the returned accounts and reported as issues; they never abort the
// batch here — the caller enforces the whole-request malformed threshold.
func (c *Classifier) ClassifyEntries(entries []LedgerEntry) ([]ClassifiedAccount, []InputIssue) {
	accounts := make([]ClassifiedAccount, 0, len(entries))
	var issues []InputIssue

	for _, e := range entries {
		if e.AccountCode <= 0 {
			issues = append(issues, InputIssue{AccountCode: e.AccountCode, Reason: "missing or invalid account code"})
			continue
		}
		raw := strings.TrimSpace(e.Balance)
		if raw == "" {
			issues = append(issues, InputIssue{AccountCode: e.AccountCode, Reason: "missing balance"})
			continue
		}
		bal, err := decimal.NewFromString(raw)
		if err != nil {
			issues = append(issues, InputIssue{AccountCode: e.AccountCode, Reason: "non-numeric balance " + e.Balance})
			continue
		}

		path := c.Classify(e.AccountCode)
		acc := ClassifiedAccount{
			AccountCode: e.AccountCode,
			Balance:     bal,
			Category:    path,
			Activity:    c.ClassifyActivity(e.AccountCode),
		}
		if path != Unclassified {
			acc.NormalBalance = path.Category().NormalBalance()
		}
		accounts = append(accounts, acc)
	}
	return accounts, issues
}
