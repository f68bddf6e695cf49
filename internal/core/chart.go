package core

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrConfiguration is returned when the chart of accounts fails load-time
// validation. It is fatal: no analysis may run against an invalid chart.
var ErrConfiguration = errors.New("invalid chart configuration")

// Category is a top-level statement category. Classification priority follows
// the declaration order below.
type Category string

const (
	CategoryAssets       Category = "assets"
	CategoryContraAssets Category = "contraAssets"
	CategoryLiabilities  Category = "liabilities"
	CategoryEquity       Category = "equity"
	CategoryRevenue      Category = "revenue"
	CategoryExpenses     Category = "expenses"
)

// categoryRank gives each category its fixed classification priority.
var categoryRank = map[Category]int{
	CategoryAssets:       0,
	CategoryContraAssets: 1,
	CategoryLiabilities:  2,
	CategoryEquity:       3,
	CategoryRevenue:      4,
	CategoryExpenses:     5,
}

// NormalBalance is the side on which an account type naturally accumulates
// positive balances.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "debit"
	CreditNormal NormalBalance = "credit"
)

// NormalBalance returns the natural balance side for the category.
// Assets and expenses are debit-normal; contra assets, liabilities, equity
// and revenue are credit-normal.
func (c Category) NormalBalance() NormalBalance {
	switch c {
	case CategoryAssets, CategoryExpenses:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Activity is a cash-flow activity. The cash-flow dimension is classified
// independently from the statement dimension; priority follows declaration
// order.
type Activity string

const (
	ActivityOperating Activity = "operating"
	ActivityInvesting Activity = "investing"
	ActivityFinancing Activity = "financing"
)

var activityRank = map[Activity]int{
	ActivityOperating: 0,
	ActivityInvesting: 1,
	ActivityFinancing: 2,
}

// CategoryPath identifies a statement line item, e.g. "assets.cash.cashOnHand".
// The first segment is always the top-level Category.
type CategoryPath string

// Unclassified is the fallback path for account codes matching no configured
// rule. Unclassified accounts are excluded from statement totals but tracked.
const Unclassified CategoryPath = "unclassified"

// Category returns the top-level category segment of the path.
func (p CategoryPath) Category() Category {
	s := string(p)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return Category(s)
}

// HasPrefix reports whether the path is equal to, or nested below, prefix.
func (p CategoryPath) HasPrefix(prefix CategoryPath) bool {
	return p == prefix || strings.HasPrefix(string(p), string(prefix)+".")
}

// ── Matchers ──────────────────────────────────────────────────────────────────

// Matcher is an inclusive numeric account-code range. A literal code is a
// range with Start == End.
type Matcher struct {
	Start int
	End   int
}

// ParseMatcher parses "3010" (literal) or "3110-3590" (inclusive range).
func ParseMatcher(s string) (Matcher, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Matcher{}, fmt.Errorf("%w: empty code matcher", ErrConfiguration)
	}
	lo, hi, isRange := strings.Cut(s, "-")
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return Matcher{}, fmt.Errorf("%w: bad account code %q", ErrConfiguration, s)
	}
	end := start
	if isRange {
		end, err = strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return Matcher{}, fmt.Errorf("%w: bad account code range %q", ErrConfiguration, s)
		}
	}
	if start < 0 || end < start {
		return Matcher{}, fmt.Errorf("%w: inverted account code range %q", ErrConfiguration, s)
	}
	return Matcher{Start: start, End: end}, nil
}

// Contains reports whether code falls within the inclusive range.
func (m Matcher) Contains(code int) bool {
	return code >= m.Start && code <= m.End
}

// IsLiteral reports whether the matcher targets a single account code.
func (m Matcher) IsLiteral() bool { return m.Start == m.End }

func (m Matcher) String() string {
	if m.IsLiteral() {
		return strconv.Itoa(m.Start)
	}
	return fmt.Sprintf("%d-%d", m.Start, m.End)
}

func (m Matcher) overlaps(o Matcher) bool {
	return m.Start <= o.End && o.Start <= m.End
}

// ── Chart ─────────────────────────────────────────────────────────────────────

// StatementRule binds a set of code matchers to one statement line item.
type StatementRule struct {
	Path     CategoryPath
	Matchers []Matcher
}

// ActivityRule binds a set of code matchers to one cash-flow activity.
type ActivityRule struct {
	Activity Activity
	Matchers []Matcher
}

// Chart is the immutable chart-of-accounts configuration: an ordered list of
// (category, matcher) rules per dimension, evaluated top to bottom. It is
// loaded once at process start and never mutated, so concurrent reads need
// no synchronization.
type Chart struct {
	Version   string
	Statement []StatementRule
	CashFlow  []ActivityRule
}

// Normalize sorts the rules into the fixed classification priority order
// (assets, contraAssets, liabilities, equity, revenue, expenses; operating,
// investing, financing) while preserving declaration order within a category.
func (c *Chart) Normalize() {
	sort.SliceStable(c.Statement, func(i, j int) bool {
		return categoryRank[c.Statement[i].Path.Category()] < categoryRank[c.Statement[j].Path.Category()]
	})
	sort.SliceStable(c.CashFlow, func(i, j int) bool {
		return activityRank[c.CashFlow[i].Activity] < activityRank[c.CashFlow[j].Activity]
	})
}

// Validate checks the chart at load time. A matcher overlapping another
// matcher under a different category path (or a different activity) is a
// configuration error; overlap within the same path is redundant and ignored.
// The two dimensions are independent and validated separately.
func (c *Chart) Validate() error {
	for _, r := range c.Statement {
		if _, ok := categoryRank[r.Path.Category()]; !ok {
			return fmt.Errorf("%w: rule %q has unknown top-level category %q", ErrConfiguration, r.Path, r.Path.Category())
		}
		if len(r.Matchers) == 0 {
			return fmt.Errorf("%w: rule %q has no code matchers", ErrConfiguration, r.Path)
		}
	}
	for _, r := range c.CashFlow {
		if _, ok := activityRank[r.Activity]; !ok {
			return fmt.Errorf("%w: unknown cash-flow activity %q", ErrConfiguration, r.Activity)
		}
		if len(r.Matchers) == 0 {
			return fmt.Errorf("%w: activity %q has no code matchers", ErrConfiguration, r.Activity)
		}
	}

	for i, a := range c.Statement {
		for _, b := range c.Statement[i+1:] {
			if a.Path == b.Path {
				continue
			}
			for _, ma := range a.Matchers {
				for _, mb := range b.Matchers {
					if ma.overlaps(mb) {
						return fmt.Errorf("%w: %s overlaps %s across categories %q and %q",
							ErrConfiguration, ma, mb, a.Path, b.Path)
					}
				}
			}
		}
	}
	for i, a := range c.CashFlow {
		for _, b := range c.CashFlow[i+1:] {
			if a.Activity == b.Activity {
				continue
			}
			for _, ma := range a.Matchers {
				for _, mb := range b.Matchers {
					if ma.overlaps(mb) {
						return fmt.Errorf("%w: %s overlaps %s across activities %q and %q",
							ErrConfiguration, ma, mb, a.Activity, b.Activity)
					}
				}
			}
		}
	}
	return nil
}
