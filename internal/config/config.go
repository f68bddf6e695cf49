// Package config loads the chart-of-accounts and benchmark tables: static,
// versioned configuration data read once at process start. Changing either
// requires a new process, not a runtime API.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"statement-analyzer/internal/core"

	"github.com/shopspring/decimal"
)

//go:embed uznas.yaml
var defaultChartYAML []byte

//go:embed benchmarks.yaml
var defaultBenchmarksYAML []byte

// chartFile is the YAML shape of a chart-of-accounts file. Rule order inside
// the file is the classification priority within each category.
type chartFile struct {
	Version   string `yaml:"version"`
	Statement []struct {
		Path  string   `yaml:"path"`
		Codes []string `yaml:"codes"`
	} `yaml:"statement"`
	CashFlow []struct {
		Activity string   `yaml:"activity"`
		Codes    []string `yaml:"codes"`
	} `yaml:"cashflow"`
}

// ParseChart unmarshals, normalizes and validates a chart-of-accounts YAML
// document. Overlapping ranges across different categories fail here, before
// any analysis is attempted.
func ParseChart(data []byte) (*core.Chart, error) {
	var f chartFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("chart yaml: %w", err)
	}

	chart := &core.Chart{Version: f.Version}
	for _, r := range f.Statement {
		matchers, err := parseMatchers(r.Codes)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Path, err)
		}
		chart.Statement = append(chart.Statement, core.StatementRule{
			Path:     core.CategoryPath(r.Path),
			Matchers: matchers,
		})
	}
	for _, r := range f.CashFlow {
		matchers, err := parseMatchers(r.Codes)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", r.Activity, err)
		}
		chart.CashFlow = append(chart.CashFlow, core.ActivityRule{
			Activity: core.Activity(r.Activity),
			Matchers: matchers,
		})
	}

	chart.Normalize()
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	return chart, nil
}

func parseMatchers(codes []string) ([]core.Matcher, error) {
	matchers := make([]core.Matcher, 0, len(codes))
	for _, c := range codes {
		m, err := core.ParseMatcher(c)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

// benchmarksFile is the YAML shape of a benchmark table.
type benchmarksFile struct {
	Version    string            `yaml:"version"`
	Benchmarks map[string]string `yaml:"benchmarks"`
}

// ParseBenchmarks unmarshals a benchmark table. Values are decimal strings.
func ParseBenchmarks(data []byte) (core.Benchmarks, error) {
	var f benchmarksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("benchmarks yaml: %w", err)
	}
	b := make(core.Benchmarks, len(f.Benchmarks))
	for key, raw := range f.Benchmarks {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("benchmark %q: bad value %q", key, raw)
		}
		b[key] = v
	}
	return b, nil
}

// LoadChart reads a chart from path, or the embedded UzNAS default when path
// is empty.
func LoadChart(path string) (*core.Chart, error) {
	data := defaultChartYAML
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read chart config: %w", err)
		}
	}
	return ParseChart(data)
}

// LoadBenchmarks reads a benchmark table from path, or the embedded default
// when path is empty.
func LoadBenchmarks(path string) (core.Benchmarks, error) {
	data := defaultBenchmarksYAML
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read benchmark config: %w", err)
		}
	}
	return ParseBenchmarks(data)
}
