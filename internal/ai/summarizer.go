// Package ai generates narrative summaries of computed analyses. It runs
// strictly after the engine and consumes its numeric and trend facts as
// read-only input; it never feeds anything back into the computation.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"statement-analyzer/internal/core"
)

// Summary is the structured narrative produced for one analysis record.
type Summary struct {
	Headline        string   `json:"headline" jsonschema_description:"One-sentence overall assessment of the company's financial position for the period"`
	Highlights      []string `json:"highlights" jsonschema_description:"Three to five notable facts drawn ONLY from the supplied ratios, statuses and trends"`
	Recommendations []string `json:"recommendations" jsonschema_description:"Concrete actions suggested by under-benchmark or deteriorating ratios"`
	Confidence      float64  `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
}

// SummarizerService produces a narrative Summary for a completed analysis.
type SummarizerService interface {
	Summarize(ctx context.Context, a *core.FinancialAnalysis) (*Summary, error)
}

// Summarizer implements SummarizerService over the OpenAI responses API
// with structured output.
type Summarizer struct {
	client *openai.Client
}

// NewSummarizer constructs a Summarizer with the given API key.
func NewSummarizer(apiKey string) *Summarizer {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Summarizer{client: &client}
}

// Summarize renders the analysis facts into a prompt and requests a
// schema-constrained summary.
func (s *Summarizer) Summarize(ctx context.Context, a *core.FinancialAnalysis) (*Summary, error) {
	prompt := fmt.Sprintf(`You are a financial analyst reviewing a small enterprise.
Summarize the period analysis below for a non-specialist owner.
Rules:
1. Use ONLY the facts provided. Do not invent numbers.
2. Margin and Return ratios are percentages; the rest are plain ratios.
3. "status" compares the ratio to its benchmark; "trend" compares to the prior period.
4. Mention every warning.

Company: %s
Period: %s

%s`, a.CompanyCode, a.Period, renderFacts(a))

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "analysis_summary",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A narrative summary of a financial statement analysis"),
				},
			},
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var summary Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	return &summary, nil
}

// renderFacts flattens the record into a deterministic plain-text fact sheet.
func renderFacts(a *core.FinancialAnalysis) string {
	var b strings.Builder

	bs := a.Statements.BalanceSheet
	is := a.Statements.IncomeStatement
	cf := a.Statements.CashFlow
	fmt.Fprintf(&b, "Total assets: %s; liabilities: %s; equity: %s; balanced: %v\n",
		bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity, bs.Balanced)
	fmt.Fprintf(&b, "Revenue: %s; net income: %s; operating income: %s\n",
		is.Revenue, is.NetIncome, is.OperatingIncome)
	fmt.Fprintf(&b, "Cash flow — operating: %s; investing: %s; financing: %s\n",
		cf.Operating, cf.Investing, cf.Financing)

	b.WriteString("Ratios:\n")
	groups := a.Ratios.Groups()
	for _, name := range []string{"profitability", "liquidity", "efficiency", "leverage"} {
		g := groups[name]
		keys := make([]string, 0, len(g.Values))
		for k := range g.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r := g.Values[k]
			if !r.Valid {
				fmt.Fprintf(&b, "  %s (%s): N/A (zero denominator)\n", k, name)
				continue
			}
			line := fmt.Sprintf("  %s (%s): %s", k, name, r.Value.Round(2))
			if st, ok := a.Statuses[k]; ok {
				line += fmt.Sprintf("; status %s", st)
			}
			if tr, ok := a.Trends[k]; ok {
				if tr.PercentageChange.Valid {
					line += fmt.Sprintf("; trend %s (%s%%)", tr.Direction, tr.PercentageChange.Value.Round(2))
				} else {
					line += fmt.Sprintf("; trend %s", tr.Direction)
				}
			}
			b.WriteString(line + "\n")
		}
	}

	if len(a.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "  [%s] %s\n", w.Code, w.Message)
		}
	}
	return b.String()
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Summary
	return reflector.Reflect(v)
}
