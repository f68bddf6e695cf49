// Command analyze runs the statement analysis pipeline over a ledger
// snapshot file and prints the resulting analysis record as JSON. It needs
// no database: the record is not persisted.
//
// Usage:
//
//	analyze -company 1000 -period 2026-06 -input ledger.json [-previous prior.json]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"statement-analyzer/internal/config"
	"statement-analyzer/internal/core"
)

func main() {
	company := flag.String("company", "", "company code")
	period := flag.String("period", "", "period (YYYY-MM)")
	inputPath := flag.String("input", "", "ledger snapshot JSON file")
	previousPath := flag.String("previous", "", "prior period analysis JSON file (optional, enables trends)")
	flag.Parse()

	if *company == "" || *period == "" || *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	chart, err := config.LoadChart(os.Getenv("CHART_CONFIG"))
	if err != nil {
		log.Fatalf("chart config: %v", err)
	}
	benchmarks, err := config.LoadBenchmarks(os.Getenv("BENCHMARK_CONFIG"))
	if err != nil {
		log.Fatalf("benchmark config: %v", err)
	}
	engine := core.NewEngine(chart, benchmarks, 0)

	var input core.StatementInput
	if err := readJSON(*inputPath, &input); err != nil {
		log.Fatalf("input: %v", err)
	}

	var previous *core.FinancialRatios
	if *previousPath != "" {
		var prior core.FinancialAnalysis
		if err := readJSON(*previousPath, &prior); err != nil {
			log.Fatalf("previous: %v", err)
		}
		previous = &prior.Ratios
	}

	analysis, err := engine.Analyze(*company, *period, input, previous)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
