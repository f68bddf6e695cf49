package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	webAdapter "statement-analyzer/internal/adapters/web"
	"statement-analyzer/internal/ai"
	"statement-analyzer/internal/app"
	"statement-analyzer/internal/config"
	"statement-analyzer/internal/core"
	"statement-analyzer/internal/db"
	"statement-analyzer/internal/store"
)

func main() {
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

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	analyses := store.NewAnalysisStore(pool)

	var summarizer ai.SummarizerService
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		summarizer = ai.NewSummarizer(apiKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY is not set — summaries disabled")
	}

	svc := app.NewAppService(pool, engine, analyses, summarizer)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	handler := webAdapter.NewHandler(svc, os.Getenv("ALLOWED_ORIGINS"), jwtSecret)

	log.Printf("server starting on :%s (chart %s)", port, chart.Version)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
