// Package main provides the scraper command that writes the daily eTenders snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"etenders/internal/config"
	"etenders/internal/formatter"
	"etenders/internal/logger"
	"etenders/internal/metrics"
	"etenders/internal/pipeline"
	"etenders/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+config.DefaultPath+" if present)")
	envFile := flag.String("env", ".env", "Path to a dotenv file with ETENDERS_* overrides")
	preview := flag.Int("preview", -1, "Rows to print after the run (overrides logging.sample_records)")
	showUsage := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *showUsage {
		printUsage()

		return 0
	}

	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)

		return 1
	}

	if *preview >= 0 {
		cfg.Logging.SampleRecords = *preview
	}

	runID := uuid.New()
	log := logger.NewLogger(cfg.Logging.Level)

	log.Info("🚀 Starting eTenders scraper", "run_id", runID.String(), "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.New()

	deps := pipeline.Deps{
		Metrics: collector,
		Logger:  log,
		RunID:   runID,
	}

	if cfg.Storage.PostgresDSN != "" {
		archive, closeArchive := openArchive(ctx, cfg.Storage.PostgresDSN, log)
		if archive != nil {
			defer closeArchive()

			deps.Archive = archive
		}
	}

	orchestrator, err := pipeline.NewOrchestrator(cfg, deps)
	if err != nil {
		log.Error("Failed to set up pipeline", "error", err)

		return 1
	}

	startTime := time.Now()
	res, runErr := orchestrator.Run(ctx)

	if cfg.Metrics.Textfile != "" {
		if err := collector.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Error("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn("Run interrupted")
		}

		return 1
	}

	printSummary(res, time.Since(startTime))

	if cfg.Logging.SampleRecords > 0 {
		table, err := formatter.Preview(res.Records, cfg.Logging.SampleRecords, nil, formatter.DefaultCellWidth)
		if err != nil {
			log.Error("Failed to render preview", "error", err)

			return 0
		}

		fmt.Println()
		fmt.Println(table.Render())
	}

	return 0
}

// openArchive connects to Postgres. A database that is down only disables archiving.
func openArchive(ctx context.Context, dsn string, log *logger.Logger) (*storage.Archive, func()) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := storage.Connect(connectCtx, dsn)
	if err != nil {
		log.Error("Archive disabled", "error", err)

		return nil, nil
	}

	archive := storage.NewArchive(pool)
	if err := archive.EnsureSchema(connectCtx); err != nil {
		log.Error("Archive disabled", "error", err)
		pool.Close()

		return nil, nil
	}

	return archive, pool.Close
}

func printSummary(res *pipeline.Result, elapsed time.Duration) {
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID:          %s\n", res.RunID)
	fmt.Printf("Listing entries: %d\n", res.Parsed)
	fmt.Printf("Skipped entries: %d\n", res.Skipped)
	fmt.Printf("Records mapped:  %d\n", res.Mapped)
	fmt.Printf("Duplicates:      %d\n", res.Duplicates)
	fmt.Printf("Records saved:   %d\n", len(res.Records))

	for _, f := range res.Files {
		fmt.Printf("Snapshot:        %s\n", f)
	}

	if res.Manifest != "" {
		fmt.Printf("Manifest:        %s\n", res.Manifest)
	}

	if res.Archived > 0 {
		fmt.Printf("Archived rows:   %d\n", res.Archived)
	}

	fmt.Printf("Total Duration:  %v\n", elapsed.Round(time.Millisecond))
	fmt.Println("------------------------------------------------")
}

func printUsage() {
	fmt.Println("Usage: ./bin/scraper [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  ETENDERS_BASE_URL, ETENDERS_OUTPUT_DIR, ETENDERS_LOG_LEVEL,")
	fmt.Println("  ETENDERS_MAX_RECORDS, ETENDERS_METRICS_TEXTFILE, DATABASE_URL")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/scraper")
	fmt.Println("  ./bin/scraper -config configs/scraper.yaml -preview 10")
}
