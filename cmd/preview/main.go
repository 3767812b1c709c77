// Package main provides the preview tool for printing a saved snapshot as a table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"etenders/internal/config"
	"etenders/internal/export"
	"etenders/internal/formatter"
	"etenders/pkg/metadata"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+config.DefaultPath+" if present)")
	envFile := flag.String("env", ".env", "Path to a dotenv file with ETENDERS_* overrides")
	snapshot := flag.String("file", "", "Snapshot CSV to print (default: today's snapshot)")
	rows := flag.Int("rows", 20, "Number of rows to print (0 for all)")
	columns := flag.String("columns", "", "Comma-separated column names to print")
	width := flag.Int("width", formatter.DefaultCellWidth, "Maximum runes per cell (0 for no limit)")
	verify := flag.Bool("verify", false, "Verify the snapshot against its manifest first")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	path := *snapshot
	if path == "" {
		cfg, err := config.Load(*configFile, *envFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		path = cfg.SnapshotPath(time.Now(), "csv")
	}

	if *verify {
		manifest := metadata.PathFor(path)

		if _, err := metadata.Verify(manifest); err != nil {
			log.Fatalf("❌ Verification failed for %s: %v\n", manifest, err)
		}

		fmt.Printf("✅ Verified against %s\n\n", manifest)
	}

	records, err := export.ReadCSV(path)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v\n", path, err)
	}

	var cols []string

	if *columns != "" {
		for _, c := range strings.Split(*columns, ",") {
			cols = append(cols, strings.TrimSpace(c))
		}
	}

	table, err := formatter.Preview(records, *rows, cols, *width)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	fmt.Printf("📂 %s (%d records)\n\n", path, len(records))
	fmt.Println(table.Render())
}

func printUsage() {
	fmt.Println("Usage: ./bin/preview [OPTIONS]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/preview -file data/results_2023-09-04.csv -rows 5")
	fmt.Println("  ./bin/preview -columns \"Tender Number,Closing date\" -verify")
}
