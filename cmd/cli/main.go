package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/tomycgitntnx/Automation/internal/config"
	"github.com/tomycgitntnx/Automation/internal/formatter"
	"github.com/tomycgitntnx/Automation/internal/runner"
	"github.com/tomycgitntnx/Automation/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	outputDir := flag.String("output", "", "Report output directory (overrides config)")
	groupBy := flag.String("group-by", "", "Grouping strategy: 'endpoint' or 'cluster' (overrides config)")
	statusTable := flag.String("status-table", "", "Path to a captured status table dump to ingest as one more source")
	outputFormat := flag.String("format", "pretty", "Output format: 'pretty' or 'json'")
	noColor := flag.Bool("no-color", false, "Disable colored output")

	flag.Parse()

	// Initialize logger
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *outputDir != "" {
		cfg.Report.OutputDir = *outputDir
	}
	if *groupBy != "" {
		cfg.Report.GroupBy = *groupBy
	}

	// The spinner writes to the terminal; keep JSON output clean
	opts := runner.Options{StatusTable: *statusTable}
	if *outputFormat != "json" {
		opts.Progress = ui.NewSpinnerProgress()
	}

	reportRunner, err := runner.New(cfg, logger, opts)
	if err != nil {
		logger.Fatal("Failed to create runner", zap.Error(err))
	}

	run, err := reportRunner.Run(context.Background())
	if err != nil {
		logger.Fatal("Report run failed", zap.Error(err))
	}

	// Output result
	if *outputFormat == "json" {
		output, err := json.MarshalIndent(run, "", "  ")
		if err != nil {
			logger.Fatal("Failed to marshal run", zap.Error(err))
		}
		fmt.Println(string(output))
	} else {
		outputFormatter := formatter.NewFormatter(!*noColor)
		fmt.Println(outputFormatter.FormatReportRun(run))
	}
}
