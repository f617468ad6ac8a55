package main

import (
	"context"
	"flag"
	"time"

	"github.com/hanhanxue/260110-personal-budget/internal/config"
	"github.com/hanhanxue/260110-personal-budget/internal/export"
	"github.com/hanhanxue/260110-personal-budget/internal/ledger"
	"github.com/hanhanxue/260110-personal-budget/internal/logger"
	"github.com/hanhanxue/260110-personal-budget/internal/sheets"
)

func main() {
	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	budgetStr := flag.String("budget", "", "Budget to export: personal or business (required)")
	projectID := flag.String("project", "", "BigQuery project ID (required)")
	dataset := flag.String("dataset", "finance", "BigQuery dataset")
	table := flag.String("table", "budget_export", "BigQuery table")
	startDateStr := flag.String("start-date", "", "Start date in YYYY-MM-DD format (optional)")
	endDateStr := flag.String("end-date", "", "End date in YYYY-MM-DD format (optional)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview rows without inserting")
	flag.Parse()

	budget, err := ledger.ParseBudget(*budgetStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Error: --budget is required")
	}
	if *projectID == "" {
		log.Fatal().Msg("Error: --project is required")
	}

	for _, d := range []string{*startDateStr, *endDateStr} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			log.Fatal().Err(err).Str("date", d).Msg("Error: invalid date format, expected YYYY-MM-DD")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	store, err := sheets.New(ctx, sheets.Config{
		PersonalSpreadsheetID: cfg.PersonalSpreadsheetID,
		BusinessSpreadsheetID: cfg.BusinessSpreadsheetID,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create spreadsheet store")
	}

	// No limit: an export run covers the whole filtered range.
	transactions, total, err := store.List(ctx, budget, sheets.ListOptions{
		StartDate: *startDateStr,
		EndDate:   *endDateStr,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list transactions")
	}

	log.Info().
		Str("budget", string(budget)).
		Int("transactions", total).
		Msg("Fetched transactions for export")

	if *dryRun {
		for _, t := range transactions {
			log.Info().
				Int64("row", t.ID).
				Str("date", t.Date).
				Str("category", t.Table+" / "+t.Subcategory+" / "+t.LineItem).
				Float64("amount", t.Amount).
				Str("currency", string(t.Currency)).
				Msg("Would export")
		}
		log.Info().Int("rows", len(transactions)).Msg("Dry run complete, nothing inserted")
		return
	}

	exporter, err := export.NewExporter(ctx, *projectID, *dataset, *table, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create exporter")
	}
	defer exporter.Close()

	exportID, err := exporter.Export(ctx, budget, transactions)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if exportID == "" {
		log.Info().Msg("Nothing to export")
		return
	}

	log.Info().
		Str("export_id", exportID).
		Int("rows", len(transactions)).
		Str("destination", *dataset+"."+*table).
		Msg("Export complete")
}
