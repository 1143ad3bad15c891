// Command migrate runs schema operations and visibility reconciliation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"entrelinhas/internal/config"
	"entrelinhas/internal/database"
	"entrelinhas/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|reconcile>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrations failed: %w", err)
		}
		log.Println("migrations applied")
	case "reconcile":
		// Repairs post visibility after REPORT_HIDE_THRESHOLD changes.
		reports := repository.NewReportRepository(db, cfg.ReportHideThreshold)
		flipped, err := reports.ReconcileVisibility(ctx)
		if err != nil {
			return fmt.Errorf("visibility reconciliation failed: %w", err)
		}
		log.Printf("visibility reconciled, %d posts flipped (threshold %d)", flipped, cfg.ReportHideThreshold)
	default:
		return usage()
	}

	return nil
}
