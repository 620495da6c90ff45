// Package main creates a daily report snapshot for a branch and prints it
// as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"storeledger/internal/app"
	"storeledger/internal/config"
	appctx "storeledger/internal/core/context"
	"storeledger/internal/core/id"
	"storeledger/internal/domain/reports"
	"storeledger/pkg/logger"
)

func main() {
	branchFlag := flag.String("branch", "", "branch id (required)")
	fromFlag := flag.String("from", "", "window start, RFC 3339 (default: start of today, UTC)")
	toFlag := flag.String("to", "", "window end, RFC 3339 (default: now)")
	flag.Parse()

	branchID, window, err := parseArgs(*branchFlag, *fromFlag, *toFlag, time.Now().UTC())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log.WithComponent("report"))
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	ctx = appctx.WithActor(ctx, &appctx.Actor{BranchID: branchID.String()})

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open application", "error", err)
	}
	defer a.Close()

	report, err := a.Reports.Create(ctx, branchID, window)
	if err != nil {
		log.Fatalw("failed to create report", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Fatalw("failed to print report", "error", err)
	}
}

func parseArgs(branchRaw, fromRaw, toRaw string, now time.Time) (id.ID, reports.Window, error) {
	var window reports.Window

	if branchRaw == "" {
		return id.Nil(), window, fmt.Errorf("-branch is required")
	}
	branchID, err := id.Parse(branchRaw)
	if err != nil {
		return id.Nil(), window, fmt.Errorf("invalid -branch: %w", err)
	}

	window.Start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	window.End = now

	if fromRaw != "" {
		if window.Start, err = time.Parse(time.RFC3339, fromRaw); err != nil {
			return id.Nil(), window, fmt.Errorf("invalid -from: %w", err)
		}
	}
	if toRaw != "" {
		if window.End, err = time.Parse(time.RFC3339, toRaw); err != nil {
			return id.Nil(), window, fmt.Errorf("invalid -to: %w", err)
		}
	}
	return branchID, window, nil
}
