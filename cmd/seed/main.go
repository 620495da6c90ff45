// Package main seeds a demo branch, worker and supplier, and optionally
// imports a product catalog from an .xlsx file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"storeledger/internal/app"
	"storeledger/internal/config"
	appctx "storeledger/internal/core/context"
	"storeledger/internal/domain/catalogs/branch"
	"storeledger/internal/domain/catalogs/supplier"
	"storeledger/internal/domain/catalogs/worker"
	"storeledger/internal/infrastructure/excel"
	"storeledger/pkg/logger"
)

func main() {
	branchName := flag.String("branch", "Main store", "name of the demo branch")
	location := flag.String("location", "Tashkent", "location of the demo branch")
	workerPhone := flag.String("worker-phone", "+998901234567", "phone number of the demo worker")
	catalogPath := flag.String("catalog", "", "optional .xlsx product catalog to import into the branch")
	flag.Parse()

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

	ctx := logger.WithLogger(context.Background(), log.WithComponent("seed"))
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open application", "error", err)
	}
	defer a.Close()

	b := branch.NewBranch(*branchName, *location)
	if err := a.Branches.Create(ctx, b); err != nil {
		log.Fatalw("failed to create branch", "error", err)
	}

	w := worker.NewWorker(b.ID, "Demo cashier", *workerPhone, "cashier")
	if err := a.Workers.Create(ctx, w); err != nil {
		log.Fatalw("failed to create worker", "error", err)
	}

	s := supplier.NewSupplier(&b.ID, "Demo supplier", *workerPhone)
	if err := a.Suppliers.Create(ctx, s); err != nil {
		log.Fatalw("failed to create supplier", "error", err)
	}

	ctx = appctx.WithActor(ctx, &appctx.Actor{BranchID: b.ID.String(), WorkerID: w.ID.String()})
	logger.Info(ctx, "demo registry created", "branch_id", b.ID, "worker_id", w.ID, "supplier_id", s.ID)

	if *catalogPath != "" {
		if err := importCatalog(ctx, a, *catalogPath, b); err != nil {
			log.Fatalw("failed to import catalog", "error", err, "path", *catalogPath)
		}
	}

	log.Info("seeding completed successfully")
}

func importCatalog(ctx context.Context, a *app.App, path string, b *branch.Branch) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	products, err := excel.ParseProducts(f, b.ID)
	if err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	n, err := a.Products.Import(ctx, products)
	if err != nil {
		return err
	}

	logger.Info(ctx, "catalog imported", "branch_id", b.ID, "products", n)
	return nil
}
