// Package app wires repositories and services for the command-line tools.
package app

import (
	"context"
	"fmt"

	"storeledger/internal/config"
	"storeledger/internal/core/phone"
	"storeledger/internal/domain/catalogs/branch"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/catalogs/expense"
	"storeledger/internal/domain/catalogs/investor"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/catalogs/supplier"
	"storeledger/internal/domain/catalogs/worker"
	"storeledger/internal/domain/documents/purchase"
	"storeledger/internal/domain/documents/sale"
	"storeledger/internal/domain/ledger"
	"storeledger/internal/domain/registers/history"
	"storeledger/internal/domain/reports"
	"storeledger/internal/infrastructure/storage/postgres"
	"storeledger/internal/infrastructure/storage/postgres/catalog_repo"
	"storeledger/internal/infrastructure/storage/postgres/document_repo"
	"storeledger/internal/infrastructure/storage/postgres/register_repo"
	"storeledger/internal/infrastructure/storage/postgres/report_repo"
	"storeledger/pkg/logger"
)

// App holds the connection pool and every service built on it.
type App struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Audit     *postgres.AuditService

	Branches  *branch.Service
	Workers   *worker.Service
	Suppliers *supplier.Service
	Customers *customer.Service
	Investors *investor.Service
	Expenses  *expense.Service
	Products  *product.Service

	History   *history.Service
	Purchases *purchase.Service
	Sales     *sale.Service
	Reports   *reports.Service
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
}

// Open connects to the database and wires the services.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	phone.SetDefaultRegion(cfg.PhoneDefaultRegion)

	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	poolCfg.StatementTimeout = cfg.DBStatementTimeout

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a, err := New(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

// New wires every repository and service on top of pool.
func New(pool *postgres.Pool) (*App, error) {
	txm := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txm)
	if err != nil {
		return nil, fmt.Errorf("create audit service: %w", err)
	}

	productRepo := catalog_repo.NewProductRepo(txm)
	historyService := history.NewService(register_repo.NewHistoryRepo(txm))
	applier := ledger.NewApplier(productRepo, historyService)

	products := product.NewService(productRepo, txm, audit)
	customers := customer.NewService(catalog_repo.NewCustomerRepo(txm), txm, audit)

	return &App{
		Pool:      pool,
		TxManager: txm,
		Audit:     audit,

		Branches:  branch.NewService(catalog_repo.NewBranchRepo(txm), txm, audit),
		Workers:   worker.NewService(catalog_repo.NewWorkerRepo(txm), txm, audit),
		Suppliers: supplier.NewService(catalog_repo.NewSupplierRepo(txm), txm, audit),
		Customers: customers,
		Investors: investor.NewService(catalog_repo.NewInvestorRepo(txm), txm, audit),
		Expenses:  expense.NewService(catalog_repo.NewExpenseRepo(txm), txm, audit),
		Products:  products,

		History:   historyService,
		Purchases: purchase.NewService(document_repo.NewPurchaseRepo(txm), products, applier, txm),
		Sales:     sale.NewService(document_repo.NewSaleRepo(txm), products, customers, applier, txm),
		Reports:   reports.NewService(report_repo.NewReportRepo(txm), txm),
	}, nil
}

// Close releases the audit codecs and the pool.
func (a *App) Close() {
	a.Audit.Close()
	a.Pool.Close()
}
