package product

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
	"storeledger/pkg/logger"
)

// Service provides business logic for the product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager, audit domain.AuditRecorder) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		Audit:      audit,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		txManager:      txManager,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)
	base.Hooks().OnBeforeDelete(svc.ensureNoStock)

	return svc
}

// New products always start empty; stock arrives through purchases.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	p.EnsureID()
	p.Quantity = decimal.Zero
	return nil
}

// The caller's quantity is ignored on update; report the stored one back.
func (s *Service) prepareForUpdate(ctx context.Context, p *Product) error {
	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("product", p.ID.String())
		}
		return fmt.Errorf("load product: %w", err)
	}
	p.Quantity = current.Quantity
	return nil
}

// A product still holding stock cannot be deleted; its quantity has to be
// taken back out through the documents that put it there.
func (s *Service) ensureNoStock(ctx context.Context, p *Product) error {
	if p.Quantity.IsZero() {
		return nil
	}
	return apperror.NewBusinessRule(apperror.CodeStockOnHand, "product still has stock on hand").
		WithDetail("product_id", p.ID.String()).
		WithDetail("quantity", p.Quantity.String())
}

// GetByBarcode retrieves a product by barcode.
func (s *Service) GetByBarcode(ctx context.Context, barcode string) (*Product, error) {
	return s.repo.GetByBarcode(ctx, barcode)
}

// Import inserts a batch of new products in one transaction.
// Every product is validated first; quantity is reset to zero.
func (s *Service) Import(ctx context.Context, products []*Product) (int64, error) {
	for i, p := range products {
		if err := s.prepareForCreate(ctx, p); err != nil {
			return 0, err
		}
		if err := p.Validate(ctx); err != nil {
			if appErr, ok := apperror.AsAppError(err); ok {
				return 0, appErr.WithDetail("row", i+1)
			}
			return 0, err
		}
	}

	var inserted int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := s.repo.CreateBatch(ctx, products)
		if err != nil {
			return fmt.Errorf("import products: %w", err)
		}
		inserted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "product catalog imported", "count", inserted)
	return inserted, nil
}
