package purchase

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/tx"
	"storeledger/internal/domain"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/ledger"
	"storeledger/pkg/logger"
)

var tracer = otel.Tracer("storeledger/purchase")

// ProductReader loads the product an item refers to.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// Service records deliveries and keeps stock, cost price and History in
// step with every item write.
type Service struct {
	repo      Repository
	products  ProductReader
	applier   *ledger.Applier
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new purchase service.
func NewService(repo Repository, products ProductReader, applier *ledger.Applier, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		applier:   applier,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func scopeOf(doc *AddProduct) ledger.Scope {
	return ledger.Scope{BranchID: doc.BranchID, WorkerID: id.Ptr(doc.WorkerID)}
}

// Create stores a delivery and every item it carries.
func (s *Service) Create(ctx context.Context, doc *AddProduct) error {
	ctx, span := tracer.Start(ctx, "purchase.Create")
	defer span.End()

	doc.EnsureID()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if doc.AddedAt.IsZero() {
		doc.AddedAt = s.now()
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create purchase: %w", err)
		}
		for _, item := range doc.Items {
			item.ID = id.Nil()
			if err := s.saveItem(ctx, doc, item, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "purchase created",
		"id", doc.ID,
		"items", len(doc.Items),
		"total", doc.Total().String())
	return nil
}

// GetByID retrieves a delivery with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*AddProduct, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves deliveries without their items.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*AddProduct], error) {
	return s.repo.List(ctx, filter)
}

// AddItem saves a new item into an existing delivery.
func (s *Service) AddItem(ctx context.Context, docID id.ID, item *AddProductItem) error {
	ctx, span := tracer.Start(ctx, "purchase.AddItem", trace.WithAttributes(
		attribute.String("purchase.id", docID.String()),
	))
	defer span.End()

	if err := item.validate(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}
		item.ID = id.Nil()
		return s.saveItem(ctx, doc, item, nil)
	})
}

// UpdateItem re-saves an item with a new input quantity or price.
// Stock moves by the difference to what the item added before.
func (s *Service) UpdateItem(ctx context.Context, item *AddProductItem) error {
	ctx, span := tracer.Start(ctx, "purchase.UpdateItem", trace.WithAttributes(
		attribute.String("purchase.item_id", item.ID.String()),
	))
	defer span.End()

	if id.IsNil(item.ID) {
		return apperror.NewValidation("item id is required").WithDetail("field", "id")
	}
	if err := item.validate(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if stored.ProductID != item.ProductID {
			return apperror.NewValidation("the product of a saved item cannot change; delete the item and add a new one").
				WithDetail("field", "productId")
		}

		doc, err := s.repo.GetByID(ctx, stored.AddProductID)
		if err != nil {
			return err
		}

		item.AddProductID = stored.AddProductID
		item.AddedAt = stored.AddedAt
		return s.saveItem(ctx, doc, item, stored)
	})
}

// saveItem derives the item values, persists the item and applies the
// ledger writes. previous is nil for a new item.
func (s *Service) saveItem(ctx context.Context, doc *AddProduct, item *AddProductItem, previous *AddProductItem) error {
	p, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if p.BranchID != doc.BranchID {
		return apperror.NewValidation("product belongs to another branch").
			WithDetail("field", "productId").
			WithDetail("productId", p.ID.String())
	}

	in := ledger.PurchaseInput{InputQuantity: item.InputQuantity, Price: item.Price}
	if previous != nil {
		in.PreviousAddedQuantity = previous.AddedQuantity
	}

	res, err := ledger.ApplyPurchaseItem(p, in)
	if err != nil {
		return err
	}

	item.AddedQuantity = res.AddedQuantity
	item.TotalPrice = res.TotalPrice

	if previous == nil {
		item.ID = id.New()
		item.AddProductID = doc.ID
		if item.AddedAt.IsZero() {
			item.AddedAt = s.now()
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("create purchase item: %w", err)
		}
	} else {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update purchase item: %w", err)
		}
	}

	if err := s.applier.Apply(ctx, scopeOf(doc), res.Mutations); err != nil {
		return err
	}

	logger.Info(ctx, "purchase item saved",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"added_quantity", item.AddedQuantity.String(),
		"delta", res.Delta.String(),
		"unit_cost", res.UnitCostPrice.String())
	return nil
}

// DeleteItem removes one item and takes its added quantity back out of stock.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	ctx, span := tracer.Start(ctx, "purchase.DeleteItem", trace.WithAttributes(
		attribute.String("purchase.item_id", itemID.String()),
	))
	defer span.End()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		doc, err := s.repo.GetByID(ctx, item.AddProductID)
		if err != nil {
			return err
		}
		return s.deleteItem(ctx, doc, item)
	})
}

func (s *Service) deleteItem(ctx context.Context, doc *AddProduct, item *AddProductItem) error {
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete purchase item: %w", err)
	}

	set := ledger.ReversePurchaseItem(item.ProductID, item.AddedQuantity)
	if err := s.applier.Apply(ctx, scopeOf(doc), set); err != nil {
		return err
	}

	logger.Info(ctx, "purchase item deleted",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"removed_quantity", item.AddedQuantity.String())
	return nil
}

// Delete removes a delivery, reversing every item first.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	ctx, span := tracer.Start(ctx, "purchase.Delete", trace.WithAttributes(
		attribute.String("purchase.id", docID.String()),
	))
	defer span.End()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, docID)
		if err != nil {
			return err
		}

		items, err := s.repo.GetItems(ctx, docID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}

		for _, item := range items {
			if err := s.deleteItem(ctx, doc, item); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, docID); err != nil {
			return fmt.Errorf("delete purchase: %w", err)
		}

		logger.Info(ctx, "purchase deleted", "id", docID, "items", len(items))
		return nil
	})
}
