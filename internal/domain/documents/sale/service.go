package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/core/tx"
	"storeledger/internal/core/types"
	"storeledger/internal/domain"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/catalogs/product"
	"storeledger/internal/domain/ledger"
	"storeledger/pkg/logger"
)

var tracer = otel.Tracer("storeledger/sale")

// ProductReader loads the product an item refers to.
type ProductReader interface {
	GetByID(ctx context.Context, productID id.ID) (*product.Product, error)
}

// CustomerBook resolves customers and moves their debt.
// It is implemented by customer.Service.
type CustomerBook interface {
	GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error)
	FindOrCreate(ctx context.Context, branchID id.ID, contact customer.Contact) (*customer.Customer, error)
	AdjustDebt(ctx context.Context, customerID id.ID, delta decimal.Decimal) error
	ReduceDebt(ctx context.Context, customerID id.ID, amount decimal.Decimal) error
}

// Service records sales and keeps stock, sale totals, customer debt and
// History in step with every write.
type Service struct {
	repo      Repository
	products  ProductReader
	customers CustomerBook
	applier   *ledger.Applier
	txManager tx.Manager
	now       func() time.Time
}

// NewService creates a new sale service.
func NewService(
	repo Repository,
	products ProductReader,
	customers CustomerBook,
	applier *ledger.Applier,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		products:  products,
		customers: customers,
		applier:   applier,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func scopeOf(doc *Sale) ledger.Scope {
	return ledger.Scope{BranchID: doc.BranchID, WorkerID: id.Ptr(doc.WorkerID)}
}

// Create stores a sale and its items.
//
// An attached customer is replaced by the branch's canonical customer with
// the same name and phone number, created when missing. The customer's debt
// then grows by the paid amount.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	ctx, span := tracer.Start(ctx, "sale.Create")
	defer span.End()

	doc.EnsureID()
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if doc.SoldAt.IsZero() {
		doc.SoldAt = s.now()
	}
	doc.Amount = types.RoundMoney(doc.Amount)

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveCustomer(ctx, doc); err != nil {
			return err
		}

		totals := ledger.RecalculateSale(nil, doc.Amount)
		doc.TotalPrice, doc.Discount = totals.TotalPrice, totals.Discount

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		if doc.HasCustomer() {
			delta := ledger.DebtDelta(decimal.Zero, doc.Amount)
			if err := s.customers.AdjustDebt(ctx, *doc.CustomerID, delta); err != nil {
				return err
			}
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

	logger.Info(ctx, "sale created",
		"id", doc.ID,
		"items", len(doc.Items),
		"total", doc.TotalPrice.String(),
		"amount", doc.Amount.String(),
		"discount", doc.Discount.String())
	return nil
}

func (s *Service) resolveCustomer(ctx context.Context, doc *Sale) error {
	var contact customer.Contact
	switch {
	case doc.Customer != nil:
		contact = *doc.Customer
	case doc.HasCustomer():
		attached, err := s.customers.GetByID(ctx, *doc.CustomerID)
		if err != nil {
			return err
		}
		contact = attached.Contact()
	default:
		doc.CustomerID = nil
		return nil
	}

	canonical, err := s.customers.FindOrCreate(ctx, doc.BranchID, contact)
	if err != nil {
		return err
	}
	doc.CustomerID = &canonical.ID
	return nil
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetItems(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	doc.Items = items

	return doc, nil
}

// List retrieves sales without their items.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	return s.repo.List(ctx, filter)
}

// UpdatePayment changes the paid amount and currency of a stored sale.
// The discount is re-derived and the customer's debt moves by the change
// in amount. An empty currency keeps the stored one. The customer itself
// cannot be changed.
func (s *Service) UpdatePayment(ctx context.Context, doc *Sale) error {
	ctx, span := tracer.Start(ctx, "sale.UpdatePayment", trace.WithAttributes(
		attribute.String("sale.id", doc.ID.String()),
	))
	defer span.End()

	if doc.Amount.IsNegative() {
		return apperror.NewValidation("amount must not be negative").WithDetail("field", "amount")
	}
	amount := types.RoundMoney(doc.Amount)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stored, err := s.repo.GetByID(ctx, doc.ID)
		if err != nil {
			return err
		}
		if doc.CustomerID != nil && id.Deref(doc.CustomerID) != id.Deref(stored.CustomerID) {
			return apperror.NewValidation("the customer of a saved sale cannot change").
				WithDetail("field", "customerId")
		}

		currency := stored.CurrencyAware
		if doc.Currency != "" {
			currency.Currency = doc.Currency
		}
		if err := currency.ValidateCurrency(ctx); err != nil {
			return err
		}

		discount := ledger.Discount(stored.TotalPrice, amount)
		if err := s.repo.UpdatePayment(ctx, doc.ID, amount, currency.Currency, discount); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}

		if stored.HasCustomer() {
			delta := ledger.DebtDelta(stored.Amount, amount)
			if err := s.customers.AdjustDebt(ctx, *stored.CustomerID, delta); err != nil {
				return err
			}
		}

		*doc = *stored
		doc.Amount, doc.Discount, doc.CurrencyAware = amount, discount, currency

		logger.Info(ctx, "sale payment updated",
			"id", doc.ID,
			"amount", amount.String(),
			"discount", discount.String())
		return nil
	})
}

// AddItem saves a new item into an existing sale.
func (s *Service) AddItem(ctx context.Context, saleID id.ID, item *SaleItem) error {
	ctx, span := tracer.Start(ctx, "sale.AddItem", trace.WithAttributes(
		attribute.String("sale.id", saleID.String()),
	))
	defer span.End()

	if err := item.validate(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		item.ID = id.Nil()
		return s.saveItem(ctx, doc, item, nil)
	})
}

// UpdateItem re-saves an item with a new quantity. Only the change against
// the stored quantity is taken from or returned to stock.
func (s *Service) UpdateItem(ctx context.Context, item *SaleItem) error {
	ctx, span := tracer.Start(ctx, "sale.UpdateItem", trace.WithAttributes(
		attribute.String("sale.item_id", item.ID.String()),
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

		doc, err := s.repo.GetByID(ctx, stored.SaleID)
		if err != nil {
			return err
		}

		item.SaleID = stored.SaleID
		item.SoldAt = stored.SoldAt
		return s.saveItem(ctx, doc, item, stored)
	})
}

// saveItem prices the item, persists it, recomputes the sale totals and
// applies the stock writes. previous is nil for a new item.
func (s *Service) saveItem(ctx context.Context, doc *Sale, item *SaleItem, previous *SaleItem) error {
	p, err := s.products.GetByID(ctx, item.ProductID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if p.BranchID != doc.BranchID {
		return apperror.NewValidation("product belongs to another branch").
			WithDetail("field", "productId").
			WithDetail("productId", p.ID.String())
	}

	in := ledger.SaleInput{Quantity: item.Quantity}
	if previous != nil {
		in.PreviousQuantity = previous.Quantity
	}

	res, err := ledger.ApplySaleItem(p, in)
	if err != nil {
		return err
	}

	item.Quantity = types.RoundQuantity(item.Quantity)
	item.TotalPrice = res.TotalPrice

	if previous == nil {
		item.ID = id.New()
		item.SaleID = doc.ID
		if item.SoldAt.IsZero() {
			item.SoldAt = s.now()
		}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	} else {
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update sale item: %w", err)
		}
	}

	if err := s.recalculate(ctx, doc); err != nil {
		return err
	}

	if err := s.applier.Apply(ctx, scopeOf(doc), res.Mutations); err != nil {
		return err
	}

	logger.Info(ctx, "sale item saved",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"quantity", item.Quantity.String(),
		"delta", res.Delta.String())
	return nil
}

// recalculate derives the sale total from its stored items and persists it.
func (s *Service) recalculate(ctx context.Context, doc *Sale) error {
	items, err := s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get items: %w", err)
	}

	itemTotals := make([]decimal.Decimal, 0, len(items))
	for _, it := range items {
		itemTotals = append(itemTotals, it.TotalPrice)
	}

	totals := ledger.RecalculateSale(itemTotals, doc.Amount)
	if err := s.repo.UpdateTotals(ctx, doc.ID, totals.TotalPrice, totals.Discount); err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	doc.TotalPrice, doc.Discount = totals.TotalPrice, totals.Discount
	return nil
}

// DeleteItem removes one item, returns its quantity to stock and
// recomputes the sale totals.
func (s *Service) DeleteItem(ctx context.Context, itemID id.ID) error {
	ctx, span := tracer.Start(ctx, "sale.DeleteItem", trace.WithAttributes(
		attribute.String("sale.item_id", itemID.String()),
	))
	defer span.End()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.repo.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		doc, err := s.repo.GetByID(ctx, item.SaleID)
		if err != nil {
			return err
		}
		if err := s.deleteItem(ctx, doc, item); err != nil {
			return err
		}
		return s.recalculate(ctx, doc)
	})
}

func (s *Service) deleteItem(ctx context.Context, doc *Sale, item *SaleItem) error {
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("delete sale item: %w", err)
	}

	set := ledger.ReverseSaleItem(item.ProductID, item.Quantity)
	if err := s.applier.Apply(ctx, scopeOf(doc), set); err != nil {
		return err
	}

	logger.Info(ctx, "sale item deleted",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"returned_quantity", item.Quantity.String())
	return nil
}

// Delete removes a sale. The customer's debt drops by the paid amount
// (never below zero), then every item is returned to stock.
func (s *Service) Delete(ctx context.Context, saleID id.ID) error {
	ctx, span := tracer.Start(ctx, "sale.Delete", trace.WithAttributes(
		attribute.String("sale.id", saleID.String()),
	))
	defer span.End()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}

		if doc.HasCustomer() {
			if err := s.customers.ReduceDebt(ctx, *doc.CustomerID, doc.Amount); err != nil {
				return err
			}
		}

		items, err := s.repo.GetItems(ctx, saleID)
		if err != nil {
			return fmt.Errorf("get items: %w", err)
		}
		for _, item := range items {
			if err := s.deleteItem(ctx, doc, item); err != nil {
				return err
			}
		}

		if err := s.repo.Delete(ctx, saleID); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}

		logger.Info(ctx, "sale deleted", "id", saleID, "items", len(items))
		return nil
	})
}

// PreviewLine is an item being typed in, not yet saved.
type PreviewLine struct {
	ProductID id.ID
	Quantity  decimal.Decimal
}

// PreviewTotal prices unsaved lines at the products' current sale prices.
// Nothing is written and stock is not checked.
func (s *Service) PreviewTotal(ctx context.Context, lines []PreviewLine) (decimal.Decimal, error) {
	totals := make([]decimal.Decimal, 0, len(lines))
	for _, line := range lines {
		if line.Quantity.IsNegative() {
			return decimal.Zero, apperror.NewValidation("quantity must not be negative").
				WithDetail("field", "quantity")
		}
		p, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		totals = append(totals, line.Quantity.Mul(p.SalePrice))
	}
	return types.RoundMoney(types.Sum(totals...)), nil
}
