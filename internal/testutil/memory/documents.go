package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/domain/documents/purchase"
	"storeledger/internal/domain/documents/sale"
)

func withinWindow(v time.Time, from, to *time.Time) bool {
	return (from == nil || !v.Before(*from)) && (to == nil || !v.After(*to))
}

// Purchases is an in-memory purchase.Repository.
type Purchases struct {
	docs  *table[*purchase.AddProduct]
	items *table[*purchase.AddProductItem]
}

var _ purchase.Repository = (*Purchases)(nil)

// NewPurchases creates an empty purchase store.
func NewPurchases() *Purchases {
	return &Purchases{
		docs: newTable("AddProduct", func(d *purchase.AddProduct) *purchase.AddProduct {
			c := *d
			c.Items = nil
			return &c
		}),
		items: newTable("AddProductItem", clonePtr[purchase.AddProductItem]),
	}
}

func (r *Purchases) snapshot() func() {
	restoreDocs, restoreItems := r.docs.snapshot(), r.items.snapshot()
	return func() {
		restoreDocs()
		restoreItems()
	}
}

// ItemCount returns how many purchase items are stored.
func (r *Purchases) ItemCount() int { return r.items.len() }

func (r *Purchases) Create(ctx context.Context, doc *purchase.AddProduct) error {
	return r.docs.insert(doc.ID, doc)
}

func (r *Purchases) GetByID(ctx context.Context, docID id.ID) (*purchase.AddProduct, error) {
	return r.docs.get(docID)
}

func (r *Purchases) Delete(ctx context.Context, docID id.ID) error {
	return r.docs.delete(docID)
}

func (r *Purchases) List(ctx context.Context, f purchase.ListFilter) (domain.ListResult[*purchase.AddProduct], error) {
	docs := r.docs.filter(func(d *purchase.AddProduct) bool {
		return (f.BranchID == nil || d.BranchID == *f.BranchID) &&
			(f.SupplierID == nil || id.Deref(d.SupplierID) == *f.SupplierID) &&
			withinWindow(d.AddedAt, f.DateFrom, f.DateTo)
	})
	return listResult(docs, f.ListFilter), nil
}

func (r *Purchases) GetItem(ctx context.Context, itemID id.ID) (*purchase.AddProductItem, error) {
	return r.items.get(itemID)
}

func (r *Purchases) GetItems(ctx context.Context, docID id.ID) ([]*purchase.AddProductItem, error) {
	return r.items.filter(func(i *purchase.AddProductItem) bool { return i.AddProductID == docID }), nil
}

func (r *Purchases) CreateItem(ctx context.Context, item *purchase.AddProductItem) error {
	return r.items.insert(item.ID, item)
}

func (r *Purchases) UpdateItem(ctx context.Context, item *purchase.AddProductItem) error {
	return r.items.modify(item.ID, func(stored *purchase.AddProductItem) error {
		stored.InputQuantity = item.InputQuantity
		stored.AddedQuantity = item.AddedQuantity
		stored.Price = item.Price
		stored.TotalPrice = item.TotalPrice
		return nil
	})
}

func (r *Purchases) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.items.delete(itemID)
}

// Sales is an in-memory sale.Repository.
type Sales struct {
	docs  *table[*sale.Sale]
	items *table[*sale.SaleItem]
}

var _ sale.Repository = (*Sales)(nil)

// NewSales creates an empty sale store.
func NewSales() *Sales {
	return &Sales{
		docs: newTable("Sale", func(d *sale.Sale) *sale.Sale {
			c := *d
			c.Items = nil
			c.Customer = nil
			return &c
		}),
		items: newTable("SaleItem", clonePtr[sale.SaleItem]),
	}
}

func (r *Sales) snapshot() func() {
	restoreDocs, restoreItems := r.docs.snapshot(), r.items.snapshot()
	return func() {
		restoreDocs()
		restoreItems()
	}
}

// ItemCount returns how many sale items are stored.
func (r *Sales) ItemCount() int { return r.items.len() }

func (r *Sales) Create(ctx context.Context, doc *sale.Sale) error {
	return r.docs.insert(doc.ID, doc)
}

func (r *Sales) GetByID(ctx context.Context, saleID id.ID) (*sale.Sale, error) {
	return r.docs.get(saleID)
}

func (r *Sales) UpdatePayment(ctx context.Context, saleID id.ID, amount decimal.Decimal, currency entity.Currency, discount decimal.Decimal) error {
	return r.docs.modify(saleID, func(s *sale.Sale) error {
		s.Amount, s.Currency, s.Discount = amount, currency, discount
		return nil
	})
}

func (r *Sales) UpdateTotals(ctx context.Context, saleID id.ID, total, discount decimal.Decimal) error {
	return r.docs.modify(saleID, func(s *sale.Sale) error {
		s.TotalPrice, s.Discount = total, discount
		return nil
	})
}

func (r *Sales) Delete(ctx context.Context, saleID id.ID) error {
	return r.docs.delete(saleID)
}

func (r *Sales) List(ctx context.Context, f sale.ListFilter) (domain.ListResult[*sale.Sale], error) {
	docs := r.docs.filter(func(d *sale.Sale) bool {
		return (f.BranchID == nil || d.BranchID == *f.BranchID) &&
			(f.CustomerID == nil || id.Deref(d.CustomerID) == *f.CustomerID) &&
			withinWindow(d.SoldAt, f.DateFrom, f.DateTo)
	})
	return listResult(docs, f.ListFilter), nil
}

func (r *Sales) GetItem(ctx context.Context, itemID id.ID) (*sale.SaleItem, error) {
	return r.items.get(itemID)
}

func (r *Sales) GetItems(ctx context.Context, saleID id.ID) ([]*sale.SaleItem, error) {
	return r.items.filter(func(i *sale.SaleItem) bool { return i.SaleID == saleID }), nil
}

func (r *Sales) CreateItem(ctx context.Context, item *sale.SaleItem) error {
	return r.items.insert(item.ID, item)
}

func (r *Sales) UpdateItem(ctx context.Context, item *sale.SaleItem) error {
	return r.items.modify(item.ID, func(stored *sale.SaleItem) error {
		stored.Quantity = item.Quantity
		stored.TotalPrice = item.TotalPrice
		return nil
	})
}

func (r *Sales) DeleteItem(ctx context.Context, itemID id.ID) error {
	return r.items.delete(itemID)
}
