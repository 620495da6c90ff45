package memory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/apperror"
	"storeledger/internal/core/id"
	"storeledger/internal/domain"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/catalogs/product"
)

func clonePtr[T any](v *T) *T {
	c := *v
	return &c
}

func listResult[T any](items []T, f domain.ListFilter) domain.ListResult[T] {
	return domain.ListResult[T]{
		Items:      page(items, f.Limit, f.Offset),
		TotalCount: int64(len(items)),
		Limit:      f.Limit,
		Offset:     f.Offset,
	}
}

func matchesSearch(name, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(name), strings.ToLower(search))
}

// Products is an in-memory product.Repository.
type Products struct {
	t *table[*product.Product]
}

var _ product.Repository = (*Products)(nil)

// NewProducts creates an empty product store.
func NewProducts() *Products {
	return &Products{t: newTable("Product", clonePtr[product.Product])}
}

func (r *Products) snapshot() func() { return r.t.snapshot() }

// Put stores p as is, quantity included. Test setup only.
func (r *Products) Put(p *product.Product) *product.Product {
	p.EnsureID()
	r.t.mu.Lock()
	r.t.rows[p.ID] = clonePtr(p)
	r.t.mu.Unlock()
	return p
}

// Quantity returns the stored quantity of a product.
func (r *Products) Quantity(productID id.ID) decimal.Decimal {
	p, err := r.t.get(productID)
	if err != nil {
		return decimal.Zero
	}
	return p.Quantity
}

func (r *Products) barcodeTaken(barcode *string, except id.ID) bool {
	if barcode == nil {
		return false
	}
	return len(r.t.filter(func(p *product.Product) bool {
		return p.ID != except && p.Barcode != nil && *p.Barcode == *barcode
	})) > 0
}

func (r *Products) Create(ctx context.Context, p *product.Product) error {
	if r.barcodeTaken(p.Barcode, p.ID) {
		return apperror.NewDuplicate("Product", "barcode", *p.Barcode)
	}
	return r.t.insert(p.ID, p)
}

func (r *Products) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.t.get(productID)
}

func (r *Products) Update(ctx context.Context, p *product.Product) error {
	if r.barcodeTaken(p.Barcode, p.ID) {
		return apperror.NewDuplicate("Product", "barcode", *p.Barcode)
	}
	return r.t.modify(p.ID, func(stored *product.Product) error {
		quantity := stored.Quantity
		*stored = *clonePtr(p)
		stored.Quantity = quantity
		return nil
	})
}

func (r *Products) Delete(ctx context.Context, productID id.ID) error {
	return r.t.delete(productID)
}

func (r *Products) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*product.Product], error) {
	items := r.t.filter(func(p *product.Product) bool {
		return (f.BranchID == nil || p.BranchID == *f.BranchID) &&
			matchesSearch(p.Name, f.Search) &&
			inIDs(f.IDs, p.ID)
	})
	return listResult(items, f), nil
}

func (r *Products) Exists(ctx context.Context, productID id.ID) (bool, error) {
	return r.t.exists(productID), nil
}

func (r *Products) GetByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	found := r.t.filter(func(p *product.Product) bool {
		return p.Barcode != nil && *p.Barcode == barcode
	})
	if len(found) == 0 {
		return nil, apperror.NewNotFound("Product", barcode)
	}
	return found[0], nil
}

func (r *Products) AddQuantity(ctx context.Context, productID id.ID, delta decimal.Decimal) (decimal.Decimal, error) {
	var quantity decimal.Decimal
	err := r.t.modify(productID, func(p *product.Product) error {
		p.Quantity = p.Quantity.Add(delta)
		quantity = p.Quantity
		return nil
	})
	return quantity, err
}

func (r *Products) SubtractQuantity(ctx context.Context, productID id.ID, qty decimal.Decimal) (decimal.Decimal, bool, error) {
	var (
		remaining decimal.Decimal
		ok        bool
	)
	err := r.t.modify(productID, func(p *product.Product) error {
		if p.Quantity.LessThan(qty) {
			remaining = p.Quantity
			return nil
		}
		p.Quantity = p.Quantity.Sub(qty)
		remaining, ok = p.Quantity, true
		return nil
	})
	return remaining, ok, err
}

func (r *Products) SetCostPrice(ctx context.Context, productID id.ID, price decimal.Decimal) error {
	return r.t.modify(productID, func(p *product.Product) error {
		p.CostPrice = price
		return nil
	})
}

func (r *Products) CreateBatch(ctx context.Context, products []*product.Product) (int64, error) {
	for _, p := range products {
		if err := r.Create(ctx, p); err != nil {
			return 0, err
		}
	}
	return int64(len(products)), nil
}

// Customers is an in-memory customer.Repository.
type Customers struct {
	t *table[*customer.Customer]
}

var _ customer.Repository = (*Customers)(nil)

// NewCustomers creates an empty customer store.
func NewCustomers() *Customers {
	return &Customers{t: newTable("Customer", clonePtr[customer.Customer])}
}

func (r *Customers) snapshot() func() { return r.t.snapshot() }

// Count returns how many customers are stored.
func (r *Customers) Count() int { return r.t.len() }

// Debt returns the stored debt of a customer.
func (r *Customers) Debt(customerID id.ID) decimal.Decimal {
	c, err := r.t.get(customerID)
	if err != nil {
		return decimal.Zero
	}
	return c.Debt
}

func (r *Customers) Create(ctx context.Context, c *customer.Customer) error {
	if _, err := r.FindByContact(ctx, c.BranchID, c.Contact()); err == nil {
		return apperror.NewDuplicate("Customer", "phoneNumber", c.PhoneNumber)
	}
	return r.t.insert(c.ID, c)
}

func (r *Customers) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	return r.t.get(customerID)
}

func (r *Customers) Update(ctx context.Context, c *customer.Customer) error {
	return r.t.modify(c.ID, func(stored *customer.Customer) error {
		debt, createdAt := stored.Debt, stored.CreatedAt
		*stored = *clonePtr(c)
		stored.Debt, stored.CreatedAt = debt, createdAt
		return nil
	})
}

func (r *Customers) Delete(ctx context.Context, customerID id.ID) error {
	return r.t.delete(customerID)
}

func (r *Customers) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*customer.Customer], error) {
	items := r.t.filter(func(c *customer.Customer) bool {
		return (f.BranchID == nil || c.BranchID == *f.BranchID) &&
			matchesSearch(c.Name, f.Search) &&
			inIDs(f.IDs, c.ID)
	})
	return listResult(items, f), nil
}

func (r *Customers) Exists(ctx context.Context, customerID id.ID) (bool, error) {
	return r.t.exists(customerID), nil
}

func (r *Customers) FindByContact(ctx context.Context, branchID id.ID, contact customer.Contact) (*customer.Customer, error) {
	found := r.t.filter(func(c *customer.Customer) bool {
		return c.BranchID == branchID && c.Name == contact.Name && c.PhoneNumber == contact.PhoneNumber
	})
	if len(found) == 0 {
		return nil, apperror.NewNotFound("Customer", contact.PhoneNumber)
	}
	return found[0], nil
}

func (r *Customers) AdjustDebt(ctx context.Context, customerID id.ID, delta decimal.Decimal) error {
	return r.t.modify(customerID, func(c *customer.Customer) error {
		c.Debt = c.Debt.Add(delta)
		return nil
	})
}

func (r *Customers) ReduceDebt(ctx context.Context, customerID id.ID, amount decimal.Decimal) error {
	return r.t.modify(customerID, func(c *customer.Customer) error {
		c.Debt = decimal.Max(c.Debt.Sub(amount), decimal.Zero)
		return nil
	})
}
