package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/customer"
	"storeledger/internal/domain/documents/purchase"
	"storeledger/internal/domain/documents/sale"
	"storeledger/internal/domain/reports"
)

// Reports is an in-memory reports.Repository. Its sums read the document
// and customer stores it was built over.
type Reports struct {
	t         *table[*reports.DailyReport]
	sales     *Sales
	purchases *Purchases
	customers *Customers
}

var _ reports.Repository = (*Reports)(nil)

// NewReports creates an empty report store over the given stores.
func NewReports(sales *Sales, purchases *Purchases, customers *Customers) *Reports {
	return &Reports{
		t:         newTable("DailyReport", clonePtr[reports.DailyReport]),
		sales:     sales,
		purchases: purchases,
		customers: customers,
	}
}

func (r *Reports) snapshot() func() { return r.t.snapshot() }

func (r *Reports) SumSales(ctx context.Context, branchID id.ID, w reports.Window) (reports.SalesTotals, error) {
	totals := reports.SalesTotals{TotalSales: decimal.Zero, TotalDiscounts: decimal.Zero}
	for _, s := range r.sales.docs.filter(func(s *sale.Sale) bool {
		return s.BranchID == branchID && withinWindow(s.SoldAt, &w.Start, &w.End)
	}) {
		totals.TotalSales = totals.TotalSales.Add(s.TotalPrice)
		totals.TotalDiscounts = totals.TotalDiscounts.Add(s.Discount)
	}
	return totals, nil
}

func (r *Reports) SumPurchases(ctx context.Context, branchID id.ID, w reports.Window) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.purchases.items.filter(func(i *purchase.AddProductItem) bool {
		return withinWindow(i.AddedAt, &w.Start, &w.End)
	}) {
		doc, err := r.purchases.docs.get(item.AddProductID)
		if err != nil || doc.BranchID != branchID {
			continue
		}
		total = total.Add(item.TotalPrice)
	}
	return total, nil
}

func (r *Reports) SumCustomerDebt(ctx context.Context, branchID id.ID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, c := range r.customers.t.filter(func(c *customer.Customer) bool { return c.BranchID == branchID }) {
		total = total.Add(c.Debt)
	}
	return total, nil
}

func (r *Reports) Create(ctx context.Context, report *reports.DailyReport) error {
	return r.t.insert(report.ID, report)
}

func (r *Reports) GetByID(ctx context.Context, reportID id.ID) (*reports.DailyReport, error) {
	return r.t.get(reportID)
}

func (r *Reports) List(ctx context.Context, f reports.ListFilter) ([]*reports.DailyReport, error) {
	items := r.t.filter(func(d *reports.DailyReport) bool {
		return f.BranchID == nil || d.BranchID == *f.BranchID
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return page(items, f.Limit, f.Offset), nil
}
