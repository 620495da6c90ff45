// Package excel reads product catalogs from .xlsx workbooks.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"storeledger/internal/core/id"
	"storeledger/internal/domain/catalogs/product"
)

var headerAliases = map[string]string{
	"name":         "name",
	"product":      "name",
	"product name": "name",
	"nomi":         "name",
	"mahsulot":     "name",
	"barcode":      "barcode",
	"shtrix kod":   "barcode",
	"shtrixkod":    "barcode",
	"cost price":   "cost_price",
	"cost":         "cost_price",
	"tannarx":      "cost_price",
	"sale price":   "sale_price",
	"sell price":   "sale_price",
	"price":        "sale_price",
	"sotuv narxi":  "sale_price",
	"base unit":    "base_unit",
	"unit":         "base_unit",
	"birlik":       "base_unit",
	"kg to pcs":    "kg_to_pcs",
	"pcs per kg":   "kg_to_pcs",
	"dona/kg":      "kg_to_pcs",
}

// ParseProducts reads the first sheet of an .xlsx catalog into new products
// of branchID. Rows without a name are skipped. Quantity always starts at zero.
func ParseProducts(reader io.Reader, branchID id.ID) ([]*product.Product, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	colMap := mapColumns(rows[0])
	for _, required := range []string{"name", "sale_price"} {
		if _, ok := colMap[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	result := make([]*product.Product, 0, len(rows)-1)
	for index := 1; index < len(rows); index++ {
		cells := rows[index]
		name := strings.TrimSpace(readCell(cells, colMap["name"]))
		if name == "" {
			continue
		}

		salePrice, err := parseDecimal(readCell(cells, colMap["sale_price"]))
		if err != nil {
			return nil, fmt.Errorf("row %d invalid sale price: %w", index+1, err)
		}

		costPrice := decimal.Zero
		if raw, ok := optionalCell(cells, colMap, "cost_price"); ok {
			if costPrice, err = parseDecimal(raw); err != nil {
				return nil, fmt.Errorf("row %d invalid cost price: %w", index+1, err)
			}
		}

		p := product.NewProduct(branchID, name, costPrice, salePrice)

		if raw, ok := optionalCell(cells, colMap, "barcode"); ok {
			p.Barcode = &raw
		}

		if raw, ok := optionalCell(cells, colMap, "base_unit"); ok {
			unit, err := parseUnit(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", index+1, err)
			}
			p.BaseUnit = unit
		}

		if raw, ok := optionalCell(cells, colMap, "kg_to_pcs"); ok {
			factor, err := parseDecimal(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d invalid kg to pcs: %w", index+1, err)
			}
			p.KgToPcs = decimal.NewNullDecimal(factor)
		}

		result = append(result, p)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("excel file has no valid data rows")
	}
	return result, nil
}

func mapColumns(header []string) map[string]int {
	mapped := make(map[string]int)
	for idx, col := range header {
		canonical, ok := headerAliases[normalizeHeader(col)]
		if !ok {
			continue
		}
		if _, exists := mapped[canonical]; !exists {
			mapped[canonical] = idx
		}
	}
	return mapped
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func optionalCell(row []string, colMap map[string]int, key string) (string, bool) {
	idx, ok := colMap[key]
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(readCell(row, idx))
	return value, value != ""
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero, fmt.Errorf("value is empty")
	}
	value = strings.ReplaceAll(value, " ", "")
	value = strings.ReplaceAll(value, ",", "")

	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative")
	}
	return d, nil
}

func parseUnit(raw string) (product.BaseUnit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pcs", "pc", "dona":
		return product.UnitPieces, nil
	case "kg", "kilogram":
		return product.UnitKilogram, nil
	}
	return "", fmt.Errorf("unknown base unit %q", raw)
}
