package postgres

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"storeledger/internal/core/entity"
	"storeledger/internal/core/id"
)

type mockCustomer struct {
	entity.BaseEntity
	Name      string          `db:"name" json:"name"`
	Debt      decimal.Decimal `db:"debt" json:"debt"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	Note      string          `db:"-" json:"note"`
	internal  int
}

func TestExtractDBColumns_EmbeddedFields(t *testing.T) {
	cols := ExtractDBColumns[mockCustomer]()

	assert.Equal(t, []string{"id", "name", "debt", "created_at"}, cols)
}

func TestExtractDBColumns_Pointer(t *testing.T) {
	cols := ExtractDBColumns[*mockCustomer]()

	assert.Equal(t, []string{"id", "name", "debt", "created_at"}, cols)
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	c := &mockCustomer{
		BaseEntity: entity.BaseEntity{ID: id.New()},
		Name:       "Aziz",
		Debt:       decimal.RequireFromString("12.50"),
		CreatedAt:  now,
		Note:       "skipped",
		internal:   1,
	}

	m := StructToMap(c)

	assert.Len(t, m, 4)
	assert.Equal(t, c.ID, m["id"])
	assert.Equal(t, "Aziz", m["name"])
	assert.Equal(t, c.Debt, m["debt"])
	assert.Equal(t, now, m["created_at"])
	assert.NotContains(t, m, "note")
}

func TestStructToMap_NilPointer(t *testing.T) {
	var c *mockCustomer
	assert.Nil(t, StructToMap(c))
}

func TestFilterColumns(t *testing.T) {
	data := map[string]any{"id": 1, "name": "x", "quantity": 5, "extra": true}

	got := FilterColumns(data, []string{"id", "name", "quantity"}, "id", "quantity")

	assert.Equal(t, map[string]any{"name": "x"}, got)
}
