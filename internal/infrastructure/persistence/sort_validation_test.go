package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ASC; DROP TABLE purchase_orders"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "order_number", ValidateSortField("order_number", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("1; DELETE FROM suppliers", PurchaseOrderSortFields, "created_at"))
	assert.Equal(t, "name", ValidateSortField("name", SupplierSortFields, "created_at"))
	assert.Equal(t, "is_default", ValidateSortField("is_default", StoreSortFields, "name"))
}
