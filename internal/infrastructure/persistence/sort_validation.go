package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_id":   true,
	"supplier_name": true,
	"store_id":      true,
	"store_name":    true,
	"status":        true,
	"order_date":    true,
	"expected_date": true,
	"items_total":   true,
	"total_amount":  true,
	"submitted_at":  true,
	"completed_at":  true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"code":         true,
	"name":         true,
	"contact_name": true,
	"phone":        true,
	"email":        true,
	"status":       true,
}

// StoreSortFields contains allowed sort fields for stores
var StoreSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"status":     true,
	"is_default": true,
}
