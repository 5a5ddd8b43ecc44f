package purchasing

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/google/uuid"
)

const exportPageSize = 1000

var exportHeader = []string{
	"order_number", "status", "supplier", "store",
	"order_date", "expected_date",
	"item_code", "item_name", "quantity", "received_quantity", "purchase_cost", "amount",
	"items_total", "total_amount", "received",
}

// ExportCSV streams the tenant's purchase orders as CSV, one row per
// line item. The same filters as List apply; pagination is handled
// internally so the export covers every matching order.
func (s *PurchaseOrderService) ExportCSV(ctx context.Context, tenantID uuid.UUID, filter ListFilter, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}

	domainFilter := toDomainFilter(filter)
	domainFilter.Page = 1
	domainFilter.PageSize = exportPageSize

	for {
		result, err := s.orderRepo.FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}

		for i := range result.Items {
			order := &result.Items[i]
			expected := ""
			if order.ExpectedDate != nil {
				expected = order.ExpectedDate.Format(time.DateOnly)
			}
			for _, item := range order.Items {
				row := []string{
					order.OrderNumber,
					string(order.Status),
					order.SupplierName,
					order.StoreName,
					order.OrderDate.Format(time.DateOnly),
					expected,
					item.ItemCode,
					item.ItemName,
					item.Quantity.String(),
					item.ReceivedQuantity.String(),
					item.PurchaseCost.StringFixed(2),
					item.Amount.StringFixed(2),
					order.ItemsTotal.StringFixed(2),
					order.TotalAmount.StringFixed(2),
					order.ReceivedSummary(),
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}

		if int64(domainFilter.Page*domainFilter.PageSize) >= result.Total {
			break
		}
		domainFilter.Page++
	}

	writer.Flush()
	return writer.Error()
}
