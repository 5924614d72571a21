package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"swizzle-client/internal/models"
)

// ExportCSV writes the given orders as a CSV report in board order. Used
// by the back-office order list's download action.
func ExportCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)

	header := []string{"Order #", "Customer", "Phone", "Items", "Total", "Status", "Assisted", "Created At"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for i := range orders {
		o := &orders[i]

		itemCount := 0
		for j := range o.Items {
			itemCount += o.Items[j].Quantity
		}

		assisted := "no"
		if o.IsAssistedOrder {
			assisted = "yes"
		}

		row := []string{
			o.OrderNumber,
			o.CustomerName,
			o.PhoneNumber,
			strconv.Itoa(itemCount),
			o.Total.StringFixed(2),
			string(o.Status),
			assisted,
			o.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
