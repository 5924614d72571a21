package feed

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"swizzle-client/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	orders := []models.Order{
		{
			OrderNumber:  "1042",
			CustomerName: "Asha",
			PhoneNumber:  "+15550001",
			Items: []models.LineItem{
				{Quantity: 2},
				{Quantity: 1},
			},
			Total:           decimal.NewFromInt(300),
			Status:          models.StatusPaid,
			IsAssistedOrder: true,
			CreatedAt:       time.Date(2026, 8, 30, 18, 45, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, orders))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Order #", "Customer", "Phone", "Items", "Total", "Status", "Assisted", "Created At"}, rows[0])
	assert.Equal(t, []string{"1042", "Asha", "+15550001", "3", "300.00", "PAID", "yes", "2026-08-30 18:45:00"}, rows[1])
}

func TestExportCSVEmptyBoard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
