package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *ledger.Report {
	ts := time.Date(2026, 10, 14, 9, 5, 0, 0, time.UTC)

	snap := domain.NewSnapshot()
	snap.Settings.ShopName = "Chez Ali"
	snap.Products = []domain.Product{{
		ID: "p1", Name: "Soda", Category: "Boissons",
		PurchasePrice: decimal.NewFromInt(300), SellingPrice: decimal.NewFromInt(500),
		Stock: 2, MinStockAlert: 5,
	}}
	snap.Sales = []domain.Sale{{
		ID: "s1", ProductID: "p1", ProductName: "Soda, grand format",
		Quantity: 3, UnitPrice: decimal.NewFromInt(500), TotalPrice: decimal.NewFromInt(1500), Timestamp: ts,
	}}
	snap.Expenses = []domain.Expense{{
		ID: "x1", Description: "Loyer", Category: domain.DefaultExpenseCategory,
		Amount: decimal.NewFromInt(200), Timestamp: ts,
	}}

	return ledger.ComputeReport(snap, ledger.Range{}, ts)
}

func TestCSVExporter_Export(t *testing.T) {
	file, err := NewCSVExporter(time.UTC).Export(testReport())
	require.NoError(t, err)

	assert.Equal(t, "chez_ali_rapport_2026-10-14.csv", file.Name)
	assert.Equal(t, ContentTypeCSV, file.ContentType)
	require.True(t, bytes.HasPrefix(file.Data, []byte(utf8BOM)))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(file.Data), utf8BOM)))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"CHEZ ALI - RAPPORT GLOBAL"}, rows[0])
	assert.Equal(t, []string{"Date: 14/10/2026"}, rows[1])
	assert.Contains(t, rows, []string{"Ventes Totales", "1500 Fcfa"})
	assert.Contains(t, rows, []string{"Benefice Net", "1300 Fcfa"})
	assert.Contains(t, rows, []string{"-", "Soda, grand format", "3", "500", "1500", "14/10/2026 09:05"})
	assert.Contains(t, rows, []string{"Soda", "Boissons", "2", "STOCK BAS"})
	assert.Contains(t, rows, []string{"Loyer", domain.DefaultExpenseCategory, "200", "14/10/2026 09:05"})
}

func TestCSVExporter_Period(t *testing.T) {
	rep := testReport()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	rep.From = &from

	file, err := NewCSVExporter(time.UTC).Export(rep)
	require.NoError(t, err)
	assert.Contains(t, string(file.Data), "Periode: 01/10/2026 - ...")
}

func TestFileName(t *testing.T) {
	at := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "aldjiday_gestion_rapport_2026-10-14.csv", FileName(domain.DefaultShopName, at))
	assert.Equal(t, "boutique_rapport_2026-10-14.csv", FileName("  ", at))
}
