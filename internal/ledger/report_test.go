package ledger

import (
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportSnapshot() *domain.Snapshot {
	snap := domain.NewSnapshot()
	snap.Products = []domain.Product{soda()}
	uncategorised := sale("s2", "p1", 1, 100, testNow)
	uncategorised.ProductCategory = ""
	snap.Sales = []domain.Sale{
		uncategorised,
		sale("s1", "p1", 2, 100, testNow.AddDate(0, 0, -3)),
	}
	snap.Expenses = []domain.Expense{
		expense("e2", 40, testNow),
		expense("e1", 70, testNow.AddDate(0, 0, -3)),
	}
	return snap
}

func TestComputeReport_Full(t *testing.T) {
	rep := ComputeReport(reportSnapshot(), Range{}, testNow)

	assert.Equal(t, domain.DefaultShopName, rep.ShopName)
	assert.True(t, rep.TotalSales.Equal(decimal.NewFromInt(300)))
	assert.True(t, rep.TotalExpenses.Equal(decimal.NewFromInt(110)))
	assert.True(t, rep.NetProfit.Equal(decimal.NewFromInt(190)))
	assert.Equal(t, 1, rep.ProductCount)
	assert.True(t, rep.StockValue.Equal(decimal.NewFromInt(600)))
	assert.Nil(t, rep.From)
	assert.Nil(t, rep.To)

	require.Len(t, rep.Sales, 2)
	assert.Equal(t, "-", rep.Sales[0].Category)
	assert.Equal(t, "Boissons", rep.Sales[1].Category)
	require.Len(t, rep.Expenses, 2)
	require.Len(t, rep.Stock, 1)
	assert.Equal(t, StockRow{Name: "Soda", Category: "Boissons", Stock: 10, MinStockAlert: 5}, rep.Stock[0])
}

func TestComputeReport_Range(t *testing.T) {
	r := Range{From: testNow.AddDate(0, 0, -1)}
	rep := ComputeReport(reportSnapshot(), r, testNow)

	require.Len(t, rep.Sales, 1)
	assert.Equal(t, "Soda", rep.Sales[0].Name)
	assert.True(t, rep.TotalSales.Equal(decimal.NewFromInt(100)))
	require.Len(t, rep.Expenses, 1)
	assert.True(t, rep.NetProfit.Equal(decimal.NewFromInt(60)))
	require.Len(t, rep.Stock, 1)
	require.NotNil(t, rep.From)
}

func TestRange(t *testing.T) {
	from := testNow.Add(-time.Hour)
	to := testNow.Add(time.Hour)

	r := Range{From: from, To: to}
	require.NoError(t, r.Validate())
	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.False(t, r.Contains(to.Add(time.Nanosecond)))

	require.ErrorIs(t, Range{From: to, To: from}.Validate(), e.ErrInvalidRange)
	assert.True(t, Range{}.Contains(testNow))
}

func TestSearch(t *testing.T) {
	snap := reportSnapshot()
	cola := soda()
	cola.ID, cola.Name, cola.Category = "p2", "Cola", "Sucreries"
	snap.Products = append(snap.Products, cola)

	assert.Len(t, SearchProducts(snap, ""), 2)
	assert.Len(t, SearchProducts(snap, "SODA"), 1)
	assert.Len(t, SearchProducts(snap, "sucre"), 1)
	assert.Empty(t, SearchProducts(snap, "pain"))

	sales, total := SearchSales(snap, "so")
	assert.Len(t, sales, 2)
	assert.True(t, total.Equal(decimal.NewFromInt(300)))

	sales, total = SearchSales(snap, "pain")
	assert.Empty(t, sales)
	assert.True(t, total.IsZero())
}
