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

var testNow = time.Date(2026, time.October, 14, 15, 30, 0, 0, time.UTC)

func fixedClock() Clock {
	return func() time.Time { return testNow }
}

func soda() domain.Product {
	return domain.Product{
		ID:            "p1",
		Name:          "Soda",
		Category:      "Boissons",
		PurchasePrice: decimal.NewFromInt(60),
		SellingPrice:  decimal.NewFromInt(100),
		Stock:         10,
		MinStockAlert: 5,
		UpdatedAt:     testNow.Add(-time.Hour),
	}
}

func sale(id, productID string, qty int, unit int64, ts time.Time) domain.Sale {
	s, err := domain.NewSale(id, productID, "Soda", "Boissons", qty, decimal.NewFromInt(unit), ts)
	if err != nil {
		panic(err)
	}
	return *s
}

func expense(id string, amount int64, ts time.Time) domain.Expense {
	exp, err := domain.NewExpense(id, "Loyer", "", decimal.NewFromInt(amount), ts)
	if err != nil {
		panic(err)
	}
	return *exp
}

func stockOf(t *testing.T, l *Ledger, id string) int {
	t.Helper()
	p, err := l.Product(id)
	require.NoError(t, err)
	return p.Stock
}

func TestLedger_SaleScenario(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))

	_, err := l.AddProduct(soda())
	require.NoError(t, err)

	_, err = l.RecordSale(sale("s1", "p1", 3, 100, testNow))
	require.NoError(t, err)
	require.Equal(t, 7, stockOf(t, l, "p1"))
	require.True(t, l.Statistics(testNow).TotalSales.Equal(decimal.NewFromInt(300)))

	res, err := l.DeleteSale("s1")
	require.NoError(t, err)
	require.True(t, res.Restored)
	require.Equal(t, 10, stockOf(t, l, "p1"))
	require.True(t, l.Statistics(testNow).TotalSales.IsZero())
}

func TestLedger_ExpenseOnlyNetProfit(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))

	_, err := l.AddExpense(expense("e1", 500, testNow))
	require.NoError(t, err)

	stats := l.Statistics(testNow)
	require.True(t, stats.NetProfit.Equal(decimal.NewFromInt(-500)), stats.NetProfit.String())
}

func TestLedger_SaleRoundTripKeepsStock(t *testing.T) {
	for _, qty := range []int{1, 4, 10, 15} {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)

		before := stockOf(t, l, "p1")
		_, err = l.RecordSale(sale("s1", "p1", qty, 100, testNow))
		require.NoError(t, err)
		_, err = l.DeleteSale("s1")
		require.NoError(t, err)

		assert.Equal(t, before, stockOf(t, l, "p1"), "quantity %d", qty)
	}
}

func TestLedger_RecordSale(t *testing.T) {
	t.Run("prepends and refreshes UpdatedAt", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)

		_, err = l.RecordSale(sale("s1", "p1", 1, 100, testNow.Add(-time.Minute)))
		require.NoError(t, err)
		snap, err := l.RecordSale(sale("s2", "p1", 2, 100, testNow))
		require.NoError(t, err)

		require.Len(t, snap.Sales, 2)
		assert.Equal(t, "s2", snap.Sales[0].ID)
		assert.Equal(t, "s1", snap.Sales[1].ID)
		assert.Equal(t, testNow, snap.Products[0].UpdatedAt)
	})

	t.Run("stock may go negative", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)

		_, err = l.RecordSale(sale("s1", "p1", 12, 100, testNow))
		require.NoError(t, err)
		assert.Equal(t, -2, stockOf(t, l, "p1"))
	})

	t.Run("duplicate id rejected without mutation", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)
		_, err = l.RecordSale(sale("s1", "p1", 1, 100, testNow))
		require.NoError(t, err)

		before := l.Snapshot()
		_, err = l.RecordSale(sale("s1", "p1", 1, 100, testNow))
		require.ErrorIs(t, err, e.ErrDuplicateID)
		assert.Same(t, before, l.Snapshot())
		assert.Equal(t, 9, stockOf(t, l, "p1"))
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.RecordSale(sale("s1", "ghost", 1, 100, testNow))
		require.ErrorIs(t, err, e.ErrProductNotFound)
		assert.Empty(t, l.Snapshot().Sales)
	})
}

func TestLedger_AddProduct(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))
	_, err := l.AddProduct(soda())
	require.NoError(t, err)

	other := soda()
	other.Name = "Autre"
	_, err = l.AddProduct(other)
	require.ErrorIs(t, err, e.ErrDuplicateID)
	require.Len(t, l.Snapshot().Products, 1)
	assert.Equal(t, "Soda", l.Snapshot().Products[0].Name)
}

func TestLedger_UpdateProduct(t *testing.T) {
	t.Run("rename keeps stock", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)

		name := "Soda 33cl"
		snap, err := l.UpdateProduct("p1", domain.ProductPatch{Name: &name})
		require.NoError(t, err)

		p := snap.Products[0]
		assert.Equal(t, "Soda 33cl", p.Name)
		assert.Equal(t, 10, p.Stock)
		assert.Equal(t, "Boissons", p.Category)
		assert.Equal(t, testNow, p.UpdatedAt)
	})

	t.Run("explicit stock applied", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		_, err := l.AddProduct(soda())
		require.NoError(t, err)

		stock := 42
		_, err = l.UpdateProduct("p1", domain.ProductPatch{Stock: &stock})
		require.NoError(t, err)
		assert.Equal(t, 42, stockOf(t, l, "p1"))
	})

	t.Run("not found", func(t *testing.T) {
		l := New(nil, WithClock(fixedClock()))
		name := "x"
		_, err := l.UpdateProduct("nope", domain.ProductPatch{Name: &name})
		require.ErrorIs(t, err, e.ErrProductNotFound)
	})
}

func TestLedger_DeleteProductKeepsSales(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))
	_, err := l.AddProduct(soda())
	require.NoError(t, err)
	cola := soda()
	cola.ID, cola.Name = "p2", "Cola"
	_, err = l.AddProduct(cola)
	require.NoError(t, err)

	_, err = l.RecordSale(sale("s1", "p1", 3, 100, testNow))
	require.NoError(t, err)

	snap, err := l.DeleteProduct("p1")
	require.NoError(t, err)
	require.Len(t, snap.Sales, 1)
	assert.Equal(t, "Soda", snap.Sales[0].ProductName)
	assert.Equal(t, "p1", snap.Sales[0].ProductID)

	res, err := l.DeleteSale("s1")
	require.NoError(t, err)
	assert.False(t, res.Restored)
	assert.Equal(t, 10, stockOf(t, l, "p2"))
	assert.Empty(t, res.Snapshot.Sales)

	_, err = l.DeleteProduct("p1")
	require.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestLedger_DeleteMissing(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))

	_, err := l.DeleteSale("nope")
	require.ErrorIs(t, err, e.ErrSaleNotFound)

	_, err = l.DeleteExpense("nope")
	require.ErrorIs(t, err, e.ErrExpenseNotFound)

	assert.Zero(t, l.Snapshot().Revision)
}

func TestLedger_Expenses(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))

	_, err := l.AddExpense(expense("e1", 500, testNow.Add(-time.Hour)))
	require.NoError(t, err)
	snap, err := l.AddExpense(expense("e2", 200, testNow))
	require.NoError(t, err)
	require.Equal(t, "e2", snap.Expenses[0].ID)
	assert.Equal(t, domain.DefaultExpenseCategory, snap.Expenses[0].Category)

	_, err = l.AddExpense(expense("e2", 1, testNow))
	require.ErrorIs(t, err, e.ErrDuplicateID)

	snap, err = l.DeleteExpense("e1")
	require.NoError(t, err)
	require.Len(t, snap.Expenses, 1)
	assert.Equal(t, "e2", snap.Expenses[0].ID)
}

func TestLedger_ClearHistory(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))
	_, err := l.AddProduct(soda())
	require.NoError(t, err)
	_, err = l.RecordSale(sale("s1", "p1", 2, 100, testNow))
	require.NoError(t, err)
	_, err = l.AddExpense(expense("e1", 50, testNow))
	require.NoError(t, err)

	before := l.Snapshot()
	after, err := l.ClearHistory()
	require.NoError(t, err)

	assert.Empty(t, after.Sales)
	assert.Empty(t, after.Expenses)
	assert.Equal(t, before.Products, after.Products)
	assert.Equal(t, before.Settings, after.Settings)
}

func TestLedger_UpdateSettings(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))

	dark := domain.ThemeDark
	snap, err := l.UpdateSettings(domain.SettingsPatch{Theme: &dark})
	require.NoError(t, err)

	assert.Equal(t, domain.ThemeDark, snap.Settings.Theme)
	assert.Equal(t, domain.DefaultShopName, snap.Settings.ShopName)
	assert.Equal(t, domain.DefaultAdminPass, snap.Settings.AdminPass)
}

func TestLedger_SnapshotsAreNotMutatedInPlace(t *testing.T) {
	l := New(nil, WithClock(fixedClock()))
	_, err := l.AddProduct(soda())
	require.NoError(t, err)

	held := l.Snapshot()
	_, err = l.RecordSale(sale("s1", "p1", 3, 100, testNow))
	require.NoError(t, err)

	assert.Equal(t, 10, held.Products[0].Stock)
	assert.Empty(t, held.Sales)
	assert.Equal(t, held.Revision+1, l.Snapshot().Revision)
}

func TestNew_NormalizesSnapshot(t *testing.T) {
	l := New(&domain.Snapshot{Settings: domain.Settings{AdminID: "boss"}})

	snap := l.Snapshot()
	assert.NotNil(t, snap.Products)
	assert.NotNil(t, snap.Sales)
	assert.NotNil(t, snap.Expenses)
	assert.Equal(t, domain.DefaultShopName, snap.Settings.ShopName)
	assert.Equal(t, "boss", snap.Settings.AdminID)
	assert.Equal(t, domain.ThemeLight, snap.Settings.Theme)
}
