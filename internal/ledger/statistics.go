package ledger

import (
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	recentSalesLimit = 6
	trendDays        = 7
)

// dayLabels — подписи дней недели, индекс совпадает с time.Weekday
var dayLabels = [7]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

var hundred = decimal.NewFromInt(100)

// DailyRevenue — выручка за один календарный день.
type DailyRevenue struct {
	Label   string          `json:"name"`
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"ventes"`
}

// Statistics — агрегаты для панели управления. Полностью выводятся из снимка.
type Statistics struct {
	TotalSales       decimal.Decimal  `json:"totalSales"`
	TotalExpenses    decimal.Decimal  `json:"totalExpenses"`
	NetProfit        decimal.Decimal  `json:"netProfit"`
	LowStockCount    int              `json:"lowStockCount"`
	LowStockProducts []domain.Product `json:"-"`
	TodaySales       decimal.Decimal  `json:"todaySales"`
	YesterdaySales   decimal.Decimal  `json:"yesterdaySales"`
	SalesTrend       string           `json:"salesTrend"`
	Weekly           []DailyRevenue   `json:"weekly"`
	RecentSales      []domain.Sale    `json:"-"`
}

// ComputeStatistics считает статистику на момент asOf. Границы дней берутся
// в часовом поясе asOf.
func ComputeStatistics(snap *domain.Snapshot, asOf time.Time) Statistics {
	todayStart := startOfDay(asOf)
	tomorrowStart := todayStart.AddDate(0, 0, 1)
	yesterdayStart := todayStart.AddDate(0, 0, -1)

	stats := Statistics{
		TotalSales:       sumSales(snap.Sales),
		TotalExpenses:    sumExpenses(snap.Expenses),
		LowStockProducts: make([]domain.Product, 0),
		TodaySales:       revenueBetween(snap.Sales, todayStart, tomorrowStart),
		YesterdaySales:   revenueBetween(snap.Sales, yesterdayStart, todayStart),
		Weekly:           make([]DailyRevenue, 0, trendDays),
	}
	stats.NetProfit = stats.TotalSales.Sub(stats.TotalExpenses)
	stats.SalesTrend = FormatTrend(stats.TodaySales, stats.YesterdaySales)

	for _, p := range snap.Products {
		if p.IsLowStock() {
			stats.LowStockProducts = append(stats.LowStockProducts, p)
		}
	}
	stats.LowStockCount = len(stats.LowStockProducts)

	for i := trendDays - 1; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		stats.Weekly = append(stats.Weekly, DailyRevenue{
			Label:   dayLabels[dayStart.Weekday()],
			Date:    dayStart,
			Revenue: revenueBetween(snap.Sales, dayStart, dayStart.AddDate(0, 0, 1)),
		})
	}

	n := min(recentSalesLimit, len(snap.Sales))
	stats.RecentSales = append(make([]domain.Sale, 0, n), snap.Sales[:n]...)

	return stats
}

// FormatTrend форматирует изменение current относительно previous в процентах.
// Нулевой предыдущий период даёт "+100%" при ненулевом текущем и "0%" при нулевом.
func FormatTrend(current, previous decimal.Decimal) string {
	if previous.IsZero() {
		if current.IsPositive() {
			return "+100%"
		}
		return "0%"
	}

	change := current.Sub(previous).Div(previous).Mul(hundred)
	sign := ""
	if !change.IsNegative() {
		sign = "+"
	}

	return sign + change.StringFixed(1) + "%"
}

// Statistics считает статистику по текущему снимку.
func (l *Ledger) Statistics(asOf time.Time) Statistics {
	return ComputeStatistics(l.Snapshot(), asOf)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// revenueBetween суммирует продажи в полуинтервале [from, to).
func revenueBetween(sales []domain.Sale, from, to time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			total = total.Add(s.TotalPrice)
		}
	}

	return total
}

func sumSales(sales []domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.TotalPrice)
	}

	return total
}

func sumExpenses(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}

	return total
}
