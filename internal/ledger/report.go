package ledger

import (
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
)

// noCategory подставляется в строку продажи без категории
const noCategory = "-"

// Range — необязательный интервал отчёта. Нулевая граница означает отсутствие ограничения.
type Range struct {
	From time.Time
	To   time.Time
}

// Validate проверяет, что начало не позже конца.
func (r Range) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return e.ErrInvalidRange
	}

	return nil
}

// Contains сообщает, попадает ли t в интервал (границы включаются).
func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}

	return true
}

type SaleRow struct {
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
	Timestamp time.Time       `json:"timestamp"`
}

type ExpenseRow struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
}

type StockRow struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Stock         int    `json:"stock"`
	MinStockAlert int    `json:"minStockAlert"`
	LowStock      bool   `json:"lowStock"`
}

// Report — данные для выгрузки в таблицу и печати.
type Report struct {
	ShopName      string          `json:"shopName"`
	GeneratedAt   time.Time       `json:"generatedAt"`
	From          *time.Time      `json:"from,omitempty"`
	To            *time.Time      `json:"to,omitempty"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	ProductCount  int             `json:"productCount"`
	StockValue    decimal.Decimal `json:"stockValue"`
	Sales         []SaleRow       `json:"sales"`
	Expenses      []ExpenseRow    `json:"expenses"`
	Stock         []StockRow      `json:"stock"`
}

// ComputeReport строит отчёт по снимку. Интервал фильтрует продажи и расходы,
// таблица остатков всегда отражает текущее состояние склада.
func ComputeReport(snap *domain.Snapshot, r Range, generatedAt time.Time) *Report {
	rep := &Report{
		ShopName:      snap.Settings.ShopName,
		GeneratedAt:   generatedAt,
		TotalSales:    decimal.Zero,
		TotalExpenses: decimal.Zero,
		ProductCount:  len(snap.Products),
		StockValue:    decimal.Zero,
		Sales:         make([]SaleRow, 0, len(snap.Sales)),
		Expenses:      make([]ExpenseRow, 0, len(snap.Expenses)),
		Stock:         make([]StockRow, 0, len(snap.Products)),
	}
	if !r.From.IsZero() {
		from := r.From
		rep.From = &from
	}
	if !r.To.IsZero() {
		to := r.To
		rep.To = &to
	}

	for _, s := range snap.Sales {
		if !r.Contains(s.Timestamp) {
			continue
		}
		category := s.ProductCategory
		if category == "" {
			category = noCategory
		}
		rep.Sales = append(rep.Sales, SaleRow{
			Category:  category,
			Name:      s.ProductName,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice,
			Total:     s.TotalPrice,
			Timestamp: s.Timestamp,
		})
		rep.TotalSales = rep.TotalSales.Add(s.TotalPrice)
	}

	for _, exp := range snap.Expenses {
		if !r.Contains(exp.Timestamp) {
			continue
		}
		rep.Expenses = append(rep.Expenses, ExpenseRow{
			Description: exp.Description,
			Category:    exp.Category,
			Amount:      exp.Amount,
			Timestamp:   exp.Timestamp,
		})
		rep.TotalExpenses = rep.TotalExpenses.Add(exp.Amount)
	}

	for _, p := range snap.Products {
		rep.Stock = append(rep.Stock, StockRow{
			Name:          p.Name,
			Category:      p.Category,
			Stock:         p.Stock,
			MinStockAlert: p.MinStockAlert,
			LowStock:      p.IsLowStock(),
		})
		rep.StockValue = rep.StockValue.Add(p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.Stock))))
	}

	rep.NetProfit = rep.TotalSales.Sub(rep.TotalExpenses)
	return rep
}

// Report строит отчёт по текущему снимку.
func (l *Ledger) Report(r Range) *Report {
	return ComputeReport(l.Snapshot(), r, l.clock())
}
