package ledger

import (
	"strings"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/shopspring/decimal"
)

// SearchProducts возвращает товары, чьё название или категория содержит term
// без учёта регистра. Пустой term возвращает все товары.
func SearchProducts(snap *domain.Snapshot, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))

	res := make([]domain.Product, 0, len(snap.Products))
	for _, p := range snap.Products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			res = append(res, p)
		}
	}

	return res
}

// SearchSales возвращает продажи по вхождению term в название товара и их сумму.
func SearchSales(snap *domain.Snapshot, term string) ([]domain.Sale, decimal.Decimal) {
	term = strings.ToLower(strings.TrimSpace(term))

	total := decimal.Zero
	res := make([]domain.Sale, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		if term == "" || strings.Contains(strings.ToLower(s.ProductName), term) {
			res = append(res, s)
			total = total.Add(s.TotalPrice)
		}
	}

	return res, total
}
