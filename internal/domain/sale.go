package domain

import (
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
)

// Sale описывает проданную позицию.
// ProductName и ProductCategory копируются из товара в момент продажи и больше не меняются:
// переименование или удаление товара не переписывает историю.
type Sale struct {
	ID              string
	ProductID       string
	ProductName     string
	ProductCategory string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal // Quantity * UnitPrice
	Timestamp       time.Time
}

// NewSale создаёт продажу и вычисляет итоговую сумму.
func NewSale(id, productID, productName, productCategory string, quantity int,
	unitPrice decimal.Decimal, ts time.Time) (*Sale, error) {
	s := &Sale{
		ID:              strings.TrimSpace(id),
		ProductID:       strings.TrimSpace(productID),
		ProductName:     productName,
		ProductCategory: productCategory,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		TotalPrice:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Timestamp:       ts,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewSaleFor создаёт продажу товара, копируя его название и категорию.
func NewSaleFor(id string, product *Product, quantity int, unitPrice decimal.Decimal, ts time.Time) (*Sale, error) {
	return NewSale(id, product.ID, product.Name, product.Category, quantity, unitPrice, ts)
}

// Validate проверяет инварианты продажи.
func (s *Sale) Validate() error {
	if s.ID == "" || s.ProductID == "" {
		return e.ErrIDRequired
	}

	if s.Quantity <= 0 {
		return e.ErrQuantityInvalid
	}

	if s.UnitPrice.IsNegative() {
		return e.ErrPriceMustBePositive
	}

	return nil
}
