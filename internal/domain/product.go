package domain

import (
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
)

// Product описывает товар на складе магазина
type Product struct {
	ID            string
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Stock         int // может уйти в минус, только если продажа не прошла проверку на границе
	MinStockAlert int
	UpdatedAt     time.Time
}

// ProductPatch — частичное обновление товара. Применяются только заданные поля.
type ProductPatch struct {
	Name          *string
	Category      *string
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Stock         *int
	MinStockAlert *int
}

// NewProduct создаёт товар с проверкой обязательных полей.
func NewProduct(id, name, category string, purchasePrice, sellingPrice decimal.Decimal,
	stock, minStockAlert int, now time.Time) (*Product, error) {
	p := &Product{
		ID:            strings.TrimSpace(id),
		Name:          strings.TrimSpace(name),
		Category:      strings.TrimSpace(category),
		PurchasePrice: purchasePrice,
		SellingPrice:  sellingPrice,
		Stock:         stock,
		MinStockAlert: minStockAlert,
		UpdatedAt:     now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate проверяет инварианты полей товара.
func (p *Product) Validate() error {
	if p.ID == "" {
		return e.ErrIDRequired
	}

	if p.Name == "" {
		return e.ErrProductNameRequired
	}

	if p.PurchasePrice.IsNegative() || p.SellingPrice.IsNegative() {
		return e.ErrPriceMustBePositive
	}

	if p.Stock < 0 || p.MinStockAlert < 0 {
		return e.ErrStockInvalid
	}

	return nil
}

// IsLowStock сообщает, достиг ли остаток порога оповещения.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStockAlert
}

// Apply возвращает копию товара с применённым патчем.
func (p Product) Apply(patch ProductPatch, now time.Time) Product {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		p.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.PurchasePrice != nil {
		p.PurchasePrice = *patch.PurchasePrice
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.MinStockAlert != nil {
		p.MinStockAlert = *patch.MinStockAlert
	}
	p.UpdatedAt = now

	return p
}

// Validate проверяет значения, заданные в патче.
func (pp ProductPatch) Validate() error {
	if pp.Name != nil && strings.TrimSpace(*pp.Name) == "" {
		return e.ErrProductNameRequired
	}

	if (pp.PurchasePrice != nil && pp.PurchasePrice.IsNegative()) ||
		(pp.SellingPrice != nil && pp.SellingPrice.IsNegative()) {
		return e.ErrPriceMustBePositive
	}

	if (pp.Stock != nil && *pp.Stock < 0) || (pp.MinStockAlert != nil && *pp.MinStockAlert < 0) {
		return e.ErrStockInvalid
	}

	return nil
}
