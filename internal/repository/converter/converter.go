package converter

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/shopspring/decimal"
)

// SnapshotConverter преобразует снимок между domain и сохраняемой моделью.
// Все хранилища снимков используют один и тот же конвертер, поэтому формат документа
// не зависит от выбранного бэкенда.
type SnapshotConverter interface {
	ToModel(entity *domain.Snapshot) *SnapshotModel
	ToEntity(model *SnapshotModel) *domain.Snapshot
	Marshal(entity *domain.Snapshot) ([]byte, error)
	Unmarshal(data []byte) (*domain.Snapshot, error)
}

type SnapshotConverterImpl struct{}

func NewSnapshotConverterImpl() *SnapshotConverterImpl {
	return &SnapshotConverterImpl{}
}

func (c *SnapshotConverterImpl) ToModel(entity *domain.Snapshot) *SnapshotModel {
	model := &SnapshotModel{
		Products: make([]ProductModel, 0, len(entity.Products)),
		Sales:    make([]SaleModel, 0, len(entity.Sales)),
		Expenses: make([]ExpenseModel, 0, len(entity.Expenses)),
		Settings: &SettingsModel{
			ShopName:  entity.Settings.ShopName,
			AdminID:   entity.Settings.AdminID,
			AdminPass: entity.Settings.AdminPass,
			Theme:     string(entity.Settings.Theme),
		},
		Revision: entity.Revision,
	}

	for _, p := range entity.Products {
		model.Products = append(model.Products, ProductModel{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			PurchasePrice: p.PurchasePrice.InexactFloat64(),
			SellingPrice:  p.SellingPrice.InexactFloat64(),
			Stock:         float64(p.Stock),
			MinStockAlert: float64(p.MinStockAlert),
			UpdatedAt:     ConvertTimeToMillis(p.UpdatedAt),
		})
	}

	for _, s := range entity.Sales {
		model.Sales = append(model.Sales, SaleModel{
			ID:              s.ID,
			ProductID:       s.ProductID,
			ProductName:     s.ProductName,
			ProductCategory: s.ProductCategory,
			Quantity:        float64(s.Quantity),
			UnitPrice:       s.UnitPrice.InexactFloat64(),
			TotalPrice:      s.TotalPrice.InexactFloat64(),
			Timestamp:       ConvertTimeToMillis(s.Timestamp),
		})
	}

	for _, exp := range entity.Expenses {
		model.Expenses = append(model.Expenses, ExpenseModel{
			ID:          exp.ID,
			Description: exp.Description,
			Category:    exp.Category,
			Amount:      exp.Amount.InexactFloat64(),
			Timestamp:   ConvertTimeToMillis(exp.Timestamp),
		})
	}

	return model
}

// ToEntity строит снимок из модели. Отсутствующие настройки заполняются
// значениями по умолчанию, а не приводят к ошибке загрузки.
func (c *SnapshotConverterImpl) ToEntity(model *SnapshotModel) *domain.Snapshot {
	snap := &domain.Snapshot{
		Products: make([]domain.Product, 0, len(model.Products)),
		Sales:    make([]domain.Sale, 0, len(model.Sales)),
		Expenses: make([]domain.Expense, 0, len(model.Expenses)),
		Revision: model.Revision,
	}

	if model.Settings != nil {
		snap.Settings = domain.Settings{
			ShopName:  model.Settings.ShopName,
			AdminID:   model.Settings.AdminID,
			AdminPass: model.Settings.AdminPass,
			Theme:     domain.Theme(model.Settings.Theme),
		}
	}

	for _, p := range model.Products {
		snap.Products = append(snap.Products, domain.Product{
			ID:            p.ID,
			Name:          p.Name,
			Category:      p.Category,
			PurchasePrice: decimal.NewFromFloat(p.PurchasePrice),
			SellingPrice:  decimal.NewFromFloat(p.SellingPrice),
			Stock:         ConvertNumberToInt(p.Stock),
			MinStockAlert: ConvertNumberToInt(p.MinStockAlert),
			UpdatedAt:     ConvertMillisToTime(p.UpdatedAt),
		})
	}

	for _, s := range model.Sales {
		snap.Sales = append(snap.Sales, domain.Sale{
			ID:              s.ID,
			ProductID:       s.ProductID,
			ProductName:     s.ProductName,
			ProductCategory: s.ProductCategory,
			Quantity:        ConvertNumberToInt(s.Quantity),
			UnitPrice:       decimal.NewFromFloat(s.UnitPrice),
			TotalPrice:      decimal.NewFromFloat(s.TotalPrice),
			Timestamp:       ConvertMillisToTime(s.Timestamp),
		})
	}

	for _, exp := range model.Expenses {
		snap.Expenses = append(snap.Expenses, domain.Expense{
			ID:          exp.ID,
			Description: exp.Description,
			Category:    exp.Category,
			Amount:      decimal.NewFromFloat(exp.Amount),
			Timestamp:   ConvertMillisToTime(exp.Timestamp),
		})
	}

	return snap.Normalize()
}

func (c *SnapshotConverterImpl) Marshal(entity *domain.Snapshot) ([]byte, error) {
	return json.Marshal(c.ToModel(entity))
}

// Unmarshal разбирает документ. Повреждённый JSON возвращает e.ErrCorruptSnapshot.
func (c *SnapshotConverterImpl) Unmarshal(data []byte) (*domain.Snapshot, error) {
	var model SnapshotModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %v", e.ErrCorruptSnapshot, err)
	}

	return c.ToEntity(&model), nil
}

func ConvertTimeToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func ConvertMillisToTime(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ConvertNumberToInt округляет числа, записанные браузерной версией как дробные.
func ConvertNumberToInt(f float64) int {
	return int(math.Round(f))
}
