package http

import (
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/shopspring/decimal"
)

// REQUESTS

type LoginRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type AddProductRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Stock         int             `json:"stock"`
	MinStockAlert int             `json:"minStockAlert"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	Category      *string          `json:"category"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
	Stock         *int             `json:"stock"`
	MinStockAlert *int             `json:"minStockAlert"`
}

type SellRequest struct {
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type AddExpenseRequest struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
}

type UpdateSettingsRequest struct {
	ShopName *string `json:"shopName"`
	Theme    *string `json:"theme"`
}

type ChangeCredentialsRequest struct {
	AdminID         string `json:"adminId"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// RESPONSES

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Stock         int             `json:"stock"`
	MinStockAlert int             `json:"minStockAlert"`
	LowStock      bool            `json:"lowStock"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type SaleResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Timestamp       time.Time       `json:"timestamp"`
}

type ExpenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
}

// SettingsResponse не содержит пароль администратора.
type SettingsResponse struct {
	ShopName string `json:"shopName"`
	AdminID  string `json:"adminId"`
	Theme    string `json:"theme"`
}

type SnapshotResponse struct {
	Products []ProductResponse `json:"products"`
	Sales    []SaleResponse    `json:"sales"`
	Expenses []ExpenseResponse `json:"expenses"`
	Settings SettingsResponse  `json:"settings"`
	Revision uint64            `json:"revision"`
}

type MutationResponse struct {
	Snapshot SnapshotResponse `json:"snapshot"`
	Warning  string           `json:"warning,omitempty"`
}

type DeleteSaleResponse struct {
	MutationResponse
	Sale     SaleResponse `json:"sale"`
	Restored bool         `json:"restored"`
}

type SalesResponse struct {
	Sales []SaleResponse  `json:"sales"`
	Total decimal.Decimal `json:"total"`
}

type StatisticsResponse struct {
	ledger.Statistics
	LowStockProducts []ProductResponse `json:"lowStockProducts"`
	RecentSales      []SaleResponse    `json:"recentSales"`
}

type ArchiveResponse struct {
	Key string `json:"key"`
}

// MAPPERS

func toProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		Stock:         p.Stock,
		MinStockAlert: p.MinStockAlert,
		LowStock:      p.IsLowStock(),
		UpdatedAt:     p.UpdatedAt,
	}
}

func toSaleResponse(s domain.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		ProductID:       s.ProductID,
		ProductName:     s.ProductName,
		ProductCategory: s.ProductCategory,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		TotalPrice:      s.TotalPrice,
		Timestamp:       s.Timestamp,
	}
}

func toExpenseResponse(exp domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          exp.ID,
		Description: exp.Description,
		Category:    exp.Category,
		Amount:      exp.Amount,
		Timestamp:   exp.Timestamp,
	}
}

func toSettingsResponse(s domain.Settings) SettingsResponse {
	return SettingsResponse{
		ShopName: s.ShopName,
		AdminID:  s.AdminID,
		Theme:    string(s.Theme),
	}
}

func toProductsResponse(products []domain.Product) []ProductResponse {
	res := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, toProductResponse(p))
	}
	return res
}

func toSalesResponse(sales []domain.Sale) []SaleResponse {
	res := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		res = append(res, toSaleResponse(s))
	}
	return res
}

func toExpensesResponse(expenses []domain.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, 0, len(expenses))
	for _, exp := range expenses {
		res = append(res, toExpenseResponse(exp))
	}
	return res
}

func toSnapshotResponse(snap *domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		Products: toProductsResponse(snap.Products),
		Sales:    toSalesResponse(snap.Sales),
		Expenses: toExpensesResponse(snap.Expenses),
		Settings: toSettingsResponse(snap.Settings),
		Revision: snap.Revision,
	}
}

func toMutationResponse(res *usecase.MutationRes) MutationResponse {
	return MutationResponse{
		Snapshot: toSnapshotResponse(res.Snapshot),
		Warning:  res.Warning,
	}
}

func toStatisticsResponse(stats ledger.Statistics) StatisticsResponse {
	return StatisticsResponse{
		Statistics:       stats,
		LowStockProducts: toProductsResponse(stats.LowStockProducts),
		RecentSales:      toSalesResponse(stats.RecentSales),
	}
}
