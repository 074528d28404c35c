package usecase

import (
	"context"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
)

// ShopUC — операции магазина, доступные транспортному слою.
type ShopUC interface {
	Authenticate(id, pass string) error

	Snapshot() *domain.Snapshot
	Settings() domain.Settings
	SearchProducts(term string) []domain.Product
	SearchSales(term string) *SearchSalesRes
	Expenses() []domain.Expense
	Statistics() ledger.Statistics
	Report(r ledger.Range) (*ledger.Report, error)

	AddProduct(ctx context.Context, req *AddProductReq) (*MutationRes, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*MutationRes, error)
	DeleteProduct(ctx context.Context, id string) (*MutationRes, error)
	SellProduct(ctx context.Context, req *SellProductReq) (*MutationRes, error)
	DeleteSale(ctx context.Context, id string) (*DeleteSaleRes, error)
	AddExpense(ctx context.Context, req *AddExpenseReq) (*MutationRes, error)
	DeleteExpense(ctx context.Context, id string) (*MutationRes, error)
	UpdateSettings(ctx context.Context, req *UpdateSettingsReq) (*MutationRes, error)
	ChangeCredentials(ctx context.Context, req *ChangeCredentialsReq) (*MutationRes, error)
	ClearHistory(ctx context.Context) (*MutationRes, error)

	ExportReport(r ledger.Range) (*ReportFile, error)
	ArchiveReport(ctx context.Context, r ledger.Range) (*ArchiveReportRes, error)
}

// Clock возвращает текущее время в часовом поясе магазина.
type Clock func() time.Time
