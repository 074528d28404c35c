package usecase

import (
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/shopspring/decimal"
)

// WarnNotSaved возвращается вместе с результатом мутации, если снимок не удалось сохранить.
// Изменение при этом уже применено в памяти.
const WarnNotSaved = "changes were applied but could not be saved"

// SHOP USECASE

// AddProductReq — запрос на добавление товара.
type AddProductReq struct {
	Name          string
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Stock         int
	MinStockAlert int
}

// SellProductReq — запрос на продажу. Если UnitPrice не задан, берётся цена продажи товара.
type SellProductReq struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// AddExpenseReq — запрос на добавление расхода.
type AddExpenseReq struct {
	Description string
	Category    string
	Amount      decimal.Decimal
}

// UpdateSettingsReq — изменение настроек магазина. nil-поля не меняются.
type UpdateSettingsReq struct {
	ShopName *string
	Theme    *string
}

// ChangeCredentialsReq — смена логина и пароля. Пустые поля оставляют текущие значения.
type ChangeCredentialsReq struct {
	AdminID         string
	Password        string
	ConfirmPassword string
}

// MutationRes — результат мутации: новый снимок и необязательное предупреждение о сохранении.
type MutationRes struct {
	Snapshot *domain.Snapshot
	Warning  string
}

// DeleteSaleRes — результат удаления продажи.
type DeleteSaleRes struct {
	MutationRes
	Sale     domain.Sale
	Restored bool
}

// SearchSalesRes — найденные продажи и их сумма.
type SearchSalesRes struct {
	Sales []domain.Sale
	Total decimal.Decimal
}

// ReportFile — готовый к выгрузке файл отчёта.
type ReportFile struct {
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// ArchiveReportRes — ключ загруженного отчёта в объектном хранилище.
type ArchiveReportRes struct {
	Key string
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	SnapshotSaved OutboxEventType = "ledger.snapshot_saved"
)

// OutboxEvent — событие, ожидающее отправки в брокер сообщений.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SnapshotSavedPayload — тело события ledger.snapshot_saved.
type SnapshotSavedPayload struct {
	EventID       string    `json:"eventId"`
	Namespace     string    `json:"namespace"`
	Revision      uint64    `json:"revision"`
	ProductCount  int       `json:"productCount"`
	SaleCount     int       `json:"saleCount"`
	ExpenseCount  int       `json:"expenseCount"`
	LowStockCount int       `json:"lowStockCount"`
	SavedAt       time.Time `json:"savedAt"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// MAPPERS

func NewMutationRes(snap *domain.Snapshot, warning string) *MutationRes {
	return &MutationRes{
		Snapshot: snap,
		Warning:  warning,
	}
}

func NewAddProductReq(name, category string, purchasePrice, sellingPrice decimal.Decimal, stock, minStockAlert int) *AddProductReq {
	return &AddProductReq{
		Name:          name,
		Category:      category,
		PurchasePrice: purchasePrice,
		SellingPrice:  sellingPrice,
		Stock:         stock,
		MinStockAlert: minStockAlert,
	}
}

func NewSellProductReq(productID string, quantity int, unitPrice *decimal.Decimal) *SellProductReq {
	return &SellProductReq{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

func NewAddExpenseReq(description, category string, amount decimal.Decimal) *AddExpenseReq {
	return &AddExpenseReq{
		Description: description,
		Category:    category,
		Amount:      amount,
	}
}

func NewUpdateSettingsReq(shopName, theme *string) *UpdateSettingsReq {
	return &UpdateSettingsReq{
		ShopName: shopName,
		Theme:    theme,
	}
}

func NewChangeCredentialsReq(adminID, password, confirm string) *ChangeCredentialsReq {
	return &ChangeCredentialsReq{
		AdminID:         adminID,
		Password:        password,
		ConfirmPassword: confirm,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, aggregateID string, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     payload,
		Status:      Pending,
		CreatedAt:   createdAt,
	}
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}
