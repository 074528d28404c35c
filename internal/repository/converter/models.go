package converter

// Модели повторяют формат документа, который браузерная версия хранила
// в localStorage: числа — JSON numbers, время — миллисекунды Unix.

// SnapshotModel представляет весь сохранённый документ магазина.
type SnapshotModel struct {
	Products []ProductModel `json:"products"`
	Sales    []SaleModel    `json:"sales"`
	Expenses []ExpenseModel `json:"expenses"`
	Settings *SettingsModel `json:"settings,omitempty"`
	Revision uint64         `json:"revision,omitempty"`
}

type ProductModel struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchasePrice"`
	SellingPrice  float64 `json:"sellingPrice"`
	Stock         float64 `json:"stock"`
	MinStockAlert float64 `json:"minStockAlert"`
	UpdatedAt     int64   `json:"updatedAt"`
}

type SaleModel struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductCategory string  `json:"productCategory,omitempty"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`
	Timestamp       int64   `json:"timestamp"`
}

type ExpenseModel struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Timestamp   int64   `json:"timestamp"`
}

type SettingsModel struct {
	ShopName  string `json:"shopName"`
	AdminID   string `json:"adminId"`
	AdminPass string `json:"adminPass"`
	Theme     string `json:"theme"`
}
