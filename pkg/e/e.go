package e

import "fmt"

var (
	// Ошибки состояния журнала
	ErrDuplicateID      = fmt.Errorf("id already exists")
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrSaleNotFound     = fmt.Errorf("sale not found")
	ErrExpenseNotFound  = fmt.Errorf("expense not found")
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
	ErrCorruptSnapshot  = fmt.Errorf("corrupt snapshot")

	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// 400 Bad Request
	ErrIDRequired           = fmt.Errorf("id is required")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrDescriptionRequired  = fmt.Errorf("description is required")
	ErrPriceMustBePositive  = fmt.Errorf("price must be zero or positive")
	ErrAmountMustBePositive = fmt.Errorf("amount must be zero or positive")
	ErrQuantityInvalid      = fmt.Errorf("quantity must be positive")
	ErrStockInvalid         = fmt.Errorf("stock must be zero or positive")
	ErrInvalidTheme         = fmt.Errorf("theme must be light or dark")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidRange         = fmt.Errorf("invalid date range")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrInsufficientStock    = fmt.Errorf("insufficient stock")
	ErrPasswordMismatch     = fmt.Errorf("passwords do not match")

	// 401 Unauthorized
	ErrInvalidCredentials = fmt.Errorf("invalid id or password")

	// 503 Service Unavailable
	ErrArchiveDisabled = fmt.Errorf("report archive is not configured")

	// 500 Internal Server Error
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
