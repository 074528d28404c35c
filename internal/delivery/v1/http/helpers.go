package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/ledger"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	maxBodySize = 1 << 20
	dateLayout  = "2006-01-02"
)

// maxPrice — верхняя граница денежных сумм (1 млрд Fcfa)
var maxPrice = decimal.NewFromInt(1_000_000_000)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidCredentials):
		return http.StatusUnauthorized, e.ErrInvalidCredentials.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrSaleNotFound):
		return http.StatusNotFound, e.ErrSaleNotFound.Error()
	case errors.Is(err, e.ErrExpenseNotFound):
		return http.StatusNotFound, e.ErrExpenseNotFound.Error()
	case errors.Is(err, e.ErrInsufficientStock):
		return http.StatusConflict, e.ErrInsufficientStock.Error()
	case errors.Is(err, e.ErrDuplicateID):
		return http.StatusConflict, e.ErrDuplicateID.Error()
	case errors.Is(err, e.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, e.ErrArchiveDisabled.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrMissingFields),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrIDRequired),
		errors.Is(err, e.ErrProductNameRequired),
		errors.Is(err, e.ErrDescriptionRequired),
		errors.Is(err, e.ErrPriceMustBePositive),
		errors.Is(err, e.ErrAmountMustBePositive),
		errors.Is(err, e.ErrQuantityInvalid),
		errors.Is(err, e.ErrStockInvalid),
		errors.Is(err, e.ErrInvalidTheme),
		errors.Is(err, e.ErrInvalidRange),
		errors.Is(err, e.ErrPasswordMismatch):
		return http.StatusBadRequest, rootMessage(err)
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// rootMessage возвращает текст исходной ошибки без префиксов Wrap.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst. Неизвестные поля и пустое тело отклоняются.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}

// validatePrice проверяет денежную сумму: не отрицательная,
// не больше maxPrice и не более двух знаков после запятой.
func validatePrice(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(maxPrice) {
		return e.ErrInvalidPrice
	}

	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

func validatePrices(prices ...*decimal.Decimal) error {
	for _, p := range prices {
		if p == nil {
			continue
		}
		if err := validatePrice(*p); err != nil {
			return err
		}
	}

	return nil
}

// parseRange читает необязательные параметры from и to (YYYY-MM-DD или RFC3339).
// Дата в to включает весь день.
func parseRange(r *http.Request, loc *time.Location) (ledger.Range, error) {
	var rng ledger.Range

	if v := strings.TrimSpace(r.URL.Query().Get("from")); v != "" {
		from, _, err := parseBound(v, loc)
		if err != nil {
			return ledger.Range{}, e.Wrap("from", e.ErrInvalidRange)
		}
		rng.From = from
	}

	if v := strings.TrimSpace(r.URL.Query().Get("to")); v != "" {
		to, dateOnly, err := parseBound(v, loc)
		if err != nil {
			return ledger.Range{}, e.Wrap("to", e.ErrInvalidRange)
		}
		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		rng.To = to
	}

	if err := rng.Validate(); err != nil {
		return ledger.Range{}, err
	}

	return rng, nil
}

func parseBound(v string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, v, loc); err == nil {
		return t, true, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	return t, false, err
}
