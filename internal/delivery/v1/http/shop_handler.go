package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type ShopHandler struct {
	shopUsecase usecase.ShopUC
	logger      logger.Logger
	location    *time.Location
}

func NewShopHandler(shopUsecase usecase.ShopUC, logger logger.Logger, location *time.Location) *ShopHandler {
	return &ShopHandler{shopUsecase: shopUsecase, logger: logger, location: location}
}

func (h *ShopHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.shopUsecase.Authenticate(req.ID, req.Password); err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toSettingsResponse(h.shopUsecase.Settings()))
}

func (h *ShopHandler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toSnapshotResponse(h.shopUsecase.Snapshot()))
}

// PRODUCTS

func (h *ShopHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.shopUsecase.SearchProducts(r.URL.Query().Get("q"))
	WriteSuccess(w, http.StatusOK, toProductsResponse(products))
}

func (h *ShopHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := validatePrices(&req.PurchasePrice, &req.SellingPrice); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.AddProduct(r.Context(), usecase.NewAddProductReq(
		req.Name, req.Category, req.PurchasePrice, req.SellingPrice, req.Stock, req.MinStockAlert,
	))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusCreated, res)
}

func (h *ShopHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := validatePrices(req.PurchasePrice, req.SellingPrice); err != nil {
		h.fail(w, r, err)
		return
	}

	patch := domain.ProductPatch{
		Name:          req.Name,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Stock:         req.Stock,
		MinStockAlert: req.MinStockAlert,
	}

	res, err := h.shopUsecase.UpdateProduct(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusOK, res)
}

func (h *ShopHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	res, err := h.shopUsecase.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusOK, res)
}

// SALES

func (h *ShopHandler) sellProduct(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := validatePrices(req.UnitPrice); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.SellProduct(r.Context(), usecase.NewSellProductReq(
		chi.URLParam(r, "id"), req.Quantity, req.UnitPrice,
	))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusCreated, res)
}

func (h *ShopHandler) listSales(w http.ResponseWriter, r *http.Request) {
	found := h.shopUsecase.SearchSales(r.URL.Query().Get("q"))
	WriteSuccess(w, http.StatusOK, SalesResponse{
		Sales: toSalesResponse(found.Sales),
		Total: found.Total,
	})
}

func (h *ShopHandler) deleteSale(w http.ResponseWriter, r *http.Request) {
	res, err := h.shopUsecase.DeleteSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if res.Warning != "" {
		h.logger.Warnf("%s %s: %s", r.Method, r.URL.Path, res.Warning)
	}

	WriteSuccess(w, http.StatusOK, DeleteSaleResponse{
		MutationResponse: toMutationResponse(&res.MutationRes),
		Sale:             toSaleResponse(res.Sale),
		Restored:         res.Restored,
	})
}

func (h *ShopHandler) clearHistory(w http.ResponseWriter, r *http.Request) {
	res, err := h.shopUsecase.ClearHistory(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusOK, res)
}

// EXPENSES

func (h *ShopHandler) listExpenses(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toExpensesResponse(h.shopUsecase.Expenses()))
}

func (h *ShopHandler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req AddExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := validatePrice(req.Amount); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.AddExpense(r.Context(), usecase.NewAddExpenseReq(req.Description, req.Category, req.Amount))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusCreated, res)
}

func (h *ShopHandler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	res, err := h.shopUsecase.DeleteExpense(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusOK, res)
}

// SETTINGS

func (h *ShopHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toSettingsResponse(h.shopUsecase.Settings()))
}

func (h *ShopHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.UpdateSettings(r.Context(), usecase.NewUpdateSettingsReq(req.ShopName, req.Theme))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeMutation(w, http.StatusOK, res)
}

func (h *ShopHandler) changeCredentials(w http.ResponseWriter, r *http.Request) {
	var req ChangeCredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.ChangeCredentials(r.Context(), usecase.NewChangeCredentialsReq(
		req.AdminID, req.Password, req.ConfirmPassword,
	))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Infof("admin credentials changed")
	h.writeMutation(w, http.StatusOK, res)
}

// REPORTS

func (h *ShopHandler) getStatistics(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, toStatisticsResponse(h.shopUsecase.Statistics()))
}

func (h *ShopHandler) getReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.location)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rep, err := h.shopUsecase.Report(rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, rep)
}

func (h *ShopHandler) downloadReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.location)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	file, err := h.shopUsecase.ExportReport(rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func (h *ShopHandler) archiveReport(w http.ResponseWriter, r *http.Request) {
	rng, err := parseRange(r, h.location)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.shopUsecase.ArchiveReport(r.Context(), rng)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ArchiveResponse{Key: res.Key})
}

// writeMutation пишет результат мутации и логирует предупреждение о несохранённых данных.
func (h *ShopHandler) writeMutation(w http.ResponseWriter, status int, res *usecase.MutationRes) {
	if res.Warning != "" {
		h.logger.Warnf("mutation revision %d: %s", res.Snapshot.Revision, res.Warning)
	}

	WriteSuccess(w, status, toMutationResponse(res))
}

// fail логирует ошибку с уровнем по коду ответа и пишет её клиенту.
func (h *ShopHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError && !errors.Is(err, e.ErrArchiveDisabled) {
		h.logger.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		h.logger.Warnf("%d %s %s: %s", code, r.Method, r.URL.Path, err.Error())
	}

	WriteError(w, err)
}
