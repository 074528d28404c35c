package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/domain"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/infrastructure/export"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/usecase"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/e"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySnapshotRepo struct {
	mu      sync.Mutex
	snap    *domain.Snapshot
	saveErr error
}

func (m *memorySnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap == nil {
		return nil, e.ErrSnapshotNotFound
	}
	return m.snap.Clone(), nil
}

func (m *memorySnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap.Clone()
	return nil
}

func (m *memorySnapshotRepo) saved() *domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *memorySnapshotRepo) failSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

var testNow = time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T, repo *memorySnapshotRepo) *httptest.Server {
	t.Helper()

	seq := 0
	uc := usecase.NewShopUC(repo, export.NewCSVExporter(time.UTC), logger.NewNop(),
		usecase.WithClock(func() time.Time { return testNow }),
		usecase.WithIDGenerator(func() string {
			seq++
			return "id-" + string(rune('a'+seq-1))
		}),
	)
	uc.Load(context.Background())

	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNop(), time.UTC).Init(uc)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, srv *httptest.Server, method, path, body string, auth bool) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth(domain.DefaultAdminID, domain.DefaultAdminPass)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func addTestProduct(t *testing.T, srv *httptest.Server, stock int) MutationResponse {
	t.Helper()

	body := `{"name":"Riz","category":"Alimentation","purchasePrice":"500","sellingPrice":"750","stock":` +
		jsonInt(stock) + `,"minStockAlert":2}`
	resp := doRequest(t, srv, http.MethodPost, "/api/v1/products", body, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[MutationResponse](t, resp)
}

func jsonInt(v int) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestPrivateRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/snapshot", "", false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Basic")

	errResp := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, http.StatusUnauthorized, errResp.Code)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	t.Run("valid credentials", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/login", `{"id":"admin","password":"12345678"}`, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		settings := decodeBody[SettingsResponse](t, resp)
		assert.Equal(t, domain.DefaultShopName, settings.ShopName)
		assert.Equal(t, domain.DefaultAdminID, settings.AdminID)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/login", `{"id":"admin","password":"nope"}`, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("empty body", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/login", "", false)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAddProduct(t *testing.T) {
	repo := &memorySnapshotRepo{}
	srv := newTestServer(t, repo)

	res := addTestProduct(t, srv, 10)

	require.Len(t, res.Snapshot.Products, 1)
	p := res.Snapshot.Products[0]
	assert.Equal(t, "Riz", p.Name)
	assert.Equal(t, "750", p.SellingPrice.String())
	assert.Equal(t, 10, p.Stock)
	assert.False(t, p.LowStock)
	assert.Empty(t, res.Warning)
	assert.Equal(t, uint64(1), res.Snapshot.Revision)

	saved, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved.Products, 1)
}

func TestAddProductValidation(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"name":"","category":"A","purchasePrice":"1","sellingPrice":"2","stock":1,"minStockAlert":0}`},
		{"negative price", `{"name":"X","category":"A","purchasePrice":"-1","sellingPrice":"2","stock":1,"minStockAlert":0}`},
		{"too many decimals", `{"name":"X","category":"A","purchasePrice":"1.005","sellingPrice":"2","stock":1,"minStockAlert":0}`},
		{"unknown field", `{"name":"X","color":"red"}`},
		{"malformed json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, srv, http.MethodPost, "/api/v1/products", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestSellProduct(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})
	added := addTestProduct(t, srv, 3)
	id := added.Snapshot.Products[0].ID

	t.Run("insufficient stock", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/products/"+id+"/sales", `{"quantity":5}`, true)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown product", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/products/missing/sales", `{"quantity":1}`, true)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("sale at default price", func(t *testing.T) {
		resp := doRequest(t, srv, http.MethodPost, "/api/v1/products/"+id+"/sales", `{"quantity":2}`, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		res := decodeBody[MutationResponse](t, resp)
		require.Len(t, res.Snapshot.Sales, 1)
		assert.Equal(t, "1500", res.Snapshot.Sales[0].TotalPrice.String())
		assert.Equal(t, 1, res.Snapshot.Products[0].Stock)
		assert.True(t, res.Snapshot.Products[0].LowStock)
	})

	t.Run("delete sale restores stock", func(t *testing.T) {
		sales := decodeBody[SalesResponse](t, doRequest(t, srv, http.MethodGet, "/api/v1/sales", "", true))
		require.Len(t, sales.Sales, 1)

		resp := doRequest(t, srv, http.MethodDelete, "/api/v1/sales/"+sales.Sales[0].ID, "", true)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		res := decodeBody[DeleteSaleResponse](t, resp)
		assert.True(t, res.Restored)
		assert.Equal(t, 3, res.Snapshot.Products[0].Stock)
		assert.Empty(t, res.Snapshot.Sales)
	})
}

func TestMutationWarningWhenSaveFails(t *testing.T) {
	repo := &memorySnapshotRepo{}
	srv := newTestServer(t, repo)
	repo.failSaves(assert.AnError)

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/expenses", `{"description":"Loyer","category":"Local","amount":"20000"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	res := decodeBody[MutationResponse](t, resp)
	assert.Equal(t, usecase.WarnNotSaved, res.Warning)
	assert.Len(t, res.Snapshot.Expenses, 1)
}

func TestUpdateSettings(t *testing.T) {
	repo := &memorySnapshotRepo{}
	srv := newTestServer(t, repo)

	resp := doRequest(t, srv, http.MethodPatch, "/api/v1/settings", `{"shopName":"Nouveau","theme":"blue"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, repo.saved(), "rejected request must not be persisted")

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/settings", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.DefaultShopName, decodeBody[SettingsResponse](t, resp).ShopName)

	resp = doRequest(t, srv, http.MethodPatch, "/api/v1/settings", `{"shopName":"Boutique Centrale","theme":"dark"}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	res := decodeBody[MutationResponse](t, resp)
	assert.Equal(t, "Boutique Centrale", res.Snapshot.Settings.ShopName)
	assert.Equal(t, "dark", res.Snapshot.Settings.Theme)
	assert.Equal(t, uint64(1), repo.saved().Revision, "both fields are applied in one revision")

	resp = doRequest(t, srv, http.MethodPatch, "/api/v1/settings", `{"theme":"blue"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodPatch, "/api/v1/settings", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChangeCredentialsMismatch(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	resp := doRequest(t, srv, http.MethodPut, "/api/v1/settings/credentials",
		`{"adminId":"boss","password":"secret1","confirmPassword":"secret2"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, e.ErrPasswordMismatch.Error(), errResp.Message)

	resp = doRequest(t, srv, http.MethodPut, "/api/v1/settings/credentials",
		`{"adminId":"boss","password":"","confirmPassword":"x"}`, true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDownloadReport(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})
	addTestProduct(t, srv, 10)

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/report.csv", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, export.ContentTypeCSV, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "aldjiday_gestion_rapport_2024-05-10.csv")

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "\ufeff"))
	assert.Contains(t, buf.String(), "Riz")
}

func TestReportRange(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	resp := doRequest(t, srv, http.MethodGet, "/api/v1/report?from=2024-05-10&to=2024-05-01", "", true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/report?from=yesterday", "", true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, srv, http.MethodGet, "/api/v1/report?from=2024-05-01&to=2024-05-10", "", true)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestArchiveReportDisabled(t *testing.T) {
	srv := newTestServer(t, &memorySnapshotRepo{})

	resp := doRequest(t, srv, http.MethodPost, "/api/v1/report/archive", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.ErrInvalidCredentials, http.StatusUnauthorized},
		{e.Wrap("ShopUseCase.DeleteProduct", e.ErrProductNotFound), http.StatusNotFound},
		{e.ErrInsufficientStock, http.StatusConflict},
		{e.ErrDuplicateID, http.StatusConflict},
		{e.Wrap("op", e.ErrQuantityInvalid), http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, _ := ToHTTPResponse(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
