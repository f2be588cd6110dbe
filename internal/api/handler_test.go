package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"inventory-service/internal/insight"
	"inventory-service/internal/models"
	"inventory-service/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStore struct {
	mu    sync.Mutex
	items []models.InventoryItem
}

func (s *nopStore) LoadItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.items, nil
}
func (s *nopStore) LoadCategories(ctx context.Context) ([]string, error) { return nil, nil }
func (s *nopStore) LoadLogs(ctx context.Context) ([]models.StockLog, error) {
	return nil, nil
}
func (s *nopStore) SaveItems(ctx context.Context, items []models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	return nil
}
func (s *nopStore) SaveCategories(ctx context.Context, categories []string) error { return nil }
func (s *nopStore) SaveLogs(ctx context.Context, logs []models.StockLog) error    { return nil }

type nopFetcher struct{}

func (nopFetcher) Fetch(ctx context.Context, url string) ([]models.InventoryItem, error) {
	return nil, nil
}

func newTestRouter(t *testing.T, items []models.InventoryItem) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container := state.NewContainer(state.Deps{
		Store:   &nopStore{items: items},
		Fetcher: nopFetcher{},
	})
	require.NoError(t, container.Bootstrap(context.Background()))

	router := gin.New()
	NewHandler(container, insight.NewClient("", "test-model")).SetupRoutes(router)
	return router
}

func apiItems() []models.InventoryItem {
	return []models.InventoryItem{
		{ID: "1", SKU: "G-1", Name: "Gula", Category: "Sembako", Quantity: 10, ReorderLevel: 5, Price: 15000, Supplier: "CV Manis", SupplierEmail: "sales@manis.test"},
	}
}

func TestListItems(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sku":"G-1"`)
	assert.Contains(t, w.Body.String(), `"status":"HEALTHY"`)
}

func TestAdjustStock(t *testing.T) {
	router := newTestRouter(t, apiItems())

	body := `{"delta":-6,"reason":"Penjualan","role":"WAREHOUSE"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/1/adjust", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":4`)
	assert.Contains(t, w.Body.String(), `"alert":true`)

	// the log is queryable afterwards
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/1/logs", nil)
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"change":-6`)
	assert.Contains(t, w.Body.String(), `"user":"Staf Gudang"`)
}

func TestAdjustStockUnknownItem(t *testing.T) {
	router := newTestRouter(t, apiItems())

	body := `{"delta":1,"role":"MANAGER"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/99/adjust", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdjustStockRejectsBadRole(t *testing.T) {
	router := newTestRouter(t, apiItems())

	body := `{"delta":1,"role":"INTERN"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items/1/adjust", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report/export", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Laporan_Inventaris_")

	lines := strings.Split(w.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Nama Produk,SKU,Kategori,Stok,Harga Satuan,Total Nilai,Pemasok", lines[0])
	assert.Equal(t, "Gula,G-1,Sembako,10,15000,150000,CV Manis", lines[1])
}

func TestCategoryLifecycle(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewBufferString(`{"name":"Minuman"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/categories/Sembako", bytes.NewBufferString(`{"name":"Bahan Pokok"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// rename cascaded to the item
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/items/1", nil)
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"category":"Bahan Pokok"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/categories/Minuman", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Minuman")
}

func TestRestockLink(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items/1/restock-link?role=WAREHOUSE", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mailto:sales@manis.test")
}

func TestStatusLocalMode(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mode":"local"`)
}

func TestSyncWithoutURL(t *testing.T) {
	router := newTestRouter(t, apiItems())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
