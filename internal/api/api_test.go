package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precos-materiais-api/internal/catalog"
	"precos-materiais-api/internal/quote"
)

const testSheet = "material,preco\n" +
	"Jeans,300\n" +
	"Couro Bovino,100\n" +
	"Couro de Tilápia,200\n"

func newTestRouter(t *testing.T, sheetStatus int, sheetBody string, limiter *ClientLimiter) http.Handler {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(sheetStatus)
		_, _ = io.WriteString(w, sheetBody)
	}))
	t.Cleanup(backend.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := catalog.NewLoader(backend.URL, time.Second, logger)
	store := catalog.NewStore(loader, 0, logger)
	handler := NewHandler(quote.NewService(store), store, backend.URL, "test", logger)
	return handler.Router(limiter)
}

func doGET(t *testing.T, router http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func precoURL(materials, rule string) string {
	q := url.Values{}
	q.Set("materiais", materials)
	if rule != "" {
		q.Set("regra", rule)
	}
	return "/preco?" + q.Encode()
}

func TestPing(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, "/ping")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "precos-materiais-api", body["service"])
	// Ping never triggers a download, so no catalog size yet.
	assert.NotContains(t, body, "materiais_catalogo")
}

func TestMaterialsSortedByCanonicalKey(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, "/materiais")
	require.Equal(t, http.StatusOK, rec.Code)

	items, ok := body["materiais"].([]any)
	require.True(t, ok)
	require.Len(t, items, 3)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.(map[string]any)["material"].(string))
	}
	assert.Equal(t, []string{"Couro Bovino", "Couro de Tilápia", "Jeans"}, names)
	assert.NotEmpty(t, body["fonte_csv"])
}

func TestPriceSuccess(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, precoURL("couro bovino, JEANS", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "media_simples", body["regra"])
	assert.Equal(t, float64(200), body["preco"])
	assert.Equal(t, []any{"Couro Bovino", "Jeans"}, body["materiais"])

	items := body["itens_precificados"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "Couro Bovino", first["material"])
	assert.Equal(t, float64(100), first["preco"])
}

func TestPriceTerminalDigitSevenRule(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, precoURL("Couro Bovino, Jeans", "media_simples_7"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(197), body["preco"])
}

func TestPriceMissingParam(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, "/preco")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parâmetro 'materiais' é obrigatório.", body["erro"])
}

func TestPriceEmptyAfterParsing(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, precoURL(" , , ", ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Nenhum material informado.", body["erro"])
}

func TestPriceUnknownRule(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, precoURL("Jeans", "media_magica"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Regra inválida: 'media_magica'.", body["erro"])
	assert.Equal(t, []any{"media_simples", "media_simples_7"}, body["regras_disponiveis"])
}

func TestPriceUnknownMaterials(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec, body := doGET(t, router, precoURL("Jeans, Veludo", ""))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Materiais desconhecidos.", body["erro"])
	assert.Equal(t, []any{"Veludo"}, body["nao_encontrados"])
	assert.Equal(t, []any{"Couro Bovino", "Couro de Tilápia", "Jeans"}, body["sugestoes_disponiveis"])
}

func TestPriceCatalogUnavailable(t *testing.T) {
	router := newTestRouter(t, http.StatusServiceUnavailable, "down", nil)

	rec, body := doGET(t, router, precoURL("Jeans", ""))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["erro"], "status HTTP 503")
}

func TestReload(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(3), body["materiais_catalogo"])
}

func TestReloadFailure(t *testing.T) {
	router := newTestRouter(t, http.StatusBadGateway, "boom", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.NotEmpty(t, body["erro"])
}

func TestRateLimiter(t *testing.T) {
	limiter := NewClientLimiter(1, 1)
	router := newTestRouter(t, http.StatusOK, testSheet, limiter)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter(t, http.StatusOK, testSheet, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNewClientLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewClientLimiter(0, 10))
	assert.NotNil(t, NewClientLimiter(2, 0))
}
