// Package api serves the pricing HTTP endpoints. Response bodies follow
// the service's Portuguese wire contract.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"precos-materiais-api/internal/catalog"
	"precos-materiais-api/internal/pricing"
	"precos-materiais-api/internal/quote"
)

const serviceName = "precos-materiais-api"

// Handler serves the pricing HTTP API.
type Handler struct {
	quotes  *quote.Service
	store   *catalog.Store
	source  string
	version string
	logger  *slog.Logger
}

// NewHandler builds a Handler bound to the quote service and catalog store.
func NewHandler(quotes *quote.Service, store *catalog.Store, sourceURL, version string, logger *slog.Logger) *Handler {
	return &Handler{
		quotes:  quotes,
		store:   store,
		source:  sourceURL,
		version: version,
		logger:  logger,
	}
}

// Router wires all endpoints and the middleware stack. A nil limiter
// disables rate limiting.
func (h *Handler) Router(limiter *ClientLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.loggingMiddleware)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Get("/", h.ping)
	r.Get("/ping", h.ping)
	r.Get("/materiais", h.materials)
	r.Get("/preco", h.price)
	r.Post("/reload", h.reload)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type materialItem struct {
	Name  string `json:"material"`
	Price int64  `json:"preco"`
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"ok":      true,
		"service": serviceName,
		"versao":  h.version,
	}
	// Report catalog size when a snapshot is already cached; ping never
	// triggers a download.
	if cat, ok := h.store.Current(); ok {
		payload["materiais_catalogo"] = cat.Len()
	}
	respondJSON(w, http.StatusOK, payload)
}

func (h *Handler) materials(w http.ResponseWriter, r *http.Request) {
	if err := h.store.EnsureFresh(r.Context()); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"erro": err.Error()})
		return
	}
	cat, _ := h.store.Current()

	items := make([]materialItem, 0, cat.Len())
	for _, entry := range cat.Entries() {
		items = append(items, materialItem{Name: entry.Name, Price: entry.Price})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"materiais": items,
		"fonte_csv": h.source,
	})
}

func (h *Handler) price(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if strings.TrimSpace(query.Get("materiais")) == "" {
		respondJSON(w, http.StatusBadRequest, map[string]any{"erro": "Parâmetro 'materiais' é obrigatório."})
		return
	}

	result, err := h.quotes.Price(r.Context(), query.Get("materiais"), strings.TrimSpace(query.Get("regra")))
	if err != nil {
		h.respondQuoteError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"materiais":          result.Materials,
		"itens_precificados": result.Items,
		"regra":              result.Rule,
		"preco":              result.Price,
	})
}

func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ForceReload(r.Context()); err != nil {
		respondJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "erro": err.Error()})
		return
	}
	cat, _ := h.store.Current()
	respondJSON(w, http.StatusOK, map[string]any{
		"ok":                 true,
		"materiais_catalogo": cat.Len(),
	})
}

// respondQuoteError maps pipeline errors onto the wire contract: caller
// input problems are 400, catalog/upstream problems are 500.
func (h *Handler) respondQuoteError(w http.ResponseWriter, err error) {
	var (
		unresolved  *quote.UnresolvedError
		unknownRule *pricing.UnknownRuleError
	)
	switch {
	case errors.Is(err, quote.ErrNoMaterials):
		respondJSON(w, http.StatusBadRequest, map[string]any{"erro": err.Error()})
	case errors.As(err, &unknownRule):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"erro":               unknownRule.Error(),
			"regras_disponiveis": pricing.Names(),
		})
	case errors.As(err, &unresolved):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"erro":                  "Materiais desconhecidos.",
			"nao_encontrados":       unresolved.NotFound,
			"sugestoes_disponiveis": unresolved.Available,
		})
	default:
		respondJSON(w, http.StatusInternalServerError, map[string]any{"erro": err.Error()})
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
