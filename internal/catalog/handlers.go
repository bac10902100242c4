package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/checkout-pricing/internal/common"
)

// Service is the public listing payload for one catalog entry.
type Service struct {
	Code string `json:"code"`
	Entry
}

// Handler exposes read-only catalog endpoints.
type Handler struct {
	catalog Catalog
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Catalog Catalog
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{catalog: cfg.Catalog}
}

// List handles GET /api/v1/catalog.
func (h *Handler) List(w http.ResponseWriter, _ *http.Request) {
	codes := h.catalog.Codes()
	items := make([]Service, 0, len(codes))
	for _, code := range codes {
		e, _ := h.catalog.Lookup(code)
		items = append(items, Service{Code: code, Entry: e})
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Get handles GET /api/v1/catalog/{code}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	e, ok := h.catalog.Lookup(code)
	if !ok {
		common.WriteError(w, common.NotFound("service not found"))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": Service{Code: code, Entry: e}})
}
