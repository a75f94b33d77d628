package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"stockroom/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	r.Get("/api/health", h.health)

	// ── Products ──────────────────────────────────────────────────────────────
	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Get("/api/products/{id}", h.getProduct)
	r.Put("/api/products/{id}", h.updateProduct)
	r.Delete("/api/products/{id}", h.deleteProduct)

	// ── Customers ─────────────────────────────────────────────────────────────
	r.Get("/api/customers", h.listCustomers)
	r.Post("/api/customers", h.createCustomer)
	r.Get("/api/customers/{id}", h.getCustomer)
	r.Put("/api/customers/{id}", h.updateCustomer)
	r.Delete("/api/customers/{id}", h.deleteCustomer)

	// ── Orders ────────────────────────────────────────────────────────────────
	r.Get("/api/orders", h.listOrders)
	r.Post("/api/orders", h.createOrder)
	r.Post("/api/orders/import", h.importOrder)
	r.Get("/api/orders/{id}", h.getOrder)
	r.Put("/api/orders/{id}/status", h.updateOrderStatus)
	r.Delete("/api/orders/{id}", h.deleteOrder)

	// ── Pick & pack ───────────────────────────────────────────────────────────
	r.Get("/api/pick-list", h.getPickList)
	r.Post("/api/pick-list/refresh", h.refreshPickList)
	r.Post("/api/pick-list/scan", h.submitScan)
	r.Post("/api/pick-list/adjust", h.adjustEntry)
	r.Post("/api/pick-list/toggle", h.toggleEntry)
	r.Post("/api/pick-list/commit", h.commitOrders)

	// ── Reports & activity ────────────────────────────────────────────────────
	r.Get("/api/reports/stock", h.stockReport)
	r.Get("/api/reports/order-status", h.orderStatusSummary)
	r.Get("/api/reports/sales-by-day", h.salesByDay)
	r.Get("/api/activity", h.recentActivity)

	h.router = r
	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the numeric {id} URL parameter, writing HTTP 400 on failure.
func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body exceeds
// the size limit set by RequestBodyLimit middleware; HTTP 400 for all other
// decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
