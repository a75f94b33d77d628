package web

import (
	"net/http"
	"strconv"
	"time"
)

func (h *Handler) stockReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetStockReport(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, report)
}

func (h *Handler) orderStatusSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetOrderStatusSummary(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, summary)
}

func (h *Handler) salesByDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := q.Get("from")
	to := q.Get("to")
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	if from == "" {
		from = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			writeError(w, r, "dates must be YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}

	days, err := h.svc.GetSalesByDay(r.Context(), from, to)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, days)
}

func (h *Handler) recentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.svc.RecentActivity(r.Context(), limit)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, entries)
}
