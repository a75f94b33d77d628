package web

import (
	"net/http"
	"strings"

	"stockroom/internal/app"
	"stockroom/internal/core"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var statusIn []core.OrderStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		if raw == "open" {
			statusIn = core.OpenStatuses
		} else {
			for _, part := range strings.Split(raw, ",") {
				st := core.OrderStatus(strings.ToUpper(strings.TrimSpace(part)))
				if !core.ValidStatus(st) {
					writeError(w, r, "unknown status: "+string(st), "BAD_REQUEST", http.StatusBadRequest)
					return
				}
				statusIn = append(statusIn, st)
			}
		}
	}

	result, err := h.svc.ListOrders(r.Context(), statusIn)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, r, "order needs at least one line", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	for _, l := range req.Lines {
		if l.ProductID <= 0 || l.Quantity <= 0 {
			writeError(w, r, "each line needs a product and a positive quantity", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
	}
	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, order)
}

func (h *Handler) importOrder(w http.ResponseWriter, r *http.Request) {
	var req app.ImportOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExternalID == "" {
		writeError(w, r, "external_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	order, err := h.svc.ImportOrder(r.Context(), req)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Status core.OrderStatus `json:"status"`
		Actor  string           `json:"actor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !core.ValidStatus(req.Status) {
		writeError(w, r, "unknown status: "+string(req.Status), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	order, err := h.svc.UpdateOrderStatus(r.Context(), id, req.Status, req.Actor)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id, actorParam(r)); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
