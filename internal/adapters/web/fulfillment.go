package web

import (
	"net/http"
)

func (h *Handler) getPickList(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetPickList(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) refreshPickList(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RefreshPickList(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) submitScan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.SubmitScan(r.Context(), req.Identifier)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) adjustEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
		Delta     int `json:"delta"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		writeError(w, r, "product_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.AdjustEntry(r.Context(), req.ProductID, req.Delta)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) toggleEntry(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID <= 0 {
		writeError(w, r, "product_id is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.ToggleEntry(r.Context(), req.ProductID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) commitOrders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderIDs []int  `json:"order_ids"`
		Actor    string `json:"actor"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CommitOrders(r.Context(), req.OrderIDs, req.Actor)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
