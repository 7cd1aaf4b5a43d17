package handler

import (
	"fmt"
	"net/http"

	"ListableAPI/internal/listable"
)

type CountRequest struct {
	Resource string         `json:"resource"`
	Search   string         `json:"search"`
	Filters  map[string]any `json:"filters"`
}

type CountResponse struct {
	RecordsTotal    int64 `json:"recordsTotal"`
	RecordsFiltered int64 `json:"recordsFiltered"`
}

// CountHandler serves record counts for a resource. It returns
// recordsTotal and recordsFiltered without a page of rows.
func (h *Handler) CountHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/count"

	if r.Method != http.MethodPost {
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
		return
	}
	var req CountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, endpoint, err)
		return
	}
	if req.Resource == "" {
		writeError(w, endpoint, fmt.Errorf("%w: resource is required", errBadRequest))
		return
	}

	e, err := h.executor(req.Resource)
	if err != nil {
		writeError(w, endpoint, err)
		return
	}
	total, filtered, err := e.Count(r.Context(), req.Search, listable.Arguments{Filters: req.Filters})
	if err != nil {
		writeError(w, endpoint, err)
		return
	}
	writeJSON(w, endpoint, CountResponse{RecordsTotal: total, RecordsFiltered: filtered})
}
