package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ListableAPI/internal/listable"
	"ListableAPI/internal/logger"
)

// ListRequest is the body of POST /api/list.
type ListRequest struct {
	Resource string         `json:"resource"`
	Offset   int            `json:"offset"`
	Limit    *int           `json:"limit"`
	Search   string         `json:"search"`
	Filters  map[string]any `json:"filters"`
	Sorts    []string       `json:"sorts"`
	// Draw is echoed back for DataTables clients.
	Draw *int `json:"draw"`
}

type ListResponse struct {
	Draw *int `json:"draw,omitempty"`
	*listable.ListResult
}

func (req *ListRequest) limit() int {
	if req.Limit == nil {
		return DefaultLimit
	}
	return *req.Limit
}

func (req *ListRequest) validate() error {
	if req.Resource == "" {
		return fmt.Errorf("%w: resource is required", errBadRequest)
	}
	if req.Offset < 0 || req.limit() < 0 {
		return fmt.Errorf("%w: offset and limit must be non-negative", errBadRequest)
	}
	return nil
}

// ListHandler serves POST /api/list with a JSON body and GET /api/list with
// query parameters.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	const endpoint = "/api/list"

	var req ListRequest
	switch r.Method {
	case http.MethodPost:
		if err := decodeBody(r, &req); err != nil {
			writeError(w, endpoint, err)
			return
		}
	case http.MethodGet:
		parsed, err := listRequestFromQuery(r.URL.Query())
		if err != nil {
			writeError(w, endpoint, err)
			return
		}
		req = *parsed
	default:
		http.Error(w, "Only GET and POST allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, endpoint, err)
		return
	}

	logger.Debug("request", map[string]any{
		"endpoint": endpoint,
		"resource": req.Resource,
		"offset":   req.Offset,
		"limit":    req.limit(),
		"search":   req.Search,
	})

	e, err := h.executor(req.Resource)
	if err != nil {
		writeError(w, endpoint, err)
		return
	}
	args := listable.Arguments{Filters: req.Filters, Sorts: req.Sorts}
	result, err := e.GetList(r.Context(), req.Offset, req.limit(), req.Search, args)
	if err != nil {
		writeError(w, endpoint, err)
		return
	}
	writeJSON(w, endpoint, ListResponse{Draw: req.Draw, ListResult: result})
}

// listRequestFromQuery reads resource, offset, limit, search, draw and
// repeated sort parameters. Filters are only accepted in the POST body.
func listRequestFromQuery(q url.Values) (*ListRequest, error) {
	req := &ListRequest{
		Resource: q.Get("resource"),
		Search:   q.Get("search"),
		Sorts:    q["sort"],
	}
	var err error
	if req.Offset, err = intParam(q, "offset", 0); err != nil {
		return nil, err
	}
	if q.Has("limit") {
		limit, err := intParam(q, "limit", DefaultLimit)
		if err != nil {
			return nil, err
		}
		req.Limit = &limit
	}
	if q.Has("draw") {
		draw, err := intParam(q, "draw", 0)
		if err != nil {
			return nil, err
		}
		req.Draw = &draw
	}
	return req, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, key)
	}
	return n, nil
}
