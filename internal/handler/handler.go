package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ListableAPI/internal/listable"
	"ListableAPI/internal/logger"
	"ListableAPI/internal/resource"
)

// DefaultLimit applies when a list request carries no limit.
const DefaultLimit = 25

// Handler serves the list endpoints for every registered resource.
type Handler struct {
	Registry *resource.Registry
	Store    listable.Store
	// Parallel issues the page and both counts concurrently.
	Parallel bool
}

func New(reg *resource.Registry, store listable.Store, parallel bool) *Handler {
	return &Handler{Registry: reg, Store: store, Parallel: parallel}
}

func (h *Handler) executor(name string) (*listable.Executor, error) {
	d, ok := h.Registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errUnknownResource, name)
	}
	dialect := h.Store.Dialect()
	return listable.New(d, h.Store,
		listable.WithArguments(listable.DeclarativeArguments(d, dialect)),
		listable.WithParallel(h.Parallel),
	), nil
}

var (
	errUnknownResource = errors.New("resource not found")
	errBadRequest      = errors.New("bad request")
)

// statusOf maps an error to the HTTP status it is reported with.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errUnknownResource):
		return http.StatusNotFound
	case errors.Is(err, errBadRequest), errors.Is(err, listable.ErrInvalidArgument):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, endpoint string, err error) {
	status := statusOf(err)
	fields := map[string]any{
		"endpoint": endpoint,
		"status":   status,
		"error":    err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("list_failed", fields)
	} else {
		logger.Warn("list_rejected", fields)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, endpoint string, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write_response_failed", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	// keep filter numbers exact; listable narrows them to integers
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}
