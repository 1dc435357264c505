package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/adh/internal/repository"
)

// parseID reads a positive integer path parameter.
func parseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// parsePage reads limit and offset from the query string. Negative values
// are rejected so no query runs for them.
func parsePage(r *http.Request) (repository.Page, error) {
	page := repository.Page{Limit: repository.DefaultLimit}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("invalid limit %q", raw)
		}
		if limit < 0 {
			return page, fmt.Errorf("limit must be a positive number")
		}
		page.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return page, fmt.Errorf("invalid offset %q", raw)
		}
		if offset < 0 {
			return page, fmt.Errorf("offset must be a positive number")
		}
		page.Offset = offset
	}
	return page, nil
}

// parseOptionalInt64 reads an optional integer query parameter.
func parseOptionalInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}
	return nil
}

// setTotalCount exposes the unpaged result size to browser clients.
func setTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	w.Header().Set("Access-Control-Expose-Headers", "X-Total-Count")
}
