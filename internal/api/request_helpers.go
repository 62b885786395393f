package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// getPathID extracts a numeric task ID from the URL path parameters.
// It reports false when the parameter is missing or not an integer; such an
// ID cannot match any stored task.
func getPathID(r *http.Request, paramName string) (int64, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
