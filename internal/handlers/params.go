package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"tecawayBack/internal/models"
)

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// intParam reads a positive integer parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := getParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", models.ErrInvalidInput, name, raw)
	}
	return id, nil
}
