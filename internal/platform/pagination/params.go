// Package pagination parses the skip/limit query parameters shared by all
// list endpoints.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit applies when the client omits the limit parameter.
	DefaultLimit = 10
	// MaxLimit caps a single page regardless of what the client asks for.
	MaxLimit = 100
)

// Params holds validated offset pagination inputs.
type Params struct {
	Skip  int64
	Limit int64
}

// ParseParams extracts skip and limit from the request query string.
// Out-of-range values are rejected rather than silently clamped so clients
// see their mistake.
func ParseParams(r *http.Request) (Params, error) {
	params := Params{Skip: 0, Limit: DefaultLimit}
	query := r.URL.Query()

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || skip < 0 {
			return Params{}, fmt.Errorf("invalid skip parameter %q", raw)
		}
		params.Skip = skip
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 1 {
			return Params{}, fmt.Errorf("invalid limit parameter %q", raw)
		}
		if limit > MaxLimit {
			limit = MaxLimit
		}
		params.Limit = limit
	}

	return params, nil
}
