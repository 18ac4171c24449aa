package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brightfold/api/internal/platform/httpx"
	"github.com/brightfold/api/internal/services"
)

const maxRequestBodySize = 256 * 1024

// writeServiceError translates service sentinel errors into the canonical
// JSON error envelope. Unknown errors surface as 500 without leaking detail.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderInvalidInput),
		errors.Is(err, services.ErrContentInvalidInput),
		errors.Is(err, services.ErrCatalogInvalidInput),
		errors.Is(err, services.ErrUserInvalidInput),
		errors.Is(err, services.ErrContactInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderInvalidState):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_state", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrContentNotFound),
		errors.Is(err, services.ErrCatalogNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrContactNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", err.Error(), http.StatusNotFound))
	case errors.Is(err, services.ErrOrderForbidden):
		httpx.WriteError(ctx, w, httpx.NewError("forbidden", err.Error(), http.StatusForbidden))
	case errors.Is(err, services.ErrOrderConflict),
		errors.Is(err, services.ErrCatalogConflict):
		httpx.WriteError(ctx, w, httpx.NewError("conflict", err.Error(), http.StatusConflict))
	case errors.Is(err, services.ErrDashboardUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("dashboard_unavailable", "dashboard statistics are temporarily unavailable", http.StatusInternalServerError))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "an unexpected error occurred", http.StatusInternalServerError))
	}
}

// decodeJSON reads and decodes a bounded request body. It writes the error
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return false
	}
	return true
}

func pageMeta(skip, limit, total int64, returned int) httpx.Pagination {
	return httpx.Pagination{
		Skip:       skip,
		Limit:      limit,
		TotalCount: total,
		HasMore:    skip+int64(returned) < total,
	}
}
