package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/booklib-api/internal/api/shared"
	"github.com/phrazzld/booklib-api/internal/domain"
)

// getPathUUID parses the chi URL parameter name as a UUID.
func getPathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parsePaging reads the optional page and limit query parameters. Missing
// values are returned as 0 so the service applies its defaults. Pages past
// domain.MaxPage are rejected.
func parsePaging(r *http.Request) (page, limit int, ok bool) {
	q := r.URL.Query()
	if page, ok = parseOptionalInt(q.Get("page")); !ok || page > domain.MaxPage {
		return 0, 0, false
	}
	if limit, ok = parseOptionalInt(q.Get("limit")); !ok {
		return 0, 0, false
	}
	return page, limit, true
}

func parseOptionalInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// decodeAndValidate decodes the body into req and validates it, writing a
// 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(w, r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
