package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/domain"
	"github.com/phrazzld/shoplist-api/internal/platform/logger"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's ID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (int64, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathID extracts a positive integer ID from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, domain.NewValidationError(paramName, paramName+" is required", domain.ErrInvalidID)
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(paramName, paramName+" has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUserID writes a 401 response and returns false when the request
// carries no authenticated user.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (int64, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		logger.FromContextOrDefault(r.Context(), log).Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return 0, false
	}
	return userID, true
}

// handleUserIDAndPathIDs extracts the user ID from context and each named
// path parameter. It writes an error response if any extraction fails.
func handleUserIDAndPathIDs(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
	paramNames ...string,
) (int64, []int64, bool) {
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return 0, nil, false
	}

	ids := make([]int64, 0, len(paramNames))
	for _, name := range paramNames {
		id, err := getPathID(r, name)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), log).Warn("invalid "+name,
				slog.String("param_name", name),
				slog.String("value", chi.URLParam(r, name)))
			HandleAPIError(w, r, err, "")
			return 0, nil, false
		}
		ids = append(ids, id)
	}

	return userID, ids, true
}

// parseListParams reads q, page and limit from the query string.
// Values that are missing or not numbers fall back to the configured defaults;
// the services clamp the rest.
func parseListParams(r *http.Request, cfg config.PaginationConfig) store.ListParams {
	q := r.URL.Query()
	params := store.ListParams{Query: q.Get("q")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}
	return params.Normalize(cfg.DefaultLimit, cfg.MaxLimit)
}

// decodeAndValidate reads the JSON body into dst and runs struct validation.
// It writes a 400 response and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msgInvalidRequest, err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
