package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/service"
)

// ShoppingListHandler serves the authenticated user's shopping lists.
type ShoppingListHandler struct {
	lists      service.ShoppingListService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewShoppingListHandler creates a new ShoppingListHandler.
func NewShoppingListHandler(
	lists service.ShoppingListService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *ShoppingListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingListHandler{
		lists:      lists,
		pagination: pagination,
		logger:     logger.With(slog.String("handler", "shopping_list")),
	}
}

// CreateList handles POST /shoppinglists.
func (h *ShoppingListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ShoppingListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	list, err := h.lists.CreateList(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ShoppingListResponse{
		Message:      "Shopping List created",
		ShoppingList: list,
	})
}

// ListLists handles GET /shoppinglists.
func (h *ShoppingListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	params := parseListParams(r, h.pagination)
	lists, total, err := h.lists.ListLists(r.Context(), userID, params)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingListsResponse{
		Message:       "Users shoppinglists found!",
		ShoppingLists: lists,
		Pagination:    Pagination{Total: total, Page: params.Page, Limit: params.Limit},
	})
}

// GetList handles GET /shoppinglist/{list_id}.
func (h *ShoppingListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id")
	if !ok {
		return
	}

	list, err := h.lists.GetList(r.Context(), userID, ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingListResponse{
		Message:      "Shopping list found!",
		ShoppingList: list,
	})
}

// UpdateList handles PUT /shoppinglist/{list_id}.
func (h *ShoppingListHandler) UpdateList(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id")
	if !ok {
		return
	}

	var req ShoppingListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	list, err := h.lists.RenameList(r.Context(), userID, ids[0], req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingListResponse{
		Message:      "Shopping List updated!",
		ShoppingList: list,
	})
}

// DeleteList handles DELETE /shoppinglist/{list_id}.
func (h *ShoppingListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id")
	if !ok {
		return
	}

	list, err := h.lists.DeleteList(r.Context(), userID, ids[0])
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, fmt.Sprintf("Shopping list %s deleted!", list.Name))
}
