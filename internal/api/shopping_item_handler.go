package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/shoplist-api/internal/api/shared"
	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// ShoppingItemHandler serves the items of the authenticated user's lists.
type ShoppingItemHandler struct {
	items      service.ShoppingItemService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewShoppingItemHandler creates a new ShoppingItemHandler.
func NewShoppingItemHandler(
	items service.ShoppingItemService,
	pagination config.PaginationConfig,
	logger *slog.Logger,
) *ShoppingItemHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShoppingItemHandler{
		items:      items,
		pagination: pagination,
		logger:     logger.With(slog.String("handler", "shopping_item")),
	}
}

// handleItemError reports a missing parent list with the item wording.
func handleItemError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrShoppingListNotFound) {
		HandleAPIError(w, r, err, msgItemListNotFound)
		return
	}
	HandleAPIError(w, r, err, "")
}

// AddItem handles POST /shoppinglist/{list_id}/items.
func (h *ShoppingItemHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id")
	if !ok {
		return
	}

	var req ShoppingItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.AddItem(r.Context(), userID, ids[0], req.Name, req.Quantity)
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, ShoppingItemResponse{Message: "Item created", Item: item})
}

// ListItems handles GET /shoppinglist/{list_id}/items.
func (h *ShoppingItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id")
	if !ok {
		return
	}

	params := parseListParams(r, h.pagination)
	items, total, err := h.items.ListItems(r.Context(), userID, ids[0], params)
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingItemsResponse{
		Message:    "Shopping list's items found",
		Items:      items,
		Pagination: Pagination{Total: total, Page: params.Page, Limit: params.Limit},
	})
}

// GetItem handles GET /shoppinglist/{list_id}/item/{item_id}.
func (h *ShoppingItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id", "item_id")
	if !ok {
		return
	}

	item, err := h.items.GetItem(r.Context(), userID, ids[0], ids[1])
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingItemResponse{Message: "Item found!", Item: item})
}

// UpdateItem handles PUT /shoppinglist/{list_id}/item/{item_id}.
func (h *ShoppingItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id", "item_id")
	if !ok {
		return
	}

	var req ShoppingItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.items.UpdateItem(r.Context(), userID, ids[0], ids[1], req.Name, req.Quantity)
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingItemResponse{Message: "Item updated!", Item: item})
}

// MarkBought handles PATCH /shoppinglist/{list_id}/item/{item_id}.
func (h *ShoppingItemHandler) MarkBought(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id", "item_id")
	if !ok {
		return
	}

	item, err := h.items.MarkBought(r.Context(), userID, ids[0], ids[1])
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ShoppingItemResponse{Message: "Item bought!", Item: item})
}

// DeleteItem handles DELETE /shoppinglist/{list_id}/item/{item_id}.
func (h *ShoppingItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathIDs(w, r, h.logger, "list_id", "item_id")
	if !ok {
		return
	}

	item, err := h.items.DeleteItem(r.Context(), userID, ids[0], ids[1])
	if err != nil {
		handleItemError(w, r, err)
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, fmt.Sprintf("Item %s deleted!", item.Name))
}
