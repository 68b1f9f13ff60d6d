package api

import (
	"time"

	"github.com/phrazzld/shoplist-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
// Formats are checked by the domain so clients get its field messages.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest defines the payload for the password reset endpoint.
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// RegisterResponse confirms a new account.
type RegisterResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetPasswordResponse returns the generated password. It is shown only once.
type ResetPasswordResponse struct {
	Message  string `json:"message"`
	Password string `json:"password"`
}

// UpdateUserRequest defines the payload for updating the current user.
// Omitted fields keep their current value.
type UpdateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// UsersResponse is a page of users.
type UsersResponse struct {
	Message string         `json:"message"`
	Users   []*domain.User `json:"users"`
	Pagination
}

// ShoppingListRequest defines the payload for creating or renaming a list.
type ShoppingListRequest struct {
	Name string `json:"name"`
}

// ShoppingListResponse wraps a single list.
type ShoppingListResponse struct {
	Message      string               `json:"message"`
	ShoppingList *domain.ShoppingList `json:"shoppinglist"`
}

// ShoppingListsResponse is a page of lists.
type ShoppingListsResponse struct {
	Message       string                 `json:"message"`
	ShoppingLists []*domain.ShoppingList `json:"shoppinglists"`
	Pagination
}

// ShoppingItemRequest defines the payload for adding or updating an item.
// A zero or missing quantity means one on create and unchanged on update.
type ShoppingItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ShoppingItemResponse wraps a single item.
type ShoppingItemResponse struct {
	Message string               `json:"message"`
	Item    *domain.ShoppingItem `json:"item"`
}

// ShoppingItemsResponse is a page of items.
type ShoppingItemsResponse struct {
	Message string                 `json:"message"`
	Items   []*domain.ShoppingItem `json:"items"`
	Pagination
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
