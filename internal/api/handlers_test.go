package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shoplist-api/internal/api"
	"github.com/phrazzld/shoplist-api/internal/api/middleware"
	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/mocks"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testPagination = config.PaginationConfig{DefaultLimit: 10, MaxLimit: 100}

// harness wires the handlers to in-memory stores. Tokens are "user-<id>".
type harness struct {
	t      *testing.T
	users  *mocks.MockUserStore
	router chi.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	items := mocks.NewMockShoppingItemStore()
	lists := mocks.NewMockShoppingListStore()
	lists.Items = items
	users := mocks.NewMockUserStore()
	users.Lists = lists
	tx := &mocks.MockTransactor{}
	hasher := &mocks.MockPasswordHasher{}

	tokens := &mocks.MockJWTService{
		GenerateTokenFn: func(ctx context.Context, userID int64) (*auth.IssuedToken, error) {
			return &auth.IssuedToken{Token: fmt.Sprintf("user-%d", userID)}, nil
		},
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			id, err := strconv.ParseInt(strings.TrimPrefix(token, "user-"), 10, 64)
			if err != nil || !strings.HasPrefix(token, "user-") {
				return nil, auth.ErrInvalidToken
			}
			return &auth.Claims{UserID: id}, nil
		},
	}

	accounts, err := service.NewAccountService(users, tx, hasher, tokens, testLogger)
	require.NoError(t, err)

	authHandler := api.NewAuthHandler(accounts, testLogger)
	userHandler := api.NewUserHandler(service.NewUserService(users, tx, hasher, testPagination, testLogger), testPagination, testLogger)
	listHandler := api.NewShoppingListHandler(service.NewShoppingListService(lists, tx, testPagination, testLogger), testPagination, testLogger)
	itemHandler := api.NewShoppingItemHandler(service.NewShoppingItemService(lists, items, tx, testPagination, testLogger), testPagination, testLogger)
	gate := middleware.NewAuthMiddleware(tokens, testLogger)

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/reset_password", authHandler.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(gate.Authenticate)
		r.Get("/user", userHandler.GetCurrentUser)
		r.Put("/user", userHandler.UpdateCurrentUser)
		r.Delete("/user", userHandler.DeleteCurrentUser)
		r.Get("/users", userHandler.ListUsers)
		r.Post("/shoppinglists", listHandler.CreateList)
		r.Get("/shoppinglists", listHandler.ListLists)
		r.Get("/shoppinglist/{list_id}", listHandler.GetList)
		r.Put("/shoppinglist/{list_id}", listHandler.UpdateList)
		r.Delete("/shoppinglist/{list_id}", listHandler.DeleteList)
		r.Post("/shoppinglist/{list_id}/items", itemHandler.AddItem)
		r.Get("/shoppinglist/{list_id}/items", itemHandler.ListItems)
		r.Get("/shoppinglist/{list_id}/item/{item_id}", itemHandler.GetItem)
		r.Put("/shoppinglist/{list_id}/item/{item_id}", itemHandler.UpdateItem)
		r.Patch("/shoppinglist/{list_id}/item/{item_id}", itemHandler.MarkBought)
		r.Delete("/shoppinglist/{list_id}/item/{item_id}", itemHandler.DeleteItem)
	})

	return &harness{t: t, users: users, router: r}
}

func (h *harness) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	h.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var out map[string]interface{}
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

// signUp registers and logs in a user and returns their token.
func (h *harness) signUp(username, email string) string {
	h.t.Helper()
	status, _ := h.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "password123",
	})
	require.Equal(h.t, http.StatusCreated, status)

	status, body := h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(h.t, http.StatusOK, status)
	return body["token"].(string)
}

func (h *harness) createList(token, name string) int64 {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/shoppinglists", token, map[string]string{"name": name})
	require.Equal(h.t, http.StatusCreated, status, body)
	return int64(body["shoppinglist"].(map[string]interface{})["id"].(float64))
}

func TestAuthHandler(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		h := newHarness(t)
		creds := map[string]string{"username": "test", "email": "test@test.com", "password": "test_password"}

		status, body := h.do(http.MethodPost, "/auth/register", "", creds)
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "Registered successfully, please log in.", body["message"])
		assert.Equal(t, "Registered", body["status"])

		status, body = h.do(http.MethodPost, "/auth/register", "", creds)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Email or username already used. Try logging in or use different credentials.", body["message"])
	})

	t.Run("register validation", func(t *testing.T) {
		tests := []struct {
			name    string
			body    interface{}
			message string
		}{
			{"malformed json", `{"username":`, "Invalid request format"},
			{"empty body", "", "Invalid request format"},
			{"missing password", map[string]string{"username": "a", "email": "a@b.co"}, "Invalid password: required field"},
			{"bad email", map[string]string{"username": "a", "email": "nope", "password": "password123"}, "Incorrect email format."},
			{"bad name", map[string]string{"username": "a!", "email": "a@b.co", "password": "password123"},
				"Name shouldn't be empty. No special characters for user names"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newHarness(t)
				status, body := h.do(http.MethodPost, "/auth/register", "", tt.body)
				assert.Equal(t, http.StatusBadRequest, status)
				assert.Equal(t, tt.message, body["message"])
				assert.Empty(t, h.users.Users)
			})
		}
	})

	t.Run("login", func(t *testing.T) {
		h := newHarness(t)
		token := h.signUp("test", "test@test.com")
		assert.NotEmpty(t, token)

		for _, creds := range []map[string]string{
			{"email": "test@test.com", "password": "wrong_password"},
			{"email": "nobody@test.com", "password": "password123"},
		} {
			status, body := h.do(http.MethodPost, "/auth/login", "", creds)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Invalid email or password, Please try again", body["message"])
		}
	})

	t.Run("reset password", func(t *testing.T) {
		h := newHarness(t)
		h.signUp("test", "test@test.com")

		status, body := h.do(http.MethodPost, "/auth/reset_password", "", map[string]string{"email": "test@test.com"})
		require.Equal(t, http.StatusOK, status)
		password := body["password"].(string)
		assert.Len(t, password, auth.GeneratedPasswordLength)

		status, _ = h.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "test@test.com", "password": password})
		assert.Equal(t, http.StatusOK, status)

		status, body = h.do(http.MethodPost, "/auth/reset_password", "", map[string]string{"email": "nobody@test.com"})
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "User not found", body["message"])
	})
}

func TestUserHandler(t *testing.T) {
	h := newHarness(t)
	alice := h.signUp("alice", "alice@example.com")
	h.signUp("bob", "bob@example.com")

	status, body := h.do(http.MethodGet, "/user", alice, nil)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password_hash")

	status, body = h.do(http.MethodPut, "/user", alice, map[string]string{"email": "BOB@example.com"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email or username already used. Try logging in or use different credentials.", body["message"])

	status, body = h.do(http.MethodPut, "/user", alice, map[string]string{"username": "Alice"})
	require.Equal(t, http.StatusOK, status, "own username in another case is not a conflict")
	assert.Equal(t, "Alice", body["user"].(map[string]interface{})["username"])

	status, body = h.do(http.MethodGet, "/users?q=b&limit=500", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(100), body["limit"])

	status, _ = h.do(http.MethodDelete, "/user", alice, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do(http.MethodGet, "/user", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodGet, "/shoppinglists", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, middleware.MsgMissingToken, body["message"])

	status, body = h.do(http.MethodGet, "/shoppinglists", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, middleware.MsgInvalidToken, body["message"])
}

func TestShoppingListHandler(t *testing.T) {
	h := newHarness(t)
	alice := h.signUp("alice", "alice@example.com")
	bob := h.signUp("bob", "bob@example.com")

	listID := h.createList(alice, "Groceries")
	path := fmt.Sprintf("/shoppinglist/%d", listID)

	t.Run("duplicate", func(t *testing.T) {
		status, body := h.do(http.MethodPost, "/shoppinglists", alice, map[string]string{"name": "groceries"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Shopping list already exists!", body["message"])
	})

	t.Run("invalid name", func(t *testing.T) {
		status, body := h.do(http.MethodPost, "/shoppinglists", alice, map[string]string{"name": "   "})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Name shouldn't be empty. No special characters for shopping list names", body["message"])
	})

	t.Run("bad path id", func(t *testing.T) {
		status, _ := h.do(http.MethodGet, "/shoppinglist/abc", alice, nil)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("not visible to others", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodDelete} {
			status, body := h.do(method, path, bob, nil)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Shopping list not found", body["message"])
		}
		status, body := h.do(http.MethodGet, "/shoppinglists", bob, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["shoppinglists"])
	})

	t.Run("rename, search and delete", func(t *testing.T) {
		status, body := h.do(http.MethodPut, path, alice, map[string]string{"name": "Weekly groceries"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Shopping List updated!", body["message"])

		h.createList(alice, "Hardware")
		status, body = h.do(http.MethodGet, "/shoppinglists?q=GROC", alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Users shoppinglists found!", body["message"])
		assert.Len(t, body["shoppinglists"], 1)
		assert.Equal(t, float64(1), body["page"])

		status, body = h.do(http.MethodDelete, path, alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Shopping list Weekly groceries deleted!", body["message"])

		status, _ = h.do(http.MethodGet, path, alice, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestShoppingItemHandler(t *testing.T) {
	h := newHarness(t)
	alice := h.signUp("alice", "alice@example.com")
	bob := h.signUp("bob", "bob@example.com")
	listID := h.createList(alice, "Groceries")
	itemsPath := fmt.Sprintf("/shoppinglist/%d/items", listID)

	status, body := h.do(http.MethodPost, itemsPath, alice, map[string]interface{}{"name": "Milk"})
	require.Equal(t, http.StatusCreated, status)
	item := body["item"].(map[string]interface{})
	assert.Equal(t, float64(1), item["quantity"])
	assert.Equal(t, false, item["bought"])
	itemPath := fmt.Sprintf("/shoppinglist/%d/item/%d", listID, int64(item["id"].(float64)))

	t.Run("duplicate", func(t *testing.T) {
		status, body := h.do(http.MethodPost, itemsPath, alice, map[string]interface{}{"name": "milk", "quantity": 2})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Item already exists in this shopping list!", body["message"])
	})

	t.Run("other owner", func(t *testing.T) {
		status, body := h.do(http.MethodGet, itemPath, bob, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Shopping list not found. Item does not exist", body["message"])
	})

	t.Run("missing item", func(t *testing.T) {
		status, body := h.do(http.MethodGet, fmt.Sprintf("/shoppinglist/%d/item/999", listID), alice, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Item does not exist in shopping list", body["message"])
	})

	t.Run("update, buy, list and delete", func(t *testing.T) {
		status, body := h.do(http.MethodPut, itemPath, alice, map[string]interface{}{"name": "Oat milk", "quantity": 3})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Item updated!", body["message"])

		status, body = h.do(http.MethodPatch, itemPath, alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Item bought!", body["message"])
		assert.Equal(t, true, body["item"].(map[string]interface{})["bought"])

		status, body = h.do(http.MethodGet, itemsPath+"?q=oat", alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Shopping list's items found", body["message"])
		assert.Len(t, body["items"], 1)

		status, body = h.do(http.MethodDelete, itemPath, alice, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Item Oat milk deleted!", body["message"])
	})
}
