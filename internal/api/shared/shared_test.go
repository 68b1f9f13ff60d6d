package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Run("generated when no request id", func(t *testing.T) {
		ctx := SetTraceID(context.Background())
		assert.Len(t, GetTraceID(ctx), 36)
		assert.NotEqual(t, GetTraceID(ctx), GetTraceID(SetTraceID(context.Background())))
	})

	t.Run("reuses chi request id", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "host/abc-000001")
		assert.Equal(t, "host/abc-000001", GetTraceID(SetTraceID(ctx)))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Empty(t, GetTraceID(context.Background()))
	})
}

func TestUserIDFromContext(t *testing.T) {
	id, ok := UserIDFromContext(WithUserID(context.Background(), 42))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), 0))
	assert.False(t, ok)

	_, ok = UserIDFromContext(context.WithValue(context.Background(), UserIDContextKey, "42"))
	assert.False(t, ok, "only int64 values count")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Groceries"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "Groceries", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(r, &dst), ErrEmptyBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(r, &dst))
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	assert.NoError(t, ValidateRequest(payload{Email: "a@b.co"}))
	assert.Error(t, ValidateRequest(payload{Email: "nope"}))
}

func TestRespondWithErrorAndLog(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r = r.WithContext(SetTraceID(r.Context()))
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred",
		errors.New("dial tcp postgres://admin:secret@db:5432/shoplist failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), "secret")

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "An unexpected error occurred", body["message"])
	assert.Equal(t, GetTraceID(r.Context()), body["trace_id"])
	assert.NotContains(t, body, "error")
}

func TestRespondWithMessage(t *testing.T) {
	r := httptest.NewRequest(http.MethodDelete, "/", nil)
	w := httptest.NewRecorder()

	RespondWithMessage(w, r, http.StatusOK, "done")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"done"}`, w.Body.String())
}
