package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/shoplist-api/internal/api"
	apiMiddleware "github.com/phrazzld/shoplist-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.accountService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.config.Pagination, app.logger)
	listHandler := api.NewShoppingListHandler(app.shoppingListService, app.config.Pagination, app.logger)
	itemHandler := api.NewShoppingItemHandler(app.shoppingItemService, app.config.Pagination, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/reset_password", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/user", userHandler.GetCurrentUser)
			r.Put("/user", userHandler.UpdateCurrentUser)
			r.Delete("/user", userHandler.DeleteCurrentUser)
			r.Get("/users", userHandler.ListUsers)

			r.Post("/shoppinglists", listHandler.CreateList)
			r.Get("/shoppinglists", listHandler.ListLists)
			r.Route("/shoppinglist/{list_id}", func(r chi.Router) {
				r.Get("/", listHandler.GetList)
				r.Put("/", listHandler.UpdateList)
				r.Delete("/", listHandler.DeleteList)

				r.Post("/items", itemHandler.AddItem)
				r.Get("/items", itemHandler.ListItems)
				r.Get("/item/{item_id}", itemHandler.GetItem)
				r.Put("/item/{item_id}", itemHandler.UpdateItem)
				r.Patch("/item/{item_id}", itemHandler.MarkBought)
				r.Delete("/item/{item_id}", itemHandler.DeleteItem)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
