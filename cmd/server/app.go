package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shoplist-api/internal/config"
	"github.com/phrazzld/shoplist-api/internal/platform/postgres"
	"github.com/phrazzld/shoplist-api/internal/service"
	"github.com/phrazzld/shoplist-api/internal/service/auth"
	"github.com/phrazzld/shoplist-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	shoppingListStore store.ShoppingListStore
	shoppingItemStore store.ShoppingItemStore
	transactor        store.Transactor

	jwtService     auth.JWTService
	passwordHasher auth.PasswordHasher

	accountService      service.AccountService
	userService         service.UserService
	shoppingListService service.ShoppingListService
	shoppingItemService service.ShoppingItemService
}

// appStores are the persistence dependencies of the application.
type appStores struct {
	users      store.UserStore
	lists      store.ShoppingListStore
	items      store.ShoppingItemStore
	transactor store.Transactor
}

// newApplication creates the application backed by PostgreSQL.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app, err := newApplicationWithStores(cfg, logger, appStores{
		users:      postgres.NewPostgresUserStore(db, logger),
		lists:      postgres.NewPostgresShoppingListStore(db, logger),
		items:      postgres.NewPostgresShoppingItemStore(db, logger),
		transactor: store.NewDBTransactor(db),
	})
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// newApplicationWithStores wires the auth components and services on top of
// the given stores. A missing signing key stops initialization.
func newApplicationWithStores(cfg *config.Config, logger *slog.Logger, stores appStores) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &application{
		config:            cfg,
		logger:            logger,
		userStore:         stores.users,
		shoppingListStore: stores.lists,
		shoppingItemStore: stores.items,
		transactor:        stores.transactor,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher, err = auth.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	app.accountService, err = service.NewAccountService(
		app.userStore,
		app.transactor,
		app.passwordHasher,
		app.jwtService,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, app.transactor, app.passwordHasher, cfg.Pagination, logger)
	app.shoppingListService = service.NewShoppingListService(app.shoppingListStore, app.transactor, cfg.Pagination, logger)
	app.shoppingItemService = service.NewShoppingItemService(
		app.shoppingListStore,
		app.shoppingItemStore,
		app.transactor,
		cfg.Pagination,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
