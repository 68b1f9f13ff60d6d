// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
//   - AccountService: registration, login and password reset. It is the only
//     caller of the password hasher and the token issuer.
//   - UserService: profile reads and edits for the authenticated user.
//   - ShoppingListService and ShoppingItemService: owner-scoped CRUD.
//
// Services receive their dependencies through constructor injection and
// depend on store interfaces and store.Transactor, never on a concrete
// database. Expected conditions are reported with sentinel errors from this
// package, internal/domain and internal/store; unexpected failures are wrapped
// in ServiceError.
package service
