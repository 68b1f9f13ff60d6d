// Package api handles incoming HTTP requests, request validation and response
// formatting. Handlers translate HTTP concerns to service calls and map every
// error through MapErrorToStatusCode and GetSafeErrorMessage, so internal
// details never reach clients.
package api
