// Package service contains the application-specific use cases. It
// orchestrates domain objects and the repositories defined in internal/store
// to fulfill dataset management and pagination features, keeping delivery
// mechanisms (the HTTP API) and infrastructure (postgres, memory) out of the
// business logic.
//
// Services receive their dependencies through constructor injection, return
// sentinel errors for expected conditions, and wrap unexpected failures in
// FeedServiceError so callers can use errors.Is/errors.As.
package service
