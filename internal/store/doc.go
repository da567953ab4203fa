// Package store defines the persistence interfaces for datasets, items and
// users, together with the sentinel error taxonomy shared by every backend.
// Implementations live under internal/platform (postgres, memory); callers
// depend only on these interfaces.
package store
