// Package memory provides in-memory store implementations backed by an
// arena with stable indices: each dataset owns an ever-growing slot slice
// where an item's identity is its slot index and deletion tombstones the
// slot instead of shifting its neighbors.
//
// The package backs the server when no database URL is configured, and
// doubles as the fixture store for service and API tests.
package memory
