// Package postgres implements the store interfaces on PostgreSQL via the
// pgx stdlib driver.
//
// The identity contract is carried by the schema: each dataset row keeps a
// next_identity counter advanced inside the append transaction, and item
// rows are tombstoned by setting deleted_at rather than being removed, so
// identities are strictly increasing and never reused. Goose migrations for
// the schema live under migrations/.
package postgres
