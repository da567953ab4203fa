// Package domain holds the core entities of PageLedger: datasets, the
// identity-addressed items they contain, and the users allowed to manage
// them. Entities validate themselves; persistence and transport concerns
// live elsewhere.
package domain
