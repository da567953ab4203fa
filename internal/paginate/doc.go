// Package paginate implements deletion-resilient cursor pagination over
// collections whose elements carry permanent, monotonically assigned integer
// identities.
//
// The package offers two strategies:
//
//   - Paginator: a cursor-based pager that never skips or duplicates items
//     even when elements are deleted between page fetches. The cursor tracks
//     the next identity to inspect, not a position among the remaining live
//     items, so deletions before or after the cursor cannot shift pages.
//
//   - GetPage / GetHyperPage: a classic offset-based pager kept for contrast.
//     It slices the current live sequence and silently skips an item whenever
//     something before the requested offset is deleted between calls. That
//     failure mode is deliberate and covered by tests; it documents why the
//     cursor-based design exists.
//
// The package performs no I/O and no serialization of its own. Callers supply
// a Source, which is typically backed by a store that assigns identities at
// insertion time and tombstones deleted slots.
package paginate
