package paginate

import (
	"context"
	"errors"
	"sync"
)

// ErrInvalidPageSize is returned by FetchPage when the requested page size
// is zero or negative. No scanning happens in that case.
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// Source is the read-only view a Paginator has of its backing collection.
// Identities are non-negative integers assigned once at insertion time,
// strictly increasing, and never reused. Deleting an item leaves a permanent
// gap; it must never renumber the survivors.
//
// Implementations may be in-memory structures or database-backed stores,
// hence the context parameter on every method.
type Source[T any] interface {
	// Item returns the live item stored under the given identity.
	// The boolean reports whether a live item exists there; it is false both
	// for deleted slots and for identities that were never assigned.
	Item(ctx context.Context, identity int64) (T, bool, error)

	// MaxIdentity returns the highest identity ever assigned, or -1 when the
	// collection has never held an item. Deletions do not lower this value.
	MaxIdentity(ctx context.Context) (int64, error)
}

// Paginator produces successive, non-overlapping pages over a Source whose
// elements may be deleted between calls. It owns a single private cursor:
// the next identity it will attempt to read. The cursor only ever moves
// forward, and only as a side effect of a fetch that returned items.
//
// A Paginator is safe for concurrent use. FetchPage holds an internal lock
// for the whole scan-and-advance sequence so two callers can never observe
// overlapping pages or a half-advanced cursor.
type Paginator[T any] struct {
	mu     sync.Mutex
	cursor int64
	src    Source[T]
}

// NewPaginator returns a Paginator positioned at identity 0, the smallest
// identity the source can assign.
func NewPaginator[T any](src Source[T]) *Paginator[T] {
	return &Paginator[T]{src: src}
}

// FetchPage returns up to pageSize items in increasing identity order,
// starting at the paginator's cursor.
//
// Identities with no live item (deleted slots, or gaps in a sparsely seeded
// source) are skipped, not treated as end-of-data. Scanning stops once
// pageSize items have been collected or the highest assigned identity has
// been passed. The returned slice may be shorter than pageSize, or empty
// once the source is exhausted.
//
// When at least one item is returned, the cursor advances to one past the
// last identity inspected — including any deleted slots that were skipped
// after the final returned item's predecessor — so no slot is ever scanned
// twice. An empty result leaves the cursor unchanged: calling again yields
// empty pages until the source gains items at higher identities.
//
// A source error aborts the fetch and leaves the cursor where it was.
func (p *Paginator[T]) FetchPage(ctx context.Context, pageSize int) ([]T, error) {
	if pageSize < 1 {
		return nil, ErrInvalidPageSize
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	max, err := p.src.MaxIdentity(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, pageSize)
	current := p.cursor
	for len(items) < pageSize && current <= max {
		item, ok, err := p.src.Item(ctx, current)
		if err != nil {
			return nil, err
		}
		if ok {
			items = append(items, item)
		}
		current++
	}

	// Only a productive fetch moves the cursor. Advancing past a fully
	// deleted tail would be harmless, but keeping the cursor pinned lets new
	// items appended at those identities become visible later.
	if len(items) > 0 {
		p.cursor = current
	}

	return items, nil
}

// Cursor reports the identity the next FetchPage call will start scanning
// from. Exposed for observability; the cursor cannot be moved externally.
func (p *Paginator[T]) Cursor() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}
