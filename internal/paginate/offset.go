package paginate

// GetPage returns the page-th slice of pageSize items from a live sequence,
// counting pages from 1.
//
// This is the legacy offset-based strategy and it is explicitly NOT
// deletion-resilient: if an element before the page's start offset is removed
// between calls, the next page silently begins one element later than the
// caller expects. The cursor-based Paginator exists because of exactly that
// failure mode.
//
// Matching the legacy contract, invalid input (page <= 0, pageSize <= 0, or
// an offset beyond the end of the sequence) returns an empty slice rather
// than an error, unlike Paginator's explicit ErrInvalidPageSize.
func GetPage[T any](dataset []T, page, pageSize int) []T {
	if page <= 0 || pageSize <= 0 {
		return []T{}
	}

	start := (page - 1) * pageSize
	if start >= len(dataset) {
		return []T{}
	}

	end := start + pageSize
	if end > len(dataset) {
		end = len(dataset)
	}

	return dataset[start:end]
}

// HyperPage wraps an offset-based page with the hypermedia metadata clients
// use to walk the collection. It is a pure function of GetPage and inherits
// its non-resilience to deletions.
type HyperPage[T any] struct {
	// PageSize is the number of items actually returned, which may be less
	// than requested on the final page.
	PageSize   int  `json:"page_size"`
	Page       int  `json:"page"`
	Data       []T  `json:"data"`
	NextPage   *int `json:"next_page"`
	PrevPage   *int `json:"prev_page"`
	TotalPages int  `json:"total_pages"`
}

// GetHyperPage returns the requested offset page together with total_pages
// (ceiling of len/pageSize) and next/prev page numbers. NextPage is nil on
// or past the last page; PrevPage is nil on or before the first.
func GetHyperPage[T any](dataset []T, page, pageSize int) HyperPage[T] {
	data := GetPage(dataset, page, pageSize)

	totalPages := 0
	if pageSize > 0 {
		totalPages = (len(dataset) + pageSize - 1) / pageSize
	}

	result := HyperPage[T]{
		PageSize:   len(data),
		Page:       page,
		Data:       data,
		TotalPages: totalPages,
	}

	if page < totalPages {
		next := page + 1
		result.NextPage = &next
	}
	if page > 1 {
		prev := page - 1
		result.PrevPage = &prev
	}

	return result
}
