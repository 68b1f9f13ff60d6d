package store

import "math"

// Pagination defaults applied when a request does not specify them.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListParams describes a search and a page window for List operations.
type ListParams struct {
	Query string
	Page  int
	Limit int
}

// Normalize returns a copy with out-of-range values replaced by defaults.
// maxLimit <= 0 falls back to MaxLimit. Page is capped so that Offset
// cannot overflow.
func (p ListParams) Normalize(defaultLimit, maxLimit int) ListParams {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if maxPage := math.MaxInt / maxLimit; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// Offset is the number of rows to skip for the current page.
// It saturates at math.MaxInt instead of overflowing.
func (p ListParams) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}
