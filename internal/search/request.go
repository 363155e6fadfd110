package search

import "context"

const (
	DefaultLimit = 50
	MaxLimit     = 200
	MaxOffset    = 20000
)

// Filters narrow a search or an archive listing. Dates are unix seconds
// compared against the archive's zip date.
type Filters struct {
	DateFrom  *int64   `json:"date_from,omitempty"`
	DateTo    *int64   `json:"date_to,omitempty"`
	FileTypes []string `json:"file_types,omitempty"`
}

// Request asks for one page of hits.
type Request struct {
	Query   string  `json:"query"`
	Filters Filters `json:"filters"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Bounded returns the request with limit and offset clamped to the range
// backends accept.
func (r Request) Bounded() Request {
	switch {
	case r.Limit <= 0:
		r.Limit = DefaultLimit
	case r.Limit > MaxLimit:
		r.Limit = MaxLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if r.Offset > MaxOffset {
		r.Offset = MaxOffset
	}
	return r
}

// Page is one page of hits.
type Page struct {
	Items   Hits `json:"items"`
	HasMore bool `json:"has_more"`
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
}

// Searcher returns pages of raw hits.
type Searcher interface {
	SearchPaged(ctx context.Context, req Request) (Page, error)
}
