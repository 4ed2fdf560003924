// Package pagination follows paged list resources to completion.
package pagination

import (
	"context"
	"fmt"

	"github.com/danielolaszy/jtui/internal/logging"
)

// DefaultMaxPages bounds how many pages a single Follow call may request.
const DefaultMaxPages = 100

// Page is one page of a paged list resource.
type Page[T any] struct {
	// IsLast is the server's own end-of-list marker
	IsLast bool `json:"isLast"`

	MaxResults int `json:"maxResults"`

	// NextPage is the absolute URL of the following page, empty on the last page
	NextPage string `json:"nextPage,omitempty"`

	StartAt int `json:"startAt"`
	Total   int `json:"total"`
	Values  []T `json:"values"`
}

// FetchFunc retrieves the page at the given URL.
type FetchFunc[T any] func(ctx context.Context, url string) (Page[T], error)

// PaginationError reports a page chain that cannot be followed safely.
type PaginationError struct {
	// Pages is the number of pages seen before the error
	Pages  int
	URL    string
	Reason string
}

func (e *PaginationError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("pagination stopped after %d pages: %s", e.Pages, e.Reason)
	}
	return fmt.Sprintf("pagination stopped after %d pages at %s: %s", e.Pages, e.URL, e.Reason)
}

// Follow collects the values of first and every page reachable from it
// through NextPage, in page order. The first page counts towards maxPages;
// a non-positive maxPages uses DefaultMaxPages. Any fetch error is returned
// unchanged and no partial result is returned with it.
func Follow[T any](ctx context.Context, first Page[T], fetch FetchFunc[T], maxPages int) ([]T, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	page := first
	pages := 1
	values := make([]T, 0, len(first.Values))

	for {
		if page.IsLast && page.NextPage != "" {
			return nil, &PaginationError{Pages: pages, URL: page.NextPage, Reason: "page is marked last but links a next page"}
		}

		values = append(values, page.Values...)
		if page.NextPage == "" {
			break
		}

		if pages >= maxPages {
			return nil, &PaginationError{Pages: pages, URL: page.NextPage, Reason: fmt.Sprintf("exceeded maximum of %d pages", maxPages)}
		}

		next, err := fetch(ctx, page.NextPage)
		if err != nil {
			return nil, err
		}
		page = next
		pages++
	}

	logging.Debug("followed pages", "pages", pages, "values", len(values))
	return values, nil
}
