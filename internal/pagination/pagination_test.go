package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageServer serves a fixed chain of pages by URL and counts fetches.
type pageServer struct {
	pages map[string]Page[int]
	calls []string
	err   error
}

func (s *pageServer) fetch(_ context.Context, url string) (Page[int], error) {
	s.calls = append(s.calls, url)
	if s.err != nil {
		return Page[int]{}, s.err
	}
	page, ok := s.pages[url]
	if !ok {
		return Page[int]{}, fmt.Errorf("unknown page %s", url)
	}
	return page, nil
}

func TestFollow(t *testing.T) {
	testCases := []struct {
		name      string
		first     Page[int]
		pages     map[string]Page[int]
		maxPages  int
		want      []int
		wantCalls int
	}{
		{
			name:      "Single page",
			first:     Page[int]{IsLast: true, Values: []int{1, 2}},
			want:      []int{1, 2},
			wantCalls: 0,
		},
		{
			name:  "Three pages in order",
			first: Page[int]{Values: []int{1, 2}, NextPage: "https://jira.test/p2"},
			pages: map[string]Page[int]{
				"https://jira.test/p2": {Values: []int{3}, NextPage: "https://jira.test/p3"},
				"https://jira.test/p3": {IsLast: true, Values: []int{4, 5}},
			},
			want:      []int{1, 2, 3, 4, 5},
			wantCalls: 2,
		},
		{
			name:  "Empty page in the middle",
			first: Page[int]{Values: []int{1}, NextPage: "https://jira.test/p2"},
			pages: map[string]Page[int]{
				"https://jira.test/p2": {Values: nil, NextPage: "https://jira.test/p3"},
				"https://jira.test/p3": {Values: []int{2}},
			},
			want:      []int{1, 2},
			wantCalls: 2,
		},
		{
			name:  "Exactly at the page limit",
			first: Page[int]{Values: []int{1}, NextPage: "https://jira.test/p2"},
			pages: map[string]Page[int]{
				"https://jira.test/p2": {IsLast: true, Values: []int{2}},
			},
			maxPages:  2,
			want:      []int{1, 2},
			wantCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := &pageServer{pages: tc.pages}

			got, err := Follow(context.Background(), tc.first, srv.fetch, tc.maxPages)

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Len(t, srv.calls, tc.wantCalls)
		})
	}
}

func TestFollowExceedsMaxPages(t *testing.T) {
	// Every page links to itself; the bound must stop the loop.
	loop := Page[int]{Values: []int{1}, NextPage: "https://jira.test/loop"}
	srv := &pageServer{pages: map[string]Page[int]{"https://jira.test/loop": loop}}

	got, err := Follow(context.Background(), loop, srv.fetch, 3)

	var pagErr *PaginationError
	require.True(t, errors.As(err, &pagErr))
	assert.Equal(t, 3, pagErr.Pages)
	assert.Nil(t, got)
	assert.Len(t, srv.calls, 2)
}

func TestFollowDefaultMaxPages(t *testing.T) {
	loop := Page[int]{NextPage: "https://jira.test/loop"}
	srv := &pageServer{pages: map[string]Page[int]{"https://jira.test/loop": loop}}

	_, err := Follow(context.Background(), loop, srv.fetch, 0)

	var pagErr *PaginationError
	require.True(t, errors.As(err, &pagErr))
	assert.Equal(t, DefaultMaxPages, pagErr.Pages)
	assert.Len(t, srv.calls, DefaultMaxPages-1)
}

func TestFollowLastPageWithNextLink(t *testing.T) {
	first := Page[int]{IsLast: true, Values: []int{1}, NextPage: "https://jira.test/p2"}
	srv := &pageServer{}

	_, err := Follow(context.Background(), first, srv.fetch, 10)

	var pagErr *PaginationError
	require.True(t, errors.As(err, &pagErr))
	assert.Contains(t, pagErr.Error(), "marked last")
	assert.Empty(t, srv.calls)
}

func TestFollowPropagatesFetchError(t *testing.T) {
	fetchErr := errors.New("connection reset")
	first := Page[int]{Values: []int{1}, NextPage: "https://jira.test/p2"}
	srv := &pageServer{err: fetchErr}

	got, err := Follow(context.Background(), first, srv.fetch, 10)

	assert.ErrorIs(t, err, fetchErr)
	assert.Nil(t, got)
}
