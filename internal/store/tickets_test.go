package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/jtui/pkg/models"
)

// countingFetcher returns a fixed comment set and counts calls.
type countingFetcher struct {
	calls atomic.Int32
	set   models.CommentSet
	err   error
	delay time.Duration
}

func (f *countingFetcher) Comments(ctx context.Context, key string) (models.CommentSet, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return models.CommentSet{}, f.err
	}
	return f.set, nil
}

func sampleComments() models.CommentSet {
	return models.CommentSet{
		Comments: []models.Comment{
			{ID: "1", Author: models.User{DisplayName: "Ann"}, Created: "2024-01-01T10:00:00.000+0000", RenderedBody: "<p>first</p>"},
			{ID: "2", Author: models.User{DisplayName: "Bob"}, Created: "2024-01-02T10:00:00.000+0000", RenderedBody: "<p>second</p>"},
		},
		Total: 2,
	}
}

func sampleTicket(key string) models.Ticket {
	return models.Ticket{
		Key: key,
		Fields: models.Fields{
			Summary:   "Login fails",
			Status:    models.Named{Name: "Open"},
			Priority:  &models.Named{Name: "High"},
			IssueType: models.IssueType{Name: "Bug"},
			Labels:    []string{"auth"},
			Project:   models.ProjectRef{Key: "PROJ"},
		},
	}
}

func newTestStore(t *testing.T, fetcher *countingFetcher) *TicketStore {
	t.Helper()
	return NewTicketStore(openTestDB(t), fetcher)
}

func TestCommentsMissingTicket(t *testing.T) {
	fetcher := &countingFetcher{set: sampleComments()}
	s := newTestStore(t, fetcher)

	_, err := s.Comments(context.Background(), "PROJ-404")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, fetcher.calls.Load())
}

func TestCommentsCacheAside(t *testing.T) {
	fetcher := &countingFetcher{set: sampleComments()}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))

	first, err := s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, sampleComments().Comments, first.Comments)
	assert.EqualValues(t, 1, fetcher.calls.Load())

	second, err := s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, fetcher.calls.Load(), "second read must be served from the store")

	// The merge must not disturb the rest of the record.
	ticket, err := s.Ticket(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "Login fails", ticket.Fields.Summary)
	assert.Equal(t, "High", ticket.Fields.Priority.Label())
	require.NotNil(t, ticket.Fields.Comments)
	assert.Len(t, ticket.Fields.Comments.Comments, 2)
}

func TestCommentsEmptySetIsCached(t *testing.T) {
	fetcher := &countingFetcher{}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))

	for i := 0; i < 2; i++ {
		set, err := s.Comments(ctx, "PROJ-1")
		require.NoError(t, err)
		assert.Empty(t, set.Comments)
	}
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestCommentsFetchErrorLeavesStoreUntouched(t *testing.T) {
	fetchErr := errors.New("status 500")
	fetcher := &countingFetcher{err: fetchErr}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))

	_, err := s.Comments(ctx, "PROJ-1")
	assert.ErrorIs(t, err, fetchErr)

	ticket, err := s.Ticket(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Nil(t, ticket.Fields.Comments)

	fetcher.err = nil
	fetcher.set = sampleComments()
	set, err := s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Len(t, set.Comments, 2)
	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestInvalidateCommentsForcesRefetch(t *testing.T) {
	fetcher := &countingFetcher{set: sampleComments()}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))

	_, err := s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)

	require.NoError(t, s.InvalidateComments(ctx, "PROJ-1"))

	ticket, err := s.Ticket(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Nil(t, ticket.Fields.Comments)
	assert.Equal(t, "Login fails", ticket.Fields.Summary)

	_, err = s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, fetcher.calls.Load())
}

func TestInvalidateUncachedTicket(t *testing.T) {
	s := newTestStore(t, &countingFetcher{})
	ctx := context.Background()

	require.NoError(t, s.InvalidateComments(ctx, "PROJ-9"))

	_, err := s.Ticket(ctx, "PROJ-9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentMissesShareOneFetch(t *testing.T) {
	fetcher := &countingFetcher{set: sampleComments(), delay: 100 * time.Millisecond}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))

	var wg sync.WaitGroup
	results := make([]models.CommentSet, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = s.Comments(ctx, "PROJ-1")
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Comments, 2)
	}
	assert.EqualValues(t, 1, fetcher.calls.Load())
}

func TestPutTicketsKeepsCommentsAndDropsStaleFields(t *testing.T) {
	fetcher := &countingFetcher{set: sampleComments()}
	s := newTestStore(t, fetcher)
	ctx := context.Background()
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{sampleTicket("PROJ-1")}))
	_, err := s.Comments(ctx, "PROJ-1")
	require.NoError(t, err)

	updated := sampleTicket("PROJ-1")
	updated.Fields.Status = models.Named{Name: "Done"}
	updated.Fields.Priority = nil
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{updated}))

	ticket, err := s.Ticket(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Equal(t, "Done", ticket.Fields.Status.Name)
	assert.Nil(t, ticket.Fields.Priority)
	require.NotNil(t, ticket.Fields.Comments)
	assert.Len(t, ticket.Fields.Comments.Comments, 2)
}

func TestPutTicketsDropsClearedDescription(t *testing.T) {
	s := newTestStore(t, &countingFetcher{})
	ctx := context.Background()
	ticket := sampleTicket("PROJ-1")
	ticket.RenderedFields.Description = "<p>old</p>"
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{ticket}))

	ticket.RenderedFields.Description = ""
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{ticket}))

	got, err := s.Ticket(ctx, "PROJ-1")
	require.NoError(t, err)
	assert.Empty(t, got.RenderedFields.Description)
}

func TestTicketsByProject(t *testing.T) {
	s := newTestStore(t, &countingFetcher{})
	ctx := context.Background()

	other := sampleTicket("OTHER-1")
	other.Fields.Project = models.ProjectRef{Key: "OTHER"}
	require.NoError(t, s.PutTickets(ctx, []models.Ticket{
		sampleTicket("PROJ-10"), sampleTicket("PROJ-2"), other, sampleTicket("PROJ-1"),
	}))

	tickets, err := s.Tickets(ctx, "PROJ")
	require.NoError(t, err)

	var keys []string
	for _, tk := range tickets {
		keys = append(keys, tk.Key)
	}
	assert.Equal(t, []string{"PROJ-1", "PROJ-2", "PROJ-10"}, keys)
}

func TestProjects(t *testing.T) {
	s := newTestStore(t, &countingFetcher{})
	ctx := context.Background()

	require.NoError(t, s.PutProjects(ctx, []models.Project{{Key: "DEF", Name: "Def"}, {Key: "ABC", Name: "Abc"}}))
	require.NoError(t, s.PutProjects(ctx, []models.Project{{Key: "ABC", Name: "Renamed"}}))

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Project{{Key: "ABC", Name: "Renamed"}, {Key: "DEF", Name: "Def"}}, projects)
}

func TestKeyLess(t *testing.T) {
	testCases := []struct {
		a, b string
		want bool
	}{
		{"PROJ-2", "PROJ-10", true},
		{"PROJ-10", "PROJ-2", false},
		{"ABC-9", "PROJ-1", true},
		{"PROJ-1", "PROJ-1", false},
	}

	for _, tc := range testCases {
		t.Run(tc.a+"<"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, keyLess(tc.a, tc.b))
		})
	}
}
