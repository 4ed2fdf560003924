package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/pkg/models"
)

// optionalFields are ticket fields Jira omits when unset. They are written
// as explicit nulls so a merge removes stale cached values.
var optionalFields = []string{"priority", "assignee", "reporter", "creator", "parent"}

// optionalRendered are the rendered fields treated the same way.
var optionalRendered = []string{"description"}

// CommentFetcher retrieves the complete comment collection of a ticket.
type CommentFetcher interface {
	Comments(ctx context.Context, key string) (models.CommentSet, error)
}

// TicketStore serves tickets, projects and comments from the record store,
// fetching comments from Jira on a cache miss.
type TicketStore struct {
	db      *DB
	fetcher CommentFetcher
	group   singleflight.Group
}

// NewTicketStore creates a TicketStore backed by db.
func NewTicketStore(db *DB, fetcher CommentFetcher) *TicketStore {
	return &TicketStore{db: db, fetcher: fetcher}
}

func ticketKey(key string) RecordKey {
	return RecordKey{Table: TableTickets, Key: key}
}

// Comments returns the comments of a cached ticket. Cached comments are
// returned without a network call; otherwise they are fetched, merged into
// the ticket record and returned. The ticket record itself must already be
// cached. Concurrent misses for the same ticket share one fetch.
func (s *TicketStore) Comments(ctx context.Context, key string) (models.CommentSet, error) {
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.comments(ctx, key)
	})
	if err != nil {
		return models.CommentSet{}, err
	}
	if shared {
		logging.Debug("shared comment lookup", "key", key)
	}
	return v.(models.CommentSet), nil
}

func (s *TicketStore) comments(ctx context.Context, key string) (models.CommentSet, error) {
	rk := ticketKey(key)

	raw, ok, err := s.db.Select(ctx, rk)
	if err != nil {
		return models.CommentSet{}, err
	}
	if !ok {
		return models.CommentSet{}, fmt.Errorf("ticket %s: %w", key, ErrNotFound)
	}

	var cached models.Ticket
	if err := json.Unmarshal(raw, &cached); err != nil {
		return models.CommentSet{}, &IOError{Op: "decode", Key: rk, Err: err}
	}
	if cached.Fields.Comments != nil {
		logging.Debug("comment cache hit", "key", key)
		return *cached.Fields.Comments, nil
	}

	logging.Debug("comment cache miss", "key", key)
	set, err := s.fetcher.Comments(ctx, key)
	if err != nil {
		return models.CommentSet{}, err
	}
	if set.Comments == nil {
		set.Comments = []models.Comment{}
	}

	patch := map[string]any{
		"fields": map[string]any{"comments": set},
	}
	if _, err := s.db.Merge(ctx, rk, patch); err != nil {
		return models.CommentSet{}, err
	}
	return set, nil
}

// InvalidateComments drops the cached comments of a ticket so the next
// Comments call fetches them again. The rest of the record is untouched and
// an uncached ticket is left uncached.
func (s *TicketStore) InvalidateComments(ctx context.Context, key string) error {
	_, ok, err := s.db.Select(ctx, ticketKey(key))
	if err != nil || !ok {
		return err
	}
	_, err = s.db.Merge(ctx, ticketKey(key), json.RawMessage(`{"fields":{"comments":null}}`))
	return err
}

// PutTickets merges tickets into the store. Cached comments are kept.
func (s *TicketStore) PutTickets(ctx context.Context, tickets []models.Ticket) error {
	for _, t := range tickets {
		patch, err := ticketPatch(t)
		if err != nil {
			return &IOError{Op: "merge", Key: ticketKey(t.Key), Err: err}
		}
		if _, err := s.db.Merge(ctx, ticketKey(t.Key), patch); err != nil {
			return err
		}
	}
	return nil
}

// Ticket returns a single cached ticket.
func (s *TicketStore) Ticket(ctx context.Context, key string) (models.Ticket, error) {
	raw, ok, err := s.db.Select(ctx, ticketKey(key))
	if err != nil {
		return models.Ticket{}, err
	}
	if !ok {
		return models.Ticket{}, fmt.Errorf("ticket %s: %w", key, ErrNotFound)
	}

	var t models.Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return models.Ticket{}, &IOError{Op: "decode", Key: ticketKey(key), Err: err}
	}
	return t, nil
}

// Tickets returns the cached tickets of a project ordered by ticket number.
func (s *TicketStore) Tickets(ctx context.Context, project string) ([]models.Ticket, error) {
	bodies, err := s.db.List(ctx, TableTickets, "$.fields.project.key", project)
	if err != nil {
		return nil, err
	}

	tickets := make([]models.Ticket, 0, len(bodies))
	for _, body := range bodies {
		var t models.Ticket
		if err := json.Unmarshal(body, &t); err != nil {
			return nil, &IOError{Op: "decode", Key: RecordKey{Table: TableTickets}, Err: err}
		}
		tickets = append(tickets, t)
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		return keyLess(tickets[i].Key, tickets[j].Key)
	})
	return tickets, nil
}

// PutProjects merges projects into the store.
func (s *TicketStore) PutProjects(ctx context.Context, projects []models.Project) error {
	for _, p := range projects {
		if _, err := s.db.Merge(ctx, RecordKey{Table: TableProjects, Key: p.Key}, p); err != nil {
			return err
		}
	}
	return nil
}

// Projects returns the cached projects ordered by key.
func (s *TicketStore) Projects(ctx context.Context) ([]models.Project, error) {
	bodies, err := s.db.List(ctx, TableProjects, "", nil)
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(bodies))
	for _, body := range bodies {
		var p models.Project
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, &IOError{Op: "decode", Key: RecordKey{Table: TableProjects}, Err: err}
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// ticketPatch renders a ticket as a merge patch. Comments are never part of
// it and absent optional fields become explicit nulls.
func ticketPatch(t models.Ticket) (json.RawMessage, error) {
	t.Fields.Comments = nil

	fields, err := withNulls(t.Fields, optionalFields)
	if err != nil {
		return nil, err
	}
	rendered, err := withNulls(t.RenderedFields, optionalRendered)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]any{
		"key":            t.Key,
		"fields":         fields,
		"renderedFields": rendered,
	})
}

// withNulls marshals v into an object and sets each of names it lacks to null.
func withNulls(v any, names []string) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for _, name := range names {
		if _, ok := obj[name]; !ok {
			obj[name] = json.RawMessage("null")
		}
	}
	return obj, nil
}

// keyLess orders ticket keys by project and then numerically.
func keyLess(a, b string) bool {
	pa, na := splitKey(a)
	pb, nb := splitKey(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

func splitKey(key string) (string, int) {
	i := strings.LastIndex(key, "-")
	if i < 0 {
		return key, 0
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return key, 0
	}
	return key[:i], n
}
