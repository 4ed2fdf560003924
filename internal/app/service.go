// Package app wires the Jira client and the local cache into the operations
// the UI and the commands run.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielolaszy/jtui/internal/config"
	"github.com/danielolaszy/jtui/internal/jira"
	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/store"
	"github.com/danielolaszy/jtui/internal/transition"
	"github.com/danielolaszy/jtui/pkg/models"
)

// Service serves projects, tickets and comments cache-aside and performs
// the write operations against Jira.
type Service struct {
	client  *jira.Client
	db      *store.DB
	tickets *store.TicketStore
}

// Open connects to Jira and opens the local cache described by cfg.
func Open(cfg *config.Config) (*Service, error) {
	if err := config.ValidateJiraConfig(cfg); err != nil {
		return nil, err
	}

	client, err := jira.New(jira.Config{
		BaseURL:  cfg.Jira.BaseURL,
		Username: cfg.Jira.Username,
		Token:    cfg.Jira.Token,
		AuthMode: cfg.Jira.AuthMode,
		Timeout:  cfg.Jira.Timeout,
		PageSize: cfg.Pagination.PageSize,
		MaxPages: cfg.Pagination.MaxPages,
	})
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Cache.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Path, err)
	}

	logging.Debug("opened service", "cache", cfg.Cache.Path)
	return New(client, db), nil
}

// New creates a service from an existing client and store.
func New(client *jira.Client, db *store.DB) *Service {
	return &Service{
		client:  client,
		db:      db,
		tickets: store.NewTicketStore(db, client),
	}
}

// Close releases the local cache.
func (s *Service) Close() error {
	return s.db.Close()
}

// Projects returns the cached projects, fetching them when the cache is
// empty or refresh is set.
func (s *Service) Projects(ctx context.Context, refresh bool) ([]models.Project, error) {
	if !refresh {
		cached, err := s.tickets.Projects(ctx)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	projects, err := s.client.Projects(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.PutProjects(ctx, projects); err != nil {
		return nil, err
	}
	return s.tickets.Projects(ctx)
}

// Tickets returns the cached tickets of a project, fetching them when the
// cache holds none or refresh is set.
func (s *Service) Tickets(ctx context.Context, project string, refresh bool) ([]models.Ticket, error) {
	if !refresh {
		cached, err := s.tickets.Tickets(ctx, project)
		if err != nil {
			return nil, err
		}
		if len(cached) > 0 {
			return cached, nil
		}
	}

	tickets, err := s.client.SearchTickets(ctx, project)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.PutTickets(ctx, tickets); err != nil {
		return nil, err
	}
	return s.tickets.Tickets(ctx, project)
}

// Ticket returns a ticket from the cache, fetching and caching it when it is
// not there yet.
func (s *Service) Ticket(ctx context.Context, key string) (models.Ticket, error) {
	t, err := s.tickets.Ticket(ctx, key)
	if err == nil || !errors.Is(err, store.ErrNotFound) {
		return t, err
	}
	return s.refreshTicket(ctx, key)
}

// Comments returns the comments of a ticket cache-aside.
func (s *Service) Comments(ctx context.Context, key string) (models.CommentSet, error) {
	if _, err := s.Ticket(ctx, key); err != nil {
		return models.CommentSet{}, err
	}
	return s.tickets.Comments(ctx, key)
}

// Transitions returns the transitions available on a ticket. They are never
// cached.
func (s *Service) Transitions(ctx context.Context, key string) ([]models.Transition, error) {
	return s.client.Transitions(ctx, key)
}

// Submit executes a transition and brings the cached ticket up to date.
func (s *Service) Submit(ctx context.Context, key string, sub transition.Submission) (models.Ticket, error) {
	if err := s.client.DoTransition(ctx, key, sub.Request()); err != nil {
		return models.Ticket{}, err
	}

	if sub.Comment != "" {
		if err := s.tickets.InvalidateComments(ctx, key); err != nil {
			logging.Warn("failed to invalidate comments", "key", key, "error", err)
		}
	}

	t, err := s.refreshTicket(ctx, key)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("transition %s applied but refresh failed: %w", sub.TransitionName, err)
	}
	return t, nil
}

// AddComment posts a comment and drops the cached comments of the ticket.
func (s *Service) AddComment(ctx context.Context, key, body string) error {
	if err := s.client.AddComment(ctx, key, body); err != nil {
		return err
	}
	return s.tickets.InvalidateComments(ctx, key)
}

// ClearCache removes every cached record.
func (s *Service) ClearCache(ctx context.Context) error {
	return s.db.Clear(ctx)
}

// BrowseURL returns the web URL of a ticket.
func (s *Service) BrowseURL(key string) string {
	return s.client.BrowseURL(key)
}

func (s *Service) refreshTicket(ctx context.Context, key string) (models.Ticket, error) {
	fetched, err := s.client.Ticket(ctx, key)
	if err != nil {
		return models.Ticket{}, err
	}
	if err := s.tickets.PutTickets(ctx, []models.Ticket{fetched}); err != nil {
		return models.Ticket{}, err
	}
	return s.tickets.Ticket(ctx, key)
}
