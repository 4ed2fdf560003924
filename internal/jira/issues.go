package jira

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/pagination"
	"github.com/danielolaszy/jtui/pkg/models"
)

// ticketFields are the fields requested for every ticket.
const ticketFields = "summary,status,priority,issuetype,assignee,reporter,creator,labels,components,parent,issuelinks,project"

// SearchPage is the envelope returned by the issue search endpoint.
type SearchPage struct {
	StartAt    int             `json:"startAt"`
	MaxResults int             `json:"maxResults"`
	Total      int             `json:"total"`
	Issues     []models.Ticket `json:"issues"`
}

// commentPage is the envelope returned by the comment endpoint.
type commentPage struct {
	StartAt    int              `json:"startAt"`
	MaxResults int              `json:"maxResults"`
	Total      int              `json:"total"`
	Comments   []models.Comment `json:"comments"`
}

// offsetPage adapts a startAt/total envelope into a Page whose NextPage is
// the same request with startAt advanced past the values received.
func offsetPage[T any](rawURL string, startAt, maxResults, total int, values []T) (pagination.Page[T], error) {
	page := pagination.Page[T]{
		MaxResults: maxResults,
		StartAt:    startAt,
		Total:      total,
		Values:     values,
	}

	next := startAt + len(values)
	if len(values) == 0 || next >= total {
		page.IsLast = true
		return page, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return page, fmt.Errorf("failed to parse page url %s: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("startAt", strconv.Itoa(next))
	u.RawQuery = q.Encode()
	page.NextPage = u.String()
	return page, nil
}

// Projects returns every project visible to the user.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	fetch := func(ctx context.Context, pageURL string) (pagination.Page[models.Project], error) {
		return Get[pagination.Page[models.Project]](ctx, c, pageURL)
	}

	first, err := fetch(ctx, fmt.Sprintf("rest/api/3/project/search?maxResults=%d", c.pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	projects, err := pagination.Follow(ctx, first, fetch, c.maxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}

	logging.Info("fetched projects", "count", len(projects))
	return projects, nil
}

// SearchTickets returns every ticket of a project.
func (c *Client) SearchTickets(ctx context.Context, projectKey string) ([]models.Ticket, error) {
	fetch := func(ctx context.Context, pageURL string) (pagination.Page[models.Ticket], error) {
		page, err := Get[SearchPage](ctx, c, pageURL)
		if err != nil {
			return pagination.Page[models.Ticket]{}, err
		}
		return offsetPage(c.absolute(pageURL), page.StartAt, page.MaxResults, page.Total, page.Issues)
	}

	q := url.Values{}
	q.Set("jql", fmt.Sprintf("project = %q ORDER BY key ASC", projectKey))
	q.Set("startAt", "0")
	q.Set("maxResults", strconv.Itoa(c.pageSize))
	q.Set("fields", ticketFields)
	q.Set("expand", "renderedFields")

	first, err := fetch(ctx, "rest/api/3/search?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets of %s: %w", projectKey, err)
	}

	tickets, err := pagination.Follow(ctx, first, fetch, c.maxPages)
	if err != nil {
		return nil, fmt.Errorf("failed to search tickets of %s: %w", projectKey, err)
	}

	logging.Info("fetched tickets", "project", projectKey, "count", len(tickets))
	return tickets, nil
}

// Ticket returns a single ticket without its comments.
func (c *Client) Ticket(ctx context.Context, key string) (models.Ticket, error) {
	q := url.Values{}
	q.Set("fields", ticketFields)
	q.Set("expand", "renderedFields")

	ticket, err := Get[models.Ticket](ctx, c, fmt.Sprintf("rest/api/3/issue/%s?%s", url.PathEscape(key), q.Encode()))
	if err != nil {
		return models.Ticket{}, fmt.Errorf("failed to fetch ticket %s: %w", key, err)
	}
	return ticket, nil
}

// Comments returns the complete comment collection of a ticket.
func (c *Client) Comments(ctx context.Context, key string) (models.CommentSet, error) {
	fetch := func(ctx context.Context, pageURL string) (pagination.Page[models.Comment], error) {
		page, err := Get[commentPage](ctx, c, pageURL)
		if err != nil {
			return pagination.Page[models.Comment]{}, err
		}
		return offsetPage(c.absolute(pageURL), page.StartAt, page.MaxResults, page.Total, page.Comments)
	}

	first, err := fetch(ctx, fmt.Sprintf("rest/api/3/issue/%s/comment?startAt=0&maxResults=%d&expand=renderedBody", url.PathEscape(key), c.pageSize))
	if err != nil {
		return models.CommentSet{}, fmt.Errorf("failed to fetch comments of %s: %w", key, err)
	}

	comments, err := pagination.Follow(ctx, first, fetch, c.maxPages)
	if err != nil {
		return models.CommentSet{}, fmt.Errorf("failed to fetch comments of %s: %w", key, err)
	}

	return models.CommentSet{
		Comments:   comments,
		MaxResults: len(comments),
		Total:      len(comments),
	}, nil
}

// Transitions returns the transitions currently available on a ticket,
// including their screen fields.
func (c *Client) Transitions(ctx context.Context, key string) ([]models.Transition, error) {
	list, err := Get[models.TransitionList](ctx, c, fmt.Sprintf("rest/api/3/issue/%s/transitions?expand=transitions.fields", url.PathEscape(key)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transitions of %s: %w", key, err)
	}
	return list.Transitions, nil
}

// DoTransition executes a transition on a ticket.
func (c *Client) DoTransition(ctx context.Context, key string, payload models.TransitionRequest) error {
	resp, err := c.client.Issue.DoTransitionWithPayloadWithContext(ctx, key, payload)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to transition %s: %w", key, serviceError(c.BrowseURL(key), resp, err))
	}

	logging.Info("transitioned ticket", "key", key, "transition", payload.Transition.ID)
	return nil
}

// AddComment adds a plain text comment to a ticket.
func (c *Client) AddComment(ctx context.Context, key, body string) error {
	_, resp, err := c.client.Issue.AddCommentWithContext(ctx, key, &jira.Comment{Body: body})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to comment on %s: %w", key, serviceError(c.BrowseURL(key), resp, err))
	}

	logging.Info("added comment", "key", key)
	return nil
}

// absolute resolves a request path against the base URL.
func (c *Client) absolute(pathOrURL string) string {
	u, err := url.Parse(pathOrURL)
	if err != nil || u.IsAbs() {
		return pathOrURL
	}
	return c.baseURL + "/" + pathOrURL
}

// serviceError wraps an error from a go-jira service call. The service has
// already consumed the response body and folded it into err, so Body stays
// empty.
func serviceError(target string, resp *jira.Response, err error) error {
	te := &TransportError{URL: target, Err: err}
	if resp != nil && resp.Response != nil {
		te.StatusCode = resp.StatusCode
	}
	return te
}
