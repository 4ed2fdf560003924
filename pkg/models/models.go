// Package models defines data structures shared across the application.
package models

import (
	"errors"
	"fmt"
)

// ErrLinkIntegrity is returned when an issue link does not have exactly one
// of its inward/outward slots populated.
var ErrLinkIntegrity = errors.New("issue link must reference exactly one issue")

// Project is a Jira project as returned by the project search endpoint.
type Project struct {
	// Key is the project key (e.g., "PROJ")
	Key string `json:"key"`

	// Name is the human readable project name
	Name string `json:"name,omitempty"`
}

// Named is a Jira entity that is displayed by its name (status, priority).
type Named struct {
	Name string `json:"name"`
}

// IssueType is the Jira issue type of a ticket.
type IssueType struct {
	Name    string `json:"name"`
	Subtask bool   `json:"subtask,omitempty"`
}

// User is the subset of a Jira user that the client displays.
type User struct {
	DisplayName string `json:"displayName"`
	Active      bool   `json:"active,omitempty"`
}

// Component is a project component attached to a ticket.
type Component struct {
	Name string `json:"name"`
}

// ProjectRef is the project reference embedded in ticket fields.
type ProjectRef struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// LinkFields are the fields carried by a partial ticket view (parent or
// linked issue).
type LinkFields struct {
	Summary   string    `json:"summary"`
	Status    Named     `json:"status"`
	Priority  *Named    `json:"priority,omitempty"`
	IssueType IssueType `json:"issuetype"`
}

// TicketRef is a partial ticket view used for parents and linked issues.
type TicketRef struct {
	Key    string     `json:"key"`
	Fields LinkFields `json:"fields"`
}

// LinkType describes a link relationship with separate labels per direction.
type LinkType struct {
	Name    string `json:"name,omitempty"`
	Inward  string `json:"inward"`
	Outward string `json:"outward"`
}

// IssueLink is a directed relationship between the owning ticket and one
// other ticket.
type IssueLink struct {
	ID           string     `json:"id,omitempty"`
	Type         LinkType   `json:"type"`
	InwardIssue  *TicketRef `json:"inwardIssue,omitempty"`
	OutwardIssue *TicketRef `json:"outwardIssue,omitempty"`
}

// Resolve returns the label describing the relationship from the owning
// ticket's point of view and the linked ticket. A link with both or neither
// directional slot populated is rejected.
func (l IssueLink) Resolve() (string, *TicketRef, error) {
	switch {
	case l.OutwardIssue != nil && l.InwardIssue == nil:
		return l.Type.Outward, l.OutwardIssue, nil
	case l.InwardIssue != nil && l.OutwardIssue == nil:
		return l.Type.Inward, l.InwardIssue, nil
	case l.InwardIssue != nil && l.OutwardIssue != nil:
		return "", nil, fmt.Errorf("link %s: both directions set: %w", l.ID, ErrLinkIntegrity)
	default:
		return "", nil, fmt.Errorf("link %s: no direction set: %w", l.ID, ErrLinkIntegrity)
	}
}

// Comment is a single ticket comment.
type Comment struct {
	// ID is the Jira comment id
	ID string `json:"id,omitempty"`

	// Author is the user who wrote the comment
	Author User `json:"author"`

	// Created and Updated are the raw Jira timestamps
	Created string `json:"created"`
	Updated string `json:"updated,omitempty"`

	// RenderedBody is the HTML rendering requested with expand=renderedBody
	RenderedBody string `json:"renderedBody,omitempty"`

	// UpdateAuthor is the user who last edited the comment
	UpdateAuthor *User `json:"updateAuthor,omitempty"`
}

// CommentSet is the complete comment collection of a ticket.
type CommentSet struct {
	Comments   []Comment `json:"comments"`
	StartAt    int       `json:"startAt,omitempty"`
	MaxResults int       `json:"maxResults,omitempty"`
	Total      int       `json:"total,omitempty"`
}

// Fields holds the ticket fields the client reads and caches.
type Fields struct {
	Summary    string      `json:"summary"`
	Status     Named       `json:"status"`
	Priority   *Named      `json:"priority,omitempty"`
	IssueType  IssueType   `json:"issuetype"`
	Assignee   *User       `json:"assignee,omitempty"`
	Reporter   *User       `json:"reporter,omitempty"`
	Creator    *User       `json:"creator,omitempty"`
	Labels     []string    `json:"labels"`
	Components []Component `json:"components"`
	Project    ProjectRef  `json:"project"`
	Parent     *TicketRef  `json:"parent,omitempty"`
	IssueLinks []IssueLink `json:"issuelinks"`

	// Comments is nil until the comment collection has been fetched once.
	// It is never partially populated.
	Comments *CommentSet `json:"comments,omitempty"`
}

// RenderedFields holds the HTML renderings requested with expand=renderedFields.
type RenderedFields struct {
	Description string `json:"description,omitempty"`
}

// Ticket is a Jira issue.
type Ticket struct {
	// Key is the full Jira ticket identifier (e.g., "ABC-123")
	Key string `json:"key"`

	// Fields are the cached ticket fields
	Fields Fields `json:"fields"`

	// RenderedFields are the HTML renderings of selected fields
	RenderedFields RenderedFields `json:"renderedFields"`
}

// Label returns the entity name, or an empty string for an unset entity.
func (n *Named) Label() string {
	if n == nil {
		return ""
	}
	return n.Name
}

// Label returns the user's display name, or an empty string for an unset user.
func (u *User) Label() string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}
