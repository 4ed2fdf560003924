package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/net/html"

	"github.com/danielolaszy/jtui/pkg/models"
)

// jiraTime is the timestamp layout used by the Jira REST API.
const jiraTime = "2006-01-02T15:04:05.000-0700"

// blockTags end a line of text when they open or close.
var blockTags = map[string]bool{
	"p": true, "br": true, "div": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true,
}

// CommentLines renders a comment set as display lines: a header per comment
// with the author and age relative to now, then its text, then a blank line.
func CommentLines(set models.CommentSet, now time.Time) []string {
	var lines []string
	for _, c := range set.Comments {
		lines = append(lines, fmt.Sprintf("%s, %s", c.Author.DisplayName, commentAge(c.Created, now)))
		for _, l := range HTMLText(c.RenderedBody) {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "")
	}
	return lines
}

func commentAge(created string, now time.Time) string {
	t, err := time.Parse(jiraTime, created)
	if err != nil {
		return created
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// HTMLText extracts the visible text of a rendered Jira field as lines.
// Blank lines are dropped.
func HTMLText(s string) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if line := strings.Join(strings.Fields(cur.String()), " "); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return lines
		case html.TextToken:
			cur.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockTags[string(name)] {
				flush()
			}
		}
	}
}
