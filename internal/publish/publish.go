// Package publish uploads report tables to GitHub as gists so they can be
// shared with people who do not have access to the scouting store.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
	"github.com/zulandar/pitwall/internal/export"
	"github.com/zulandar/pitwall/internal/report"
	"golang.org/x/oauth2"
)

// Publisher creates gists through the GitHub API.
type Publisher struct {
	client *github.Client
}

// New returns a Publisher authenticated with token. httpClient, when non-nil,
// is used as the base transport.
func New(ctx context.Context, token string, httpClient *http.Client) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("publish: github token is required")
	}
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Publisher{client: github.NewClient(oauth2.NewClient(ctx, ts))}, nil
}

// NewWithClient wraps an already configured GitHub client.
func NewWithClient(client *github.Client) *Publisher {
	return &Publisher{client: client}
}

// Gist uploads t as a CSV file named <name>.csv in a new secret gist and
// returns the gist's HTML URL.
func (p *Publisher) Gist(ctx context.Context, name string, t *report.Table) (string, error) {
	if t.Empty() {
		return "", fmt.Errorf("publish: report %s has no rows", name)
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, t); err != nil {
		return "", fmt.Errorf("publish: %w", err)
	}

	filename := name + ".csv"
	gist := &github.Gist{
		Description: github.Ptr(fmt.Sprintf("Pitwall %s report (%d rows)", name, len(t.Rows))),
		Public:      github.Ptr(false),
		Files: map[github.GistFilename]github.GistFile{
			github.GistFilename(filename): {
				Filename: github.Ptr(filename),
				Content:  github.Ptr(buf.String()),
			},
		},
	}
	created, _, err := p.client.Gists.Create(ctx, gist)
	if err != nil {
		return "", fmt.Errorf("publish: create gist %s: %w", filename, err)
	}
	return created.GetHTMLURL(), nil
}
