// Package github fetches skill content from GitHub repositories: directory
// listings, SKILL.md files, and repository metadata for validation.
package github

import (
	"context"

	gh "github.com/google/go-github/v57/github"
	"github.com/schwepps/skills-store/pkg/logger"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client with skill-fetching helpers.
type Client struct {
	client *gh.Client
}

// NewClient creates a new GitHub client. An empty token falls back to
// unauthenticated access with restricted rate limits.
func NewClient(ctx context.Context, token string) *Client {
	log := logger.G(ctx)

	if token == "" {
		log.Warn("No GitHub token provided - API rate limits will be restricted")
		return &Client{
			client: gh.NewClient(nil),
		}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	log.Debug("GitHub client initialized with authentication")
	return &Client{
		client: gh.NewClient(tc),
	}
}

// GetClient returns the underlying GitHub client.
func (c *Client) GetClient() *gh.Client {
	return c.client
}
