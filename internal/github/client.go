// Package github pulls markdown documents out of GitHub repositories for
// ingestion.
package github

import (
	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
)

// Client wraps the GitHub API client with rate limit handling.
type Client struct {
	*github.Client
}

// NewClient builds a GitHub client that waits out primary and secondary
// rate limits instead of failing. An empty token gives the anonymous quota
// of 60 requests per hour, which is enough for small repositories.
func NewClient(token string) (*Client, error) {
	limiter, err := github_ratelimit.NewRateLimitWaiterClient(nil)
	if err != nil {
		return nil, err
	}

	gh := github.NewClient(limiter)
	if token != "" {
		gh = gh.WithAuthToken(token)
	}
	return &Client{Client: gh}, nil
}
