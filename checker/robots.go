package checker

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// robotsMaxBytes bounds how much of a robots.txt body is read.
const robotsMaxBytes = 512 << 10

// RobotsChecker fetches robots.txt once per host and answers whether a
// link may be probed. Rules live for the lifetime of the checker.
type RobotsChecker struct {
	client *http.Client
	cache  sync.Map // host -> *robotstxt.RobotsData, nil means allow-all
}

// NewRobotsChecker creates a RobotsChecker that fetches with client.
func NewRobotsChecker(client *http.Client) *RobotsChecker {
	return &RobotsChecker{client: client}
}

// Allowed reports whether rawURL may be fetched by userAgent.
// Any failure to obtain rules allows the URL; the error is still returned
// so the caller can log it.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL, userAgent string) (bool, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}

	host := parsedURL.Host
	if host == "" {
		return true, nil
	}

	if cached, ok := r.cache.Load(host); ok {
		return allowedBy(cached.(*robotstxt.RobotsData), parsedURL, userAgent), nil
	}

	robots, err := r.fetch(ctx, parsedURL.Scheme, host)
	r.cache.Store(host, robots)
	if err != nil {
		return true, err
	}
	return allowedBy(robots, parsedURL, userAgent), nil
}

func (r *RobotsChecker) fetch(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for host %s: %w", host, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for host %s: %w", host, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Missing rules and server errors both allow everything.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read robots.txt body for host %s: %w", host, err)
	}

	robots, err := robotstxt.FromStatusAndBytes(resp.StatusCode, body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for host %s: %w", host, err)
	}
	return robots, nil
}

func allowedBy(robots *robotstxt.RobotsData, u *url.URL, userAgent string) bool {
	if robots == nil {
		return true
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, userAgent)
}
