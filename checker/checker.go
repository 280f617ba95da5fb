// Package checker finds links in files and decides whether each one is
// reachable. It provides the link extractor, the run-scoped alive cache,
// the per-file Checker, and the Files orchestrator that drives a whole run.
package checker

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/lukemcguire/deadlinks/logger"
	"github.com/lukemcguire/deadlinks/result"
)

const (
	// ReasonTransport is the Warn reason for a request that could not be completed.
	ReasonTransport = "Too many redirections"
	// ReasonRobots is the Warn reason for a link disallowed by robots.txt.
	ReasonRobots = "Disallowed by robots.txt"
)

// drainMaxBytes bounds how much of a probe response body is discarded so the
// connection can return to the pool.
const drainMaxBytes = 64 << 10

// Options configures a Checker. Zero values select the defaults.
type Options struct {
	Client         *http.Client  // HTTP client used for probes (default: a new client)
	RequestTimeout time.Duration // Per-probe timeout, 0 disables it
	RateLimit      float64       // Max probes per second, 0 means unlimited
	UserAgent      string        // User-Agent header sent with each probe
	RespectRobots  bool          // Skip links disallowed by robots.txt
	Logger         logger.Logger
}

// Checker classifies the links of a file.
type Checker struct {
	client    *http.Client
	limiter   *rate.Limiter
	robots    *RobotsChecker
	userAgent string
	timeout   time.Duration
	log       logger.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), int(math.Ceil(opts.RateLimit)))
	}

	c := &Checker{
		client:    client,
		limiter:   limiter,
		userAgent: opts.UserAgent,
		timeout:   opts.RequestTimeout,
		log:       log,
	}
	if opts.RespectRobots {
		c.robots = NewRobotsChecker(client)
	}
	return c
}

// Check extracts the links of the file at path and classifies each, in order:
// links in ignore are Ignored, links in cache are Cached, everything else is
// probed. Alive links are added to cache. A file that cannot be read yields
// empty Results.
func (c *Checker) Check(ctx context.Context, path string, ignore []result.Link, cache *Cache) *result.Results {
	res := result.New()

	links, err := ExtractFile(path)
	if err != nil {
		c.log.Debug("file skipped", logger.String("file", path), logger.Error(err))
		return res
	}

	for _, link := range links {
		if ctx.Err() != nil {
			break
		}
		res.Insert(link, c.classify(ctx, link, ignore, cache))
	}
	return res
}

func (c *Checker) classify(ctx context.Context, link result.Link, ignore []result.Link, cache *Cache) result.Status {
	if slices.Contains(ignore, link) {
		return result.Ignored()
	}
	if cache.Contains(link) {
		return result.Cached()
	}

	if c.robots != nil {
		robotsCtx, cancel := c.withTimeout(ctx)
		allowed, err := c.robots.Allowed(robotsCtx, link.String(), c.userAgent)
		cancel()
		if err != nil {
			c.log.Debug("robots.txt unavailable", logger.String("url", link.String()), logger.Error(err))
		}
		if !allowed {
			return result.Warn(ReasonRobots).WithCategory(result.CategoryRobots)
		}
	}

	status := c.Probe(ctx, link)
	if status.Kind() == result.KindAlive {
		cache.Insert(link)
	}
	return status
}

// Probe issues a single GET for link and classifies the response:
// 2xx is Alive, any other status is Dead with the status text as reason,
// and a request that cannot be completed is a Warn.
func (c *Checker) Probe(ctx context.Context, link result.Link) result.Status {
	if err := c.limiter.Wait(ctx); err != nil {
		return c.transportFailure(link, fmt.Errorf("rate limiter wait: %w", err))
	}

	reqCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, link.String(), nil)
	if err != nil {
		return c.transportFailure(link, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return c.transportFailure(link, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainMaxBytes))
		_ = resp.Body.Close()
	}()

	c.log.Debug("probed",
		logger.String("url", link.String()),
		logger.Int("status", resp.StatusCode),
		logger.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return result.Alive()
	}
	return result.Dead(statusText(resp)).WithCategory(result.ClassifyError(nil, resp.StatusCode))
}

func (c *Checker) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *Checker) transportFailure(link result.Link, err error) result.Status {
	category := result.ClassifyError(err, 0)
	c.log.Debug("probe failed",
		logger.String("url", link.String()),
		logger.String("error_type", string(category)),
		logger.Error(err),
	)
	return result.Warn(ReasonTransport).WithCategory(category)
}

// statusText renders a response status as "<code> <canonical reason>".
func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return fmt.Sprintf("%d %s", resp.StatusCode, text)
	}
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d", resp.StatusCode)
}
