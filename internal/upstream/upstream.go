// Package upstream holds the HTTP plumbing shared by the third-party API clients.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/anonto42/kickoff/backend/internal/models"
)

// maxBodySize caps how much of an upstream response is read.
const maxBodySize = 8 << 20

// Recorder observes upstream calls.
type Recorder interface {
	RecordUpstreamLatency(provider string, duration time.Duration)
	RecordUpstreamError(provider, reason string)
}

// Client performs bounded JSON GETs against one provider.
type Client struct {
	provider   string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	recorder   Recorder
}

// NewClient creates a Client. httpClient defaults to http.DefaultClient and
// recorder may be nil.
func NewClient(provider string, httpClient *http.Client, timeout time.Duration, logger *slog.Logger, recorder Recorder) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		provider:   provider,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
		recorder:   recorder,
	}
}

// GetJSON fetches u and decodes a successful body into dst. It returns the
// response status. 4xx responses other than 429 are returned without decoding
// and without error so callers can treat them as "no data". Timeouts map to
// models.ErrUpstreamTimeout and 429 to models.ErrUpstreamRateLimited.
//
// Only u's path is ever logged; query strings may carry API keys.
func (c *Client) GetJSON(ctx context.Context, u *url.URL, header http.Header, dst any) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build %s request: %w", c.provider, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.recorder != nil {
		c.recorder.RecordUpstreamLatency(c.provider, time.Since(start))
	}
	if err != nil {
		return 0, c.fail(ctx, u, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return resp.StatusCode, c.fail(ctx, u, resp.StatusCode, models.ErrUpstreamRateLimited)
	case resp.StatusCode >= http.StatusInternalServerError:
		return resp.StatusCode, c.fail(ctx, u, resp.StatusCode, fmt.Errorf("%s returned status %d", c.provider, resp.StatusCode))
	case resp.StatusCode >= http.StatusBadRequest:
		c.logger.WarnContext(ctx, "upstream rejected request",
			slog.String("provider", c.provider),
			slog.String("path", u.Path),
			slog.Int("http_status", resp.StatusCode),
		)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(dst); err != nil {
		return resp.StatusCode, c.fail(ctx, u, resp.StatusCode, fmt.Errorf("failed to decode %s response: %w", c.provider, err))
	}
	return resp.StatusCode, nil
}

func (c *Client) fail(ctx context.Context, u *url.URL, status int, err error) error {
	err = Classify(err)

	reason := "error"
	switch models.KindOf(err) {
	case models.KindUpstreamTimeout:
		reason = "timeout"
	case models.KindUpstreamRateLimited:
		reason = "rate_limited"
	}
	if c.recorder != nil {
		c.recorder.RecordUpstreamError(c.provider, reason)
	}

	c.logger.ErrorContext(ctx, "upstream call failed",
		slog.String("provider", c.provider),
		slog.String("path", u.Path),
		slog.Int("http_status", status),
		slog.String("reason", reason),
		slog.Any("error", err),
	)
	return err
}

// Classify maps transport timeouts onto models.ErrUpstreamTimeout. Other
// errors keep their kind with any request URL removed.
func Classify(err error) error {
	if err == nil || models.KindOf(err) != models.KindInternal {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", models.ErrUpstreamTimeout, scrub(err))
	}
	return scrub(err)
}

// scrub drops the request URL from *url.Error so query parameters are not
// carried into logs or wrapped errors.
func scrub(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
