// Package backend is the client's transport layer: an authenticated request
// pipeline plus typed gateways over the inventory service's REST endpoints.
//
// The pipeline attaches the current access token to every call, repairs an
// expired token with exactly one transparent refresh-and-retry, and cascades
// an unrecoverable refresh failure into a forced logout. It applies no other
// retry policy: network failures surface immediately.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/core/ports"
	"github.com/inventorypro/client-go/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the backend endpoint all paths are resolved against.
	BaseURL string
	// Timeout bounds each individual HTTP exchange. Ignored when HTTPClient
	// is set.
	Timeout time.Duration
	// HTTPClient overrides the underlying transport. Intended for tests.
	HTTPClient *http.Client
}

// Client is the authenticated request pipeline. All outbound calls to the
// backend flow through Do.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions ports.SessionStore
	notifier ports.Notifier
	log      zerolog.Logger

	// refreshGroup coalesces concurrent refresh attempts into one in-flight
	// exchange; every caller that hit a 401 while it runs shares its result.
	refreshGroup singleflight.Group
}

func NewClient(opts Options, sessions ports.SessionStore, notifier ports.Notifier, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     httpClient,
		sessions: sessions,
		notifier: notifier,
		log:      log,
	}
}

type callSettings struct {
	inline []error
	silent bool
}

// CallOption adjusts how a single call's errors are surfaced.
type CallOption func(*callSettings)

// HandleInline suppresses the automatic user notification for the given
// sentinel errors; the caller presents them itself (for example invalid
// credentials next to the login form).
func HandleInline(errs ...error) CallOption {
	return func(s *callSettings) { s.inline = append(s.inline, errs...) }
}

// Silent suppresses all automatic notifications for this call. Used for
// best-effort calls whose failure the user never needs to see.
func Silent() CallOption {
	return func(s *callSettings) { s.silent = true }
}

// Do performs one authenticated exchange. body (when non-nil) is marshalled
// as JSON; out (when non-nil) receives the decoded response body.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...CallOption) error {
	var settings callSettings
	for _, o := range opts {
		o(&settings)
	}

	start := time.Now()
	err := c.do(ctx, method, path, body, out, &settings)
	outcome := outcomeFor(err)
	metrics.RequestsTotal.WithLabelValues(method, outcome).Inc()
	metrics.RequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, settings *callSettings) error {
	creds := c.sessions.Current().Credentials

	status, msg, err := c.send(ctx, method, path, body, out, creds.AccessToken)
	if err != nil {
		c.notify(settings, err)
		return err
	}
	if status < http.StatusBadRequest {
		return nil
	}

	// A 401 on a call that carried a token means the access token expired.
	// A 401 on an unauthenticated call (login) is a plain pass-through.
	if status == http.StatusUnauthorized && creds.AccessToken != "" {
		if creds.RefreshToken == "" {
			return c.expireSession(ctx)
		}
		if refreshErr := c.refreshAccessToken(ctx); refreshErr != nil {
			c.log.Warn().Err(refreshErr).Str("path", path).Msg("token refresh failed")
			return c.expireSession(ctx)
		}

		token := c.sessions.Current().Credentials.AccessToken
		status, msg, err = c.send(ctx, method, path, body, out, token)
		if err != nil {
			c.notify(settings, err)
			return err
		}
		if status < http.StatusBadRequest {
			return nil
		}
		if status == http.StatusUnauthorized {
			// Already retried once; never loop.
			return c.expireSession(ctx)
		}
	}

	mapped := statusError(method, path, status, msg)
	c.notify(settings, mapped)
	return mapped
}

// send performs a single HTTP exchange. It returns the status code and, for
// error statuses, the backend's error message. A non-nil error means no
// usable response was received.
func (c *Client) send(ctx context.Context, method, path string, body, out any, token string) (int, string, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, "", fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, decodeErrorMessage(resp.Body), nil
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, "", nil
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// refreshAccessToken exchanges the refresh token for a new access token and
// stores it. Concurrent callers share one in-flight exchange.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := c.sessions.Current().Credentials.RefreshToken
		if refreshToken == "" {
			return nil, domain.ErrSessionExpired
		}

		var res refreshResponse
		status, msg, err := c.send(ctx, http.MethodPost, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &res, "")
		if err == nil && status >= http.StatusBadRequest {
			err = statusError(http.MethodPost, "/auth/refresh", status, msg)
		}
		if err == nil && res.AccessToken == "" {
			err = fmt.Errorf("refresh response missing access token")
		}
		if err != nil {
			metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
			return nil, err
		}

		if err := c.sessions.UpdateTokens(ctx, res.AccessToken, ""); err != nil {
			metrics.TokenRefreshTotal.WithLabelValues("failure").Inc()
			return nil, err
		}
		metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
		c.log.Debug().Msg("access token refreshed")
		return nil, nil
	})
	return err
}

// expireSession runs the logout cascade: clear the session, tell the user to
// re-authenticate, and surface a terminal session-expired error.
func (c *Client) expireSession(ctx context.Context) error {
	if c.sessions.Current().Authenticated() {
		if err := c.sessions.Logout(ctx); err != nil {
			c.log.Warn().Err(err).Msg("failed to clear session during logout cascade")
		}
		metrics.ForcedLogoutsTotal.Inc()
		c.log.Warn().Msg("session expired; credentials cleared")
		c.notifier.SessionExpired()
	}
	return domain.ErrSessionExpired
}

func (c *Client) notify(settings *callSettings, err error) {
	if settings.silent {
		return
	}
	for _, inline := range settings.inline {
		if errors.Is(err, inline) {
			return
		}
	}
	if errors.Is(err, domain.ErrBackendUnreachable) {
		c.notifier.Notify(ports.SeverityError, "Cannot reach the server. Check that the backend is running.")
		return
	}
	c.notifier.Notify(ports.SeverityError, err.Error())
}
