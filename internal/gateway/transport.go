// Package gateway is the single point of outbound HTTP dispatch.
//
// Every request passes through Transport, which stamps the session's bearer
// credential on the way out and tears the session down when the server
// answers 401 or 403, whichever caller issued the request.
package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"ptask/internal/session"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Transport is an http.RoundTripper decorator.
type Transport struct {
	// Base performs the actual round trip. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Store supplies the credential and is cleared on teardown.
	Store session.Store

	// OnTeardown, if set, runs after the store is cleared by a 401/403.
	// It may be called from any goroutine.
	OnTeardown func()

	// UserAgent is sent on every request when non-empty.
	UserAgent string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if tok, ok := t.Store.Get(); ok {
		(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}).SetAuthHeader(out)
	}
	reqID := uuid.NewString()
	out.Header.Set(RequestIDHeader, reqID)
	if t.UserAgent != "" {
		out.Header.Set("User-Agent", t.UserAgent)
	}

	log := t.logger().With("method", out.Method, "path", out.URL.Path, "request_id", reqID)
	start := time.Now()

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		log.Debug("request failed", "err", err, "elapsed", time.Since(start))
		return nil, err
	}
	log.Debug("request done", "status", resp.StatusCode, "elapsed", time.Since(start))

	if IsAuthFailure(resp.StatusCode) {
		t.teardown(log, resp.StatusCode)
	}
	return resp, nil
}

// IsAuthFailure reports whether status means the credential was rejected.
func IsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func (t *Transport) teardown(log *slog.Logger, status int) {
	if err := t.Store.Clear(); err != nil {
		log.Warn("failed to clear session", "err", err)
	}
	log.Info("session torn down", "status", status)
	if t.OnTeardown != nil {
		t.OnTeardown()
	}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}
