package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avoronin/jotter/internal/client/session"
	"github.com/avoronin/jotter/internal/logging"
)

// maxAuthRetries bounds how many times a call is replayed after a renewal.
// A second authorization failure after a successful renewal is terminal.
const maxAuthRetries = 1

// Refresher renews the credential pair; concurrent callers share one
// outcome. Satisfied by session.Coordinator.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Gateway wraps every outbound call to the journal service: it injects the
// access token, intercepts authorization failures and resolves them through
// the refresh coordinator, and normalizes error shapes. All endpoint methods
// live in auth.go and journal.go.
type Gateway struct {
	baseURL   string
	http      *http.Client
	store     *session.Store
	refresher Refresher
	log       logging.Logger
}

func NewGateway(baseURL string, store *session.Store, log logging.Logger, timeout time.Duration) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log.With("component", "gateway"),
	}
}

// WithRefresher binds the refresh coordinator. Wired after construction
// because the coordinator's renewal call goes through this same gateway.
func (g *Gateway) WithRefresher(r Refresher) *Gateway {
	g.refresher = r
	return g
}

func (g *Gateway) send(ctx context.Context, method, path string, query url.Values, body []byte, token string) (*http.Response, error) {
	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return g.http.Do(req)
}

// do performs an unauthenticated call (login, register, refresh).
func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}

	resp, err := g.send(ctx, method, path, query, body, "")
	if err != nil {
		return mapTransportError(err)
	}
	return decodeResponse(resp, out)
}

// doAuthorized performs a call with the current access token attached.
//
// On a 401 the call is resolved through the refresh coordinator and replayed
// at most maxAuthRetries times; the bound is an explicit loop, never
// recursion. Whenever ErrSessionExpired is returned the credential store has
// been cleared.
func (g *Gateway) doAuthorized(ctx context.Context, method, path string, query url.Values, in, out any) error {
	body, err := marshalBody(in)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		resp, err := g.send(ctx, method, path, query, body, g.store.AccessToken())
		if err != nil {
			return mapTransportError(err)
		}

		if resp.StatusCode != http.StatusUnauthorized {
			return decodeResponse(resp, out)
		}
		drain(resp)

		if attempt >= maxAuthRetries {
			g.log.Warn(ctx, "call rejected again after renewal", "method", method, "path", path)
			g.store.Clear(ctx)
			return ErrSessionExpired
		}

		if g.store.RefreshToken() == "" || g.refresher == nil {
			g.store.Clear(ctx)
			return ErrSessionExpired
		}

		if err := g.refresher.Refresh(ctx); err != nil {
			// the coordinator has already cleared the store
			g.log.Warn(ctx, "renewal failed", "method", method, "path", path, "error", err)
			return ErrSessionExpired
		}

		g.log.Debug(ctx, "credentials renewed, replaying call", "method", method, "path", path)
	}
}

func marshalBody(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return body, nil
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
		}
		return nil
	}

	return decodeError(resp)
}

// decodeError normalizes a non-2xx response into *Error. The payload is best
// effort: an unparseable body still yields a usable status and message.
func decodeError(resp *http.Response) error {
	var payload struct {
		Message     string            `json:"message"`
		FieldErrors map[string]string `json:"fieldErrors"`
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	_ = json.Unmarshal(data, &payload)

	if payload.Message == "" {
		payload.Message = http.StatusText(resp.StatusCode)
	}

	return &Error{
		Status:      resp.StatusCode,
		Message:     payload.Message,
		FieldErrors: payload.FieldErrors,
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
