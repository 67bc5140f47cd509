// Package api is the single outbound HTTP boundary of the Showcase client.
// It owns request construction (bearer credentials, request IDs, cache
// busting), response envelope handling, and the normalization of transport
// and server failures into the typed errors the rest of the client consumes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TriAzz/showcase/internal/config"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/logging"
)

// CredentialSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type CredentialSource interface {
	Token() string
}

// Client talks to the Showcase backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	log     *logging.Logger

	// OnUnauthorized fires when a request comes back 401, except for the
	// login/register/setup endpoints and requests that opt out. Typically
	// wired to the session's sign-out path.
	OnUnauthorized func()
}

// NewClient builds a Client from the API section of the configuration.
func NewClient(cfg config.APIConfig, log *logging.Logger) *Client {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		log:     log.WithComponent("api"),
	}
}

// SetCredentials wires the token source used for the Authorization header.
func (c *Client) SetCredentials(src CredentialSource) {
	c.creds = src
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	query        url.Values
	cacheBust    bool
	noAuthHook   bool
	notFoundType string
	notFoundID   string
}

// RequestOption adjusts a single request.
type RequestOption func(*requestOptions)

// WithQuery adds query parameters to the request URL.
func WithQuery(values url.Values) RequestOption {
	return func(o *requestOptions) { o.query = values }
}

// WithCacheBust appends a `_t` timestamp parameter so intermediate caches
// cannot serve a stale copy.
func WithCacheBust() RequestOption {
	return func(o *requestOptions) { o.cacheBust = true }
}

// WithoutUnauthorizedHook suppresses the OnUnauthorized callback for this
// request. Callers that run their own 401 retry loop use this so a transient
// rejection does not tear down the session mid-retry.
func WithoutUnauthorizedHook() RequestOption {
	return func(o *requestOptions) { o.noAuthHook = true }
}

// WithNotFound maps a 404 response to a NotFoundError for the named resource
// instead of a generic APIError.
func WithNotFound(resourceType, id string) RequestOption {
	return func(o *requestOptions) {
		o.notFoundType = resourceType
		o.notFoundID = id
	}
}

// authExemptPaths never trigger the OnUnauthorized hook: a 401 here means
// bad credentials on sign-in, not an expired session.
var authExemptPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
	"/users/setup":   true,
}

// do executes one request against the backend. body is JSON-encoded when
// non-nil; the response payload is decoded into out when non-nil, with both
// bare payloads and `{"data": ...}` envelopes accepted.
func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	reqURL, err := c.buildURL(path, &o)
	if err != nil {
		return errs.NewAPIError("invalid request URL", err).WithEndpoint(path)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.NewAPIError("failed to encode request body", err).WithEndpoint(path)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return errs.NewAPIError("failed to build request", err).WithEndpoint(path)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := c.log.WithRequest(requestID)
	log.Debug("request", "method", method, "path", path)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed", "method", method, "path", path, "error", err)
		if ctx.Err() == context.Canceled {
			return errs.ErrCanceled
		}
		var ue *url.Error
		if ctx.Err() == context.DeadlineExceeded || (stderrors.As(err, &ue) && ue.Timeout()) {
			return errs.NewTimeoutError(method+" "+path, c.http.Timeout).WithCause(err)
		}
		return errs.NewAPIError("request failed", err).WithEndpoint(path)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewAPIError("failed to read response", err).WithEndpoint(path)
	}

	log.Debug("response", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp.StatusCode, path, payload, &o)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := decodePayload(payload, out); err != nil {
		return errs.Wrap(errs.ErrInvalidResponse, fmt.Sprintf("decoding %s response", path))
	}
	return nil
}

func (c *Client) buildURL(path string, o *requestOptions) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, vals := range o.query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	if o.cacheBust {
		q.Set("_t", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// statusError converts a non-2xx response into the client's error taxonomy.
func (c *Client) statusError(status int, path string, payload []byte, o *requestOptions) error {
	message := extractMessage(payload)

	switch {
	case status == http.StatusUnauthorized:
		if message == "" {
			message = "authentication required"
		}
		if c.OnUnauthorized != nil && !o.noAuthHook && !authExemptPaths[path] {
			c.OnUnauthorized()
		}
		return errs.NewAuthError(message, nil).WithEndpoint(path)

	case status == http.StatusNotFound && o.notFoundType != "":
		return errs.NewNotFoundError(o.notFoundType, o.notFoundID)

	default:
		if message == "" {
			message = fmt.Sprintf("server returned %s", http.StatusText(status))
		}
		return errs.NewAPIError(message, nil).WithStatusCode(status).WithEndpoint(path)
	}
}

// extractMessage pulls a human-readable error out of a failure body. The
// backend variants disagree on the field name.
func extractMessage(payload []byte) string {
	var wire struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return ""
	}
	if wire.Message != "" {
		return wire.Message
	}
	return wire.Error
}

// decodePayload decodes a response body into out, unwrapping the
// `{"data": ...}` envelope one backend variant uses. A *json.RawMessage out
// receives the unwrapped payload verbatim.
func decodePayload(payload []byte, out any) error {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && len(envelope.Data) > 0 {
		payload = envelope.Data
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], payload...)
		return nil
	}
	return json.Unmarshal(payload, out)
}
