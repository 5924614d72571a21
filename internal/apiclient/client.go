package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"swizzle-client/internal/session"
	"swizzle-client/internal/util"

	"go.uber.org/zap"
)

// Client talks to the Swizzle ordering API. It owns nothing but transport
// concerns: bearer attach, error taxonomy mapping, tracing and metrics.
// All business reconciliation lives with the callers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
	logger     *zap.Logger
}

// New creates an API client rooted at baseURL (e.g. "https://host/api").
func New(baseURL string, timeout time.Duration, sess *session.Store) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
		logger:     util.GetLogger(),
	}
}

// Session exposes the session store backing this client.
func (c *Client) Session() *session.Store {
	return c.session
}

type requestOptions struct {
	bearerOverride string
	skipAuth       bool
	noTeardown     bool
	idempotencyKey string
}

type requestOption func(*requestOptions)

// withBearer sends a specific token instead of the session token. Used by
// the MFA verify/confirm steps, which authenticate with the challenge token.
func withBearer(token string) requestOption {
	return func(o *requestOptions) { o.bearerOverride = token }
}

// withoutAuth sends no Authorization header at all.
func withoutAuth() requestOption {
	return func(o *requestOptions) { o.skipAuth = true }
}

// withoutTeardown keeps a 401 from clearing the session. Login and MFA
// endpoints use this so a wrong password cannot log anyone out.
func withoutTeardown() requestOption {
	return func(o *requestOptions) { o.noTeardown = true }
}

// withIdempotencyKey attaches an Idempotency-Key header so a retried
// request cannot create a second order or a second charge.
func withIdempotencyKey(key string) requestOption {
	return func(o *requestOptions) { o.idempotencyKey = key }
}

// do runs one request against the API and decodes the JSON response into
// out when out is non-nil. Non-2xx responses come back as taxonomy errors.
func (c *Client) do(ctx context.Context, operation, method, path string, query url.Values, body, out any, opts ...requestOption) error {
	ctx, span := util.StartSpan(ctx, "api."+operation)
	defer span.End()

	options := requestOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", operation, err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if !options.skipAuth {
		token := options.bearerOverride
		if token == "" {
			token = c.session.Token()
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if options.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", options.idempotencyKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(operation, "transport_error", start)
		return &NetworkError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	c.observe(operation, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		taxErr := decodeError(operation, resp)
		if authErr, ok := taxErr.(*AuthError); ok && !options.noTeardown {
			c.logger.Warn("Session rejected, tearing down",
				zap.String("operation", operation))
			c.session.Clear()
			return authErr
		}
		return taxErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}

	return nil
}

func (c *Client) observe(operation, status string, start time.Time) {
	elapsed := time.Since(start).Seconds()
	util.APIRequestDuration.WithLabelValues(operation, status).Observe(elapsed)
	util.APIRequestsTotal.WithLabelValues(operation, status).Inc()
}
