package rest

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
	"sync"
	"time"

	"github.com/dabsmanuel/joshua-art-portfolio-sub000/internal/tokens"
	pkgerrors "github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/errors"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/logger"
	"github.com/dabsmanuel/joshua-art-portfolio-sub000/pkg/metrics"
)

const refreshPath = "/auth/refresh"

var (
	errBaseURLRequired = errors.New("api base url is required")
	errTokensRequired  = errors.New("token store is required")
)

// Client is the single point of outbound request configuration. It attaches
// the bearer token to every request, refreshes it once on a 401, and maps
// non-2xx responses into the error taxonomy. All persisted-token access
// during request flow happens here.
type Client struct {
	baseURL          string
	httpc            *http.Client
	tokens           tokens.Store
	logger           *logger.Logger
	metrics          *metrics.ClientMetrics
	onSessionExpired func()

	refreshMu sync.Mutex
}

// Params groups the client dependencies.
type Params struct {
	BaseURL string
	Tokens  tokens.Store
	Logger  *logger.Logger
	Metrics *metrics.ClientMetrics
	Timeout time.Duration
	// HTTPClient overrides the transport, primarily for tests.
	HTTPClient *http.Client
	// OnSessionExpired fires when credentials are cleared because no usable
	// refresh token remained. The CLI uses it to point the user at login.
	OnSessionExpired func()
}

func New(params Params) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(params.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	if params.Tokens == nil {
		return nil, errTokensRequired
	}
	httpc := params.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: params.Timeout}
	}
	return &Client{
		baseURL:          base,
		httpc:            httpc,
		tokens:           params.Tokens,
		logger:           params.Logger,
		metrics:          params.Metrics,
		onSessionExpired: params.OnSessionExpired,
	}, nil
}

// request carries everything needed to build (and rebuild, after a token
// refresh) one outgoing HTTP request.
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

// JSON issues a request with an optional JSON payload and decodes the
// response into out when out is non-nil.
func (c *Client) JSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	req := request{method: method, path: path, query: query}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		req.body = raw
		req.contentType = "application/json"
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// Multipart issues a multipart/form-data request and decodes the response
// into out when out is non-nil.
func (c *Client) Multipart(ctx context.Context, method, path string, form *Form, out any) error {
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return err
	}
	raw, err := c.do(ctx, request{method: method, path: path, body: body, contentType: contentType})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Bytes issues a request and returns the raw response body, used for binary
// downloads such as the CSV export.
func (c *Client) Bytes(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, request{method: method, path: path, query: query})
}

func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	status, header, body, err := c.send(ctx, req, c.tokens.Access())
	if err != nil {
		return nil, pkgerrors.Normalize(err)
	}

	if status == http.StatusUnauthorized && req.path != refreshPath {
		retried, handled := c.refreshAndRetry(ctx, req)
		if handled {
			return retried.body, retried.err
		}
		// No usable refresh token: the session is over.
		c.expireSession(ctx)
	}

	if status < 200 || status > 299 {
		return nil, pkgerrors.FromResponse(status, header, body)
	}
	return body, nil
}

type retryResult struct {
	body []byte
	err  error
}

// refreshAndRetry exchanges the refresh token and replays the original
// request exactly once. handled is false when no refresh token was
// available or the exchange failed, in which case the caller surfaces the
// original 401.
func (c *Client) refreshAndRetry(ctx context.Context, req request) (retryResult, bool) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refresh := c.tokens.Refresh()
	if refresh == "" {
		return retryResult{}, false
	}

	c.metrics.IncTokenRefresh()
	c.log(ctx, "token refresh", map[string]any{"path": req.path})

	if err := c.exchangeRefreshToken(ctx, refresh); err != nil {
		c.log(ctx, "token refresh failed", map[string]any{"error": err.Error()})
		c.expireSession(ctx)
		return retryResult{}, false
	}

	status, header, body, err := c.send(ctx, req, c.tokens.Access())
	if err != nil {
		return retryResult{err: pkgerrors.Normalize(err)}, true
	}
	if status == http.StatusUnauthorized {
		// A 401 on a freshly refreshed token means the session itself is
		// invalid, not that the token was stale.
		c.expireSession(ctx)
	}
	if status < 200 || status > 299 {
		return retryResult{err: pkgerrors.FromResponse(status, header, body)}, true
	}
	return retryResult{body: body}, true
}

func (c *Client) exchangeRefreshToken(ctx context.Context, refresh string) error {
	payload, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return err
	}
	status, header, body, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        refreshPath,
		body:        payload,
		contentType: "application/json",
	}, "")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return pkgerrors.FromResponse(status, header, body)
	}
	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(body, &pair); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}
	if pair.AccessToken == "" {
		return errors.New("refresh response missing access token")
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refresh
	}
	return c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken)
}

func (c *Client) send(ctx context.Context, req request, accessToken string) (int, http.Header, []byte, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var reader io.Reader
	if len(req.body) > 0 {
		reader = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, reader)
	if err != nil {
		return 0, nil, nil, err
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	started := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(req.method, pathLabel(req.path), 0, time.Since(started))
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveRequest(req.method, pathLabel(req.path), resp.StatusCode, time.Since(started))
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

func (c *Client) expireSession(ctx context.Context) {
	if err := c.tokens.Clear(); err != nil {
		c.log(ctx, "clearing tokens failed", map[string]any{"error": err.Error()})
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// RefreshSession exchanges the persisted refresh token on demand, outside
// the 401 path. The session is expired when no refresh token exists or the
// exchange fails.
func (c *Client) RefreshSession(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	refresh := c.tokens.Refresh()
	if refresh == "" {
		c.expireSession(ctx)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no refresh token available")
	}
	c.metrics.IncTokenRefresh()
	if err := c.exchangeRefreshToken(ctx, refresh); err != nil {
		c.expireSession(ctx)
		return pkgerrors.Normalize(err)
	}
	return nil
}

// ClearSession drops persisted credentials without firing the expiry hook,
// used by logout which already knows the session is ending.
func (c *Client) ClearSession() error {
	return c.tokens.Clear()
}

// HasTokens reports whether any credentials are persisted.
func (c *Client) HasTokens() bool {
	return c.tokens.HasTokens()
}

// PersistTokens stores a fresh token pair, used by login and register.
func (c *Client) PersistTokens(access, refresh string) error {
	return c.tokens.SetTokens(access, refresh)
}

func (c *Client) log(ctx context.Context, msg string, fields map[string]any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(c.logger.WithFields(ctx, fields), msg)
}

// pathLabel trims concrete identifiers so metrics stay low-cardinality.
func pathLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return "/" + trimmed
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
