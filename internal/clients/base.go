package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/apierr"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
)

// Observer records one backend call. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveRequest(client, method, route, outcome string, d time.Duration)
}

// Client issues single-attempt calls against the commerce backend and
// unwraps its {code, message, data} envelope.
type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client

	logger   *slog.Logger
	observer Observer
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func NewClient(name, baseURL string, httpClient *http.Client, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", name, baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme and host required", name, baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		Name:    name,
		BaseURL: u,
		HTTP:    httpClient,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Call describes one request. Route is the metrics label and defaults to
// Path; set it when Path carries an identifier.
type Call struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Body   any
}

// Do performs call and decodes the envelope's data field into out (which may
// be nil). Every failure is returned as an *apierr.Error.
func (c *Client) Do(ctx context.Context, call Call, out any) error {
	route := call.Route
	if route == "" {
		route = call.Path
	}
	start := time.Now()
	err := c.do(ctx, call, out)
	c.observe(call.Method, route, err, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, call Call, out any) error {
	op := call.Path
	target := c.resolve(call.Path, call.Query)

	var body io.Reader
	if call.Body != nil {
		raw, err := json.Marshal(call.Body)
		if err != nil {
			return apierr.Validation(op, apierr.CodeInvalidArgument, "request body cannot be encoded")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, target, body)
	if err != nil {
		return apierr.Transport(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	cid := middleware.GetCorrelationID(ctx)
	if cid == "" {
		cid = uuid.NewString()
	}
	req.Header.Set(middleware.HeaderCorrelationID, cid)

	c.logger.DebugContext(ctx, "backend request", "client", c.Name, "method", call.Method, "url", target, "correlation_id", cid)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return apierr.Transport(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.Transport(op, err)
	}

	c.logger.DebugContext(ctx, "backend response", "client", c.Name, "method", call.Method, "url", target, "status", resp.StatusCode)

	var env dto.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		if decodeErr != nil {
			return apierr.HTTPStatus(op, resp.StatusCode, "", "")
		}
		return apierr.HTTPStatus(op, resp.StatusCode, env.ErrorCode, env.Message)
	}
	if decodeErr != nil {
		return apierr.Protocol(op, resp.StatusCode, decodeErr)
	}
	if env.Code != dto.SuccessCode {
		return apierr.Business(op, resp.StatusCode, env.Code, env.ErrorCode, env.Message)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apierr.Protocol(op, resp.StatusCode, err)
	}
	return nil
}

// resolve keeps the base URL's path prefix ("/api") in front of path.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.BaseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) observe(method, route string, err error, d time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(apierr.KindOf(err))
	}
	c.observer.ObserveRequest(c.Name, method, route, outcome, d)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Call{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Call{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Call{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete sends parameters in the query string.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Call{Method: http.MethodDelete, Path: path, Query: query}, out)
}

// DeleteWithBody sends parameters as a JSON body.
func (c *Client) DeleteWithBody(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Call{Method: http.MethodDelete, Path: path, Body: body}, out)
}
