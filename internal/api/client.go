// Package api is the single outbound gateway to the lending server. Every
// call goes through the same stage chain: credential attach, busy tracking,
// tracing, failure classification. Feature code never talks HTTP directly.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"libris/internal/busy"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultTimeout = 30 * time.Second

// Client wraps the composed pipeline with typed endpoint helpers
type Client struct {
	base   string
	do     Doer
	logger *slog.Logger
}

// New builds the request pipeline around httpClient. A nil httpClient gets
// the default timeout. The classifier is outermost so every failure from
// any stage is translated exactly once; the busy stage brackets the actual
// dispatch.
func New(baseURL string, httpClient *http.Client, tokens TokenSource, counter *busy.Counter, notify Notifier, sessions Invalidator, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	do := Chain(httpClient.Do,
		WithClassifier(notify, sessions, logger),
		WithBusy(counter),
		WithTrace(logger),
		WithAuth(tokens),
	)

	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		do:     do,
		logger: logger,
	}
}

// url joins base and path with exactly one slash
func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// get issues a GET and decodes the response into out
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.url(path)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.dispatch(req, out)
}

// send issues a request with an optional JSON body and decodes the response
// into out. A nil body sends an empty JSON object, matching what the server
// expects on bare action endpoints.
func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body == nil {
		body = struct{}{}
	}
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	return c.dispatch(req, out)
}

// dispatch runs the pipeline and decodes a successful response
func (c *Client) dispatch(req *http.Request, out any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
