// Package api is the remote query dispatcher for the legal knowledge service.
// Every call issues exactly one request with no retries. Any error returned is
// an *errx.Failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errx "github.com/kenya-legal-ai/lexclient/internal/core/error"
	"github.com/kenya-legal-ai/lexclient/internal/legal/model"
	logx "github.com/kenya-legal-ai/lexclient/pkg/logger"
)

// Client talks to the /api/v1 endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a dispatcher for cfg.URL. The configured timeout is the
// only deadline applied on top of the caller's context.
func NewClient(cfg model.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root this client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends the query with its history snapshot and per-request options.
func (c *Client) Chat(ctx context.Context, q model.ChatQuery) (*model.AnswerPayload, error) {
	mode := q.Mode
	if mode == "" {
		mode = model.ModeResearch
	}
	req := chatRequest{
		Query:        q.Query,
		Mode:         string(mode),
		DocumentType: optional(q.Filters.DocumentType),
		Court:        optional(q.Filters.Court),
		History:      toWireHistory(q.History),
	}

	var resp chatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", nil, req, &resp); err != nil {
		return nil, err
	}
	return resp.toAnswer(), nil
}

// Search runs a semantic search over the whole corpus.
func (c *Client) Search(ctx context.Context, query string, topK int, filters model.Filters) ([]model.SearchResult, error) {
	req := searchRequest{
		Query:        query,
		TopK:         topK,
		DocumentType: optional(filters.DocumentType),
		Court:        optional(filters.Court),
	}

	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/search", nil, req, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// LookupConstitution searches constitutional provisions only.
func (c *Client) LookupConstitution(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("top_k", strconv.Itoa(topK))

	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/constitution", params, nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Results), nil
}

// LookupLimitation fetches statutory limitation periods for a cause of action.
func (c *Client) LookupLimitation(ctx context.Context, cause string) (*model.LimitationReport, error) {
	params := url.Values{}
	params.Set("cause", cause)

	var report model.LimitationReport
	if err := c.do(ctx, http.MethodGet, "/tools/limitation", params, nil, &report); err != nil {
		return nil, err
	}
	if report.Matches == nil {
		report.Matches = []model.LimitationMatch{}
	}
	return &report, nil
}

// Health checks the API and its document index. On failure the returned
// snapshot is the offline one, alongside the error.
func (c *Client) Health(ctx context.Context) (model.HealthSnapshot, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &resp); err != nil {
		return model.OfflineSnapshot(), err
	}
	return resp.snapshot(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errx.Transport(fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errx.Transport(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("method", method).Str("path", path).Msg("legal api request failed")
		return errx.Transport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logx.Warn().Err(err).Str("path", path).Int("status", resp.StatusCode).Msg("failed to read legal api response")
		return errx.Transport(fmt.Errorf("read response: %w", err))
	}

	logx.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("legal api exchange")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f := errx.FromResponse(resp.StatusCode, raw)
		logx.Warn().Str("path", path).Int("status", resp.StatusCode).Msg(f.RawMessage)
		return f
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logx.Warn().Err(err).Str("path", path).Msg("failed to decode legal api response")
		return errx.Decode(resp.StatusCode, err)
	}
	return nil
}

func nonNil(results []model.SearchResult) []model.SearchResult {
	if results == nil {
		return []model.SearchResult{}
	}
	return results
}
