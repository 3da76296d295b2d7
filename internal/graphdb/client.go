package graphdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/logger"
)

// Client talks to the graph store. Stateless per call aside from the
// pooled transport; safe for concurrent use.
type Client struct {
	cfg        Config
	log        *logger.Logger
	tracer     trace.Tracer
	httpClient *http.Client
}

func New(cfg Config, log *logger.Logger) (*Client, error) {
	host := strings.TrimRight(strings.TrimSpace(cfg.Host), "/")
	if host == "" {
		return nil, apperr.Param("graphdb: host required")
	}
	cfg.Host = host
	cfg.AllocationHost = strings.TrimRight(strings.TrimSpace(cfg.AllocationHost), "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          24,
		MaxIdleConnsPerHost:   24,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		cfg:        cfg,
		log:        log.With("component", "graphdb"),
		tracer:     otel.Tracer("graphdb"),
		httpClient: &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by
// using a custom client/transport.
func NewWithHTTPClient(cfg Config, log *logger.Logger, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

// BaseResponse is the store's success/error envelope, shared by every
// endpoint.
type BaseResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NotExist identifies one missing edge endpoint in an upsert rejection.
type NotExist struct {
	VType string `json:"v_type"`
	VID   string `json:"v_id"`
}

// UpsertResult is the per-request accounting the store returns.
type UpsertResult struct {
	AcceptedVertices     int        `json:"accepted_vertices"`
	AcceptedEdges        int        `json:"accepted_edges"`
	SkippedEdges         int        `json:"skipped_edges,omitempty"`
	EdgeVerticesNotExist []NotExist `json:"edge_vertices_not_exist,omitempty"`
}

type upsertResponse struct {
	BaseResponse
	Results []UpsertResult `json:"results"`
}

type queryResponse struct {
	BaseResponse
	Results json.RawMessage `json:"results"`
}

// UpsertGraph posts a batched vertex/edge payload. vertex_must_exist
// makes the store reject edges whose endpoints were never written;
// that rejection signals a caller ordering bug and surfaces as a
// contract violation, not a retryable fault.
func (c *Client) UpsertGraph(ctx context.Context, graph Graph, payload *UpsertPayload) error {
	ctx, span := c.tracer.Start(ctx, "graphdb.upsert_graph",
		trace.WithAttributes(attribute.String("graph", graph.String())))
	defer span.End()

	u := fmt.Sprintf("%s/graph/%s?vertex_must_exist=true", c.cfg.Host, graph)
	var resp upsertResponse
	if err := c.do(ctx, http.MethodPost, u, c.cfg.token(graph), payload, &resp); err != nil {
		return err
	}
	if resp.Error {
		return apperr.Remote(0, "upsert graph rejected: code=%s message=%s", resp.Code, resp.Message)
	}
	for _, r := range resp.Results {
		if len(r.EdgeVerticesNotExist) > 0 {
			return apperr.Contract("edge endpoints missing: %v", r.EdgeVerticesNotExist)
		}
	}
	return nil
}

// RunQuery invokes a named, server-side-defined query and decodes its
// results array into out.
func (c *Client) RunQuery(ctx context.Context, graph Graph, query string, params url.Values, out any) error {
	ctx, span := c.tracer.Start(ctx, "graphdb.run_query",
		trace.WithAttributes(
			attribute.String("graph", graph.String()),
			attribute.String("query", query)))
	defer span.End()

	u := fmt.Sprintf("%s/query/%s/%s", c.cfg.Host, graph, query)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	var resp queryResponse
	if err := c.do(ctx, http.MethodGet, u, c.cfg.token(graph), nil, &resp); err != nil {
		return err
	}
	if resp.Error {
		return apperr.Remote(0, "query %s failed: code=%s message=%s", query, resp.Code, resp.Message)
	}
	if out == nil || len(resp.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Results, out); err != nil {
		return apperr.Parse("query %s: decode results: %v", query, err)
	}
	return nil
}

// PostQuery invokes a named query that takes a JSON body, used by the
// isolated/hyper vertex and contract-connection installers.
func (c *Client) PostQuery(ctx context.Context, graph Graph, query string, body any, out any) error {
	ctx, span := c.tracer.Start(ctx, "graphdb.post_query",
		trace.WithAttributes(
			attribute.String("graph", graph.String()),
			attribute.String("query", query)))
	defer span.End()

	u := fmt.Sprintf("%s/query/%s/%s", c.cfg.Host, graph, query)
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, u, c.cfg.token(graph), body, &resp); err != nil {
		return err
	}
	if resp.Error {
		return apperr.Remote(0, "query %s failed: code=%s message=%s", query, resp.Code, resp.Message)
	}
	if out == nil || len(resp.Results) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Results, out); err != nil {
		return apperr.Parse("query %s: decode results: %v", query, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL, token string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return apperr.Parse("graphdb: encode request: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, rawURL, &buf)
	if err != nil {
		return apperr.Param("graphdb: build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Transport("graphdb: %s %s: %v", method, rawURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return apperr.Transport("graphdb: read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var base BaseResponse
		if json.Unmarshal(raw, &base) == nil && base.Message != "" {
			return apperr.Remote(resp.StatusCode, "graphdb: code=%s message=%s", base.Code, base.Message)
		}
		return apperr.Transport("graphdb: status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Parse("graphdb: decode response: %v", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
