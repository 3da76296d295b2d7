// Package gql is the minimal GraphQL client the GraphQL-backed
// connectors share: one POST per query, variables as a map, response
// data decoded straight into the caller's type.
package gql

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
	"github.com/yungbote/relationgraph-backend/internal/httpx"
)

type Client struct {
	url  string
	http *http.Client
}

func New(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:  strings.TrimSpace(url),
		http: &http.Client{Timeout: timeout},
	}
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query runs one GraphQL operation and decodes the data object into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	if c.url == "" {
		return apperr.Param("gql: endpoint not configured")
	}
	var resp response
	if err := httpx.PostJSON(ctx, c.http, c.url, request{Query: query, Variables: vars}, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return apperr.Remote(0, "gql: %s", resp.Errors[0].Message)
	}
	if out == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return apperr.Parse("gql: decode data: %v", err)
	}
	return nil
}
