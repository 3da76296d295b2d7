package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/yungbote/relationgraph-backend/internal/apperr"
)

const (
	maxBodyBytes = 8 << 20

	getAttempts    = 2
	retryBaseDelay = 300 * time.Millisecond
)

// GetJSON issues a GET and decodes the JSON response body into out.
// Non-2xx statuses become remote errors carrying the status code.
// Transient failures are retried once; GETs against the upstreams here
// are idempotent.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	var lastErr error
	for attempt := 0; attempt < getAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperr.Transport("GET %s: %v", url, ctx.Err())
			case <-time.After(JitterSleep(retryBaseDelay)):
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return apperr.Param("build request %s: %v", url, err)
		}
		lastErr = doJSON(client, req, out)
		if lastErr == nil || !shouldRetry(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func shouldRetry(err error) bool {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Code == apperr.CodeRemote {
		return IsRetryableHTTPStatus(ae.Status)
	}
	return IsRetryableError(err)
}

// PostJSON issues a POST with a JSON body and decodes the response into out.
func PostJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return apperr.Parse("encode request body: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return apperr.Param("build request %s: %v", url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return apperr.Transport("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return apperr.Transport("read response from %s: %v", req.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Remote(resp.StatusCode, "%s %s: status %d", req.Method, req.URL, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Parse("decode response from %s: %v", req.URL, err)
	}
	return nil
}
