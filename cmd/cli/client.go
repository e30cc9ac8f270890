package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iho/exchangeledger/internal/adapter/http/dto"
	"github.com/iho/exchangeledger/internal/adapter/http/middleware"
)

const apiPrefix = "/api/v1"

// apiClient talks to the ledger HTTP API.
type apiClient struct {
	baseURL string
	timeout time.Duration
	actor   string
	http    *http.Client
}

// apiError is a non-2xx answer from the server.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	msg := fmt.Sprintf("request failed (status %d): %s", e.Status, e.Body.Error)
	if e.Body.Field != "" {
		msg += " [" + e.Body.Field + "]"
	}
	if e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

type requestOptions struct {
	query          url.Values
	body           any
	idempotencyKey string
}

func (c *apiClient) client() *http.Client {
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c.http
}

// do sends a request and decodes a 2xx JSON body into out when out is non-nil.
func (c *apiClient) do(ctx context.Context, method, path string, opts requestOptions, out any) error {
	u := strings.TrimRight(c.baseURL, "/") + apiPrefix + path
	if len(opts.query) > 0 {
		u += "?" + opts.query.Encode()
	}

	var body io.Reader
	if opts.body != nil {
		raw, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.actor != "" {
		req.Header.Set(middleware.ActorHeader, c.actor)
	}
	if opts.idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, opts.idempotencyKey)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if err := json.Unmarshal(raw, &apiErr.Body); err != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
