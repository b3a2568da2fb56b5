// Package social holds the per-platform HTTP adapters. Each adapter turns an
// AdapterCall into one upstream request and a normalized CallResult.
package social

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
	"time"

	"github.com/cjodon01/autoauthadmin/domain/model"
)

const (
	DefaultGraphBaseURL    = "https://graph.facebook.com/v18.0"
	DefaultLinkedInBaseURL = "https://api.linkedin.com/v2"
	DefaultTwitterBaseURL  = "https://api.twitter.com/2"
	DefaultRedditBaseURL   = "https://oauth.reddit.com"

	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 1 << 20
)

// NewHTTPClient returns the client shared by all adapters. Every upstream
// request is bounded by timeout on top of the caller's context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

type upstreamRequest struct {
	method   string
	endpoint string
	query    url.Values
	body     interface{}
	// snapshot is what gets persisted as request_body; it never carries a token.
	snapshot interface{}
	header   http.Header
}

type upstreamResponse struct {
	status int
	body   []byte
}

func (r upstreamRequest) url() string {
	if len(r.query) == 0 {
		return r.endpoint
	}
	return r.endpoint + "?" + r.query.Encode()
}

func send(ctx context.Context, client *http.Client, r upstreamRequest) (*upstreamResponse, error) {
	var reader io.Reader
	if r.body != nil {
		payload, err := marshalJSON(r.body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url(), reader)
	if err != nil {
		return nil, scrubURLError(err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, scrubURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", scrubURLError(err))
	}
	return &upstreamResponse{status: resp.StatusCode, body: body}, nil
}

// scrubURLError drops the request URL from transport errors, since Graph
// requests carry the access token in the query string.
func scrubURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return fmt.Errorf("%s request failed: %w", ue.Op, ue.Err)
	}
	return err
}

// marshalJSON encodes without HTML escaping so posted content is stored verbatim.
func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// rawJSON keeps valid JSON bodies as they are and wraps anything else.
func rawJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("{}")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	wrapped, _ := marshalJSON(map[string]string{"raw": string(trimmed)})
	return wrapped
}

func snapshotJSON(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	b, err := marshalJSON(v)
	if err != nil {
		return nil
	}
	return b
}

// upstreamMessage extracts the platform's own error text from a failed response.
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Error interface{} `json:"error"`
		// LinkedIn
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		switch e := payload.Error.(type) {
		case map[string]interface{}:
			if msg, ok := e["message"].(string); ok && msg != "" {
				return msg
			}
		case string:
			if e != "" {
				return e
			}
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("upstream returned status %d", status)
}

// countOf returns the length of the named array field, or 0.
func countOf(body []byte, field string) int {
	var payload map[string]json.RawMessage
	if json.Unmarshal(body, &payload) != nil {
		return 0
	}
	var items []json.RawMessage
	if json.Unmarshal(payload[field], &items) != nil {
		return 0
	}
	return len(items)
}

// result normalizes an upstream response. summarize only runs for 2xx statuses.
func result(r upstreamRequest, resp *upstreamResponse, summarize func(body []byte) string, failed string) *model.CallResult {
	out := &model.CallResult{
		Endpoint:    r.endpoint,
		Method:      r.method,
		StatusCode:  resp.status,
		Response:    rawJSON(resp.body),
		RequestBody: snapshotJSON(r.snapshot),
	}
	if out.OK() {
		out.Summary = summarize(resp.body)
		return out
	}
	out.ErrorMessage = upstreamMessage(resp.status, resp.body)
	if failed != "" {
		out.Summary = failed
	} else {
		out.Summary = fmt.Sprintf("Request failed: %s", out.ErrorMessage)
	}
	return out
}

// transportFailure is the partial result reported when no response arrived.
func transportFailure(r upstreamRequest, err error) (*model.CallResult, error) {
	return &model.CallResult{
		Endpoint:     r.endpoint,
		Method:       r.method,
		StatusCode:   model.StatusNoResponse,
		Summary:      "No response from platform",
		Response:     json.RawMessage("{}"),
		RequestBody:  snapshotJSON(r.snapshot),
		ErrorMessage: err.Error(),
	}, model.NewUpstreamError("platform request failed", err)
}

func joinPath(base string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, strings.TrimRight(base, "/"))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}
