package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"ptask/internal/service"
)

// maxPlainMessage bounds how much of a non-JSON error body is surfaced as a
// message.
const maxPlainMessage = 200

// Client dispatches JSON requests relative to a fixed API origin.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL whose requests go through t.
func NewClient(baseURL string, t *Transport) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: t},
	}
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request and decodes the response.
//
// body, if non-nil, is sent as JSON. out, if non-nil, receives the decoded
// response; a *string receives the raw body text. An empty success body
// leaves out untouched. Non-2xx responses become *googleapi.Error, wrapped
// with service.ErrUnauthorized for 401/403.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		if IsAuthFailure(resp.StatusCode) {
			return fmt.Errorf("%w: %w", service.ErrUnauthorized, err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if s, ok := out.(*string); ok {
		*s = plainText(data)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkResponse turns a non-2xx response into a *googleapi.Error and fills
// in Message from the server's payload when the standard envelope lacks one.
func checkResponse(resp *http.Response) error {
	err := googleapi.CheckResponse(resp)
	if err == nil {
		return nil
	}
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return err
	}
	if apiErr.Message == "" {
		apiErr.Message = extractMessage([]byte(apiErr.Body))
	}
	return apiErr
}

// extractMessage pulls a human-readable message out of an error body.
// JSON bodies are searched for "message", then a string "error"; short
// plain-text bodies are used as-is.
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}

	if trimmed[0] == '{' {
		var payload struct {
			Message string          `json:"message"`
			Error   json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return ""
		}
		if payload.Message != "" {
			return payload.Message
		}
		var s string
		if json.Unmarshal(payload.Error, &s) == nil {
			return s
		}
		return ""
	}

	if trimmed[0] == '<' || len(trimmed) > maxPlainMessage {
		return ""
	}
	return plainText(trimmed)
}

// plainText returns body as text, unquoting a JSON string literal.
func plainText(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	var s string
	if len(trimmed) > 0 && trimmed[0] == '"' && json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	return string(trimmed)
}
