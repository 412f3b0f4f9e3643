// Package salesforce is the peripheral CRM export integration, specified at
// its interface only: POST a path plus a field mapping, receive
// success/failure.
package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"salesboard/internal/model"
)

// ErrNotConfigured is returned when no export endpoint is configured.
var ErrNotConfigured = errors.New("salesforce export endpoint not configured")

// Client posts action paths to the configured export endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an export client. An empty baseURL leaves the client in
// a not-configured state; Export will say so.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ExportRequest is the wire payload: the path and how its fields map onto
// CRM fields.
type ExportRequest struct {
	Path         model.ActionPath  `json:"path"`
	FieldMapping map[string]string `json:"field_mapping"`
}

// ExportResponse reports the outcome.
type ExportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Export posts the path and mapping, returning the endpoint's verdict.
func (c *Client) Export(ctx context.Context, path model.ActionPath, fieldMapping map[string]string) (*ExportResponse, error) {
	if c.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(ExportRequest{Path: path, FieldMapping: fieldMapping})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("export failed with status %d: %s", resp.StatusCode, string(data))
	}

	var out ExportResponse
	if err := json.Unmarshal(data, &out); err != nil {
		// Some endpoints answer with an empty body on success.
		return &ExportResponse{Success: true}, nil
	}
	return &out, nil
}
