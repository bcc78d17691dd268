package client

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

	"go.uber.org/zap"

	"socialgraph/backend/internal/facade"
	apperrors "socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"
)

// DefaultBaseURL is used when no server address is given
const DefaultBaseURL = "http://localhost:8080"

// Client calls the operations endpoint of a running server
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Error is a failed operation reported by the server. It carries the same
// category as the server-side error, so apperrors predicates work on it.
type Error struct {
	Status  int
	Code    apperrors.ErrorType
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// Category returns the error's ErrorType
func (e *Error) Category() apperrors.ErrorType {
	return e.Code
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Code    apperrors.ErrorType `json:"code"`
}

// New creates a client for the server at baseURL
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.For("client"),
	}
}

// Call runs the named operation with raw JSON args and returns the raw data
func (c *Client) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	endpoint := fmt.Sprintf("%s/api/operations/%s", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(args))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%s failed with status %d: %s", name, resp.StatusCode, string(body))
	}
	if !env.Success {
		c.logger.Debug("Operation rejected by server",
			zap.String("operation", name),
			zap.Int("status", resp.StatusCode),
			zap.String("code", string(env.Code)),
		)
		return nil, &Error{Status: resp.StatusCode, Code: env.Code, Message: env.Error}
	}
	return env.Data, nil
}

// Invoke runs name with args encoded as JSON and decodes the result data
// into out. out may be nil when the caller does not need the data.
func (c *Client) Invoke(ctx context.Context, name string, args any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode args: %w", err)
	}

	data, err := c.Call(ctx, name, raw)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", name, err)
	}
	return nil
}

// Operations lists the operations the server exposes
func (c *Client) Operations(ctx context.Context) ([]facade.Operation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/operations", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list operations request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list operations failed with status %d: %s", resp.StatusCode, string(body))
	}

	var ops []facade.Operation
	if err := json.NewDecoder(resp.Body).Decode(&ops); err != nil {
		return nil, fmt.Errorf("failed to decode operations: %w", err)
	}
	return ops, nil
}
