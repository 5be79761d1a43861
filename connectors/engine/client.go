// Package engine is the REST client for the external Scheduling Engine,
// the sole authority on schedule feasibility. The board never patches a
// schedule locally; it sends the whole snapshot and takes back whatever
// the engine returns.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/interviewday/board/core/model"
)

// Config holds the engine connection settings.
type Config struct {
	// BaseURL is the engine's root, e.g. "http://localhost:4000".
	BaseURL string `json:"base_url"`
	// TimeoutSeconds bounds every request. The original UI waited on a
	// hung request forever; this client does not.
	TimeoutSeconds int `json:"timeout_seconds"`
	// Token, when set, is sent as a bearer token.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 60
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("engine base_url is required")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("engine timeout_seconds must not be negative")
	}
	return nil
}

// StatusError is a non-2xx engine response with its decoded error
// payload, surfaced to the user verbatim.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.Code, e.Message)
}

// Export is a streamed schedule file. The caller owns Body.
type Export struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Client talks to the Scheduling Engine.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// New creates a Client from the configuration.
func New(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		base:  strings.TrimSuffix(cfg.BaseURL, "/"),
		token: cfg.Token,
		http:  &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

// envelope is the engine's uniform JSON wrapper: {data} on success,
// {error} with a non-2xx status on failure.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// GenerateSchedule asks the engine to build a schedule from the uploaded
// tables and returns it.
func (c *Client) GenerateSchedule(ctx context.Context) (*model.Schedule, error) {
	var sched model.Schedule
	if err := c.doJSON(ctx, http.MethodGet, "/generateSchedule", nil, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// SwapSchedule submits the full schedule plus the two swap sides and
// returns the engine's authoritative recomputation.
func (c *Client) SwapSchedule(ctx context.Context, req model.SwapRequest) (*model.Schedule, error) {
	var sched model.Schedule
	if err := c.doJSON(ctx, http.MethodPost, "/swapSchedule", map[string]any{"data": req}, &sched); err != nil {
		return nil, err
	}
	return &sched, nil
}

// WriteSchedule has the engine render the schedule to a file and streams
// it back. The filename comes from the Content-Disposition header; a
// response without one is malformed and fails loudly.
func (c *Client) WriteSchedule(ctx context.Context, sched *model.Schedule) (*Export, error) {
	body, err := json.Marshal(map[string]any{"data": sched})
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/writeSchedule", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeError(resp)
	}

	filename, err := dispositionFilename(resp.Header.Get("Content-Disposition"))
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	return &Export{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Data == nil {
		return fmt.Errorf("response has no data field")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Error != "" {
		return &StatusError{Code: resp.StatusCode, Message: env.Error}
	}
	return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}

func dispositionFilename(header string) (string, error) {
	if header == "" {
		return "", fmt.Errorf("response has no Content-Disposition header")
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "", fmt.Errorf("parse Content-Disposition: %w", err)
	}
	name := params["filename"]
	if name == "" {
		return "", fmt.Errorf("Content-Disposition has no filename")
	}
	return name, nil
}
