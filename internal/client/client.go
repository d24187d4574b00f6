package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is the typed HTTP client for the validator API. It is not safe for
// concurrent use while the token is being changed; Session serializes that.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, httpClient: hc}, nil
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) ClearToken() {
	c.token = ""
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("decode response: %w", uErr)
	}
	return nil
}

func decodeAPIError(status int, raw []byte) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{Status: status, Code: envelope.Error.Code, Message: envelope.Error.Message}
	}
	// Middleware rejections use a flat {"error": "..."} shape.
	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil && flat.Error != "" {
		return &APIError{Status: status, Message: flat.Error}
	}
	return &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
}

func (c *Client) Register(ctx context.Context, username, email, password string) (string, *UserView, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *UserView, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return "", nil, err
	}
	return resp.Token, &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) ValidateIdea(ctx context.Context, userID, title string) (*IdeaRecord, error) {
	body := map[string]string{"title": title}
	var resp struct {
		Idea IdeaRecord `json:"idea"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/ideas/validate/"+userID, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Idea, nil
}

func (c *Client) ListIdeas(ctx context.Context, userID string) ([]IdeaRecord, error) {
	var resp []IdeaRecord
	if err := c.do(ctx, http.MethodGet, "/api/ideas/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) GetAnalysis(ctx context.Context, ideaID string) (*IdeaRecord, error) {
	var resp IdeaRecord
	if err := c.do(ctx, http.MethodGet, "/api/analysis/"+ideaID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
