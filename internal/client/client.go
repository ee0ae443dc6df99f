// Package client calls the operator API of a running portfolio server. It
// backs the "posts" commands of the CLI.
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

	"portfolio/internal/blog"
)

// APIError is returned for any non-2xx reply.
type APIError struct {
	Status  int
	Message string
	Field   string
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("operator API error (status %d): %s: %s", e.Status, e.Field, e.Message)
	}
	return fmt.Sprintf("operator API error (status %d): %s", e.Status, e.Message)
}

// Client talks to /operator/posts with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client for the server at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type postList struct {
	Posts []blog.Entry `json:"posts"`
}

// RemoveResult reports what DELETE did. Removing an unknown key is not an
// error; Removed is false.
type RemoveResult struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

// List returns the posts newest first.
func (c *Client) List(ctx context.Context) ([]blog.Entry, error) {
	var out postList
	if err := c.do(ctx, http.MethodGet, "/operator/posts", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// Add creates a post and returns it with the server-filled date and slug.
func (c *Client) Add(ctx context.Context, p blog.Post) (blog.Post, error) {
	var out blog.Post
	if err := c.do(ctx, http.MethodPost, "/operator/posts", p, http.StatusCreated, &out); err != nil {
		return blog.Post{}, err
	}
	return out, nil
}

// Remove deletes the first post whose slug, or title when it has none,
// equals key.
func (c *Client) Remove(ctx context.Context, key string) (RemoveResult, error) {
	var out RemoveResult
	path := "/operator/posts?key=" + url.QueryEscape(key)
	if err := c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, &out); err != nil {
		return RemoveResult{}, err
	}
	return out, nil
}

// do performs one request and decodes the JSON reply into out.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
			Field string `json:"field"`
		}
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			apiErr.Message, apiErr.Field = e.Error, e.Field
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
