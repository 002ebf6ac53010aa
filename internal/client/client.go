// Package client talks to a Konnections server.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robalobadob/konnections/internal/puzzle"
)

// ErrBadResponse means the server answered with something unusable.
var ErrBadResponse = errors.New("client: bad response")

// Response mirrors the GET /puzzle body.
type Response struct {
	Puzzle     *puzzle.Board `json:"puzzle"`
	Cached     bool          `json:"cached"`
	Provenance string        `json:"provenance"`
	Fallback   bool          `json:"fallback,omitempty"`
	CacheError string        `json:"cacheError,omitempty"`
}

// Client fetches puzzles over HTTP.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// New returns a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		// outlives the server's handler timeout
		http: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) puzzleURL(date string) string {
	u := c.base + "/puzzle"
	if date != "" {
		u += "?date=" + url.QueryEscape(date)
	}
	return u
}

// Puzzle fetches the board for date ("" = server's today). The board is
// validated before it is returned.
func (c *Client) Puzzle(ctx context.Context, date string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.puzzleURL(date), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get puzzle: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read puzzle: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrBadResponse, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if out.Puzzle == nil {
		return nil, fmt.Errorf("%w: missing puzzle", ErrBadResponse)
	}
	if err := out.Puzzle.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &out, nil
}

// Exists reports whether the server has already stored date's puzzle.
func (c *Client) Exists(ctx context.Context, date string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.puzzleURL(date), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("head puzzle: %w", err)
	}
	resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
}
