// Package client talks to a running mind map daemon over HTTP.
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

	"github.com/bluesky-social/mindmap/mindmap"
	"github.com/bluesky-social/mindmap/mindmap/api"

	"github.com/hashicorp/go-retryablehttp"
)

type Client struct {
	Host      string
	UserAgent string

	http *retryablehttp.Client
}

// New returns a client for the daemon at host. Without options, requests are
// traced and retried twice on connection errors and 5xx responses.
func New(host string, opts ...Option) *Client {
	c := &Client{
		Host:      strings.TrimSuffix(host, "/"),
		UserAgent: "mindmap-client",
		http:      newRetryClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for non-2xx responses which don't map to one of the
// mindmap sentinel errors.
type APIError struct {
	StatusCode int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("mindmap API request failed (HTTP %d): %s: %s", e.StatusCode, e.Name, e.Message)
	}
	return fmt.Sprintf("mindmap API request failed (HTTP %d)", e.StatusCode)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var raw any
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.Host+path, raw)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mindmap request %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, decodeError(resp)
}

func decodeError(resp *http.Response) error {
	var ge api.GenericError
	b, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(b, &ge)

	switch {
	case resp.StatusCode == http.StatusNotFound && ge.Error == api.ErrorLeafNotFound:
		return mindmap.ErrLeafNotFound
	case resp.StatusCode == http.StatusNotFound && ge.Error == api.ErrorMapNotFound:
		return mindmap.ErrMapNotFound
	case resp.StatusCode == http.StatusBadRequest && ge.Error == api.ErrorPathTooDeep:
		return fmt.Errorf("%w: %s", mindmap.ErrTooDeep, ge.Message)
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Name:       ge.Error,
		Message:    ge.Message,
	}
}

func (c *Client) CreateMap(ctx context.Context, name string) error {
	resp, err := c.do(ctx, http.MethodPost, "/maps", api.CreateMapInput{ID: name})
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) AddLeaf(ctx context.Context, mapName, path, text string) error {
	resp, err := c.do(ctx, http.MethodPost, "/maps/"+url.PathEscape(mapName)+"/leafs", api.AddLeafInput{Path: path, Text: text})
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (c *Client) ReadLeaf(ctx context.Context, mapName, leafName string) (*api.LeafOutput, error) {
	resp, err := c.do(ctx, http.MethodGet, "/maps/"+url.PathEscape(mapName)+"/leafs/"+url.PathEscape(leafName), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out api.LeafOutput
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding leaf response: %w", err)
	}
	return &out, nil
}

func (c *Client) PrettyPrint(ctx context.Context, mapName string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/prettyPrint/"+url.PathEscape(mapName), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// GetMap fetches the full document for a map.
func (c *Client) GetMap(ctx context.Context, mapName string) (*mindmap.Node, error) {
	resp, err := c.do(ctx, http.MethodGet, "/maps/"+url.PathEscape(mapName), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return mindmap.UnmarshalDocument(b)
}

func IsNotFound(err error) bool {
	return errors.Is(err, mindmap.ErrMapNotFound) || errors.Is(err, mindmap.ErrLeafNotFound)
}
