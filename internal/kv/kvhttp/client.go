package kvhttp

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

	"github.com/SergeyParamoshkin/voil/internal/kv"
)

// DefaultTimeout bounds each backend round trip.
const DefaultTimeout = 10 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// Client is a kv.Store backed by a remote Handler.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ kv.Store = (*Client)(nil)

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("kvhttp: base URL is required")
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("kvhttp: invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, c.keyURL(key), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, kv.ErrNotFound
	default:
		return nil, statusError(resp)
	}

	v, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read value: %v", kv.ErrUnavailable, err)
	}

	return v, nil
}

func (c *Client) Put(ctx context.Context, key string, value []byte) error {
	resp, err := c.do(ctx, http.MethodPut, c.keyURL(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	return nil
}

func (c *Client) Delete(ctx context.Context, key string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.keyURL(key), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK, http.StatusNotFound:
		return nil
	default:
		return statusError(resp)
	}
}

func (c *Client) Keys(ctx context.Context, prefix string) ([]string, error) {
	u := c.baseURL + "/kv?" + url.Values{"prefix": {prefix}}.Encode()

	resp, err := c.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var payload keysResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode keys: %v", kv.ErrUnavailable, err)
	}

	if payload.Keys == nil {
		payload.Keys = []string{}
	}

	return payload.Keys, nil
}

func (c *Client) keyURL(key string) string {
	return c.baseURL + "/kv/" + url.PathEscape(key)
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("kvhttp: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", kv.ErrUnavailable, method, u, err)
	}

	return resp, nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf("%w: body=%s", kv.ErrTooLarge, strings.TrimSpace(string(body)))
	}

	return fmt.Errorf("%w: status=%d body=%s", kv.ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
}
