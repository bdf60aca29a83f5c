package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client talks to the wiki's JSON API.
type Client struct {
	http.Client
	Addr string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string `json:"status"`
	Code       int64  `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: http=%d code=%d status=%q error=%q", e.StatusCode, e.Code, e.Status, e.Message)
}

type ackResponse struct {
	Success bool `json:"success"`
}

type listResponse struct {
	Success  bool     `json:"success"`
	Articles []string `json:"articles"`
}

func (c *Client) Ping() (string, error) {
	resp, err := c.send(http.MethodGet, "/ping", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// CreateArticle uses the path form, POST /api/article/{title}/{body}.
func (c *Client) CreateArticle(title, body string) error {
	return c.ack(http.MethodPost, "/api/article/"+url.PathEscape(title)+"/"+url.PathEscape(body), nil)
}

// UpdateArticle sends the body as JSON, so it may contain any character.
func (c *Client) UpdateArticle(title, body string) error {
	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	return c.ack(http.MethodPut, "/api/article/"+url.PathEscape(title), payload)
}

func (c *Client) DeleteArticle(title string) error {
	return c.ack(http.MethodDelete, "/api/article/"+url.PathEscape(title), nil)
}

func (c *Client) ListArticles() ([]string, error) {
	resp, err := c.send(http.MethodGet, "/api/articles", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, err
	}

	if !lr.Success {
		return nil, fmt.Errorf("api error: %s %s not acknowledged", http.MethodGet, "/api/articles")
	}

	return lr.Articles, nil
}

func (c *Client) ack(method, path string, payload []byte) error {
	resp, err := c.send(method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var ar ackResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return err
	}

	if !ar.Success {
		return fmt.Errorf("api error: %s %s not acknowledged", method, path)
	}

	return nil
}

// send performs the request and turns non-2xx responses into *APIError.
func (c *Client) send(method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.Addr+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()

		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, apiErr); err != nil {
			apiErr.Message = string(bytes.TrimSpace(raw))
		}

		return nil, apiErr
	}

	return resp, nil
}
