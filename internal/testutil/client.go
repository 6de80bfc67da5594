package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"testing"

	"github.com/dom/xwing-campaign/internal/service"
)

// Client is an HTTP client holding the session cookie and CSRF token of a
// logged-in user
type Client struct {
	ts        *TestServer
	http      *http.Client
	CSRFToken string
}

// NewClient returns an anonymous client for the test server
func (ts *TestServer) NewClient(t *testing.T) *Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	return &Client{ts: ts, http: &http.Client{Jar: jar}}
}

// Login creates a client authenticated as username
func (ts *TestServer) Login(t *testing.T, username, password string) *Client {
	t.Helper()

	c := ts.NewClient(t)
	resp := c.DoURL(t, http.MethodPost, ts.BaseURL()+"/auth/login/"+username, map[string]string{"password": password})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed with status %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	c.CSRFToken = body.Token
	return c
}

// Do sends body as JSON to the API path. A nil body sends no content.
func (c *Client) Do(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()
	return c.DoURL(t, method, c.ts.APIURL(path), body)
}

// DoURL is Do for an absolute URL
func (c *Client) DoURL(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.CSRFToken != "" {
		req.Header.Set(service.CSRFHeader, c.CSRFToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
