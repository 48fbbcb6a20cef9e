// Package client talks to an imenik server over HTTP. It implements the
// document operations and the current-user lookup the sync layer needs.
package client

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
	"sync"
	"time"

	"github.com/erazemk/imenik/internal/auth"
	"github.com/erazemk/imenik/internal/docstore"
)

// ErrUnauthorized is returned when the server rejects the session token.
var ErrUnauthorized = errors.New("session expired or revoked, sign in again")

// RemoteError is a non-2xx response without a more specific mapping.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.RWMutex
	session *Session
}

// New returns a client for the server at baseURL. A zero timeout means
// requests are bounded only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetSession replaces the current session. nil signs the client out locally.
func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// Session returns a copy of the current session, or nil.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// CurrentUserID returns the signed-in user's id, or "" when signed out.
func (c *Client) CurrentUserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// collectionURL builds the API URL of a collection or of a document in it.
func (c *Client) collectionURL(collection string, rest ...string) (string, error) {
	if err := docstore.ValidateCollection(collection); err != nil {
		return "", err
	}
	segments := append(strings.Split(collection, "/"), rest...)
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return c.baseURL + "/api/" + strings.Join(segments, "/"), nil
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, u, body, contentType, out)
}

func responseError(resp *http.Response) error {
	var body errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	if strings.HasPrefix(body.Code, "auth/") {
		return &auth.Error{Code: body.Code}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return docstore.ErrNotFound
	case http.StatusForbidden:
		return docstore.ErrPermissionDenied
	case http.StatusUnauthorized:
		return ErrUnauthorized
	}
	return &RemoteError{Status: resp.StatusCode, Message: body.Error}
}
