// Package keycloak talks to the Keycloak admin REST API. Organizations map to
// top-level groups and employees to the users that are members of a group.
package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"hermes/internal/core/apperror"
)

// Config holds connection settings for one realm.
type Config struct {
	// BaseURL is the server root, e.g. https://sso.example.com
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string

	// Timeout bounds every HTTP round trip, token requests included
	Timeout time.Duration

	// CacheResponses enables an in-memory HTTP cache honouring Cache-Control
	CacheResponses bool
}

// DefaultTimeout is used when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Client is a minimal Keycloak admin API client.
type Client struct {
	adminURL string
	http     *http.Client
}

// New creates a Client that authenticates with the client credentials grant
// against the realm's token endpoint. ctx is used for token refreshes and
// must outlive the Client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.BaseURL == "" || cfg.Realm == "" {
		return nil, errors.New("keycloak: base URL and realm are required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("keycloak: client ID and client secret are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.CacheResponses {
		cached := httpcache.NewTransport(httpcache.NewMemoryCache())
		cached.Transport = http.DefaultTransport
		transport = cached
	}
	base := &http.Client{Transport: transport, Timeout: cfg.Timeout}

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL(cfg.BaseURL, cfg.Realm),
	}
	authed := creds.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	authed.Timeout = cfg.Timeout

	return NewWithHTTPClient(cfg.BaseURL, cfg.Realm, authed)
}

// NewWithHTTPClient creates a Client that sends requests with hc as is.
// hc is expected to add authentication itself.
func NewWithHTTPClient(baseURL, realm string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("keycloak: parse base URL: %w", err)
	}
	u.Path = path.Join(u.Path, "admin", "realms", realm)
	return &Client{adminURL: u.String(), http: hc}, nil
}

func tokenURL(baseURL, realm string) string {
	return strings.TrimRight(baseURL, "/") + "/realms/" + url.PathEscape(realm) + "/protocol/openid-connect/token"
}

// Organizations returns the group-backed organization repository.
func (c *Client) Organizations() *Groups {
	return &Groups{c: c}
}

// Employees returns the member-backed employee repository.
func (c *Client) Employees() *Members {
	return &Members{c: c}
}

// Ping checks that the realm is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.send(ctx, call{method: http.MethodGet, path: "/groups/count", entity: "realm"})
	return err
}

// call describes one admin API request.
type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any

	// entity and id describe the target for not found errors
	entity string
	id     string
}

// errorBody is the error payload Keycloak returns.
type errorBody struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
}

const maxErrorBody = 4 << 10

// send performs c and decodes a successful JSON response into c.out.
// It returns the response headers so callers can read Location.
func (c *Client) send(ctx context.Context, cl call) (http.Header, error) {
	target := c.adminURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("keycloak: encode %s body: %w", cl.entity, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("keycloak: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewUnavailable(err).WithDetail("endpoint", cl.path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp, cl)
	}

	if cl.out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
			return nil, fmt.Errorf("keycloak: decode %s: %w", cl.entity, err)
		}
	}
	return resp.Header, nil
}

// statusError maps a non-2xx response to the directory error conventions.
func statusError(resp *http.Response, cl call) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var eb errorBody
	_ = json.Unmarshal(raw, &eb)
	message := eb.ErrorMessage
	if message == "" {
		message = eb.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperror.NewNotFound(cl.entity, cl.id)
	case http.StatusConflict:
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return apperror.NewConflict(message).WithDetail("entity", cl.entity)
	default:
		if message == "" {
			message = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("keycloak: %s %s: unexpected status %d: %s", cl.method, cl.path, resp.StatusCode, message)
	}
}

// idFromLocation extracts the new resource ID from a Location header.
func idFromLocation(h http.Header) (string, error) {
	loc := h.Get("Location")
	if loc == "" {
		return "", errors.New("keycloak: created resource has no Location header")
	}
	u, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("keycloak: parse Location: %w", err)
	}
	id := path.Base(u.Path)
	if id == "" || id == "/" || id == "." {
		return "", fmt.Errorf("keycloak: no ID in Location %q", loc)
	}
	return id, nil
}

func pageQuery(offset, limit int) url.Values {
	q := url.Values{}
	q.Set("first", strconv.Itoa(max(offset, 0)))
	if limit > 0 {
		q.Set("max", strconv.Itoa(limit))
	}
	return q
}
