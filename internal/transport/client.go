// Package transport performs the site's HTTP requests with the fixed browser
// header set and the cookie map persisted in the settings store.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/outcome"
	"github.com/gauthierbraillon/rumblemix/internal/settings"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 10 * time.Second

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

const accept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher is what the scraping packages need from a transport.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, form url.Values, headers map[string]string) outcome.Result[string]
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Client fetches pages. Cookies are re-read from the store before each
// request and written back only when the response changed them.
type Client struct {
	store      settings.Store
	httpClient HTTPClient
	timeout    time.Duration
	logger     zerolog.Logger
}

// NewClient creates a transport over store.
func NewClient(store settings.Store, opts ...ClientOption) *Client {
	c := &Client{
		store:      store,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     log.WithComponent("transport"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Fetch GETs rawURL, or POSTs form when it is non-empty. Caller headers are
// applied after the fixed set and win on conflict. Network errors and non-2xx
// statuses are Failed; an empty body is Empty.
func (c *Client) Fetch(ctx context.Context, rawURL string, form url.Values, headers map[string]string) outcome.Result[string] {
	body, err := c.doRequest(ctx, rawURL, form, headers)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", rawURL).Msg("request failed")
		return outcome.Failed[string](err)
	}
	if body == "" {
		return outcome.Empty[string]()
	}
	return outcome.OK(body)
}

func (c *Client) doRequest(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	method := http.MethodGet
	var payload io.Reader
	if len(form) > 0 {
		method = http.MethodPost
		payload = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), payload)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept-Language", "en-gb,en;q=0.5")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Referer", rawURL)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("DNT", "1")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	stored, err := c.loadCookies()
	if err != nil {
		return "", err
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return "", fmt.Errorf("create cookie jar: %w", err)
	}
	jar.SetCookies(target, toCookies(stored))
	for _, ck := range jar.Cookies(target) {
		req.AddCookie(ck)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if set := resp.Cookies(); len(set) > 0 {
		if err := c.mergeCookies(stored, set); err != nil {
			return "", err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	return string(body), nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Cookies returns the cookie map currently persisted in the store.
func (c *Client) Cookies() (map[string]string, error) {
	return c.loadCookies()
}

func (c *Client) loadCookies() (map[string]string, error) {
	raw, err := c.store.Get(settings.KeyCookies)
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	return DecodeCookies(raw), nil
}

// mergeCookies folds the cookies the response set into the stored map. A
// cookie the server expired is dropped. The store is only written on change.
func (c *Client) mergeCookies(stored map[string]string, set []*http.Cookie) error {
	now := time.Now()
	merged := maps.Clone(stored)
	for _, ck := range set {
		if ck.MaxAge < 0 || (!ck.Expires.IsZero() && ck.Expires.Before(now)) {
			delete(merged, ck.Name)
			continue
		}
		merged[ck.Name] = ck.Value
	}
	if maps.Equal(merged, stored) {
		return nil
	}

	c.logger.Debug().Int("cookies", len(merged)).Msg("persisting cookies")
	return c.store.Set(settings.KeyCookies, EncodeCookies(merged))
}

// DecodeCookies parses the stored JSON cookie object. Anything unreadable is
// treated as no cookies.
func DecodeCookies(raw string) map[string]string {
	cookies := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return cookies
	}
	if err := json.Unmarshal([]byte(raw), &cookies); err != nil || cookies == nil {
		return map[string]string{}
	}
	return cookies
}

// EncodeCookies serialises a cookie map for the store.
func EncodeCookies(cookies map[string]string) string {
	if len(cookies) == 0 {
		return "{}"
	}
	data, err := json.Marshal(cookies)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func toCookies(m map[string]string) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(m))
	for name, value := range m {
		out = append(out, &http.Cookie{Name: name, Value: value})
	}
	return out
}
