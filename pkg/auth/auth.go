// Package auth implements the site's salted-hash login and the lifecycle of
// the resulting session token.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/outcome"
	"github.com/gauthierbraillon/rumblemix/internal/settings"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/stretch"
)

// SessionLifetime is how long a fresh token is trusted before re-login.
const SessionLifetime = 30 * 24 * time.Hour

// LoginIterations is the stretch count the login form uses.
const LoginIterations = 128

// SessionCookie is the cookie the site reads the token from.
const SessionCookie = "u_s"

var (
	ErrNoCredentials    = errors.New("username or password not set")
	ErrSaltsUnavailable = errors.New("login salts unavailable")
	ErrLoginRejected    = errors.New("login rejected")
)

// Session is the caller-owned authentication state.
type Session struct {
	Username string
	Password string // #nosec G117 -- stored credential, never logged
	Token    string
	Expiry   int64
}

func (s Session) HasLoginDetails() bool {
	return s.Username != "" && s.Password != ""
}

// Valid reports whether the token is set and not yet expired at now.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && s.Expiry > now.Unix()
}

type ManagerOption func(*Manager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

type Manager struct {
	baseURL string
	store   settings.Store
	fetcher transport.Fetcher
	now     func() time.Time
	logger  zerolog.Logger
}

func NewManager(baseURL string, store settings.Store, fetcher transport.Fetcher, opts ...ManagerOption) *Manager {
	m := &Manager{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
		logger:  log.WithComponent("auth"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the persisted session.
func (m *Manager) Load() (Session, error) {
	var s Session
	var expiry string
	for key, dst := range map[string]*string{
		settings.KeyUsername: &s.Username,
		settings.KeyPassword: &s.Password,
		settings.KeySession:  &s.Token,
		settings.KeyExpiry:   &expiry,
	} {
		v, err := m.store.Get(key)
		if err != nil {
			return Session{}, fmt.Errorf("load %s: %w", key, err)
		}
		*dst = v
	}
	s.Expiry = parseExpiry(expiry)
	return s, nil
}

// SaveCredentials persists username and password.
func (m *Manager) SaveCredentials(s Session) error {
	if err := m.store.Set(settings.KeyUsername, s.Username); err != nil {
		return fmt.Errorf("save username: %w", err)
	}
	if err := m.store.Set(settings.KeyPassword, s.Password); err != nil {
		return fmt.Errorf("save password: %w", err)
	}
	return nil
}

func (m *Manager) GetSalts(ctx context.Context, username string) ([]string, error) {
	res := m.fetcher.Fetch(ctx, m.baseURL+"/service.php?name=user.get_salts",
		url.Values{"username": {username}}, m.formHeaders())
	body, ok := res.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrSaltsUnavailable, res.Err)
	}

	var resp struct {
		Data struct {
			Salts []string `json:"salts"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaltsUnavailable, err)
	}
	if len(resp.Data.Salts) == 0 {
		return nil, ErrSaltsUnavailable
	}
	return resp.Data.Salts, nil
}

// Login posts the stretched credential and persists the returned token. On
// any failure the input session is returned unchanged along with the error.
func (m *Manager) Login(ctx context.Context, s Session) (Session, error) {
	if !s.HasLoginDetails() {
		return s, ErrNoCredentials
	}

	salts, err := m.GetSalts(ctx, s.Username)
	if err != nil {
		return s, err
	}
	if len(salts) < 3 {
		return s, fmt.Errorf("%w: got %d salts", ErrSaltsUnavailable, len(salts))
	}

	hashes := stretch.Credential(s.Password, [3]string{salts[0], salts[1], salts[2]}, LoginIterations)
	res := m.fetcher.Fetch(ctx, m.baseURL+"/service.php?name=user.login",
		url.Values{"username": {s.Username}, "password_hashes": {hashes}}, m.formHeaders())
	body, ok := res.Get()
	if !ok {
		return s, fmt.Errorf("%w: %v", ErrLoginRejected, res.Err)
	}

	token, err := sessionToken(body)
	if err != nil {
		return s, err
	}

	updated := s
	updated.Token = token
	updated.Expiry = m.now().Unix() + int64(SessionLifetime/time.Second)
	if err := m.persist(updated); err != nil {
		return s, err
	}
	if err := m.mirrorCookie(token); err != nil {
		return s, err
	}

	m.logger.Info().Str("username", s.Username).Msg("logged in")
	return updated, nil
}

// HasSession reports whether s holds a live token. With autoLogin it attempts
// one login first when credentials are known.
func (m *Manager) HasSession(ctx context.Context, s Session, autoLogin bool) (Session, bool) {
	if s.Valid(m.now()) {
		return s, true
	}
	if !autoLogin || !s.HasLoginDetails() {
		return s, false
	}
	updated, err := m.Login(ctx, s)
	if err != nil {
		m.logger.Warn().Err(err).Msg("automatic login failed")
		return s, false
	}
	return m.HasSession(ctx, updated, false)
}

// Reset forgets the token and the mirrored cookies. Credentials are kept.
func (m *Manager) Reset(s Session) (Session, error) {
	s.Token = ""
	s.Expiry = 0
	if err := m.persist(s); err != nil {
		return s, err
	}
	if err := m.store.Set(settings.KeyCookies, ""); err != nil {
		return s, fmt.Errorf("clear cookies: %w", err)
	}
	return s, nil
}

// Relogin resets the session and logs in again.
func (m *Manager) Relogin(ctx context.Context, s Session) (Session, error) {
	s, err := m.Reset(s)
	if err != nil {
		return s, err
	}
	return m.Login(ctx, s)
}

// Authenticated runs call with a live session. A failed call is taken as an
// expired session: the session is reset, logged in again and the call retried
// once.
func Authenticated[T any](ctx context.Context, m *Manager, s Session, call func(context.Context) outcome.Result[T]) (Session, outcome.Result[T]) {
	s, ok := m.HasSession(ctx, s, true)
	if !ok {
		return s, outcome.Failed[T](ErrNoCredentials)
	}

	res := call(ctx)
	if res.Status != outcome.StatusFailed {
		return s, res
	}

	m.logger.Debug().Err(res.Err).Msg("authenticated call failed, logging in again")
	renewed, err := m.Relogin(ctx, s)
	if err != nil {
		return renewed, outcome.Failed[T](err)
	}
	return renewed, call(ctx)
}

func (m *Manager) persist(s Session) error {
	expiry := ""
	if s.Expiry > 0 {
		expiry = strconv.FormatInt(s.Expiry, 10)
	}
	if err := m.store.Set(settings.KeySession, s.Token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := m.store.Set(settings.KeyExpiry, expiry); err != nil {
		return fmt.Errorf("save expiry: %w", err)
	}
	return nil
}

func (m *Manager) mirrorCookie(token string) error {
	raw, err := m.store.Get(settings.KeyCookies)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	cookies := transport.DecodeCookies(raw)
	cookies[SessionCookie] = token
	if err := m.store.Set(settings.KeyCookies, transport.EncodeCookies(cookies)); err != nil {
		return fmt.Errorf("save cookies: %w", err)
	}
	return nil
}

func (m *Manager) formHeaders() map[string]string {
	return map[string]string{
		"Referer":      m.baseURL,
		"Content-type": "application/x-www-form-urlencoded",
	}
}

func sessionToken(body string) (string, error) {
	var resp struct {
		Data struct {
			Session json.RawMessage `json:"session"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrLoginRejected, err)
	}
	var token string
	if err := json.Unmarshal(resp.Data.Session, &token); err != nil || token == "" {
		return "", ErrLoginRejected
	}
	return token, nil
}

func parseExpiry(raw string) int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(math.Floor(f))
	}
	return 0
}
