// Package account performs actions on behalf of the logged in user:
// following channels and managing the watch later playlist.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/outcome"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
)

// WatchLater is the id of the built-in playlist.
const WatchLater = "watch-later"

var (
	ErrNoSession     = errors.New("not logged in")
	ErrUnknownTarget = errors.New("not a channel or user")
	ErrNoVideoID     = errors.New("video id not found on page")
	ErrActionFailed  = errors.New("action failed")
)

var videoIDRe = regexp.MustCompile(`(?is)data-id="([0-9]+)"`)

// Target is a followable channel or user.
type Target struct {
	Slug string
	Type string // "channel" or "user"
}

// ParseTarget reads a site path such as /c/Name or /user/name.
func ParseTarget(path string) (Target, error) {
	switch {
	case strings.Contains(path, "/user/"):
		return Target{Slug: strings.Replace(path, "/user/", "", 1), Type: "user"}, nil
	case strings.Contains(path, "/c/"):
		return Target{Slug: strings.Replace(path, "/c/", "", 1), Type: "channel"}, nil
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, path)
	}
}

type Service struct {
	baseURL string
	fetcher transport.Fetcher
	auth    *auth.Manager
	logger  zerolog.Logger
}

func New(baseURL string, fetcher transport.Fetcher, manager *auth.Manager) *Service {
	return &Service{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		auth:    manager,
		logger:  log.WithComponent("account"),
	}
}

// Subscribe follows (or with follow false, unfollows) the channel or user at
// path. It returns the channel thumbnail the site answers with.
func (a *Service) Subscribe(ctx context.Context, s auth.Session, path string, follow bool) (auth.Session, string, error) {
	target, err := ParseTarget(path)
	if err != nil {
		return s, "", err
	}
	s, ok := a.auth.HasSession(ctx, s, true)
	if !ok {
		return s, "", ErrNoSession
	}

	action := "subscribe"
	if !follow {
		action = "unsubscribe"
	}

	s, res := auth.Authenticated(ctx, a.auth, s, func(ctx context.Context) outcome.Result[string] {
		return a.subscribe(ctx, target, action)
	})
	thumb, ok := res.Get()
	if !ok {
		return s, "", fmt.Errorf("%w: %s %s", ErrActionFailed, action, target.Slug)
	}
	a.logger.Info().Str("action", action).Str("slug", target.Slug).Msg("subscription updated")
	return s, thumb, nil
}

func (a *Service) subscribe(ctx context.Context, target Target, action string) outcome.Result[string] {
	res := a.fetcher.Fetch(ctx, a.baseURL+"/service.php?api=2&name=user.subscribe",
		url.Values{"slug": {target.Slug}, "type": {target.Type}, "action": {action}},
		map[string]string{
			"Referer":      a.baseURL + target.Slug,
			"Content-type": "application/x-www-form-urlencoded",
		})
	body, ok := res.Get()
	if !ok {
		return res
	}

	var resp struct {
		User struct {
			LoggedIn bool `json:"logged_in"`
		} `json:"user"`
		Data struct {
			Thumb string `json:"thumb"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return outcome.Failed[string](fmt.Errorf("decode subscribe response: %w", err))
	}
	if !resp.User.LoggedIn || resp.Data.Thumb == "" {
		return outcome.Failed[string](ErrActionFailed)
	}
	return outcome.OK(resp.Data.Thumb)
}

// WatchLaterAdd puts the video at pageURL on the watch later playlist.
func (a *Service) WatchLaterAdd(ctx context.Context, s auth.Session, pageURL string) (auth.Session, error) {
	return a.playlist(ctx, s, pageURL, "playlist.add_video")
}

// WatchLaterRemove takes the video at pageURL off the watch later playlist.
func (a *Service) WatchLaterRemove(ctx context.Context, s auth.Session, pageURL string) (auth.Session, error) {
	return a.playlist(ctx, s, pageURL, "playlist.delete_video")
}

func (a *Service) playlist(ctx context.Context, s auth.Session, pageURL, endpoint string) (auth.Session, error) {
	page, ok := a.fetcher.Fetch(ctx, pageURL, nil, nil).Get()
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrNoVideoID, pageURL)
	}
	m := videoIDRe.FindStringSubmatch(page)
	if m == nil {
		return s, fmt.Errorf("%w: %s", ErrNoVideoID, pageURL)
	}
	videoID := m[1]

	s, ok = a.auth.HasSession(ctx, s, true)
	if !ok {
		return s, ErrNoSession
	}

	s, res := auth.Authenticated(ctx, a.auth, s, func(ctx context.Context) outcome.Result[string] {
		return a.fetcher.Fetch(ctx, a.baseURL+"/service.php?name="+endpoint,
			url.Values{"playlist_id": {WatchLater}, "video_id": {videoID}},
			map[string]string{
				"Referer":      a.baseURL,
				"Content-type": "application/x-www-form-urlencoded",
			})
	})
	if res.Status == outcome.StatusFailed {
		return s, fmt.Errorf("%w: %s %s: %v", ErrActionFailed, endpoint, videoID, res.Err)
	}
	a.logger.Info().Str("endpoint", endpoint).Str("video", videoID).Msg("playlist updated")
	return s, nil
}
