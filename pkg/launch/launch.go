// Package launch hands resolved stream URLs to a browser or media player.
package launch

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// DefaultPlayer is used when no player command is configured.
const DefaultPlayer = "mpv"

// Runner starts a command without waiting for it.
type Runner func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by caller
}

type Launcher struct {
	run  Runner
	goos string
}

type Option func(*Launcher)

// WithRunner replaces process creation, mainly for tests.
func WithRunner(run Runner) Option {
	return func(l *Launcher) { l.run = run }
}

// WithOS overrides the detected platform.
func WithOS(goos string) Option {
	return func(l *Launcher) { l.goos = goos }
}

func New(opts ...Option) *Launcher {
	l := &Launcher{run: startCommand, goos: runtime.GOOS}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open opens the URL in the default browser.
func (l *Launcher) Open(rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}

	switch l.goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return l.run("xdg-open", rawURL)
	case "darwin":
		return l.run("open", rawURL)
	case "windows":
		return l.run("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", l.goos)
	}
}

// Play starts player with the URL as its last argument. The player string
// may carry its own flags, e.g. "mpv --fs".
func (l *Launcher) Play(player, rawURL string) error {
	if err := validate(rawURL); err != nil {
		return err
	}
	if strings.TrimSpace(player) == "" {
		player = DefaultPlayer
	}
	fields := strings.Fields(player)
	return l.run(fields[0], append(fields[1:], rawURL)...)
}

// validate rejects anything other than http(s) so the URL cannot smuggle
// options or local files into the launched command.
func validate(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %s (only http and https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}
