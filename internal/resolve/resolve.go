// Package resolve turns a video page URL into a direct media URL according to
// a quality policy.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/manifest"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
)

// ErrNotFound is returned when no playable media URL could be determined.
var ErrNotFound = errors.New("video not found")

// Policy is how a quality is chosen. The values match the playback method
// setting.
type Policy int

const (
	HighestAuto Policy = iota
	LowestAuto
	InteractiveSelect
)

func (p Policy) String() string {
	switch p {
	case HighestAuto:
		return "highest"
	case LowestAuto:
		return "lowest"
	case InteractiveSelect:
		return "select"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy accepts the setting value (0, 1, 2) or the policy name.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "highest", "":
		return HighestAuto, nil
	case "1", "lowest":
		return LowestAuto, nil
	case "2", "select":
		return InteractiveSelect, nil
	default:
		return HighestAuto, fmt.Errorf("unknown playback method %q", s)
	}
}

// Ladder is scanned top-down for candidates.
var Ladder = []string{"1080", "720", "480", "360", "hls"}

// Candidate is one available quality.
type Candidate struct {
	Label string
	URL   string
}

// Selector asks a human to pick one of labels. ok is false when the choice
// was cancelled.
type Selector interface {
	Select(ctx context.Context, labels []string) (index int, ok bool)
}

type Option func(*Resolver)

func WithSelector(s Selector) Option {
	return func(r *Resolver) { r.selector = s }
}

type Resolver struct {
	baseURL  string
	fetcher  transport.Fetcher
	selector Selector
	logger   zerolog.Logger
}

func New(baseURL string, fetcher transport.Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetcher,
		logger:  log.WithComponent("resolve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ContentID fetches the video page and returns the embed id announced in its
// structured data.
func ContentID(ctx context.Context, fetcher transport.Fetcher, baseURL, pageURL string) (string, bool) {
	body, ok := fetcher.Fetch(ctx, pageURL, nil, nil).Get()
	if !ok {
		return "", false
	}
	re := regexp.MustCompile(`(?is),"embedUrl":"` + regexp.QuoteMeta(strings.TrimRight(baseURL, "/")) + `/embed/(.*?)/",`)
	m := re.FindStringSubmatch(body)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// Resolve returns the media URL for the video at pageURL.
func (r *Resolver) Resolve(ctx context.Context, pageURL string, policy Policy) (string, error) {
	id, ok := ContentID(ctx, r.fetcher, r.baseURL, pageURL)
	if !ok {
		return "", fmt.Errorf("%w: no content id on %s", ErrNotFound, pageURL)
	}

	meta, ok := r.fetcher.Fetch(ctx, r.baseURL+"/embedJS/u3/?request=video&ver=2&v="+id, nil, nil).Get()
	if !ok {
		return "", fmt.Errorf("%w: no metadata for %s", ErrNotFound, id)
	}

	candidates := scanLadder(meta, policy == HighestAuto)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no streams for %s", ErrNotFound, id)
	}
	if policy == HighestAuto {
		return normalize(candidates[0].URL), nil
	}

	if len(candidates) == 1 && strings.Contains(candidates[0].URL, ".m3u8") {
		candidates = r.expand(ctx, candidates[0].URL)
		if len(candidates) == 0 {
			return "", fmt.Errorf("%w: empty manifest for %s", ErrNotFound, id)
		}
	}

	chosen, err := r.choose(ctx, candidates, policy)
	if err != nil {
		return "", err
	}
	r.logger.Debug().Str("id", id).Str("policy", policy.String()).Str("label", chosen.Label).Msg("resolved")
	return normalize(chosen.URL), nil
}

func (r *Resolver) choose(ctx context.Context, candidates []Candidate, policy Policy) (Candidate, error) {
	switch policy {
	case LowestAuto:
		return candidates[len(candidates)-1], nil
	case InteractiveSelect:
		if len(candidates) == 1 {
			return candidates[0], nil
		}
		if r.selector == nil {
			return Candidate{}, fmt.Errorf("%w: no quality selector", ErrNotFound)
		}
		labels := make([]string, len(candidates))
		for i, c := range candidates {
			labels[i] = c.Label
			if labels[i] == "" {
				labels[i] = "?"
			}
		}
		i, ok := r.selector.Select(ctx, labels)
		if !ok || i < 0 || i >= len(candidates) {
			return Candidate{}, fmt.Errorf("%w: quality selection cancelled", ErrNotFound)
		}
		return candidates[i], nil
	default:
		return candidates[0], nil
	}
}

func (r *Resolver) expand(ctx context.Context, manifestURL string) []Candidate {
	body, ok := r.fetcher.Fetch(ctx, normalize(manifestURL), nil, nil).Get()
	if !ok {
		return nil
	}
	variants := manifest.Expand(body)
	out := make([]Candidate, 0, len(variants))
	for _, v := range variants {
		out = append(out, Candidate{Label: v.Label, URL: v.URI})
	}
	return out
}

var ladderRes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(Ladder))
	for _, q := range Ladder {
		m[q] = regexp.MustCompile(`(?is)"` + regexp.QuoteMeta(q) + `".+?url.+?:"(.*?)"`)
	}
	return m
}()

// scanLadder collects the first URL found for each ladder label, highest
// first. With firstOnly it stops at the first hit.
func scanLadder(meta string, firstOnly bool) []Candidate {
	var out []Candidate
	for _, q := range Ladder {
		m := ladderRes[q].FindStringSubmatch(meta)
		if m == nil || m[1] == "" {
			continue
		}
		out = append(out, Candidate{Label: q, URL: m[1]})
		if firstOnly {
			break
		}
	}
	return out
}

func normalize(u string) string {
	return strings.ReplaceAll(u, `\/`, "/")
}
