// Package pagination turns a listing request into a fetched, extracted page
// and decides whether a following page exists.
package pagination

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/extract"
	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
)

const (
	// MinItemsForNext is the item count a page must exceed before a next page
	// is offered.
	MinItemsForNext = 15
	// MaxPage is the last page ever offered.
	MaxPage = 10
)

var unpaginated = map[string]bool{
	"following": true,
	"top":       true,
	"cat_list":  true,
}

// Request identifies one page of a listing.
type Request struct {
	BaseURL  string
	Page     int
	Category string
	Search   string
}

// Next returns the request for the following page.
func (r Request) Next() Request {
	r.Page = r.number() + 1
	return r
}

func (r Request) number() int {
	if r.Page < 1 {
		return 1
	}
	return r.Page
}

// Page is one fetched listing page.
type Page struct {
	Number int
	URL    string
	Kind   extract.Kind
	Items  []extract.Entity
	Count  int
}

// Empty reports whether nothing was extracted.
func (p Page) Empty() bool { return p.Count == 0 }

// WarmupFunc makes sure a session exists before pages that need one.
type WarmupFunc func(ctx context.Context)

type Option func(*Controller)

func WithWarmup(fn WarmupFunc) Option {
	return func(c *Controller) { c.warmup = fn }
}

type Controller struct {
	fetcher   transport.Fetcher
	extractor *extract.Extractor
	warmup    WarmupFunc
	logger    zerolog.Logger
}

func New(fetcher transport.Fetcher, extractor *extract.Extractor, opts ...Option) *Controller {
	c := &Controller{
		fetcher:   fetcher,
		extractor: extractor,
		warmup:    func(context.Context) {},
		logger:    log.WithComponent("pagination"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Paginate fetches and extracts the requested page. The second result reports
// whether a next page should be offered. A failed fetch is an empty page.
func (c *Controller) Paginate(ctx context.Context, req Request) (Page, bool) {
	page := Page{Number: req.number(), URL: PageURL(req)}
	if req.BaseURL == "" {
		return page, false
	}

	if strings.Contains(page.URL, "subscriptions") || req.Category == "following" {
		c.warmup(ctx)
	}

	page.Kind = KindFor(page.URL, req.Category)
	if page.Kind == "" {
		c.logger.Warn().Str("category", req.Category).Msg("no listing kind for category")
		return page, false
	}

	res := c.fetcher.Fetch(ctx, page.URL, nil, nil)
	body, ok := res.Get()
	if !ok {
		c.logger.Info().Str("url", page.URL).Str("status", res.Status.String()).Msg("listing page unavailable")
		return page, false
	}

	page.Items, page.Count = c.extractor.Extract(body, page.Kind)
	return page, HasNext(req.Category, page.Number, page.Count)
}

// HasNext applies the next-page rule.
func HasNext(category string, page, count int) bool {
	if unpaginated[category] {
		return false
	}
	return count > MinItemsForNext && page+1 <= MaxPage
}

// PageURL builds the URL of the requested page. Page one of a search is the
// base with the escaped term appended; later pages set the page query
// parameter.
func PageURL(req Request) string {
	target := req.BaseURL
	if req.Search != "" {
		target += url.QueryEscape(req.Search)
	}
	if req.number() == 1 || unpaginated[req.Category] {
		return target
	}

	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(req.number()))
	u.RawQuery = q.Encode()
	return u.String()
}

// KindFor maps a listing category (and the URL it is served from) to the
// extraction rules for its page.
func KindFor(pageURL, category string) extract.Kind {
	if strings.Contains(pageURL, "/search/") {
		switch category {
		case "video":
			return extract.KindVideo
		case "user":
			return extract.KindUser
		default:
			return extract.KindChannel
		}
	}

	if (category == "channel" || category == "other") && strings.Contains(pageURL, "/c/") {
		category = "channel_video"
	}

	switch category {
	case "subscriptions", "cat_video", "channel_video", "user":
		return extract.KindVideoStream
	case "live_stream":
		return extract.KindLiveStream
	case "playlist":
		return extract.KindPlaylist
	case "channel", "top", "other":
		return extract.KindVideo
	case "following":
		return extract.KindFollowing
	case "cat_list":
		return extract.KindCategories
	default:
		return ""
	}
}
