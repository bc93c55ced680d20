// Package extract turns listing pages into typed entities.
//
// Every kind follows the same two phases: isolate the region that holds the
// repeated items, then split it on the per-item boundary and map each
// fragment. Fields are extracted independently so a missing optional field
// only defaults that field. An item without a title or link is dropped.
package extract

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/log"
)

// Kind selects the extraction rules for a page.
type Kind string

const (
	KindVideo       Kind = "video"
	KindVideoStream Kind = "videostream"
	KindLiveStream  Kind = "live_stream"
	KindPlaylist    Kind = "playlist"
	KindCategories  Kind = "cat_list"
	KindFollowing   Kind = "following"
	KindChannel     Kind = "channel"
	KindUser        Kind = "user"
	KindComments    Kind = "comments"
)

// Entity is one extracted item: VideoListing, ChannelListing,
// CategoryListing or CommentEntry.
type Entity interface {
	entity()
}

// Date is a publication date. Raw always holds the scraped text; the numeric
// fields are zero when it did not parse.
type Date struct {
	Year  string
	Month string
	Day   string
	Raw   string
}

// Parsed reports whether the numeric fields are set.
func (d Date) Parsed() bool { return d.Year != "" }

type VideoListing struct {
	Title           string
	URL             string
	Thumbnail       string
	ChannelName     string
	ChannelURL      string // site-relative, e.g. /c/Name
	ChannelVerified bool
	Published       Date
	DurationSeconds int
	Live            bool
	Upcoming        bool
}

type ChannelListing struct {
	Name      string
	URL       string
	Path      string // site-relative, e.g. /user/name
	Verified  bool
	Followers string
	Avatar    string
	Live      bool
	IsUser    bool
}

type CategoryListing struct {
	Title     string
	URL       string
	Thumbnail string
}

type CommentEntry struct {
	AuthorURL    string
	AuthorName   string
	ID           string
	DayName      string
	MonthName    string
	Day          string
	Year         string
	Hour         string
	Minute       string
	Meridiem     string
	RelativeTime string
	Body         string
}

func (VideoListing) entity()    {}
func (ChannelListing) entity()  {}
func (CategoryListing) entity() {}
func (CommentEntry) entity()    {}

// Func extracts all items of one kind from a page.
type Func func(x *Extractor, page string) []Entity

var registry = map[Kind]Func{
	KindVideo:       searchVideos,
	KindVideoStream: videoStream(streamGrid),
	KindLiveStream:  videoStream(liveGrid),
	KindPlaylist:    videoStream(playlistGrid),
	KindCategories:  categories,
	KindFollowing:   following,
	KindChannel:     directory(false),
	KindUser:        directory(true),
	KindComments:    comments,
}

// Kinds lists the registered kinds.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

type Option func(*Extractor)

// WithBaseURL sets the origin prepended to site-relative links.
func WithBaseURL(base string) Option {
	return func(x *Extractor) { x.baseURL = strings.TrimRight(base, "/") }
}

// WithLetterDir sets the directory holding letters/<c>.png placeholder avatars.
func WithLetterDir(dir string) Option {
	return func(x *Extractor) { x.letterDir = dir }
}

type Extractor struct {
	baseURL   string
	letterDir string
	logger    zerolog.Logger
}

func New(opts ...Option) *Extractor {
	x := &Extractor{
		baseURL: "https://rumble.com",
		logger:  log.WithComponent("extract"),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract returns the items of kind found in page and how many there are.
// An unknown kind, a page without the kind's container, or a panic inside the
// kind's rules all yield nil, 0.
func (x *Extractor) Extract(page string, kind Kind) (items []Entity, count int) {
	fn, ok := registry[kind]
	if !ok {
		x.logger.Warn().Str("kind", string(kind)).Msg("unknown listing kind")
		return nil, 0
	}

	defer func() {
		if r := recover(); r != nil {
			x.logger.Error().Str("kind", string(kind)).Str("panic", fmt.Sprint(r)).Msg("extraction aborted")
			items, count = nil, 0
		}
	}()

	items = fn(x, page)
	x.logger.Debug().Str("kind", string(kind)).Int("items", len(items)).Msg("extracted")
	return items, len(items)
}

func (x *Extractor) absolute(link string) string {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}
	return x.baseURL + link
}
