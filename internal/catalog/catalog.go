package catalog

import (
	"slices"
	"strings"

	"github.com/gauthierbraillon/rumblemix/internal/extract"
)

// Catalog collects entries in page order.
type Catalog struct {
	entries []Entry
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		entries: make([]Entry, 0),
	}
}

// AddItems converts extracted items listed under category and appends them.
func (c *Catalog) AddItems(category string, items []extract.Entity) {
	for _, it := range items {
		if e, ok := FromEntity(category, it); ok {
			c.entries = append(c.entries, e)
		}
	}
}

// AddEntries appends prepared entries such as menus.
func (c *Catalog) AddEntries(entries ...Entry) {
	c.entries = append(c.entries, entries...)
}

// Entries returns the collected entries filtered by opts.
func (c *Catalog) Entries(opts Options) []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if len(opts.Kinds) > 0 && !slices.Contains(opts.Kinds, e.Kind) {
			continue
		}
		out = append(out, e)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}

// FromEntity maps one extracted item. Comments are not directory entries.
func FromEntity(category string, item extract.Entity) (Entry, bool) {
	switch v := item.(type) {
	case extract.VideoListing:
		e := Entry{
			Kind:            EntryVideo,
			Title:           v.Title,
			URL:             v.URL,
			Thumbnail:       v.Thumbnail,
			Playable:        true,
			Channel:         v.ChannelName,
			ChannelVerified: v.ChannelVerified,
			Published:       v.Published,
			DurationSeconds: v.DurationSeconds,
			Live:            v.Live,
			Upcoming:        v.Upcoming,
		}
		if v.ChannelURL != "" {
			e.Subscribe = &SubscribeContext{Path: v.ChannelURL, Follow: true}
		}
		return e, true

	case extract.ChannelListing:
		e := Entry{
			Kind:            EntryChannel,
			Title:           v.Name,
			URL:             v.URL,
			Thumbnail:       v.Avatar,
			Folder:          true,
			ChannelVerified: v.Verified,
			Live:            v.Live,
			Followers:       v.Followers,
			Category:        channelCategory(category, v),
			Subscribe:       &SubscribeContext{Path: v.Path, Follow: category != "following"},
		}
		return e, true

	case extract.CategoryListing:
		return Entry{
			Kind:      EntryCategory,
			Title:     v.Title,
			URL:       v.URL,
			Thumbnail: v.Thumbnail,
			Folder:    true,
			Category:  "channel_video",
		}, true

	default:
		return Entry{}, false
	}
}

func channelCategory(listed string, c extract.ChannelListing) string {
	if listed == "following" {
		if c.IsUser {
			return "user"
		}
		return "channel_video"
	}
	if strings.Contains(c.Path, "/c/") {
		return "channel_video"
	}
	return "user"
}
