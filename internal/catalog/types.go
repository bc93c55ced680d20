// Package catalog turns extracted listings and fixed menus into directory
// entries the CLI can print and navigate.
//
// This package enables rumblemix to:
// - Present videos, channels and categories through one Entry type
// - Carry the category to browse next for folder entries
// - Offer follow/unfollow context for the channel behind an entry
package catalog

import "github.com/gauthierbraillon/rumblemix/internal/extract"

// EntryKind identifies what an entry leads to.
type EntryKind string

const (
	EntryVideo    EntryKind = "video"
	EntryChannel  EntryKind = "channel"
	EntryCategory EntryKind = "category"
	EntryMenu     EntryKind = "menu"
)

// Entry is one line of a directory listing.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`

	// Category is the listing category to browse URL with. Set for folders.
	Category string `json:"category,omitempty"`
	Folder   bool   `json:"folder"`
	Playable bool   `json:"playable"`
	// Search marks menu entries whose URL expects a search term appended.
	Search bool `json:"search,omitempty"`

	Channel         string       `json:"channel,omitempty"`
	ChannelVerified bool         `json:"channel_verified,omitempty"`
	Published       extract.Date `json:"published"`
	DurationSeconds int          `json:"duration_seconds,omitempty"`
	Live            bool         `json:"live,omitempty"`
	Upcoming        bool         `json:"upcoming,omitempty"`
	Followers       string       `json:"followers,omitempty"`

	Subscribe *SubscribeContext `json:"subscribe,omitempty"`
}

// SubscribeContext names the channel an entry can follow or unfollow.
type SubscribeContext struct {
	Path   string `json:"path"`
	Follow bool   `json:"follow"`
}

// Options configures listing retrieval.
type Options struct {
	Limit int
	Kinds []EntryKind
}
