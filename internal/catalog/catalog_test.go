package catalog

import (
	"testing"

	"github.com/gauthierbraillon/rumblemix/internal/extract"
)

func TestAC500_Catalog_KeepsPageOrder(t *testing.T) {
	cat := New()
	cat.AddItems("cat_video", []extract.Entity{
		extract.VideoListing{Title: "first", URL: "https://r.test/v1.html"},
		extract.VideoListing{Title: "second", URL: "https://r.test/v2.html"},
		extract.VideoListing{Title: "third", URL: "https://r.test/v3.html"},
	})

	entries := cat.Entries(Options{})

	if len(entries) != 3 {
		t.Fatalf("user should see all 3 videos, got %d", len(entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if entries[i].Title != want {
			t.Errorf("position %d: user should see %s, got %s", i+1, want, entries[i].Title)
		}
	}
}

func TestAC501_Catalog_VideosArePlayableWithChannelContext(t *testing.T) {
	e, ok := FromEntity("subscriptions", extract.VideoListing{
		Title: "clip", URL: "https://r.test/v1.html", ChannelName: "Alpha", ChannelURL: "/c/Alpha",
	})

	if !ok || !e.Playable || e.Folder {
		t.Fatal("user should be able to play a video entry")
	}
	if e.Subscribe == nil || e.Subscribe.Path != "/c/Alpha" || !e.Subscribe.Follow {
		t.Errorf("user should be offered to follow the video's channel, got %+v", e.Subscribe)
	}

	e, _ = FromEntity("top", extract.VideoListing{Title: "anon", URL: "https://r.test/v2.html"})
	if e.Subscribe != nil {
		t.Error("video without a channel link should not offer a subscription")
	}
}

func TestAC502_Catalog_ChannelsBrowseToTheirVideos(t *testing.T) {
	tests := []struct {
		name     string
		listed   string
		channel  extract.ChannelListing
		category string
		follow   bool
	}{
		{"followed channel", "following", extract.ChannelListing{Name: "A", Path: "/c/A"}, "channel_video", false},
		{"followed user", "following", extract.ChannelListing{Name: "b", Path: "/user/b", IsUser: true}, "user", false},
		{"searched channel", "channel", extract.ChannelListing{Name: "C", Path: "/c/C"}, "channel_video", true},
		{"searched user", "user", extract.ChannelListing{Name: "d", Path: "/user/d", IsUser: true}, "user", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := FromEntity(tt.listed, tt.channel)
			if !ok || !e.Folder {
				t.Fatal("channel entry should be a folder")
			}
			if e.Category != tt.category {
				t.Errorf("category = %q, want %q", e.Category, tt.category)
			}
			if e.Subscribe.Follow != tt.follow {
				t.Errorf("followed channels should offer unfollow, others follow; got follow=%v", e.Subscribe.Follow)
			}
		})
	}
}

func TestAC503_Catalog_CommentsAreNotEntries(t *testing.T) {
	cat := New()
	cat.AddItems("comments", []extract.Entity{extract.CommentEntry{ID: "1"}})
	if got := cat.Entries(Options{}); len(got) != 0 {
		t.Errorf("comments should not become directory entries, got %d", len(got))
	}
}

func TestAC504_Catalog_LimitAndKindFilter(t *testing.T) {
	cat := New()
	cat.AddEntries(SearchMenu("https://r.test")...)
	cat.AddItems("cat_list", []extract.Entity{
		extract.CategoryListing{Title: "News", URL: "https://r.test/category/news/videos"},
		extract.CategoryListing{Title: "Gaming", URL: "https://r.test/category/gaming/videos"},
	})

	if got := cat.Entries(Options{Limit: 2}); len(got) != 2 {
		t.Errorf("limit should cap entries, got %d", len(got))
	}
	got := cat.Entries(Options{Kinds: []EntryKind{EntryCategory}})
	if len(got) != 2 || got[0].Title != "News" {
		t.Errorf("kind filter should keep only categories, got %+v", got)
	}
}

func TestAC505_HomeMenu_AccountEntriesNeedLoginDetails(t *testing.T) {
	anon := HomeMenu("https://r.test/", false)
	user := HomeMenu("https://r.test/", true)

	if len(user)-len(anon) != 3 {
		t.Fatalf("logged in user should see 3 extra entries, got %d vs %d", len(user), len(anon))
	}
	for _, e := range anon {
		if e.Category == "subscriptions" || e.Category == "following" || e.Category == "playlist" {
			t.Errorf("anonymous user should not see %s", e.Title)
		}
	}
	if user[1].URL != "https://r.test/subscriptions" {
		t.Errorf("subscriptions url = %q", user[1].URL)
	}
}

func TestAC506_SearchBase(t *testing.T) {
	url, ok := SearchBase("https://r.test", "user")
	if !ok || url != "https://r.test/search/channel?q=" {
		t.Errorf("user search should use the channel search page, got %q", url)
	}
	if _, ok := SearchBase("https://r.test", "podcast"); ok {
		t.Error("unknown scope should not resolve")
	}
}
