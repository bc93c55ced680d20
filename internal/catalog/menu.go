package catalog

import "strings"

// HomeMenu is the top-level directory. Account entries appear only when
// login details are known.
func HomeMenu(baseURL string, hasLoginDetails bool) []Entry {
	base := strings.TrimRight(baseURL, "/")
	menu := []Entry{
		{Kind: EntryMenu, Title: "Search", Folder: true, Category: "search"},
	}
	if hasLoginDetails {
		menu = append(menu,
			Entry{Kind: EntryMenu, Title: "Subscriptions", URL: base + "/subscriptions", Folder: true, Category: "subscriptions"},
			Entry{Kind: EntryMenu, Title: "Following", URL: base + "/followed-channels", Folder: true, Category: "following"},
			Entry{Kind: EntryMenu, Title: "Watch Later", URL: base + "/playlists/watch-later", Folder: true, Category: "playlist"},
		)
	}
	return append(menu,
		Entry{Kind: EntryMenu, Title: "Battle Leaderboard", URL: base + "/battle-leaderboard/recorded", Folder: true, Category: "top"},
		Entry{Kind: EntryMenu, Title: "Categories", URL: base + "/browse", Folder: true, Category: "cat_list"},
		Entry{Kind: EntryMenu, Title: "Live Streams", URL: base + "/browse/live", Folder: true, Category: "live_stream"},
	)
}

// SearchMenu lists the three search scopes. Channel and user searches share
// the channel search page.
func SearchMenu(baseURL string) []Entry {
	base := strings.TrimRight(baseURL, "/")
	return []Entry{
		{Kind: EntryMenu, Title: "Search Video", URL: base + "/search/video?q=", Folder: true, Search: true, Category: "video"},
		{Kind: EntryMenu, Title: "Search Channel", URL: base + "/search/channel?q=", Folder: true, Search: true, Category: "channel"},
		{Kind: EntryMenu, Title: "Search User", URL: base + "/search/channel?q=", Folder: true, Search: true, Category: "user"},
	}
}

// SearchBase returns the search page URL for a scope: video, channel or user.
func SearchBase(baseURL, scope string) (string, bool) {
	for _, e := range SearchMenu(baseURL) {
		if e.Category == scope {
			return e.URL, true
		}
	}
	return "", false
}
