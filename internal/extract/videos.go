package extract

import (
	"regexp"
	"strings"
)

type grid struct {
	container *regexp.Regexp
	boundary  string
}

var (
	streamGrid = grid{
		container: regexp.MustCompile(`(?is)<ol\s*class="thumbnail__grid">(.*)</ol>`),
		boundary:  `"videostream thumbnail__grid-`,
	}
	liveGrid = grid{
		container: regexp.MustCompile(`(?is)<div class="thumbnail__grid"\s*role="list">(.*)<nav class="paginator">`),
		boundary:  `"videostream thumbnail__grid-`,
	}
	playlistGrid = grid{
		container: regexp.MustCompile(`(?is)<ol\s*class="videostream__list"(?:[^>]+)>(.*)</ol>`),
		boundary:  `"videostream videostream__list-item`,
	}
)

var (
	streamTitleRe       = regexp.MustCompile(`(?is)<h3(?:[^>]+)?>(.*?)</h3>`)
	streamLinkRe        = regexp.MustCompile(`(?is)<a\sclass="videostream__link link"\sdraggable="false"\shref="([^"]+)">`)
	streamImgRe         = regexp.MustCompile(`(?is)<img\s*class="thumbnail__image"\s*draggable="false"\s*src="([^"]+)"`)
	streamChannelRe     = regexp.MustCompile(`(?is)<span\sclass="channel__name(?:[^"]+)" title="(?:[^"]+)">([^<]+)</span>(\s*<svg class=channel__verified)?`)
	streamChannelLinkRe = regexp.MustCompile(`(?is)<a\s*rel="author"\s*class="channel__link\slink\s(?:[^"]+)"\s*href="([^"]+)"\s*>`)
	streamTimeRe        = regexp.MustCompile(`(?is)<time\s*class="(?:[^"]+)"\s*datetime="([^"]+)"`)
	streamDurationRe    = regexp.MustCompile(`(?is)videostream__status--duration"\s*>([^<]+)</div>`)
)

// videoStream maps the thumbnail grids used by categories, subscriptions,
// channel pages, live streams and playlists.
func videoStream(g grid) Func {
	return func(x *Extractor, page string) []Entity {
		region, ok := isolate(g.container, page)
		if !ok {
			return nil
		}

		var out []Entity
		for _, frag := range fragments(region, g.boundary) {
			title := cleanText(find(streamTitleRe, frag))
			link := find(streamLinkRe, frag)
			if title == "" || link == "" {
				continue
			}

			v := VideoListing{
				Title:           title,
				URL:             x.absolute(link),
				Thumbnail:       find(streamImgRe, frag),
				ChannelURL:      find(streamChannelLinkRe, frag),
				Live:            strings.Contains(frag, "videostream__status--live"),
				Upcoming:        strings.Contains(frag, "videostream__status--upcoming"),
				DurationSeconds: durationSeconds(find(streamDurationRe, frag)),
			}
			if m := streamChannelRe.FindStringSubmatch(frag); m != nil {
				v.ChannelName = cleanText(m[1])
				v.ChannelVerified = m[2] != ""
			}
			if raw := find(streamTimeRe, frag); raw != "" {
				v.Published = parseDate(raw)
			}
			out = append(out, v)
		}
		return out
	}
}

var (
	searchContainerRe   = regexp.MustCompile(`(?is)<ol\s*class="?video-listing-entries[^>]*>(.*)</ol>`)
	searchBoundary      = `<li class="video-listing-entry`
	searchLinkRe        = regexp.MustCompile(`(?is)<a[^>]*?\shref="?([^"\s>]+)"?[^>]*>`)
	searchImgRe         = regexp.MustCompile(`(?is)<img\s*class="?video-item--img"?\s*src="?([^"\s>]+)"?`)
	searchTimeRe        = regexp.MustCompile(`(?is)<time[^>]*?\sdatetime="?([^"\s>]+)"?`)
	searchTitleRe       = regexp.MustCompile(`(?is)<h3 class="?video-item--title"?>(.*?)</h3>`)
	searchChannelLinkRe = regexp.MustCompile(`(?is)<address[^>]*>\s*<a[^>]*?\shref="?([^"\s>]+)"?`)
	searchChannelRe     = regexp.MustCompile(`(?is)<div class="?ellipsis-1"?>(.*?)</div>`)
	searchDurationRe    = regexp.MustCompile(`(?is)video-item--duration"?\s*data-value="?([^"\s>]+)"?`)
)

// searchVideos maps the video search result list.
func searchVideos(x *Extractor, page string) []Entity {
	region, ok := isolate(searchContainerRe, page)
	if !ok {
		return nil
	}

	var out []Entity
	for _, frag := range fragments(region, searchBoundary) {
		title := cleanText(find(searchTitleRe, frag))
		link := find(searchLinkRe, frag)
		if title == "" || link == "" {
			continue
		}

		v := VideoListing{
			Title:           title,
			URL:             x.absolute(link),
			Thumbnail:       find(searchImgRe, frag),
			ChannelURL:      find(searchChannelLinkRe, frag),
			Live:            strings.Contains(frag, "video-item--live"),
			Upcoming:        strings.Contains(frag, "video-item--upcoming"),
			DurationSeconds: durationSeconds(find(searchDurationRe, frag)),
		}
		if name := find(searchChannelRe, frag); name != "" {
			if i := strings.Index(name, "<svg"); i >= 0 {
				name = name[:i]
				v.ChannelVerified = true
			}
			v.ChannelName = cleanText(name)
		}
		if raw := find(searchTimeRe, frag); raw != "" {
			v.Published = parseDate(raw)
		}
		out = append(out, v)
	}
	return out
}
