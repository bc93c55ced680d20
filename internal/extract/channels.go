package extract

import (
	"regexp"
	"strings"
)

var (
	categoryStartRe = regexp.MustCompile(`(?is)<a\s*class="category__link link"`)
	categoryLinkRe  = regexp.MustCompile(`(?is)^\s*href="([^"]+)"`)
	categoryImgRe   = regexp.MustCompile(`(?is)<img\s*class="category__image"\s*src="([^"]+)"`)
	categoryTitleRe = regexp.MustCompile(`(?is)<strong class="category__title">([^<]+)</strong>`)
)

// categories maps the browse page. The region starts at the first category
// link and each link opens an item.
func categories(x *Extractor, page string) []Entity {
	loc := categoryStartRe.FindStringIndex(page)
	if loc == nil {
		return nil
	}

	var out []Entity
	for _, frag := range categoryStartRe.Split(page[loc[0]:], -1)[1:] {
		title := cleanText(find(categoryTitleRe, frag))
		link := strings.TrimSpace(find(categoryLinkRe, frag))
		if title == "" || link == "" {
			continue
		}
		out = append(out, CategoryListing{
			Title:     title,
			URL:       x.absolute(link) + "/videos",
			Thumbnail: find(categoryImgRe, frag),
		})
	}
	return out
}

var (
	followingContainerRe = regexp.MustCompile(`(?is)<ol\s*class="followed-channels__list">(.*)</ol>`)
	followingBoundary    = `"followed-channel flex items-`
	followingTitleRe     = regexp.MustCompile(`(?is)<span\s*class="line-clamp-2">([^<]+)</span>`)
	followingFollowersRe = regexp.MustCompile(`(?is)<div\s*class="followed-channel__followers(?:[^"]*)">([^<]+)</div>`)
	followingLinkRe      = regexp.MustCompile(`(?is)<a\s*class="(?:[^"]+)"\s*href="(/(?:c|user)/[^"]+)"\s*>`)
	followingAvatarRe    = regexp.MustCompile(`(?is)<(?:img|span)\s*class="channel__avatar([^"]*)"\s*(?:src="([^"]+)")?`)
)

// following maps the followed channels page of a logged in account.
func following(x *Extractor, page string) []Entity {
	region, ok := isolate(followingContainerRe, page)
	if !ok {
		return nil
	}

	var out []Entity
	for _, frag := range fragments(region, followingBoundary) {
		name := cleanText(find(followingTitleRe, frag))
		path := find(followingLinkRe, frag)
		if name == "" || path == "" {
			continue
		}

		c := ChannelListing{
			Name:      name,
			URL:       x.absolute(path),
			Path:      path,
			Verified:  strings.Contains(frag, `<use href="#channel_verified" />`),
			Followers: cleanText(find(followingFollowersRe, frag)),
			IsUser:    strings.Contains(path, "/user/"),
		}
		if m := followingAvatarRe.FindStringSubmatch(frag); m != nil {
			if strings.Contains(m[1], "channel__letter") || m[2] == "" {
				c.Avatar = x.letterAvatar(name)
			} else {
				c.Avatar = m[2]
			}
			c.Live = strings.Contains(m[1], "channel__live")
		} else {
			c.Avatar = x.letterAvatar(name)
		}
		out = append(out, c)
	}
	return out
}

var (
	directoryContainerRe = regexp.MustCompile(`(?is)<div class="main-and-sidebar">(.*)<nav class="paginator">`)
	directoryBoundary    = `<article`
	directoryLinkRe      = regexp.MustCompile(`(?is)<a\shref=([^\s]+)\sclass="[^"]+">`)
	directoryNameRe      = regexp.MustCompile(`(?is)<span\sclass="block\struncate">([^<]+)</span>`)
	directoryVerifiedRe  = regexp.MustCompile(`(?is)<title>Verified</title>`)
	directoryFollowersRe = regexp.MustCompile(`(?is)<span\sclass="[^"]+">\s+([^&]+)&nbsp;Follower(?:s)?\s+</span>`)
	directoryImageIDRe   = regexp.MustCompile(`(?is)user-image--img--id-([^\s"]+)[\s"]`)
)

// directory maps channel search results. Users and channels share the page;
// users reports which of the two to keep.
func directory(users bool) Func {
	marker := "/c/"
	if users {
		marker = "/user/"
	}

	return func(x *Extractor, page string) []Entity {
		region, ok := isolate(directoryContainerRe, page)
		if !ok {
			return nil
		}

		var out []Entity
		for _, frag := range fragments(region, directoryBoundary) {
			path := strings.Trim(find(directoryLinkRe, frag), `"'`)
			if path == "" || !strings.Contains(path, marker) {
				continue
			}
			name := cleanText(find(directoryNameRe, frag))
			if name == "" {
				continue
			}

			c := ChannelListing{
				Name:      name,
				URL:       x.absolute(path),
				Path:      path,
				Verified:  directoryVerifiedRe.MatchString(frag),
				Followers: "0",
				IsUser:    users,
			}
			if f := cleanText(find(directoryFollowersRe, frag)); f != "" {
				c.Followers = f
			}
			if id := find(directoryImageIDRe, frag); id != "" {
				c.Avatar = cssImage(page, id)
			}
			if c.Avatar == "" {
				c.Avatar = x.letterAvatar(name)
			}
			out = append(out, c)
		}
		return out
	}
}

// cssImage looks up the background image the page's stylesheet assigns to
// a user image id.
func cssImage(page, id string) string {
	re, err := regexp.Compile(`(?is)i\.user-image--img--id-` + regexp.QuoteMeta(id) + `.+?\{\s*background-image:\s*url(.+?);`)
	if err != nil {
		return ""
	}
	v := find(re, page)
	return strings.Trim(strings.NewReplacer("(", "", ")", "").Replace(v), `"' `)
}
