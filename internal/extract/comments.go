package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	commentIDRe   = regexp.MustCompile(`#comment-(\d+)`)
	commentTimeRe = regexp.MustCompile(`^([A-Z][^,]+),\s([A-Z][^\s]+)\s([0-9]+),\s([0-9]+)\s([0-9]{2}):([0-9]{2})\s(AM|PM)\s-[0-9]+$`)
)

// comments parses the comment thread fragment returned by the comment list
// endpoint. A comment without author, id, timestamp or body is dropped.
func comments(x *Extractor, page string) []Entity {
	if !strings.Contains(page, "comments-meta-author") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		x.logger.Debug().Err(err).Msg("comment html unreadable")
		return nil
	}

	var out []Entity
	doc.Find("a.comments-meta-author").Each(func(_ int, author *goquery.Selection) {
		meta := author.Parent()
		posted := meta.Find("a.comments-meta-post-time").First()
		body := meta.Next()
		if posted.Length() == 0 || !body.Is("p.comment-text") {
			return
		}

		href, _ := posted.Attr("href")
		id := find(commentIDRe, href)
		title, _ := posted.Attr("title")
		when := commentTimeRe.FindStringSubmatch(strings.TrimSpace(title))
		name := strings.TrimSpace(author.Text())
		text := strings.TrimSpace(body.Text())
		if id == "" || when == nil || name == "" || text == "" {
			return
		}

		authorURL, _ := author.Attr("href")
		out = append(out, CommentEntry{
			AuthorURL:    authorURL,
			AuthorName:   name,
			ID:           id,
			DayName:      when[1],
			MonthName:    when[2],
			Day:          when[3],
			Year:         when[4],
			Hour:         when[5],
			Minute:       when[6],
			Meridiem:     when[7],
			RelativeTime: strings.TrimSpace(posted.Text()),
			Body:         text,
		})
	})
	return out
}
