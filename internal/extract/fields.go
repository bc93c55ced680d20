package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var dateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2}):(\d{2})[+-](\d{2}):(\d{2})`)

// isolate returns the first capture of container in page.
func isolate(container *regexp.Regexp, page string) (string, bool) {
	m := container.FindStringSubmatch(page)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// fragments splits region on boundary and drops the text before the first
// item.
func fragments(region, boundary string) []string {
	parts := strings.Split(region, boundary)
	if len(parts) < 2 {
		return nil
	}
	return parts[1:]
}

// find returns the first capture of re in s, or "".
func find(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// cleanText trims and unescapes HTML entities.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strings.TrimSpace(s)))
}

// parseDate reads the YYYY-MM-DDThh:mm:ss±hh:mm form. Anything else is kept
// only as Raw.
func parseDate(raw string) Date {
	raw = strings.TrimSpace(raw)
	d := Date{Raw: raw}
	if m := dateRe.FindStringSubmatch(raw); m != nil {
		d.Year, d.Month, d.Day = m[1], m[2], m[3]
	}
	return d
}

// durationSeconds converts h:mm:ss, mm:ss or bare seconds. Unreadable input
// is 0.
func durationSeconds(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}

// letterAvatar is the placeholder image for name's first character.
func (x *Extractor) letterAvatar(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return ""
	}
	return filepath.Join(x.letterDir, "letters", string(unicode.ToLower(r))+".png")
}
