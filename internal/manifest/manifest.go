// Package manifest expands an HLS master playlist into quality variants.
package manifest

import (
	"regexp"
	"slices"
	"strings"

	"github.com/gauthierbraillon/rumblemix/internal/log"
)

// headerLines precede the first variant in the site's master playlists.
const headerLines = 2

var resolutionRe = regexp.MustCompile(`(\d+)x(\d+)`)

// Variant is one entry of a master playlist.
type Variant struct {
	Label string
	URI   string
}

// Expand reads (attributes, URI) line pairs after the header and returns them
// highest quality first. The label is the height of the WIDTHxHEIGHT token on
// the attributes line. Pairs without a URI or without a resolution are
// skipped.
func Expand(text string) []Variant {
	logger := log.WithComponent("manifest")

	lines := strings.Split(strings.TrimRight(text, " \t\r\n"), "\n")
	if len(lines) <= headerLines {
		return nil
	}
	lines = lines[headerLines:]

	var out []Variant
	for i := 0; i < len(lines); i += 2 {
		attrs := strings.TrimSpace(lines[i])
		uri := ""
		if i+1 < len(lines) {
			uri = strings.TrimSpace(lines[i+1])
		}

		label, ok := height(attrs)
		if !ok || uri == "" {
			logger.Debug().Int("line", i+headerLines+1).Str("attributes", attrs).Msg("skipping malformed variant")
			continue
		}
		out = append(out, Variant{Label: label, URI: uri})
	}

	slices.Reverse(out)
	return out
}

func height(attrs string) (string, bool) {
	if m := resolutionRe.FindAllStringSubmatch(attrs, -1); len(m) > 0 {
		return m[len(m)-1][2], true
	}
	i := strings.LastIndex(attrs, "x")
	if i < 0 {
		return "", false
	}
	return attrs[i+1:], true
}
