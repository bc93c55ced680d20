// Package display provides terminal output formatting for rumblemix.
package display

import (
	"fmt"
	"strings"

	"github.com/gauthierbraillon/rumblemix/internal/catalog"
	"github.com/gauthierbraillon/rumblemix/internal/extract"
)

const separator = " • "

// Date display orders, matching the date format setting.
const (
	DateYMD = "0"
	DateMDY = "1"
	DateDMY = "2"
)

// TerminalFormatter formats directory entries and comments for terminal display.
type TerminalFormatter struct {
	dateFormat string
	oneLine    bool
}

type FormatterOption func(*TerminalFormatter)

// WithDateFormat selects DateYMD, DateMDY or DateDMY.
func WithDateFormat(format string) FormatterOption {
	return func(f *TerminalFormatter) { f.dateFormat = format }
}

// WithOneLineTitles keeps each entry's details on its title line.
func WithOneLineTitles(oneLine bool) FormatterOption {
	return func(f *TerminalFormatter) { f.oneLine = oneLine }
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter(opts ...FormatterOption) *TerminalFormatter {
	f := &TerminalFormatter{dateFormat: DateYMD}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatEntry formats a single entry for display.
func (f *TerminalFormatter) FormatEntry(e catalog.Entry) string {
	title := e.Title
	if e.Kind == catalog.EntryChannel && e.ChannelVerified {
		title += " (Verified)"
	}
	if e.Live {
		title += " (Live)"
	}
	if e.Upcoming {
		title += " (Upcoming)"
	}

	var details []string
	if e.Channel != "" {
		channel := e.Channel
		if e.ChannelVerified {
			channel += " (Verified)"
		}
		details = append(details, channel)
	}
	if e.Published.Raw != "" {
		details = append(details, f.FormatDate(e.Published))
	}
	if e.DurationSeconds > 0 {
		details = append(details, FormatDuration(e.DurationSeconds))
	}
	if e.Followers != "" {
		details = append(details, e.Followers)
	}

	var lines []string
	if f.oneLine {
		lines = append(lines, strings.Join(append([]string{title}, details...), " - "))
	} else {
		lines = append(lines, title)
		if len(details) > 0 {
			lines = append(lines, "  "+strings.Join(details, separator))
		}
	}

	switch {
	case e.Folder && e.Category != "" && e.URL != "":
		lines = append(lines, "  ["+e.Category+"] "+e.URL)
	case e.URL != "":
		lines = append(lines, "  "+e.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatEntries formats a numbered listing.
func (f *TerminalFormatter) FormatEntries(entries []catalog.Entry) string {
	if len(entries) == 0 {
		return "No items to display.\n"
	}

	var formatted []string
	for i, e := range entries {
		formatted = append(formatted, fmt.Sprintf("%2d. %s", i+1, f.FormatEntry(e)))
	}

	return strings.Join(formatted, "\n")
}

// FormatDate renders a parsed date in the configured order. Unparsed dates
// are shown as scraped.
func (f *TerminalFormatter) FormatDate(d extract.Date) string {
	if !d.Parsed() {
		return d.Raw
	}
	switch f.dateFormat {
	case DateMDY:
		return d.Month + "/" + d.Day + "/" + d.Year
	case DateDMY:
		return d.Day + "/" + d.Month + "/" + d.Year
	default:
		return d.Year + "/" + d.Month + "/" + d.Day
	}
}

// FormatDuration renders seconds as m:ss or h:mm:ss.
func FormatDuration(seconds int) string {
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatComments formats a comment thread.
func (f *TerminalFormatter) FormatComments(comments []extract.CommentEntry) string {
	if len(comments) == 0 {
		return "No Comments Found\n"
	}

	var b strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&b, "%s (%s)\n  %s\n", c.AuthorName, c.RelativeTime, c.Body)
	}
	return b.String()
}
