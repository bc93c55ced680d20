package display

import (
	"context"
	"strings"
	"testing"

	"github.com/gauthierbraillon/rumblemix/internal/catalog"
	"github.com/gauthierbraillon/rumblemix/internal/extract"
)

func sampleVideo() catalog.Entry {
	return catalog.Entry{
		Kind:            catalog.EntryVideo,
		Title:           "Morning Show",
		URL:             "https://rumble.com/v2abc-morning.html",
		Channel:         "Alpha News",
		ChannelVerified: true,
		Published:       extract.Date{Year: "2024", Month: "03", Day: "07", Raw: "2024-03-07T10:00:00-05:00"},
		DurationSeconds: 3725,
		Playable:        true,
	}
}

func TestAC400_TerminalFeed_ShowsVideoDetails(t *testing.T) {
	output := NewTerminalFormatter().FormatEntry(sampleVideo())

	for _, want := range []string{"Morning Show", "Alpha News (Verified)", "2024/03/07", "1:02:05", "https://rumble.com/v2abc-morning.html"} {
		if !strings.Contains(output, want) {
			t.Errorf("user should see %q in:\n%s", want, output)
		}
	}
}

func TestAC401_TerminalFeed_DateFormats(t *testing.T) {
	d := extract.Date{Year: "2024", Month: "03", Day: "07", Raw: "2024-03-07"}
	tests := []struct {
		format string
		want   string
	}{
		{DateYMD, "2024/03/07"},
		{DateMDY, "03/07/2024"},
		{DateDMY, "07/03/2024"},
		{"", "2024/03/07"},
	}
	for _, tt := range tests {
		got := NewTerminalFormatter(WithDateFormat(tt.format)).FormatDate(d)
		if got != tt.want {
			t.Errorf("format %q: user should see %s, got %s", tt.format, tt.want, got)
		}
	}

	raw := extract.Date{Raw: "yesterday"}
	if got := NewTerminalFormatter().FormatDate(raw); got != "yesterday" {
		t.Errorf("unparsed date should be shown as scraped, got %q", got)
	}
}

func TestAC402_TerminalFeed_OneLineTitles(t *testing.T) {
	output := NewTerminalFormatter(WithOneLineTitles(true)).FormatEntry(sampleVideo())

	firstLine := strings.SplitN(output, "\n", 2)[0]
	if !strings.Contains(firstLine, "Morning Show - Alpha News (Verified) - 2024/03/07") {
		t.Errorf("user should see details on the title line, got %q", firstLine)
	}
}

func TestAC403_TerminalFeed_ShowsLiveAndUpcoming(t *testing.T) {
	live := catalog.Entry{Kind: catalog.EntryVideo, Title: "Now", Live: true}
	soon := catalog.Entry{Kind: catalog.EntryVideo, Title: "Later", Upcoming: true}
	verified := catalog.Entry{Kind: catalog.EntryChannel, Title: "Chan", ChannelVerified: true}

	f := NewTerminalFormatter()
	if !strings.Contains(f.FormatEntry(live), "Now (Live)") {
		t.Error("user should see live marker")
	}
	if !strings.Contains(f.FormatEntry(soon), "Later (Upcoming)") {
		t.Error("user should see upcoming marker")
	}
	if !strings.Contains(f.FormatEntry(verified), "Chan (Verified)") {
		t.Error("user should see verified channel marker")
	}
}

func TestAC409_TerminalFeed_FoldersShowCategory(t *testing.T) {
	folder := catalog.Entry{Kind: catalog.EntryChannel, Title: "Alpha", URL: "https://rumble.com/c/Alpha", Folder: true, Category: "channel_video"}

	output := NewTerminalFormatter().FormatEntry(folder)

	if !strings.Contains(output, "[channel_video] https://rumble.com/c/Alpha") {
		t.Errorf("user should see how to browse the folder, got %q", output)
	}
}

func TestAC404_TerminalFeed_ShowsMultipleItems(t *testing.T) {
	entries := []catalog.Entry{
		{Kind: catalog.EntryVideo, Title: "First Video"},
		{Kind: catalog.EntryVideo, Title: "Second Video"},
	}

	output := NewTerminalFormatter().FormatEntries(entries)

	if !strings.Contains(output, " 1. First Video") {
		t.Error("user should see first video numbered")
	}
	if !strings.Contains(output, " 2. Second Video") {
		t.Error("user should see second video numbered")
	}
}

func TestAC405_TerminalFeed_ShowsEmptyFeedMessage(t *testing.T) {
	output := NewTerminalFormatter().FormatEntries(nil)

	if !strings.Contains(strings.ToLower(output), "no") {
		t.Error("user should see message indicating no content available")
	}
}

func TestAC406_TerminalFeed_Comments(t *testing.T) {
	f := NewTerminalFormatter()
	output := f.FormatComments([]extract.CommentEntry{
		{AuthorName: "viewer1", RelativeTime: "2 hours ago", Body: "Great video"},
	})

	if !strings.Contains(output, "viewer1 (2 hours ago)") || !strings.Contains(output, "Great video") {
		t.Errorf("user should see author, time and text, got %q", output)
	}
	if !strings.Contains(f.FormatComments(nil), "No Comments") {
		t.Error("user should be told when there are no comments")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{59: "0:59", 61: "1:01", 3600: "1:00:00", 3725: "1:02:05"}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestAC407_Prompter_SelectsQuality(t *testing.T) {
	labels := []string{"1080", "720", "480"}
	tests := []struct {
		name  string
		input string
		index int
		ok    bool
	}{
		{"valid choice", "2\n", 1, true},
		{"retry after invalid", "9\nabc\n3\n", 2, true},
		{"last line without newline", "1", 0, true},
		{"empty line cancels", "\n", -1, false},
		{"q cancels", "q\n", -1, false},
		{"end of input cancels", "", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			idx, ok := NewPrompter(strings.NewReader(tt.input), &out).Select(context.Background(), labels)
			if idx != tt.index || ok != tt.ok {
				t.Errorf("got (%d, %v), want (%d, %v)", idx, ok, tt.index, tt.ok)
			}
			if !strings.Contains(out.String(), "3) 480") {
				t.Errorf("user should see numbered qualities, got %q", out.String())
			}
		})
	}
}

func TestAC408_Prompter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	if _, ok := NewPrompter(strings.NewReader("1\n"), &out).Select(ctx, []string{"720"}); ok {
		t.Error("cancelled prompt should not select")
	}
}
