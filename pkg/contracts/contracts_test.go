// Package contracts checks that recorded responses of the site's service
// endpoints are still understood end to end. The recordings carry fields we
// do not use; they must be ignored.
package contracts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/rumblemix/internal/account"
	"github.com/gauthierbraillon/rumblemix/internal/comments"
	"github.com/gauthierbraillon/rumblemix/internal/extract"
	"github.com/gauthierbraillon/rumblemix/internal/resolve"
	"github.com/gauthierbraillon/rumblemix/internal/settings"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
)

const videoPath = "/v1a2b3-some-title.html"

func recording(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

type env struct {
	site    *httptest.Server
	manager *auth.Manager
	client  *transport.Client
	session auth.Session
}

// newEnv serves the recordings from a fake site and returns a logged out
// session with credentials.
func newEnv(t *testing.T) *env {
	t.Helper()
	responses := map[string][]byte{
		"user.get_salts": recording(t, "get_salts.json"),
		"user.login":     recording(t, "login.json"),
		"user.subscribe": recording(t, "subscribe.json"),
		"comment.list":   recording(t, "comment_list.json"),
	}
	meta := recording(t, "embed_meta.json")

	e := &env{}
	e.site = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case videoPath:
			fmt.Fprintf(w, `<script type="application/ld+json">[{"@context":"http://schema.org","@type":"VideoObject","name":"Some title","embedUrl":"%s/embed/v1a2b3/","duration":"PT4M5S"}]</script>`, e.site.URL)
		case "/embedJS/u3/":
			w.Write(meta)
		case "/service.php":
			body, ok := responses[r.URL.Query().Get("name")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(e.site.Close)

	store := settings.NewMemory(nil)
	e.client = transport.NewClient(store)
	e.manager = auth.NewManager(e.site.URL, store, e.client)
	e.session = auth.Session{Username: "alice", Password: "correct horse"}
	return e
}

func TestLoginResponses_MatchRecordedContract(t *testing.T) {
	e := newEnv(t)

	salts, err := e.manager.GetSalts(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, salts, 3)

	s, err := e.manager.Login(context.Background(), e.session)
	require.NoError(t, err)
	assert.Equal(t, "8e4d1c2b3a5f6e7d", s.Token)

	cookies, err := e.client.Cookies()
	require.NoError(t, err)
	assert.Equal(t, "8e4d1c2b3a5f6e7d", cookies[auth.SessionCookie])
}

func TestEmbedMetadata_MatchesRecordedContract(t *testing.T) {
	e := newEnv(t)
	r := resolve.New(e.site.URL, e.client)

	best, err := r.Resolve(context.Background(), e.site.URL+videoPath, resolve.HighestAuto)
	require.NoError(t, err)
	assert.Equal(t, "https://sp.rmbl.ws/s8/2/a/b/c/x.caa.mp4", best)

	lowest, err := r.Resolve(context.Background(), e.site.URL+videoPath, resolve.LowestAuto)
	require.NoError(t, err)
	assert.Equal(t, "https://rumble.test/hls/v1a2b3/playlist.m3u8", lowest, "the adaptive stream sits at the bottom of the ladder")
}

func TestCommentList_MatchesRecordedContract(t *testing.T) {
	e := newEnv(t)
	retriever := comments.New(e.site.URL, e.client, e.manager, extract.New(extract.WithBaseURL(e.site.URL)))

	s, list := retriever.Get(context.Background(), e.session, e.site.URL+videoPath)

	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].AuthorName)
	assert.Equal(t, "101", list[0].ID)
	assert.Equal(t, "Great & useful", list[0].Body)
	assert.NotEmpty(t, s.Token, "comments should have logged in on the way")
}

func TestSubscribeResponse_MatchesRecordedContract(t *testing.T) {
	e := newEnv(t)
	svc := account.New(e.site.URL, e.client, e.manager)

	_, thumb, err := svc.Subscribe(context.Background(), e.session, "/c/Alpha", true)

	require.NoError(t, err)
	assert.Equal(t, "https://sp.rmbl.ws/z8/a/b/c/alpha.jpeg", thumb)
}
