package account

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/rumblemix/internal/settings"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
)

type recorder struct {
	mu    sync.Mutex
	forms []map[string]string
	names []string
}

func (r *recorder) add(name string, form map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, name)
	r.forms = append(r.forms, form)
}

func newService(t *testing.T, subscribeBody string) (*Service, *recorder, string) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		name := r.URL.Query().Get("name")
		switch {
		case r.URL.Path == "/v42-clip.html":
			fmt.Fprint(w, `<div class="media" data-id="123456">clip</div>`)
		case r.URL.Path == "/v43-noid.html":
			fmt.Fprint(w, `<div>nothing</div>`)
		case name == "user.subscribe":
			rec.add(name, form)
			fmt.Fprint(w, subscribeBody)
		case name == "playlist.add_video", name == "playlist.delete_video":
			rec.add(name, form)
			fmt.Fprint(w, `{"data":true}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	store := settings.NewMemory(nil)
	client := transport.NewClient(store)
	return New(server.URL, client, auth.NewManager(server.URL, store, client)), rec, server.URL
}

func liveSession() auth.Session {
	return auth.Session{Token: "tok", Expiry: time.Now().Add(time.Hour).Unix()}
}

func TestParseTarget(t *testing.T) {
	got, err := ParseTarget("/c/Alpha")
	require.NoError(t, err)
	assert.Equal(t, Target{Slug: "Alpha", Type: "channel"}, got)

	got, err = ParseTarget("/user/bob")
	require.NoError(t, err)
	assert.Equal(t, Target{Slug: "bob", Type: "user"}, got)

	_, err = ParseTarget("/v1-video.html")
	assert.ErrorIs(t, err, ErrUnknownTarget)
}

func TestSubscribe_PostsSlugTypeAndAction(t *testing.T) {
	svc, rec, _ := newService(t, `{"user":{"logged_in":true},"data":{"thumb":"https://img.test/a.jpg"}}`)

	_, thumb, err := svc.Subscribe(context.Background(), liveSession(), "/c/Alpha", true)
	require.NoError(t, err)
	assert.Equal(t, "https://img.test/a.jpg", thumb)

	_, _, err = svc.Subscribe(context.Background(), liveSession(), "/user/bob", false)
	require.NoError(t, err)

	require.Len(t, rec.forms, 2)
	assert.Equal(t, map[string]string{"slug": "Alpha", "type": "channel", "action": "subscribe"}, rec.forms[0])
	assert.Equal(t, map[string]string{"slug": "bob", "type": "user", "action": "unsubscribe"}, rec.forms[1])
}

func TestSubscribe_RequiresLoggedInAnswerWithThumb(t *testing.T) {
	for name, body := range map[string]string{
		"logged out": `{"user":{"logged_in":false},"data":{"thumb":"x"}}`,
		"no thumb":   `{"user":{"logged_in":true},"data":{}}`,
		"not json":   `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newService(t, body)
			_, _, err := svc.Subscribe(context.Background(), liveSession(), "/c/Alpha", true)
			assert.ErrorIs(t, err, ErrActionFailed)
		})
	}
}

func TestSubscribe_WithoutSession(t *testing.T) {
	svc, rec, _ := newService(t, `{}`)

	_, _, err := svc.Subscribe(context.Background(), auth.Session{}, "/c/Alpha", true)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, rec.names)
}

func TestWatchLater_AddAndRemove(t *testing.T) {
	svc, rec, base := newService(t, `{}`)

	_, err := svc.WatchLaterAdd(context.Background(), liveSession(), base+"/v42-clip.html")
	require.NoError(t, err)
	_, err = svc.WatchLaterRemove(context.Background(), liveSession(), base+"/v42-clip.html")
	require.NoError(t, err)

	assert.Equal(t, []string{"playlist.add_video", "playlist.delete_video"}, rec.names)
	for _, form := range rec.forms {
		assert.Equal(t, map[string]string{"playlist_id": WatchLater, "video_id": "123456"}, form)
	}
}

func TestWatchLater_NoVideoID(t *testing.T) {
	svc, rec, base := newService(t, `{}`)

	_, err := svc.WatchLaterAdd(context.Background(), liveSession(), base+"/v43-noid.html")
	assert.ErrorIs(t, err, ErrNoVideoID)
	assert.Empty(t, rec.names)
}
