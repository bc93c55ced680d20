// Package comments retrieves the comment thread of a video for a logged in
// account.
package comments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/extract"
	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/outcome"
	"github.com/gauthierbraillon/rumblemix/internal/resolve"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
)

type Retriever struct {
	baseURL   string
	fetcher   transport.Fetcher
	auth      *auth.Manager
	extractor *extract.Extractor
	logger    zerolog.Logger
}

func New(baseURL string, fetcher transport.Fetcher, manager *auth.Manager, extractor *extract.Extractor) *Retriever {
	return &Retriever{
		baseURL:   strings.TrimRight(baseURL, "/"),
		fetcher:   fetcher,
		auth:      manager,
		extractor: extractor,
		logger:    log.WithComponent("comments"),
	}
}

// Get returns the comments of the video at pageURL along with the session,
// which may have been renewed. Without a session, or when the video id cannot
// be found, the result is empty.
func (r *Retriever) Get(ctx context.Context, s auth.Session, pageURL string) (auth.Session, []extract.CommentEntry) {
	s, ok := r.auth.HasSession(ctx, s, true)
	if !ok {
		r.logger.Info().Msg("comments need a logged in session")
		return s, nil
	}

	id, ok := resolve.ContentID(ctx, r.fetcher, r.baseURL, pageURL)
	if !ok || len(id) < 2 {
		r.logger.Info().Str("url", pageURL).Msg("cannot find comments")
		return s, nil
	}

	s, res := auth.Authenticated(ctx, r.auth, s, func(ctx context.Context) outcome.Result[string] {
		return r.thread(ctx, id)
	})
	html, ok := res.Get()
	if !ok {
		return s, nil
	}

	items, _ := r.extractor.Extract(html, extract.KindComments)
	out := make([]extract.CommentEntry, 0, len(items))
	for _, it := range items {
		if c, ok := it.(extract.CommentEntry); ok {
			out = append(out, c)
		}
	}
	return s, out
}

// thread fetches the comment list. The endpoint takes the id without its
// leading character.
func (r *Retriever) thread(ctx context.Context, id string) outcome.Result[string] {
	res := r.fetcher.Fetch(ctx, r.baseURL+"/service.php?name=comment.list&video="+id[1:], nil, map[string]string{
		"Referer":      r.baseURL + id,
		"Content-type": "application/x-www-form-urlencoded",
	})
	body, ok := res.Get()
	if !ok {
		return res
	}

	var resp struct {
		HTML string `json:"html"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return outcome.Failed[string](fmt.Errorf("decode comment list: %w", err))
	}
	if strings.TrimSpace(resp.HTML) == "" {
		return outcome.Empty[string]()
	}
	return outcome.OK(resp.HTML)
}
