package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gauthierbraillon/rumblemix/internal/account"
	"github.com/gauthierbraillon/rumblemix/internal/comments"
	"github.com/gauthierbraillon/rumblemix/internal/config"
	"github.com/gauthierbraillon/rumblemix/internal/display"
	"github.com/gauthierbraillon/rumblemix/internal/extract"
	"github.com/gauthierbraillon/rumblemix/internal/log"
	"github.com/gauthierbraillon/rumblemix/internal/pagination"
	"github.com/gauthierbraillon/rumblemix/internal/settings"
	"github.com/gauthierbraillon/rumblemix/internal/transport"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
)

// app holds everything a command needs for one run. The session is loaded
// once and threaded through every call that may renew it.
type app struct {
	cfg       config.Config
	store     settings.Store
	client    *transport.Client
	auth      *auth.Manager
	extractor *extract.Extractor
	formatter *display.TerminalFormatter
	session   auth.Session
	logger    zerolog.Logger
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.Configure(log.Config{Level: cfg.LogLevel})

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}

	client := transport.NewClient(store, transport.WithTimeout(cfg.Timeout))
	manager := auth.NewManager(cfg.BaseURL, store, client)

	session, err := manager.Load()
	if err != nil {
		store.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		store:     store,
		client:    client,
		auth:      manager,
		extractor: extract.New(extract.WithBaseURL(cfg.BaseURL), extract.WithLetterDir(cfg.LetterDir)),
		formatter: display.NewTerminalFormatter(
			display.WithDateFormat(cfg.DateFormat),
			display.WithOneLineTitles(cfg.OneLineTitles),
		),
		session: session,
		logger:  log.WithComponent("cli"),
	}

	if err := a.adoptCredentials(cfg.Username, cfg.Password); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// adoptCredentials stores credentials given through the environment when
// they differ from the saved ones. A changed username drops the old session.
func (a *app) adoptCredentials(username, password string) error {
	if username == "" || (username == a.session.Username && password == a.session.Password) {
		return nil
	}
	changedUser := username != a.session.Username
	a.session.Username = username
	a.session.Password = password
	if err := a.auth.SaveCredentials(a.session); err != nil {
		return err
	}
	if changedUser {
		s, err := a.auth.Reset(a.session)
		if err != nil {
			return err
		}
		a.session = s
	}
	return nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing settings")
	}
}

func (a *app) paginator() *pagination.Controller {
	return pagination.New(a.client, a.extractor, pagination.WithWarmup(func(ctx context.Context) {
		a.session, _ = a.auth.HasSession(ctx, a.session, true)
	}))
}

func (a *app) comments() *comments.Retriever {
	return comments.New(a.cfg.BaseURL, a.client, a.auth, a.extractor)
}

func (a *app) account() *account.Service {
	return account.New(a.cfg.BaseURL, a.client, a.auth)
}
