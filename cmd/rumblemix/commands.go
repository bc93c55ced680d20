package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/rumblemix/internal/catalog"
	"github.com/gauthierbraillon/rumblemix/internal/config"
	"github.com/gauthierbraillon/rumblemix/internal/display"
	"github.com/gauthierbraillon/rumblemix/internal/pagination"
	"github.com/gauthierbraillon/rumblemix/internal/resolve"
	"github.com/gauthierbraillon/rumblemix/pkg/auth"
	"github.com/gauthierbraillon/rumblemix/pkg/launch"
)

// newMenuCmd creates the menu subcommand.
func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Show the home directory",
		Long:  "List the top-level directories. Account directories appear once login details are known.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			entries := catalog.HomeMenu(a.cfg.BaseURL, a.session.HasLoginDetails())
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatEntries(entries))
			fmt.Fprintln(cmd.OutOrStdout(), "\nOpen a directory with: rumblemix browse <category> <url>")
			return nil
		}),
	}
}

// newBrowseCmd creates the browse subcommand.
func newBrowseCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "browse <category> <url>",
		Short: "List one page of a directory",
		Long:  "List one page of a directory such as subscriptions, cat_list, channel_video or live_stream.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			category := args[0]
			if category == "search" {
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatEntries(catalog.SearchMenu(a.cfg.BaseURL)))
				fmt.Fprintln(cmd.OutOrStdout(), "\nSearch with: rumblemix search <video|channel|user> <query>")
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("category %q needs a url", category)
			}

			req := pagination.Request{BaseURL: args[1], Page: page, Category: category}
			return listPage(cmd, a, req, fmt.Sprintf("rumblemix browse %s %s", category, args[1]))
		}),
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")

	return cmd
}

// newSearchCmd creates the search subcommand.
func newSearchCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <video|channel|user> <query>",
		Short: "Search videos, channels or users",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			scope := args[0]
			base, ok := catalog.SearchBase(a.cfg.BaseURL, scope)
			if !ok {
				return fmt.Errorf("invalid search scope %q: must be video, channel or user", scope)
			}
			query := strings.Join(args[1:], " ")

			req := pagination.Request{BaseURL: base, Page: page, Category: scope, Search: query}
			return listPage(cmd, a, req, fmt.Sprintf("rumblemix search %s %q", scope, query))
		}),
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")

	return cmd
}

func listPage(cmd *cobra.Command, a *app, req pagination.Request, again string) error {
	page, hasNext := a.paginator().Paginate(cmd.Context(), req)

	cat := catalog.New()
	cat.AddItems(req.Category, page.Items)
	fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatEntries(cat.Entries(catalog.Options{})))

	if hasNext {
		fmt.Fprintf(cmd.OutOrStdout(), "\nNext page: %s --page %d\n", again, req.Next().Page)
	}
	return nil
}

// newPlayCmd creates the play subcommand.
func newPlayCmd() *cobra.Command {
	var quality string
	var open bool
	var player string

	cmd := &cobra.Command{
		Use:   "play <url>",
		Short: "Resolve a video page to a playable stream",
		Long:  "Resolve a video page to a stream URL and print it, open it in the browser or hand it to a player.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			policy := a.cfg.Playback
			if cmd.Flags().Changed("quality") {
				p, err := resolve.ParsePolicy(quality)
				if err != nil {
					return err
				}
				policy = p
			}

			prompter := display.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			r := resolve.New(a.cfg.BaseURL, a.client, resolve.WithSelector(prompter))

			streamURL, err := r.Resolve(cmd.Context(), args[0], policy)
			if errors.Is(err, resolve.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "Video not found")
				return err
			}
			if err != nil {
				return err
			}
			if a.cfg.UseHTTP {
				streamURL = strings.Replace(streamURL, "https://", "http://", 1)
			}

			if player == "" {
				player = a.cfg.Player
			}
			l := launch.New()
			switch {
			case open:
				return l.Open(streamURL)
			case player != "":
				return l.Play(player, streamURL)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), streamURL)
				return nil
			}
		}),
	}

	cmd.Flags().StringVarP(&quality, "quality", "q", "", "Quality policy: highest, lowest or select")
	cmd.Flags().BoolVar(&open, "open", false, "Open the stream in the default browser")
	cmd.Flags().StringVar(&player, "player", "", "Player command to start with the stream URL")

	return cmd
}

// newCommentsCmd creates the comments subcommand.
func newCommentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comments <url>",
		Short: "Show the comments of a video",
		Long:  "Show the comments of a video. Requires login details.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			s, list := a.comments().Get(cmd.Context(), a.session, args[0])
			a.session = s
			fmt.Fprint(cmd.OutOrStdout(), a.formatter.FormatComments(list))
			return nil
		}),
	}
}

// newLoginCmd creates the login subcommand.
func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Long:  "Forget any stored session and log in again with the stored or given credentials.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if username != "" {
				if err := a.adoptCredentials(username, password); err != nil {
					return err
				}
			}
			if !a.session.HasLoginDetails() {
				return fmt.Errorf("%w: use --username and --password or set RUMBLEMIX_USERNAME and RUMBLEMIX_PASSWORD", auth.ErrNoCredentials)
			}

			s, err := a.auth.Relogin(cmd.Context(), a.session)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.session = s
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", s.Username)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Rumble username")
	cmd.Flags().StringVar(&password, "password", "", "Rumble password")

	return cmd
}

// newLogoutCmd creates the logout subcommand.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			s, err := a.auth.Reset(a.session)
			if err != nil {
				return err
			}
			a.session = s
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
			return nil
		}),
	}
}

// newSubscribeCmd creates the subscribe or unsubscribe subcommand.
func newSubscribeCmd(follow bool) *cobra.Command {
	use, short, done := "subscribe", "Follow a channel or user", "Subscribed to"
	if !follow {
		use, short, done = "unsubscribe", "Unfollow a channel or user", "Unsubscribed from"
	}

	return &cobra.Command{
		Use:   use + " <channel>",
		Short: short,
		Long:  short + ". The channel is a path such as /c/Name or /user/name, or its full URL.",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			path := sitePath(args[0])
			s, _, err := a.account().Subscribe(cmd.Context(), a.session, path, follow)
			a.session = s
			if err != nil {
				return fmt.Errorf("%s %s: %w", use, path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", done, path)
			return nil
		}),
	}
}

// sitePath reduces a channel URL to its path and adds a missing leading slash.
func sitePath(arg string) string {
	if u, err := url.Parse(arg); err == nil && u.Host != "" {
		arg = u.Path
	}
	if !strings.HasPrefix(arg, "/") {
		arg = "/" + arg
	}
	return arg
}

// newWatchLaterCmd creates the watch-later subcommand.
func newWatchLaterCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "watch-later <add|remove> <url>",
		Short:     "Add or remove a video from Watch Later",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"add", "remove"},
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			svc := a.account()
			var err error
			switch args[0] {
			case "add":
				a.session, err = svc.WatchLaterAdd(cmd.Context(), a.session, args[1])
			case "remove":
				a.session, err = svc.WatchLaterRemove(cmd.Context(), a.session, args[1])
			default:
				return fmt.Errorf("invalid action %q: must be 'add' or 'remove'", args[0])
			}
			if err != nil {
				return fmt.Errorf("watch later %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Watch Later updated")
			return nil
		}),
	}
}

// newConfigCmd creates the config subcommand.
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show the effective rumblemix configuration. Values come from RUMBLEMIX_* environment variables and .env files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config directory: %s\n", cfg.Dir)
			fmt.Fprintf(out, "Settings: %s\n", cfg.SettingsPath)
			fmt.Fprintf(out, "Site: %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "Playback method: %s\n", cfg.Playback)
			fmt.Fprintf(out, "Date format: %s\n", cfg.DateFormat)
			fmt.Fprintf(out, "One line titles: %t\n", cfg.OneLineTitles)
			fmt.Fprintf(out, "Use HTTP: %t\n", cfg.UseHTTP)
			fmt.Fprintf(out, "Timeout: %s\n", cfg.Timeout)
			if cfg.Username != "" {
				fmt.Fprintf(out, "Username: %s\n", cfg.Username)
			}
			return nil
		},
	}
}
