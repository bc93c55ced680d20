// Package main provides the rumblemix CLI entry point.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflagsVersion string, info *debug.BuildInfo) string {
	if ldflagsVersion != "dev" {
		return ldflagsVersion
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func currentVersion() string {
	info, _ := debug.ReadBuildInfo()
	return resolveVersion(version, info)
}

// newRootCmd creates the root command for rumblemix CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "rumblemix",
		Short:        "Browse and play Rumble from the terminal",
		Long:         "Rumblemix browses Rumble listings, resolves playable stream URLs and manages your Rumble account.",
		Version:      currentVersion(),
		SilenceUsage: true,
	}

	rootCmd.SetVersionTemplate("rumblemix version {{.Version}}\n")

	rootCmd.AddCommand(newMenuCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newCommentsCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newSubscribeCmd(true))
	rootCmd.AddCommand(newSubscribeCmd(false))
	rootCmd.AddCommand(newWatchLaterCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// withApp opens the settings store and session for the command and closes
// them afterwards.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()
		return run(cmd, a, args)
	}
}
