package cmd

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the repository streamctl releases are published to.
var githubRepoSlug = "streamctl/streamctl"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update streamctl to the latest release",
		Long: `Checks for the latest release on GitHub and replaces the current
binary when a newer version is available.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	version := rootCmd.Version
	if isDevelopmentVersion(version) {
		return fmt.Errorf("cannot self-update a development version (%q)", version)
	}

	ctx := context.Background()
	repo := selfupdate.ParseSlug(githubRepoSlug)

	latest, found, err := selfupdate.DetectLatest(ctx, repo)
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found || latest.LessOrEqual(version) {
		fmt.Printf("streamctl %s is already the latest version\n", version)
		return nil
	}

	fmt.Printf("Updating streamctl %s to %s...\n", version, latest.Version())
	if _, err := selfupdate.UpdateSelf(ctx, version, repo); err != nil {
		return fmt.Errorf("updating binary: %w", err)
	}

	fmt.Printf("Successfully updated to %s\n", latest.Version())
	return nil
}

// isDevelopmentVersion reports whether the binary carries a build-time
// version worth updating. "(devel)" is what module-aware go builds stamp
// without ldflags.
func isDevelopmentVersion(version string) bool {
	switch version {
	case "", "dev", "(devel)":
		return true
	}
	return false
}
