package installer

import (
	"context"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"

	"streamctl/internal/protocol"
)

// ReleaseSource discovers the current stable and nightly releases of the
// streaming software.
type ReleaseSource interface {
	Channels(ctx context.Context) (stable, nightly protocol.ReleaseInfo, err error)
}

// GitHubReleaseSource reads release channels from two GitHub repositories,
// one for tagged stable releases and one for nightly builds.
type GitHubReleaseSource struct {
	StableRepo  string
	NightlyRepo string

	updater *selfupdate.Updater
}

// NewGitHubReleaseSource builds a source over the given "owner/name" slugs.
func NewGitHubReleaseSource(stableRepo, nightlyRepo string) (*GitHubReleaseSource, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("creating GitHub release source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source, Prerelease: true})
	if err != nil {
		return nil, fmt.Errorf("creating release updater: %w", err)
	}

	return &GitHubReleaseSource{
		StableRepo:  stableRepo,
		NightlyRepo: nightlyRepo,
		updater:     updater,
	}, nil
}

// Channels implements ReleaseSource.
func (s *GitHubReleaseSource) Channels(ctx context.Context) (protocol.ReleaseInfo, protocol.ReleaseInfo, error) {
	stable, err := s.detect(ctx, s.StableRepo)
	if err != nil {
		return protocol.ReleaseInfo{}, protocol.ReleaseInfo{}, fmt.Errorf("detecting stable release: %w", err)
	}

	nightly, err := s.detect(ctx, s.NightlyRepo)
	if err != nil {
		return protocol.ReleaseInfo{}, protocol.ReleaseInfo{}, fmt.Errorf("detecting nightly release: %w", err)
	}

	return stable, nightly, nil
}

func (s *GitHubReleaseSource) detect(ctx context.Context, repo string) (protocol.ReleaseInfo, error) {
	release, found, err := s.updater.DetectLatest(ctx, selfupdate.ParseSlug(repo))
	if err != nil {
		return protocol.ReleaseInfo{}, err
	}
	if !found {
		return protocol.ReleaseInfo{}, fmt.Errorf("no release found in %s", repo)
	}

	info := protocol.ReleaseInfo{
		Version: release.Version(),
		Assets:  map[string]string{release.AssetName: release.AssetURL},
	}
	return info, nil
}

// UpdateAvailable reports whether release is strictly newer than the
// version the session currently reports. A malformed or empty session
// version counts as updatable.
func UpdateAvailable(sessionVersion string, release protocol.ReleaseInfo) bool {
	current, err := semver.NewVersion(sessionVersion)
	if err != nil {
		return true
	}
	candidate, err := semver.NewVersion(release.Version)
	if err != nil {
		return false
	}
	return candidate.GreaterThan(current)
}
