// Package update provides self-update functionality for racoon.
package update

import (
	"context"
	"fmt"
	"runtime"

	"github.com/creativeprojects/go-selfupdate"
)

const (
	// Repository owner and name for GitHub releases.
	repoOwner = "cameronsjo"
	repoName  = "racoon"
)

// Release contains information about an available update.
type Release struct {
	Version     string
	ReleaseURL  string
	PublishedAt string
	Changelog   string
}

func newRelease(r *selfupdate.Release) *Release {
	return &Release{
		Version:     r.Version(),
		ReleaseURL:  r.URL,
		PublishedAt: r.PublishedAt.Format("2006-01-02"),
		Changelog:   r.ReleaseNotes,
	}
}

// detectNewer returns the latest release if it is newer than currentVersion.
func detectNewer(ctx context.Context, currentVersion string) (*selfupdate.Updater, *selfupdate.Release, bool, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating update source: %w", err)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: source,
	})
	if err != nil {
		return nil, nil, false, fmt.Errorf("creating updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, nil, false, fmt.Errorf("detecting latest version: %w", err)
	}
	if !found {
		return updater, nil, false, nil
	}
	if latest.LessOrEqual(currentVersion) {
		return updater, latest, false, nil
	}
	return updater, latest, true, nil
}

// CheckForUpdate checks if a newer version is available.
func CheckForUpdate(ctx context.Context, currentVersion string) (*Release, bool, error) {
	_, latest, newer, err := detectNewer(ctx, currentVersion)
	if err != nil || !newer {
		return nil, false, err
	}
	return newRelease(latest), true, nil
}

// Update downloads and installs the latest version. It returns nil when
// already up to date.
func Update(ctx context.Context, currentVersion string) (*Release, error) {
	updater, latest, newer, err := detectNewer(ctx, currentVersion)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, fmt.Errorf("no releases found for %s/%s", repoOwner, repoName)
	}
	if !newer {
		return nil, nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return nil, fmt.Errorf("getting executable path: %w", err)
	}

	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return nil, fmt.Errorf("updating binary: %w", err)
	}

	return newRelease(latest), nil
}

// GetPlatformInfo returns the current platform information.
func GetPlatformInfo() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
