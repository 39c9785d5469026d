// Package updater provides self-update functionality for recgif.
package updater

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/version"
)

// Options contains configuration for the updater.
type Options struct {
	Repository string // GitHub repo slug (e.g., "screentools/recgif")
	Prerelease bool   // Whether to include prereleases
}

// UpdateInfo contains information about an available update.
type UpdateInfo struct {
	CurrentVersion  string    `json:"current_version"`
	LatestVersion   string    `json:"latest_version"`
	ReleaseNotes    string    `json:"release_notes"`
	ReleaseURL      string    `json:"release_url"`
	PublishedAt     time.Time `json:"published_at"`
	AssetSize       int       `json:"asset_size"`
	UpdateAvailable bool      `json:"update_available"`
}

// Updater checks GitHub releases and replaces the running binary in place.
type Updater struct {
	repository selfupdate.Repository
	updater    *selfupdate.Updater
	backup     *backupManager
	release    *selfupdate.Release

	enabled        bool
	disabledReason string

	logger *slog.Logger
}

// New creates an updater. The updater is returned in a disabled state when
// the binary's directory is not writable; callers should check IsEnabled.
func New(opts Options) (*Updater, error) {
	logger := logging.GetLogger("updater")

	canWrite, reason := checkWritePermission()
	if !canWrite {
		logger.Warn("Updates disabled", "reason", reason)
		return &Updater{disabledReason: reason, logger: logger}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub source: %w", err)
	}

	upd, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	backup, err := newBackupManager(logger)
	if err != nil {
		logger.Warn("Failed to create backup manager", "error", err)
	}

	return &Updater{
		repository: selfupdate.ParseSlug(opts.Repository),
		updater:    upd,
		backup:     backup,
		enabled:    true,
		logger:     logger,
	}, nil
}

func checkWritePermission() (bool, string) {
	exe, err := os.Executable()
	if err != nil {
		return false, fmt.Sprintf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return false, fmt.Sprintf("failed to resolve symlinks: %v", err)
	}

	dir := filepath.Dir(exe)

	tmp := filepath.Join(dir, ".recgif.update.test")
	f, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(tmp)
	return true, ""
}

// IsEnabled returns whether updates are operational. Returns false if the
// permission check failed during initialization.
func (u *Updater) IsEnabled() bool {
	return u.enabled
}

// DisabledReason returns why updates are disabled, empty if enabled.
func (u *Updater) DisabledReason() string {
	return u.disabledReason
}

// Check queries GitHub for the latest release and compares it against the
// current version without downloading anything.
func (u *Updater) Check(ctx context.Context) (*UpdateInfo, error) {
	if !u.enabled {
		return nil, newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	currentVersion := version.Version

	release, found, err := u.updater.DetectLatest(ctx, u.repository)
	if err != nil {
		return nil, newError(ErrCodeCheckFailed, "failed to check for updates", err)
	}
	if !found {
		return nil, newError(ErrCodeCheckFailed, "repository not found or has no releases", nil)
	}

	// A dev build is always considered outdated.
	isNewer := currentVersion == "dev" || release.GreaterThan(currentVersion)
	if !isNewer {
		return &UpdateInfo{
			CurrentVersion:  currentVersion,
			LatestVersion:   release.Version(),
			UpdateAvailable: false,
		}, nil
	}

	u.release = release
	return &UpdateInfo{
		CurrentVersion:  currentVersion,
		LatestVersion:   release.Version(),
		ReleaseNotes:    release.ReleaseNotes,
		ReleaseURL:      release.URL,
		PublishedAt:     release.PublishedAt,
		AssetSize:       release.AssetByteSize,
		UpdateAvailable: true,
	}, nil
}

// Apply downloads and applies the latest release. The current binary is
// backed up first; a failed apply restores it.
func (u *Updater) Apply(ctx context.Context) error {
	if !u.enabled {
		return newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	if u.release == nil {
		info, err := u.Check(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return newError(ErrCodeNoUpdate, "no update available", nil)
		}
	}

	if u.backup != nil {
		if err := u.backup.createBackup(); err != nil {
			return newError(ErrCodeBackupFailed, "failed to create backup", err)
		}
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return newError(ErrCodeApplyFailed, "failed to get executable path", err)
	}

	if err := u.updater.UpdateTo(ctx, u.release, exe); err != nil {
		u.attemptRollback()
		return newError(ErrCodeApplyFailed, "failed to apply update", err)
	}

	u.logger.Info("Update applied", "version", u.release.Version())
	return nil
}

// Rollback restores the previously backed up binary version.
func (u *Updater) Rollback(_ context.Context) error {
	if !u.enabled {
		return newError(ErrCodeDisabled, u.disabledReason, nil)
	}

	if u.backup == nil || !u.backup.hasBackup() {
		return newError(ErrCodeNoBackup, "no backup available for rollback", nil)
	}

	if err := u.backup.restore(); err != nil {
		return newError(ErrCodeRollbackFailed, "failed to restore backup", err)
	}

	u.logger.Info("Rollback completed", "version", u.backup.backupVersion())
	return nil
}

func (u *Updater) attemptRollback() {
	if u.backup == nil || !u.backup.hasBackup() {
		u.logger.Error("No backup available for automatic rollback")
		return
	}

	if err := u.backup.restore(); err != nil {
		u.logger.Error("Failed to restore backup", "error", err)
		return
	}

	u.logger.Info("Automatic rollback completed")
}
