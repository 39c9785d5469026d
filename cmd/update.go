package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screentools/recgif/internal/logging"
	"github.com/screentools/recgif/internal/updater"
)

const updateRepository = "screentools/recgif"

// CreateUpdateCmd creates the update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var rollback bool
	var prerelease bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update recgif to the latest release",
		Long: `Checks GitHub releases for a newer version and replaces the running ` +
			`binary in place. The previous binary is backed up and can be restored ` +
			`with --rollback.`,
		Run: func(cmd *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "info", Format: "text"})

			upd, err := updater.New(updater.Options{
				Repository: updateRepository,
				Prerelease: prerelease,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to initialize updater: %v\n", err)
				os.Exit(1)
			}
			if !upd.IsEnabled() {
				fmt.Fprintf(os.Stderr, "updates disabled: %s\n", upd.DisabledReason())
				os.Exit(1)
			}

			ctx := cmd.Context()

			if rollback {
				if err := upd.Rollback(ctx); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				fmt.Println("rolled back to previous version")
				return
			}

			info, err := upd.Check(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			if !info.UpdateAvailable {
				fmt.Printf("already up to date (%s)\n", info.CurrentVersion)
				return
			}

			fmt.Printf("update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if checkOnly {
				return
			}

			if err := upd.Apply(ctx); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for a newer release")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the previously backed up binary")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prereleases")

	return cmd
}
