package cmd

import (
	"errors"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cleanVault string
	cleanAll   bool
)

func init() {
	cleanCmd.Flags().StringVar(&cleanVault, "vault", "", "vault directory (default: search upward from the working directory)")
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "remove the identity artifacts too, ending the session")
}

// resetCleanCommandState resets the clean command's global state for testing.
func resetCleanCommandState() {
	cleanVault = ""
	cleanAll = false
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Removes sealed payload artifacts, or the whole session with --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting clean command")
		spinner, cleanup := startSpinner("Cleaning vault...", verbose)
		defer cleanup()

		result, err := workflows.Clean(cmd.Context(), workflows.CleanOptions{
			VaultPath: cleanVault,
			All:       cleanAll,
		})
		if err != nil {
			if errors.Is(err, kerrors.ErrVaultNotInitialized) {
				finalMessage := color.RedString("✗") + " No vault found, nothing to clean"
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("Failed to clean vault: %v", err)
		}

		if len(result.RemovedArtifacts) == 0 {
			finalMessage := color.GreenString("✓") + " Vault already clean"
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := color.GreenString("✓") + " The following artifacts were removed:\n"
		for _, name := range result.RemovedArtifacts {
			finalMessage += "    deleted: " + color.RedString(name) + "\n"
		}
		if result.All {
			finalMessage += color.CyanString("→") + " The session is over; a new seal will provision a fresh identity"
		} else {
			finalMessage += color.CyanString("→") + " The identity remains; run " + color.YellowString("sealcrate clean --all") + " to end the session"
		}

		Logger.Infof("Clean command completed successfully. Removed %d artifacts", len(result.RemovedArtifacts))
		spinner.FinalMSG = finalMessage
		return nil
	},
}
