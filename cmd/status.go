package cmd

import (
	"github.com/oakmoss-dev/sealcrate/internal/utils"
	"github.com/oakmoss-dev/sealcrate/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusVault string

func init() {
	statusCmd.Flags().StringVar(&statusVault, "vault", "", "vault directory (default: search upward from the working directory)")
}

// resetStatusCommandState resets the status command's global state for testing.
func resetStatusCommandState() {
	statusVault = ""
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows which vault artifacts exist and the session they belong to",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		spinner, cleanup := startSpinner("Inspecting vault...", verbose)
		defer cleanup()

		result, err := workflows.Status(cmd.Context(), workflows.StatusOptions{
			VaultPath: statusVault,
		})
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to inspect vault: %v", err)
		}

		if !result.Initialized {
			finalMessage := color.RedString("✗") + " No vault at " + color.YellowString(result.VaultRoot) + "\n" +
				color.CyanString("→") + " Run " + color.YellowString("sealcrate seal <path>") + " to start a protection session"
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := color.GreenString("✓") + " Vault at " + color.YellowString(result.VaultRoot) + "\n"
		if result.Session != nil {
			finalMessage += "    subject:    " + color.CyanString(result.Session.Subject) + "\n" +
				"    thumbprint: " + color.YellowString(result.Session.Thumbprint) + "\n" +
				"    created:    " + result.Session.CreatedAt.Format("2006-01-02 15:04:05 MST") + "\n"
		} else {
			finalMessage += "    " + color.HiBlackString("(no session metadata; vault may have been reconstructed from text artifacts)") + "\n"
		}

		for _, artifact := range result.Artifacts {
			if artifact.Present {
				finalMessage += "    " + color.GreenString("present") + "  " + artifact.Name +
					" " + color.HiBlackString("("+utils.FormatByteSize(artifact.Size)+")") + "\n"
			} else {
				finalMessage += "    " + color.HiBlackString("missing") + "  " + artifact.Name + "\n"
			}
		}

		Logger.Infof("Status command completed successfully")
		spinner.FinalMSG = finalMessage
		return nil
	},
}
