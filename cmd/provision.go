package cmd

import (
	"errors"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	provisionSubject string
	provisionKeyBits int
	provisionVault   string
	provisionForce   bool
)

func init() {
	provisionCmd.Flags().StringVarP(&provisionSubject, "subject", "s", "", "subject label the certificate is bound to (required)")
	provisionCmd.Flags().IntVar(&provisionKeyBits, "key-bits", 0, "RSA modulus length in bits (default 2048)")
	provisionCmd.Flags().StringVar(&provisionVault, "vault", "", "vault directory (default: search upward from the working directory)")
	provisionCmd.Flags().BoolVarP(&provisionForce, "force", "f", false, "replace an existing identity and its sealed payload")
}

// resetProvisionCommandState resets the provision command's global state for testing.
func resetProvisionCommandState() {
	provisionSubject = ""
	provisionKeyBits = 0
	provisionVault = ""
	provisionForce = false
}

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Creates a passphrase, certificate, and key container for a new protection session",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting provision command")
		spinner, cleanup := startSpinner("Provisioning identity...", verbose)
		defer cleanup()

		result, err := workflows.Provision(cmd.Context(), workflows.ProvisionOptions{
			Subject:   provisionSubject,
			KeyBits:   provisionKeyBits,
			VaultPath: provisionVault,
			Force:     provisionForce,
		})
		if err != nil {
			if errors.Is(err, kerrors.ErrVaultAlreadyInitialized) {
				finalMessage := color.RedString("✗") + " An identity is already provisioned here\n" +
					"To replace it, run: " + color.YellowString("sealcrate provision --force") + "\n" +
					color.CyanString("→") + " A replaced identity can never open the old payload"
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrProvisioningFailed) && provisionSubject == "" {
				finalMessage := color.RedString("✗") + " A subject label is required\n" +
					"Run: " + color.YellowString("sealcrate provision --subject <label>")
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("Failed to provision identity: %v", err)
		}

		Logger.Infof("Provision command completed successfully for subject: %s", result.Subject)
		finalMessage := color.GreenString("✓") + " Identity provisioned for " + color.CyanString(result.Subject) + "\n" +
			"    thumbprint: " + color.YellowString(result.Thumbprint) + "\n" +
			"    container:  " + color.YellowString(result.ContainerPath) + "\n" +
			"    passphrase: " + color.YellowString(result.PassphrasePath) + "\n" +
			color.CyanString("→") + " Run " + color.YellowString("sealcrate seal <path> --reuse-identity") + " to protect a file with this identity"

		spinner.FinalMSG = finalMessage
		return nil
	},
}
