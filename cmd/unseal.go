package cmd

import (
	"errors"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/utils"
	"github.com/oakmoss-dev/sealcrate/internal/vault"
	"github.com/oakmoss-dev/sealcrate/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	unsealVault   string
	unsealOutput  string
	unsealExtract bool
	unsealPrompt  bool
)

func init() {
	unsealCmd.Flags().StringVar(&unsealVault, "vault", "", "vault directory (default: search upward from the working directory)")
	unsealCmd.Flags().StringVarP(&unsealOutput, "output", "o", "", "where to write the plaintext (default: alongside the vault)")
	unsealCmd.Flags().BoolVar(&unsealExtract, "extract", false, "unpack the plaintext when it is a directory bundle")
	unsealCmd.Flags().BoolVar(&unsealPrompt, "prompt-passphrase", false, "prompt for the passphrase instead of reading the vault's passphrase file")
}

// resetUnsealCommandState resets the unseal command's global state for testing.
func resetUnsealCommandState() {
	unsealVault = ""
	unsealOutput = ""
	unsealExtract = false
	unsealPrompt = false
}

var unsealCmd = &cobra.Command{
	Use:   "unseal",
	Short: "Imports the private key from the vault's container and decrypts the payload",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting unseal command")

		// The passphrase prompt has to happen before the spinner owns the
		// terminal. Vaults reconstructed from a text channel often arrive
		// without their passphrase file.
		passphrase := ""
		needPrompt := unsealPrompt
		if !needPrompt {
			if v, err := workflows.Status(cmd.Context(), workflows.StatusOptions{VaultPath: unsealVault}); err == nil && v.Initialized {
				hasPassphrase := false
				for _, a := range v.Artifacts {
					if a.Name == vault.PassphraseFile && a.Present {
						hasPassphrase = true
					}
				}
				needPrompt = !hasPassphrase && utils.IsTerminal()
			}
		}
		if needPrompt {
			Logger.Debugf("Prompting for passphrase")
			entered, err := utils.ReadPassphrase("Container passphrase: ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read passphrase: %v", err)
			}
			passphrase = string(entered)
			utils.Zero(entered)
		}

		spinner, cleanup := startSpinner("Unsealing payload...", verbose)
		defer cleanup()

		result, err := workflows.Unseal(cmd.Context(), workflows.UnsealOptions{
			VaultPath:  unsealVault,
			OutputPath: unsealOutput,
			Passphrase: passphrase,
			Extract:    unsealExtract,
		})
		if err != nil {
			if errors.Is(err, kerrors.ErrVaultNotInitialized) {
				finalMessage := color.RedString("✗") + " No vault found\n" +
					color.CyanString("→") + " Run " + color.YellowString("sealcrate seal <path>") + " first, or pass " + color.YellowString("--vault")
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrPrivateKeyUnavailable) {
				finalMessage := color.RedString("✗") + " The container did not open with that passphrase\n" +
					color.CyanString("→") + " Check the " + color.YellowString(vault.PassphraseFile) + " file, or retry with " + color.YellowString("--prompt-passphrase")
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrArtifactNotFound) {
				finalMessage := color.RedString("✗") + " The vault is missing a required artifact\n" +
					color.RedString("Error: ") + err.Error() + "\n" +
					color.CyanString("→") + " Run " + color.YellowString("sealcrate status") + " to see what is present"
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrMalformedWrapPackage) || errors.Is(err, kerrors.ErrDecryptionFailed) {
				finalMessage := color.RedString("✗") + " The payload did not decrypt\n" +
					color.RedString("Error: ") + err.Error() + "\n" +
					color.CyanString("→") + " The artifacts may have been corrupted in transit"
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("Failed to unseal payload: %v", err)
		}

		extractedNote := ""
		if result.Extracted {
			extractedNote = " " + color.HiBlackString("(bundle extracted)")
		}

		Logger.Infof("Unseal command completed successfully. Recovered %d bytes", result.PlainSize)
		finalMessage := color.GreenString("✓") + " Payload unsealed" + extractedNote + "\n" +
			"    output: " + color.YellowString(result.OutputPath) + " " +
			color.HiBlackString("("+utils.FormatByteSize(result.PlainSize)+")") + "\n" +
			color.CyanString("→") + " Run " + color.YellowString("sealcrate clean") + " to remove the sealed artifacts when done"

		spinner.FinalMSG = finalMessage
		return nil
	},
}
