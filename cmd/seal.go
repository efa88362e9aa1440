package cmd

import (
	"errors"

	kerrors "github.com/oakmoss-dev/sealcrate/internal/errors"
	"github.com/oakmoss-dev/sealcrate/internal/utils"
	"github.com/oakmoss-dev/sealcrate/internal/workflows"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sealSubject string
	sealKeyBits int
	sealVault   string
	sealReuse   bool
)

func init() {
	sealCmd.Flags().StringVarP(&sealSubject, "subject", "s", "", "subject label for the fresh certificate (default \"sealcrate\")")
	sealCmd.Flags().IntVar(&sealKeyBits, "key-bits", 0, "RSA modulus length in bits (default 2048)")
	sealCmd.Flags().StringVar(&sealVault, "vault", "", "vault directory (default: search upward from the working directory)")
	sealCmd.Flags().BoolVar(&sealReuse, "reuse-identity", false, "encrypt against the vault's existing identity instead of provisioning a new one")
}

// resetSealCommandState resets the seal command's global state for testing.
func resetSealCommandState() {
	sealSubject = ""
	sealKeyBits = 0
	sealVault = ""
	sealReuse = false
}

var sealCmd = &cobra.Command{
	Use:   "seal <path>",
	Short: "Encrypts a file or directory into the vault under a fresh session key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting seal command")
		spinner, cleanup := startSpinner("Sealing payload...", verbose)
		defer cleanup()

		inputPath := args[0]
		Logger.Debugf("Input path: %s", inputPath)

		result, err := workflows.Seal(cmd.Context(), workflows.SealOptions{
			InputPath:     inputPath,
			VaultPath:     sealVault,
			Subject:       sealSubject,
			KeyBits:       sealKeyBits,
			ReuseIdentity: sealReuse,
		})
		if err != nil {
			if errors.Is(err, kerrors.ErrNoInputFiles) {
				finalMessage := color.RedString("✗") + " Nothing to seal at " + color.YellowString(inputPath)
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrVaultAlreadyInitialized) {
				finalMessage := color.RedString("✗") + " This vault already holds a provisioned identity\n" +
					"To encrypt against it, run: " + color.YellowString("sealcrate seal "+inputPath+" --reuse-identity") + "\n" +
					"To start a fresh session, run: " + color.YellowString("sealcrate clean --all") + " first"
				spinner.FinalMSG = finalMessage
				return nil
			}
			if errors.Is(err, kerrors.ErrVaultNotInitialized) {
				finalMessage := color.RedString("✗") + " No vault found\n" +
					color.CyanString("→") + " Drop " + color.YellowString("--reuse-identity") + " to provision a fresh identity while sealing"
				spinner.FinalMSG = finalMessage
				return nil
			}
			return Logger.ErrorfAndReturn("Failed to seal payload: %v", err)
		}

		bundledNote := ""
		if result.Bundled {
			bundledNote = " " + color.HiBlackString("(directory packed to a bundle)")
		}

		Logger.Infof("Seal command completed successfully. Payload size: %d bytes", result.PayloadSize)
		finalMessage := color.GreenString("✓") + " Payload sealed" + bundledNote + "\n" +
			"    payload: " + color.YellowString(result.PayloadPath) + " " +
			color.HiBlackString("("+utils.FormatByteSize(result.PayloadSize)+")") + "\n" +
			"    wrap:    " + color.YellowString(result.WrapPath) + "\n" +
			color.CyanString("→") + " The " + color.YellowString(".base64") + " twins are safe to paste over text-only channels"

		spinner.FinalMSG = finalMessage
		return nil
	},
}
