package cmd

import (
	"fmt"

	logger "github.com/oakmoss-dev/sealcrate/internal/logging"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	RootCmd = &cobra.Command{
		Use:   "sealcrate",
		Short: "Sealcrate - hybrid encryption for files that travel over untrusted channels.",
		Long: `Sealcrate protects a file or directory with a fresh certificate per session.

The payload is encrypted under a one-time AES-256 session key, the session
key is wrapped with the certificate's RSA public key, and the private key
is exported into a passphrase-protected PKCS#12 container. Every artifact
also gets a Base64 text twin, so a sealed payload can travel over channels
that only carry text.

Run 'sealcrate help <command>' for more details on a specific command.
`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing sealcrate command with verbose=%t, debug=%t", verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println()
			myFigure := figure.NewColorFigure("Sealcrate", "alligator2", "green", true)
			myFigure.Print()
			fmt.Println()
			fmt.Println("Run 'sealcrate --help' to see available commands.")
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(provisionCmd)
	RootCmd.AddCommand(sealCmd)
	RootCmd.AddCommand(unsealCmd)
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(cleanCmd)
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetProvisionCommandState()
	resetSealCommandState()
	resetUnsealCommandState()
	resetStatusCommandState()
	resetCleanCommandState()
	resetFlagState()
}

// resetFlagState resets Cobra flag state to prevent pollution between tests.
func resetFlagState() {
	for _, c := range RootCmd.Commands() {
		c.Flags().VisitAll(func(flag *pflag.Flag) {
			flag.Changed = false
		})
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
