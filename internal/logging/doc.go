// Package logger provides leveled logging for sealcrate CLI commands.
//
// The logger supports verbosity levels controlled by command-line flags:
//
//   - --verbose: shows info and warning messages
//   - --debug: shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown.
//
// Commands build a logger in their PersistentPreRun and pass it to the
// functions they call; there is no ambient global logger.
package logger
