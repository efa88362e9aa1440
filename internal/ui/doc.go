// Package ui provides semantic text formatting for CLI output.
//
// Formatters render appropriately based on terminal capabilities: with
// colors when available, with text decorations (backticks, quotes) when
// NO_COLOR is set or the terminal does not support colors.
//
//	ui.Code.Sprint("sealcrate seal secrets/")   // Commands
//	ui.Path.Sprint(".sealcrate/payload.sealed") // File paths
//	ui.Success.Sprint("✓")                       // Success indicators
//	ui.Highlight.Sprint("release-2026-08")      // User values
package ui
