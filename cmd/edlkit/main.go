// Package main provides the edlkit command line tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Version information (set at build time)
	version = "dev"

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "edlkit",
		Short: "Edit EDM display files",
		Long: titleStyle.Render("edlkit") + `

Programmatic editing of EDM .edl display files:
• resize or flip a display
• swap the displays embedded windows point to
• inline static embedded windows
• add a standard title bar

Files are rewritten losslessly: untouched lines keep their exact text.

` + dimStyle.Render("Use 'edlkit [command] --help' for more information."),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./edlkit.yaml or ~/.config/edlkit/edlkit.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	flags.BoolVar(&a.dryRun, "dry-run", false, "print a unified diff instead of writing")
	flags.BoolVarP(&a.inPlace, "in-place", "i", false, "rewrite input files in place")
	flags.StringVarP(&a.output, "output", "o", "", "write the result to this file")
	flags.StringVar(&a.encoding, "encoding", "", "file encoding: latin1 or utf-8 (default from config)")

	rootCmd.AddCommand(
		newResizeCmd(a),
		newFlipCmd(a),
		newSubstituteCmd(a),
		newInlineCmd(a),
		newTitlebarCmd(a),
		newCheckCmd(a),
		newFmtCmd(a),
	)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		stop()
		os.Exit(1)
	}
}
