// Package main provides the entry point for the amalgamate CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gorewood/amalgamate/internal/amalgam"
	"github.com/gorewood/amalgamate/internal/output"
)

// Build info set via ldflags at build time by goreleaser.
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2024-01-01"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildVersion returns the full version string including commit and date.
func buildVersion() string {
	if commit == "none" && date == "unknown" {
		return version
	}
	shortCommit := commit
	if len(commit) > 7 {
		shortCommit = commit[:7]
	}
	return fmt.Sprintf("%s (%s, %s)", version, shortCommit, date)
}

func main() {
	os.Exit(run())
}

func run() int {
	cmd := newRootCmd()
	err := fang.Execute(context.Background(), cmd, fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// newRootCmd creates the root command. With two arguments it amalgamates a
// single template; subcommands cover manifests and the MCP server.
func newRootCmd() *cobra.Command {
	var opts combineOptions

	cmd := &cobra.Command{
		Use:   "amalgamate [template] [output]",
		Short: "Combine a header template and its local includes into one file",
		Long: `Amalgamate inlines the local headers referenced by a template into a single
self-contained output file.

  - #include "x.h" is replaced by the content of x.h the first time x.h is seen,
    resolved against --dir for the template and against the including file's
    directory for nested headers. Later includes of the same name are dropped.
  - #include <x> lines are removed and collected. ##SYS_INCLUDES## in the text is
    replaced by the sorted, deduplicated list.
  - ##NAME## is replaced by the output file name, dots turned into underscores,
    upper-cased (for header guards).
  - A leading block of // comments is stripped from every inlined header.

Examples:
  amalgamate -d inc/argum inc/argum.h.in single-file/argum.h
  amalgamate --check -d inc/argum inc/argum.h.in single-file/argum.h
  amalgamate build                 # every target in amalgamate.yaml`,
		Version:       buildVersion(),
		Args:          templateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runCombine(cmd, args[0], args[1], opts)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if mode := colorMode(cmd); !output.ValidColorMode(mode) {
			err := output.NewUserError(fmt.Sprintf("--color must be one of auto, always, never (got %q)", mode))
			newPrinter(cmd).Error(err)
			return err
		}
		return nil
	}

	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().Bool("verbose", false, "Log every inlined header and collected system include")
	cmd.PersistentFlags().String("color", "auto", "Color output: auto, always, never")

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory resolving the template's quoted includes")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Assemble and report without writing the output")
	cmd.Flags().BoolVar(&opts.check, "check", false, "Fail with exit code 3 if the output is missing or out of date")

	lipgloss.SetHasDarkBackground(true)

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// templateArgs accepts no arguments (help) or exactly template and output.
func templateArgs(_ *cobra.Command, args []string) error {
	if len(args) == 0 || len(args) == 2 {
		return nil
	}
	return output.NewUserError(fmt.Sprintf("expected <template> <output>, got %d argument(s)", len(args)))
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return boolFlag(cmd, "json")
}

func isVerbose(cmd *cobra.Command) bool {
	return boolFlag(cmd, "verbose")
}

func colorMode(cmd *cobra.Command) string {
	flag := lookupFlag(cmd, "color")
	if flag == nil {
		return "auto"
	}
	return flag.Value.String()
}

func boolFlag(cmd *cobra.Command, name string) bool {
	flag := lookupFlag(cmd, name)
	return flag != nil && flag.Value.String() == "true"
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag
	}
	// Walk up to root to find the persistent flag
	return cmd.Root().PersistentFlags().Lookup(name)
}

// newPrinter builds the command's printer: stdout for results, stderr for
// human-mode errors.
func newPrinter(cmd *cobra.Command) *output.Printer {
	out := cmd.OutOrStdout()
	isTTY := output.ResolveColorMode(colorMode(cmd), output.IsTTY(out))
	return output.NewPrinter(out, isJSONMode(cmd), isTTY).WithStderr(cmd.ErrOrStderr())
}

// newLogger returns the stderr logger, at debug level with --verbose.
func newLogger(cmd *cobra.Command) *log.Logger {
	level := log.WarnLevel
	if isVerbose(cmd) {
		level = log.DebugLevel
	}
	return log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "amalgamate",
		Level:  level,
	})
}

// newInliner creates an inliner over the local file system.
func newInliner(cmd *cobra.Command) *amalgam.Inliner {
	return amalgam.New(amalgam.NewAFS(nil), amalgam.WithLogger(newLogger(cmd)))
}
