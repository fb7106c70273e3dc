package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/amalgamate/internal/amalgam"
	"github.com/gorewood/amalgamate/internal/manifest"
	"github.com/gorewood/amalgamate/internal/output"
)

// newBuildCmd creates the build command.
func newBuildCmd() *cobra.Command {
	var manifestPath string
	var dryRun bool
	var check bool

	cmd := &cobra.Command{
		Use:   "build [target...]",
		Short: "Amalgamate the targets listed in a manifest",
		Long: `Amalgamate every target of a YAML manifest, or only the named ones.

Manifest format (paths relative to the manifest file):
  targets:
    - name: argum                 # optional, defaults to the output file name
      template: inc/argum.h.in
      output: single-file/argum.h
      dir: inc/argum              # optional, defaults to the manifest directory

Targets run one after another in manifest order. With --check every target is
compared and all stale outputs are reported before failing with exit code 3.

Examples:
  amalgamate build                       # all targets in ./amalgamate.yaml
  amalgamate build argum                 # one target
  amalgamate build -m tools/amalgamate.yaml --check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, manifestPath, dryRun, check)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", manifest.DefaultFile, "Manifest file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Assemble and report without writing outputs")
	cmd.Flags().BoolVar(&check, "check", false, "Fail with exit code 3 if any output is missing or out of date")

	return cmd
}

// runBuild executes the build command.
func runBuild(cmd *cobra.Command, names []string, manifestPath string, dryRun, check bool) error {
	printer := newPrinter(cmd)

	mode, err := resolveMode(dryRun, check)
	if err != nil {
		printer.Error(err)
		return err
	}

	m, err := manifest.Load(cmd.Context(), amalgam.NewAFS(nil), manifestPath)
	if err != nil {
		printer.Error(err)
		return err
	}

	targets, err := m.Select(names)
	if err != nil {
		printer.Error(err)
		return err
	}

	inliner := newInliner(cmd)
	var reports []map[string]any
	var rows [][]string
	stale := 0

	for _, target := range targets {
		result, err := execute(cmd.Context(), inliner, mode, target.Dir, target.Template, target.Output)
		status := mode.status()
		if err != nil {
			if output.GetExitCode(err) != output.ExitConflict || result == nil {
				targetErr := &output.ExitError{
					Code:    output.GetExitCode(err),
					Message: fmt.Sprintf("target %s: %s", target.Name, err.Error()),
					Cause:   err,
				}
				printer.Error(targetErr)
				return targetErr
			}
			status = "stale"
			stale++
			if !printer.IsJSON() {
				printer.Warn("target %s: %s", target.Name, err.Error())
			}
		}

		report := resultData(result, status)
		report["name"] = target.Name
		reports = append(reports, report)
		rows = append(rows, []string{target.Name, status, target.Output, strconv.Itoa(len(result.Inlined)), strconv.Itoa(len(result.SystemIncludes))})
	}

	if printer.IsJSON() {
		if err := printer.WriteJSON(map[string]any{"targets": reports}); err != nil {
			return err
		}
	} else {
		printer.Table([]string{"TARGET", "STATUS", "OUTPUT", "INLINED", "SYSTEM"}, rows)
	}

	if stale > 0 {
		err := output.NewConflictError(fmt.Sprintf("%d of %d targets out of date", stale, len(targets)))
		if !printer.IsJSON() {
			printer.Error(err)
		}
		return err
	}
	return nil
}
