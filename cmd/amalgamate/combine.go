package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/amalgamate/internal/amalgam"
	"github.com/gorewood/amalgamate/internal/output"
)

// combineOptions holds the root command's flags.
type combineOptions struct {
	dir    string
	dryRun bool
	check  bool
}

// runMode selects what happens to an assembled output.
type runMode int

const (
	modeWrite runMode = iota
	modeDryRun
	modeCheck
)

// status is the per-target outcome shown to the user.
func (m runMode) status() string {
	switch m {
	case modeDryRun:
		return "dry-run"
	case modeCheck:
		return "up-to-date"
	default:
		return "written"
	}
}

// resolveMode maps --dry-run / --check to a runMode.
func resolveMode(dryRun, check bool) (runMode, error) {
	switch {
	case dryRun && check:
		return modeWrite, output.NewUserError("--dry-run and --check cannot be combined")
	case dryRun:
		return modeDryRun, nil
	case check:
		return modeCheck, nil
	default:
		return modeWrite, nil
	}
}

// execute renders, writes or checks one template.
func execute(ctx context.Context, inliner *amalgam.Inliner, mode runMode, dir, template, outputPath string) (*amalgam.Result, error) {
	switch mode {
	case modeDryRun:
		return inliner.Render(ctx, dir, template, outputPath)
	case modeCheck:
		return inliner.Check(ctx, dir, template, outputPath)
	default:
		return inliner.Combine(ctx, dir, template, outputPath)
	}
}

// runCombine amalgamates a single template into outputPath.
func runCombine(cmd *cobra.Command, template, outputPath string, opts combineOptions) error {
	printer := newPrinter(cmd)

	mode, err := resolveMode(opts.dryRun, opts.check)
	if err != nil {
		printer.Error(err)
		return err
	}

	result, err := execute(cmd.Context(), newInliner(cmd), mode, opts.dir, template, outputPath)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(resultData(result, mode.status()))
	}
	printResult(printer, result, mode)
	return nil
}

// resultData is the JSON form of one result.
func resultData(result *amalgam.Result, status string) map[string]any {
	return map[string]any{
		"status":          status,
		"output":          result.Output,
		"guard":           result.Guard,
		"inlined":         nonNil(result.Inlined),
		"system_includes": nonNil(result.SystemIncludes),
		"bytes":           result.Bytes,
		"written":         result.Written,
	}
}

// printResult writes the human-readable summary of one result.
func printResult(printer *output.Printer, result *amalgam.Result, mode runMode) {
	var message string
	switch mode {
	case modeDryRun:
		message = fmt.Sprintf("Would write %s (%d bytes)", result.Output, result.Bytes)
	case modeCheck:
		message = result.Output + " is up to date"
	default:
		message = fmt.Sprintf("Wrote %s (%d bytes)", result.Output, result.Bytes)
	}
	_ = printer.Success(map[string]any{"message": message})
	printer.KeyValue("Guard", result.Guard)
	printer.List("Inlined", result.Inlined)
	printer.List("System includes", result.SystemIncludes)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
