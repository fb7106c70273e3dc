// Package output provides structured output and exit-coded errors for the
// amalgamate CLI.
//
// Every command reports through a Printer, which switches between
// human-readable and JSON output:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "Wrote single-file/argum.h"})
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "message", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, missing template or header, include cycle
//	output.ExitSystemError // 2: unreadable input, unwritable output
//	output.ExitConflict    // 3: --check found a missing or stale output
//
// Errors built with NewUserError, NewSystemError and NewConflictError carry
// their code through wrapping; GetExitCode recovers it for the process exit.
package output
