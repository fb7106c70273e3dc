package amalgam

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gorewood/amalgamate/internal/output"
)

// Placeholder tokens replaced in the expanded text.
const (
	SysIncludesToken = "##SYS_INCLUDES##"
	NameToken        = "##NAME##"
)

// Result describes one amalgamation.
type Result struct {
	Output         string   `json:"output"`
	Guard          string   `json:"guard"`
	Inlined        []string `json:"inlined"`
	SystemIncludes []string `json:"system_includes"`
	Bytes          int      `json:"bytes"`
	Written        bool     `json:"written"`

	// Text is the final file content, trailing newline included.
	Text string `json:"-"`
}

// GuardName derives the ##NAME## value from the output path: the base name
// with every '.' replaced by '_', upper-cased.
func GuardName(outputPath string) string {
	return strings.ToUpper(strings.ReplaceAll(filepath.Base(outputPath), ".", "_"))
}

// SortedUnique returns names deduplicated and sorted ascending.
func SortedUnique(names []string) []string {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// SystemIncludeBlock renders one "#include <name>" line per name, each
// preceded by a newline. Names are used in the given order.
func SystemIncludeBlock(names []string) string {
	var block strings.Builder
	for _, name := range names {
		block.WriteString("\n#include <")
		block.WriteString(name)
		block.WriteString(">")
	}
	return block.String()
}

// Substitute replaces ##SYS_INCLUDES## with block, then ##NAME## with guard.
// Absent tokens are left alone.
func Substitute(text, block, guard string) string {
	text = strings.ReplaceAll(text, SysIncludesToken, block)
	return strings.ReplaceAll(text, NameToken, guard)
}

// Render assembles the output for template in memory without writing it.
// dir resolves the template's own quoted includes.
func (in *Inliner) Render(ctx context.Context, dir, template, outputPath string) (*Result, error) {
	state := NewState()
	text, err := in.ProcessHeader(ctx, dir, template, state, false)
	if err != nil {
		return nil, err
	}

	includes := SortedUnique(state.SystemIncludes)
	guard := GuardName(outputPath)
	text = Substitute(text, SystemIncludeBlock(includes), guard) + "\n"

	in.logger.Debug("rendered", "template", template, "inlined", len(state.inlined), "system_includes", len(includes))

	return &Result{
		Output:         outputPath,
		Guard:          guard,
		Inlined:        state.Inlined(),
		SystemIncludes: includes,
		Bytes:          len(text),
		Text:           text,
	}, nil
}

// Combine renders template and writes the result to outputPath, creating
// missing parent directories. The file is written only after the whole text
// was assembled.
func (in *Inliner) Combine(ctx context.Context, dir, template, outputPath string) (*Result, error) {
	result, err := in.Render(ctx, dir, template, outputPath)
	if err != nil {
		return nil, err
	}
	if err := in.fs.WriteFile(ctx, outputPath, []byte(result.Text)); err != nil {
		return nil, output.NewSystemErrorWithCause("failed to write output: "+outputPath, err)
	}
	result.Written = true
	in.logger.Debug("wrote", "output", outputPath, "bytes", result.Bytes)
	return result, nil
}

// Check renders template and compares it with the current content of
// outputPath. A missing or different file is a conflict error; the rendered
// result is returned alongside it.
func (in *Inliner) Check(ctx context.Context, dir, template, outputPath string) (*Result, error) {
	result, err := in.Render(ctx, dir, template, outputPath)
	if err != nil {
		return nil, err
	}
	current, err := in.fs.ReadFile(ctx, outputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, output.NewConflictError("output does not exist: " + outputPath)
		}
		return nil, output.NewSystemErrorWithCause("failed to read output: "+outputPath, err)
	}
	if !bytes.Equal(current, []byte(result.Text)) {
		return result, output.NewConflictError("output is out of date: " + outputPath)
	}
	return result, nil
}
