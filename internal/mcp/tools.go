package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/amalgamate/internal/amalgam"
)

// AmalgamateInput names the template and output of one amalgamation.
type AmalgamateInput struct {
	Template string `json:"template"      jsonschema:"path of the root template file"`
	Output   string `json:"output"        jsonschema:"path of the file to produce"`
	Dir      string `json:"dir,omitempty" jsonschema:"directory resolving the template's quoted includes (default: working directory)"`
}

// AmalgamateOutput summarizes an amalgamation.
type AmalgamateOutput struct {
	Output         string   `json:"output"                    jsonschema:"path of the produced file"`
	Guard          string   `json:"guard"                     jsonschema:"value substituted for ##NAME##"`
	Inlined        []string `json:"inlined,omitempty"         jsonschema:"quoted includes in the order they were inlined"`
	SystemIncludes []string `json:"system_includes,omitempty" jsonschema:"sorted, deduplicated angle-bracket includes"`
	Bytes          int      `json:"bytes"                     jsonschema:"size of the produced text"`
	Written        bool     `json:"written"                   jsonschema:"whether the output file was written"`
}

// PreviewOutput is the rendered but unwritten amalgamation.
type PreviewOutput struct {
	Output         string   `json:"output"                    jsonschema:"path the file would be written to"`
	Guard          string   `json:"guard"                     jsonschema:"value substituted for ##NAME##"`
	Inlined        []string `json:"inlined,omitempty"         jsonschema:"quoted includes in the order they were inlined"`
	SystemIncludes []string `json:"system_includes,omitempty" jsonschema:"sorted, deduplicated angle-bracket includes"`
	Text           string   `json:"text"                      jsonschema:"assembled file content"`
}

func (in AmalgamateInput) validate() error {
	if in.Template == "" {
		return errors.New("template is required")
	}
	if in.Output == "" {
		return errors.New("output is required")
	}
	return nil
}

func (in AmalgamateInput) dir() string {
	if in.Dir == "" {
		return "."
	}
	return in.Dir
}

func toOutput(result *amalgam.Result) AmalgamateOutput {
	return AmalgamateOutput{
		Output:         result.Output,
		Guard:          result.Guard,
		Inlined:        result.Inlined,
		SystemIncludes: result.SystemIncludes,
		Bytes:          result.Bytes,
		Written:        result.Written,
	}
}

func handleAmalgamate(inliner *amalgam.Inliner) mcp.ToolHandlerFor[AmalgamateInput, AmalgamateOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AmalgamateInput) (*mcp.CallToolResult, AmalgamateOutput, error) {
		if err := input.validate(); err != nil {
			return nil, AmalgamateOutput{}, err
		}
		result, err := inliner.Combine(ctx, input.dir(), input.Template, input.Output)
		if err != nil {
			return nil, AmalgamateOutput{}, fmt.Errorf("amalgamating %s: %w", input.Template, err)
		}
		return nil, toOutput(result), nil
	}
}

func handlePreview(inliner *amalgam.Inliner) mcp.ToolHandlerFor[AmalgamateInput, PreviewOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input AmalgamateInput) (*mcp.CallToolResult, PreviewOutput, error) {
		if err := input.validate(); err != nil {
			return nil, PreviewOutput{}, err
		}
		result, err := inliner.Render(ctx, input.dir(), input.Template, input.Output)
		if err != nil {
			return nil, PreviewOutput{}, fmt.Errorf("rendering %s: %w", input.Template, err)
		}
		return nil, PreviewOutput{
			Output:         result.Output,
			Guard:          result.Guard,
			Inlined:        result.Inlined,
			SystemIncludes: result.SystemIncludes,
			Text:           result.Text,
		}, nil
	}
}
