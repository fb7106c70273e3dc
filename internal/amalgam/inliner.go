package amalgam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/gorewood/amalgamate/internal/output"
)

// ErrIncludeCycle reports a header that includes itself, directly or through
// other headers, before its first expansion finished.
var ErrIncludeCycle = errors.New("include cycle")

// State is shared by every ProcessHeader call of one amalgamation run.
type State struct {
	// Processed maps a quoted include name, as written, to true once it has
	// been inlined. Later directives with the same name are dropped.
	Processed map[string]bool
	// SystemIncludes collects angle-bracket names in walk order, duplicates included.
	SystemIncludes []string

	inlined []string
	stack   []frame
}

// frame is a file being expanded together with the directory its quoted
// includes resolve against. The same file reached with another directory
// expands differently, so it is not a cycle.
type frame struct {
	dir  string
	path string
}

// NewState returns an empty run state.
func NewState() *State {
	return &State{Processed: make(map[string]bool)}
}

// Inlined returns the quoted include names in the order they were expanded.
func (s *State) Inlined() []string {
	return slices.Clone(s.inlined)
}

// Inliner expands quoted includes and collects system includes.
type Inliner struct {
	fs     FileSystem
	logger *log.Logger
}

// Option configures an Inliner.
type Option func(*Inliner)

// WithLogger sets the logger used for debug tracing of the walk.
func WithLogger(logger *log.Logger) Option {
	return func(in *Inliner) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// New creates an Inliner over fsys. A nil fsys uses the local file system through afs.
func New(fsys FileSystem, opts ...Option) *Inliner {
	if fsys == nil {
		fsys = NewAFS(nil)
	}
	in := &Inliner{fs: fsys, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// ProcessHeader returns the expanded text of path.
//
// Quoted includes found in path resolve against dir; each inlined header is
// processed with its own directory and with stripInitialComment set, which
// drops the contiguous run of // lines at its top. The first line that is
// not dropped ends stripping for the rest of the file.
func (in *Inliner) ProcessHeader(ctx context.Context, dir, path string, state *State, stripInitialComment bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := frame{dir: filepath.Clean(dir), path: filepath.Clean(path)}
	if slices.Contains(state.stack, key) {
		chain := make([]string, 0, len(state.stack)+1)
		for _, f := range state.stack {
			chain = append(chain, f.path)
		}
		chain = append(chain, key.path)
		return "", &output.ExitError{
			Code:    output.ExitUserError,
			Message: "include cycle: " + strings.Join(chain, " -> "),
			Cause:   ErrIncludeCycle,
		}
	}

	data, err := in.fs.ReadFile(ctx, path)
	if err != nil {
		return "", in.readError(path, state, err)
	}

	state.stack = append(state.stack, key)
	defer func() { state.stack = state.stack[:len(state.stack)-1] }()

	var text strings.Builder
	strip := stripInitialComment
	for line := range strings.Lines(string(data)) {
		kind, name := classifyLine(line)
		if kind == lineComment && strip {
			continue
		}
		strip = false

		switch kind {
		case lineSystemInclude:
			state.SystemIncludes = append(state.SystemIncludes, name)
			in.logger.Debug("system include", "name", name, "file", path)
		case lineLocalInclude:
			if state.Processed[name] {
				in.logger.Debug("skip repeated include", "name", name, "file", path)
				continue
			}
			target := filepath.Join(dir, name)
			in.logger.Debug("inline", "name", name, "path", target)
			expanded, err := in.ProcessHeader(ctx, filepath.Dir(target), target, state, true)
			if err != nil {
				return "", err
			}
			text.WriteString(expanded)
			state.Processed[name] = true
			state.inlined = append(state.inlined, name)
		default:
			text.WriteString(line)
		}
	}
	return text.String(), nil
}

// readError maps a read failure to an exit-coded error naming the includer.
func (in *Inliner) readError(path string, state *State, err error) error {
	what, where := "template", path
	if n := len(state.stack); n > 0 {
		what, where = "header", fmt.Sprintf("%s (included from %s)", path, state.stack[n-1].path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return output.NewUserErrorWithCause(what+" not found: "+where, err)
	}
	return output.NewSystemErrorWithCause("failed to read "+what+": "+where, err)
}
