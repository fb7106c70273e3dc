// Package manifest loads the YAML build manifest that lists amalgamation
// targets for the build command.
package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/amalgamate/internal/amalgam"
	"github.com/gorewood/amalgamate/internal/output"
)

// DefaultFile is the manifest name looked up in the working directory.
const DefaultFile = "amalgamate.yaml"

// Target is one template -> output amalgamation.
type Target struct {
	// Name identifies the target on the command line. Defaults to the output base name.
	Name     string `yaml:"name,omitempty"`
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
	// Dir resolves the template's quoted includes. Defaults to the manifest directory.
	Dir string `yaml:"dir,omitempty"`
}

// Manifest is a parsed build manifest.
type Manifest struct {
	Targets []Target `yaml:"targets"`

	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-"`
}

// Load reads and validates the manifest at path through fsys, the same
// storage the targets are read from.
func Load(ctx context.Context, fsys amalgam.FileSystem, path string) (*Manifest, error) {
	data, err := fsys.ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, output.NewUserErrorWithCause("manifest not found: "+path, err)
		}
		return nil, output.NewSystemErrorWithCause("failed to read manifest: "+path, err)
	}
	m, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid manifest %s: %v", path, err), err)
	}
	return m, nil
}

// Parse decodes manifest YAML. Unknown keys are rejected.
func Parse(data []byte, root string) (*Manifest, error) {
	m := &Manifest{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	m.Root = root

	for i := range m.Targets {
		if m.Targets[i].Name == "" && m.Targets[i].Output != "" {
			m.Targets[i].Name = filepath.Base(m.Targets[i].Output)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks that targets are complete and do not collide.
func (m *Manifest) Validate() error {
	if len(m.Targets) == 0 {
		return errors.New("no targets defined")
	}

	names := make(map[string]bool, len(m.Targets))
	outputs := make(map[string]string, len(m.Targets))
	for i, target := range m.Targets {
		if strings.TrimSpace(target.Template) == "" {
			return fmt.Errorf("target %d: template is required", i+1)
		}
		if strings.TrimSpace(target.Output) == "" {
			return fmt.Errorf("target %d: output is required", i+1)
		}
		if names[target.Name] {
			return fmt.Errorf("duplicate target name %q", target.Name)
		}
		names[target.Name] = true

		out := filepath.Clean(m.resolve(target.Output))
		if other, ok := outputs[out]; ok {
			return fmt.Errorf("targets %q and %q write the same output %s", other, target.Name, target.Output)
		}
		outputs[out] = target.Name
	}
	return nil
}

// Resolve returns target with every path made relative to the working
// directory instead of the manifest, and Dir defaulted.
func (m *Manifest) Resolve(target Target) Target {
	resolved := Target{
		Name:     target.Name,
		Template: m.resolve(target.Template),
		Output:   m.resolve(target.Output),
		Dir:      m.resolve(target.Dir),
	}
	if target.Dir == "" {
		resolved.Dir = m.rootDir()
	}
	return resolved
}

// Select returns the named targets, resolved, in manifest order.
// No names selects every target.
func (m *Manifest) Select(names []string) ([]Target, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var selected []Target
	for _, target := range m.Targets {
		if len(names) == 0 || wanted[target.Name] {
			selected = append(selected, m.Resolve(target))
			delete(wanted, target.Name)
		}
	}

	if len(wanted) > 0 {
		var unknown []string
		for _, name := range names {
			if wanted[name] {
				unknown = append(unknown, name)
			}
		}
		return nil, output.NewUserError("unknown target: " + strings.Join(unknown, ", "))
	}
	return selected, nil
}

func (m *Manifest) rootDir() string {
	if m.Root == "" {
		return "."
	}
	return m.Root
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.rootDir(), path)
}
