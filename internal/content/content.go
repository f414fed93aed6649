// Package content loads the static game-content tables: research node and
// deployment definitions.
//
// Content is authored in YAML. Every document is validated against an
// embedded CUE schema before decoding, and the assembled pack is then
// structurally validated: unique ids, no dangling references, and an
// acyclic prerequisite graph. A content defect fails the load loudly; the
// engine never sees a malformed pack.
package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	_ "embed"
	"gopkg.in/yaml.v3"

	"github.com/oversight-games/ascent/internal/game"
)

//go:embed schema.cue
var schemaCUE string

// Pack is one assembled content pack.
type Pack struct {
	Nodes       []game.NodeDef       `yaml:"nodes"`
	Deployments []game.DeploymentDef `yaml:"deployments"`
}

// Load reads every .yaml/.yml file in dir (sorted by name for
// deterministic assembly), validates each against the schema, merges them
// into one pack and validates the assembled graph.
func Load(dir string) (*Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no content files in %s", dir)
	}
	sort.Strings(files)

	pack := &Pack{}
	for _, file := range files {
		part, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		pack.Nodes = append(pack.Nodes, part.Nodes...)
		pack.Deployments = append(pack.Deployments, part.Deployments...)
	}

	if err := Validate(pack); err != nil {
		return nil, err
	}
	return pack, nil
}

// LoadFile reads and schema-validates a single content file. Graph
// validation happens on the assembled pack, not per file.
func LoadFile(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	return &pack, nil
}

// validateSchema unifies the decoded document with the embedded #Pack
// schema and reports every violation CUE finds.
func validateSchema(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("empty content document")
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile content schema: %w", err)
	}

	packSchema := schema.LookupPath(cue.ParsePath("#Pack"))
	if err := packSchema.Err(); err != nil {
		return fmt.Errorf("lookup pack schema: %w", err)
	}

	unified := packSchema.Unify(ctx.Encode(raw))
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		var msgs []string
		for _, e := range cueerrors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("schema violation: %s", strings.Join(msgs, "; "))
	}
	return nil
}
