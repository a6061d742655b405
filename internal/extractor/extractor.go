// Package extractor produces RawComponent records from Go sources using
// tree-sitter. It is the reference producer for the component input
// contract; extractors for the other supported languages run out of process
// and deliver the same JSON shape.
package extractor

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"codegraph/internal/component"
)

const goQuery = `
	(function_declaration) @func
	(method_declaration) @method
	(type_spec) @type
	(const_spec) @const
	(var_spec) @var
`

// GoExtractor turns one Go file at a time into component records.
type GoExtractor struct{}

func NewGoExtractor() *GoExtractor {
	return &GoExtractor{}
}

// ExtractFile reads and extracts a single source file. relPath is the
// repo-relative path that becomes the records' file_path (and so the id
// prefix downstream).
func (e *GoExtractor) ExtractFile(ctx context.Context, absPath, relPath string) ([]component.Raw, error) {
	source, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", absPath, err)
	}
	return e.Extract(ctx, source, relPath)
}

// Extract parses Go source and returns its component records. Records for
// declarations that cannot be named are skipped, never fatal.
func (e *GoExtractor) Extract(ctx context.Context, source []byte, relPath string) ([]component.Raw, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relPath, err)
	}

	query, err := sitter.NewQuery([]byte(goQuery), golang.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(query, tree.RootNode())

	var comps []component.Raw
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			var comp *component.Raw
			switch query.CaptureNameForId(c.Index) {
			case "func":
				comp = buildFunction(c.Node, source, relPath, false)
			case "method":
				comp = buildFunction(c.Node, source, relPath, true)
			case "type":
				comp = buildType(c.Node, source, relPath)
			case "const":
				comp = buildValue(c.Node, source, relPath, "constant")
			case "var":
				comp = buildValue(c.Node, source, relPath, "variable")
			}
			if comp != nil {
				comps = append(comps, *comp)
			}
		}
	}

	qualifyLocalReferences(comps, relPath)
	return comps, nil
}

// qualifyLocalReferences rewrites bare type names that are declared in the
// same file to their full `relPath::Name` ids, and attaches method names to
// their receiver's struct record.
func qualifyLocalReferences(comps []component.Raw, relPath string) {
	local := make(map[string]string)
	for i := range comps {
		switch comps[i].Kind {
		case "struct", "interface", "type_alias":
			local[comps[i].Name] = relPath + "::" + comps[i].Name
		}
	}
	qualify := func(name string) string {
		if id, ok := local[name]; ok {
			return id
		}
		return name
	}

	methodsByReceiver := make(map[string][]string)
	for i := range comps {
		comp := &comps[i]
		if comp.Kind == "method" && comp.ReceiverType != "" {
			methodsByReceiver[comp.ReceiverType] = append(methodsByReceiver[comp.ReceiverType], comp.Name)
			comp.ReceiverType = qualify(comp.ReceiverType)
		}
		for j, dep := range comp.TypeDependencies {
			comp.TypeDependencies[j] = qualify(dep)
		}
		for j, ft := range comp.FieldTypes {
			comp.FieldTypes[j] = qualify(ft)
		}
	}
	for i := range comps {
		if comps[i].Kind == "struct" {
			comps[i].Methods = methodsByReceiver[comps[i].Name]
		}
	}
}
