package schema

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed catalog_schema.cue
var catalogSchemaCUE string

// catalogFile is the decoded shape of a CUE catalog file.
type catalogFile struct {
	Models []struct {
		Name       string   `json:"name"`
		Attributes []string `json:"attributes"`
		Indexes    []any    `json:"indexes"`
	} `json:"models"`
}

// LoadCatalog reads a CUE catalog file, validates it against the embedded
// catalog schema, and builds an immutable Catalog from it.
//
// Uses the CUE SDK's Go API directly (not a CLI subprocess). Structural
// errors (missing fields, wrong types) surface as CUE validation errors
// with file positions; semantic errors (index referencing an unknown
// attribute, duplicate models) surface from NewCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog validates and decodes CUE catalog source. The filename is
// used only for error positions.
func ParseCatalog(src []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(catalogSchemaCUE, cue.Filename("catalog_schema.cue"))
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	fileVal := ctx.CompileBytes(src, cue.Filename(filename))
	if err := fileVal.Err(); err != nil {
		return nil, fmt.Errorf("compile catalog: %w", err)
	}

	unified := schemaVal.Unify(fileVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var doc catalogFile
	if err := unified.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	specs := make([]ModelSpec, 0, len(doc.Models))
	for _, m := range doc.Models {
		indexes := make([]Index, 0, len(m.Indexes))
		for _, raw := range m.Indexes {
			ix, err := decodeIndexSpec(raw)
			if err != nil {
				return nil, fmt.Errorf("model %q: %w", m.Name, err)
			}
			indexes = append(indexes, ix)
		}
		specs = append(specs, ModelSpec{
			Model:   Model{Name: m.Name, Attributes: m.Attributes},
			Indexes: indexes,
		})
	}

	return NewCatalog(specs...)
}

// decodeIndexSpec accepts the two index spec shapes the schema allows:
// a bare attribute name or an ordered tuple of attribute names.
func decodeIndexSpec(raw any) (Index, error) {
	switch spec := raw.(type) {
	case string:
		return Index{Attributes: []string{spec}}, nil
	case []any:
		attrs := make([]string, 0, len(spec))
		for _, elem := range spec {
			s, ok := elem.(string)
			if !ok {
				return Index{}, fmt.Errorf("index tuple element %v is not a string", elem)
			}
			attrs = append(attrs, s)
		}
		return Index{Attributes: attrs}, nil
	default:
		return Index{}, fmt.Errorf("index spec %v has unsupported shape %T", raw, raw)
	}
}
