package schema

import (
	"fmt"
)

// IDAttribute is the designated identifier attribute every model carries.
// It is unique per store and always has an implicit index.
const IDAttribute = "id"

// Record is a persisted instance of a model: a flat mapping of attribute
// name to scalar value. Values are kept in canonical form (see
// CanonicalRecord) so both storage engines collate them identically.
type Record map[string]any

// ID returns the record's identifier, or "" if unset.
func (r Record) ID() string {
	id, _ := r[IDAttribute].(string)
	return id
}

// Clone returns a shallow copy of the record.
// Values are scalars, so a shallow copy is a full copy.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Model describes one persisted model: its name and the ordered list of
// attribute names that are stored. Behavior (methods) is never persisted;
// only the attributes listed here survive a round trip.
type Model struct {
	Name       string
	Attributes []string
}

// HasAttribute reports whether name is a declared attribute of the model.
func (m Model) HasAttribute(name string) bool {
	for _, a := range m.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// Project returns a copy of rec restricted to the model's declared
// attributes. Undeclared keys are dropped silently.
func (m Model) Project(rec Record) Record {
	out := make(Record, len(m.Attributes))
	for _, a := range m.Attributes {
		if v, ok := rec[a]; ok {
			out[a] = v
		}
	}
	return out
}

// Index declares a sorted index over one attribute (single) or an ordered
// tuple of attributes (compound).
type Index struct {
	Attributes []string
}

// Matches reports whether the index covers exactly the given attribute
// list, in the same order. Compound indexes never match a permutation or
// a subset of their key.
func (ix Index) Matches(attrs []string) bool {
	if len(ix.Attributes) != len(attrs) {
		return false
	}
	for i, a := range ix.Attributes {
		if a != attrs[i] {
			return false
		}
	}
	return true
}

// ModelSpec pairs a model descriptor with its declared indexes.
// Used as input to NewCatalog.
type ModelSpec struct {
	Model   Model
	Indexes []Index
}

// Catalog is the immutable registry of models and index declarations for
// one database. Built once at configuration time; never mutated afterward.
type Catalog struct {
	models  map[string]Model
	indexes map[string][]Index
	order   []string
}

// NewCatalog validates the given model specs and builds a catalog.
//
// Validation rules:
//   - model names are non-empty and unique
//   - attribute lists are non-empty with no duplicates
//   - every attribute referenced by an index exists on the model
//
// The identifier attribute is added to a model's attribute list when
// missing, and every model gets an implicit single-attribute index on it.
func NewCatalog(specs ...ModelSpec) (*Catalog, error) {
	c := &Catalog{
		models:  make(map[string]Model, len(specs)),
		indexes: make(map[string][]Index, len(specs)),
	}

	for _, spec := range specs {
		m := spec.Model
		if m.Name == "" {
			return nil, fmt.Errorf("model name must not be empty")
		}
		if _, dup := c.models[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model %q", m.Name)
		}
		if len(m.Attributes) == 0 {
			return nil, fmt.Errorf("model %q declares no attributes", m.Name)
		}

		seen := make(map[string]bool, len(m.Attributes))
		for _, a := range m.Attributes {
			if a == "" {
				return nil, fmt.Errorf("model %q has an empty attribute name", m.Name)
			}
			if seen[a] {
				return nil, fmt.Errorf("model %q declares attribute %q twice", m.Name, a)
			}
			seen[a] = true
		}
		if !seen[IDAttribute] {
			attrs := make([]string, 0, len(m.Attributes)+1)
			attrs = append(attrs, IDAttribute)
			attrs = append(attrs, m.Attributes...)
			m.Attributes = attrs
		}

		indexes := make([]Index, 0, len(spec.Indexes)+1)
		hasIDIndex := false
		for _, ix := range spec.Indexes {
			if len(ix.Attributes) == 0 {
				return nil, fmt.Errorf("model %q declares an empty index", m.Name)
			}
			ixSeen := make(map[string]bool, len(ix.Attributes))
			for _, a := range ix.Attributes {
				if !m.HasAttribute(a) {
					return nil, fmt.Errorf("model %q: index references unknown attribute %q", m.Name, a)
				}
				if ixSeen[a] {
					return nil, fmt.Errorf("model %q: index repeats attribute %q", m.Name, a)
				}
				ixSeen[a] = true
			}
			if len(ix.Attributes) == 1 && ix.Attributes[0] == IDAttribute {
				hasIDIndex = true
			}
			indexes = append(indexes, Index{Attributes: append([]string(nil), ix.Attributes...)})
		}
		if !hasIDIndex {
			// Implicit unique index on the identifier.
			indexes = append(indexes, Index{Attributes: []string{IDAttribute}})
		}

		c.models[m.Name] = m
		c.indexes[m.Name] = indexes
		c.order = append(c.order, m.Name)
	}

	return c, nil
}

// Model returns the descriptor for name.
func (c *Catalog) Model(name string) (Model, bool) {
	m, ok := c.models[name]
	return m, ok
}

// Indexes returns the index declarations for the model, including the
// implicit identifier index. The returned slice must not be mutated.
func (c *Catalog) Indexes(name string) []Index {
	return c.indexes[name]
}

// ModelNames returns model names in declaration order.
func (c *Catalog) ModelNames() []string {
	return append([]string(nil), c.order...)
}
