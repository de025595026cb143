package store

import "slices"

// Kind is the cardinality of a relationship.
type Kind int

const (
	// BelongsTo is a to-one relationship.
	BelongsTo Kind = iota
	// HasMany is a to-many relationship.
	HasMany
)

func (k Kind) String() string {
	switch k {
	case BelongsTo:
		return "belongs_to"
	case HasMany:
		return "has_many"
	default:
		return "unknown"
	}
}

// SerializeFunc builds the request body for a relationship update from the
// owning record. It replaces the generic serializer for that relationship.
type SerializeFunc func(r *Record) ([]byte, error)

// Relationship describes one relationship field of a resource type.
type Relationship struct {
	Name    string // field name, e.g. "preprints"
	Type    string // related resource type, e.g. "preprint"
	Kind    Kind
	Inverse string

	// Serializer is optional. When set, relationship updates send its
	// result verbatim.
	Serializer SerializeFunc

	// UpdateMethod is optional. When empty, relationship updates use PATCH.
	UpdateMethod string
}

// Schema declares the attributes and relationships of a resource type.
// Schemas are usually produced by osfgen from tagged model structs.
type Schema struct {
	Type          string
	Path          string // URL path segment; derived from Type when empty
	Attributes    []string
	Relationships []Relationship
}

// Relationship looks up a relationship descriptor by name.
func (s *Schema) Relationship(name string) (Relationship, bool) {
	for _, r := range s.Relationships {
		if r.Name == name {
			return r, true
		}
	}
	return Relationship{}, false
}

// HasAttribute reports whether name is a declared attribute.
func (s *Schema) HasAttribute(name string) bool {
	return slices.Contains(s.Attributes, name)
}
