package store

import (
	"slices"

	"github.com/mickamy/osfadapter/internal/naming"
)

// Snapshot is an immutable view of a Record taken when a save begins.
// Local mutations made after the snapshot do not show through it.
type Snapshot struct {
	record    *Record
	id        string
	attrs     map[string]any
	related   map[string][]*Record
	links     map[string]Links
	changed   []string
	dirty     []string
	revisions map[string]uint64
}

// Record returns the live record the snapshot was taken from.
func (s *Snapshot) Record() *Record { return s.record }

// Type returns the resource type.
func (s *Snapshot) Type() string { return s.record.Type() }

// ID returns the identifier at snapshot time, or "" for unsaved records.
func (s *Snapshot) ID() string { return s.id }

// Attr returns an attribute value at snapshot time.
func (s *Snapshot) Attr(name string) any { return s.attrs[name] }

// Attributes returns a copy of all attribute values at snapshot time.
func (s *Snapshot) Attributes() map[string]any {
	out := make(map[string]any, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// ChangedAttributes returns the attributes that were dirty at snapshot time.
func (s *Snapshot) ChangedAttributes() []string { return slices.Clone(s.changed) }

// HasDirtyAttributes reports whether any attribute was dirty.
func (s *Snapshot) HasDirtyAttributes() bool { return len(s.changed) > 0 }

// Related returns the related records at snapshot time.
func (s *Snapshot) Related(name string) []*Record { return slices.Clone(s.related[name]) }

// DirtyRelationships returns the relationships that were dirty at snapshot time.
func (s *Snapshot) DirtyRelationships() []string { return slices.Clone(s.dirty) }

// ClearDirtyRelationship marks a relationship as synced on the live record,
// unless it was modified again after the snapshot was taken. It reports
// whether the flag was cleared.
func (s *Snapshot) ClearDirtyRelationship(name string) bool {
	rev, ok := s.revisions[name]
	if !ok {
		return false
	}
	return s.record.clearDirtyAt(name, rev)
}

// RelationshipLinks returns the link bundle for a relationship at snapshot time.
func (s *Snapshot) RelationshipLinks(name string) (Links, bool) {
	l, ok := s.links[naming.Underscore(name)]
	if !ok || l.IsZero() {
		return Links{}, false
	}
	return l, true
}
