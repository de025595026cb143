package store

import (
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/wI2L/jsondiff"

	"github.com/mickamy/osfadapter/internal/naming"
)

// Record is an in-memory instance of a resource. All methods are safe for
// concurrent use.
type Record struct {
	schema   *Schema
	clientID string

	mu        sync.RWMutex
	id        string
	attrs     map[string]any
	persisted map[string]any
	related   map[string][]*Record
	links     map[string]Links // keyed by underscored relationship name

	dirty     []string          // dirty relationships in modification order
	revisions map[string]uint64 // bumped on every relationship mutation
	inFlight  map[string]bool
}

func newRecord(schema *Schema, clientID, id string) *Record {
	return &Record{
		schema:    schema,
		clientID:  clientID,
		id:        id,
		attrs:     make(map[string]any),
		persisted: make(map[string]any),
		related:   make(map[string][]*Record),
		links:     make(map[string]Links),
		revisions: make(map[string]uint64),
		inFlight:  make(map[string]bool),
	}
}

// Type returns the resource type, e.g. "preprint-provider".
func (r *Record) Type() string { return r.schema.Type }

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// ClientID returns the store-local identifier assigned on creation.
// It is stable across the record's lifetime, including after it is saved.
func (r *Record) ClientID() string { return r.clientID }

// ID returns the server identifier, or "" while the record is unsaved.
func (r *Record) ID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.id
}

// IsNew reports whether the record has not been persisted yet.
func (r *Record) IsNew() bool { return r.ID() == "" }

// Attr returns the current value of an attribute.
func (r *Record) Attr(name string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attrs[name]
}

// Attributes returns a shallow copy of the current attribute values.
func (r *Record) Attributes() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

// SetAttr sets a declared attribute.
func (r *Record) SetAttr(name string, value any) error {
	if !r.schema.HasAttribute(name) {
		return errors.Wrapf(ErrUnknownAttribute, "%s.%s", r.schema.Type, name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attrs[name] = value
	return nil
}

// ChangedAttributes returns the names of attributes whose current value
// differs from the last value acknowledged by the server, sorted.
func (r *Record) ChangedAttributes() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return changedAttributes(r.persisted, r.attrs)
}

// HasDirtyAttributes reports whether any attribute changed locally.
func (r *Record) HasDirtyAttributes() bool {
	changed, err := r.ChangedAttributes()
	return err != nil || len(changed) > 0
}

func changedAttributes(persisted, current map[string]any) ([]string, error) {
	src, err := json.Marshal(persisted)
	if err != nil {
		return nil, errors.Wrap(err, "store: marshal persisted attributes")
	}
	dst, err := json.Marshal(current)
	if err != nil {
		return nil, errors.Wrap(err, "store: marshal current attributes")
	}
	patch, err := jsondiff.CompareJSON(src, dst)
	if err != nil {
		return nil, errors.Wrap(err, "store: diff attributes")
	}

	var names []string
	for _, op := range patch {
		name := topLevelKey(op.Path)
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// attrChanged reports whether a single attribute differs, compared the same
// way as ChangedAttributes.
func attrChanged(persisted, current map[string]any, name string) bool {
	changed, err := changedAttributes(
		map[string]any{name: persisted[name]},
		map[string]any{name: current[name]},
	)
	return err != nil || len(changed) > 0
}

// topLevelKey returns the first reference token of a JSON pointer.
func topLevelKey(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if i := strings.IndexByte(pointer, '/'); i >= 0 {
		pointer = pointer[:i]
	}
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(pointer)
}

// CommitAttributes records the snapshot's attribute values as acknowledged
// by the server.
func (r *Record) CommitAttributes(s *Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range s.attrs {
		r.persisted[k] = v
	}
}

// Related returns the records currently related through name.
func (r *Record) Related(name string) []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.related[name])
}

// BelongsTo returns the single related record of a to-one relationship,
// or nil.
func (r *Record) BelongsTo(name string) *Record {
	rel := r.Related(name)
	if len(rel) == 0 {
		return nil
	}
	return rel[0]
}

// SetRelated replaces the members of a relationship and marks it dirty.
func (r *Record) SetRelated(name string, records ...*Record) error {
	desc, err := r.descriptor(name)
	if err != nil {
		return err
	}
	if desc.Kind == BelongsTo && len(records) > 1 {
		return errors.Errorf("store: %s.%s is to-one, got %d records", r.schema.Type, name, len(records))
	}
	for _, rel := range records {
		if rel.Type() != desc.Type {
			return errors.Wrapf(ErrTypeMismatch, "%s.%s expects %s, got %s", r.schema.Type, name, desc.Type, rel.Type())
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.related[name] = slices.Clone(records)
	r.markDirty(name)
	return nil
}

// AddRelated appends a record to a to-many relationship and marks it dirty.
func (r *Record) AddRelated(name string, rec *Record) error {
	desc, err := r.descriptor(name)
	if err != nil {
		return err
	}
	if desc.Kind != HasMany {
		return errors.Errorf("store: %s.%s is not to-many", r.schema.Type, name)
	}
	if rec.Type() != desc.Type {
		return errors.Wrapf(ErrTypeMismatch, "%s.%s expects %s, got %s", r.schema.Type, name, desc.Type, rec.Type())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.related[name], rec) {
		return nil
	}
	r.related[name] = append(r.related[name], rec)
	r.markDirty(name)
	return nil
}

// RemoveRelated removes a record from a relationship and marks it dirty.
func (r *Record) RemoveRelated(name string, rec *Record) error {
	if _, err := r.descriptor(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.related[name], rec)
	if i < 0 {
		return nil
	}
	r.related[name] = slices.Delete(slices.Clone(r.related[name]), i, i+1)
	r.markDirty(name)
	return nil
}

func (r *Record) descriptor(name string) (Relationship, error) {
	desc, ok := r.schema.Relationship(name)
	if !ok {
		return Relationship{}, errors.Wrapf(ErrUnknownRelationship, "%s.%s", r.schema.Type, name)
	}
	return desc, nil
}

// markDirty must be called with r.mu held.
func (r *Record) markDirty(name string) {
	r.revisions[name]++
	if !slices.Contains(r.dirty, name) {
		r.dirty = append(r.dirty, name)
	}
}

// DirtyRelationships returns the dirty relationship names in the order
// they were first modified.
func (r *Record) DirtyRelationships() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.dirty)
}

// ClearDirtyRelationship unconditionally marks a relationship as synced.
func (r *Record) ClearDirtyRelationship(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearDirty(name)
}

// clearDirtyAt clears name only if it has not been modified since rev.
func (r *Record) clearDirtyAt(name string, rev uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.revisions[name] != rev {
		return false
	}
	r.clearDirty(name)
	return true
}

func (r *Record) clearDirty(name string) {
	if i := slices.Index(r.dirty, name); i >= 0 {
		r.dirty = slices.Delete(r.dirty, i, i+1)
	}
}

// BeginSync marks a relationship as in flight. It returns false if a
// request for the same relationship is already outstanding.
func (r *Record) BeginSync(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight[name] {
		return false
	}
	r.inFlight[name] = true
	return true
}

// EndSync releases a relationship marked by BeginSync.
func (r *Record) EndSync(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, name)
}

// RelationshipLinks returns the link bundle the server supplied for a
// relationship. The name is underscored before lookup, so "logoPath" and
// "logo_path" resolve to the same bundle.
func (r *Record) RelationshipLinks(name string) (Links, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.links[naming.Underscore(name)]
	if !ok || l.IsZero() {
		return Links{}, false
	}
	return l, true
}

// Snapshot captures the record's current state.
func (r *Record) Snapshot() (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := &Snapshot{
		record:    r,
		id:        r.id,
		attrs:     make(map[string]any, len(r.attrs)),
		related:   make(map[string][]*Record, len(r.related)),
		links:     make(map[string]Links, len(r.links)),
		dirty:     slices.Clone(r.dirty),
		revisions: make(map[string]uint64, len(r.dirty)),
	}
	if err := copier.CopyWithOption(&s.attrs, r.attrs, copier.Option{DeepCopy: true}); err != nil {
		return nil, errors.Wrap(err, "store: copy attributes")
	}
	for k, v := range r.related {
		s.related[k] = slices.Clone(v)
	}
	for k, v := range r.links {
		s.links[k] = v
	}
	for _, name := range r.dirty {
		s.revisions[name] = r.revisions[name]
	}

	changed, err := changedAttributes(r.persisted, r.attrs)
	if err != nil {
		return nil, err
	}
	s.changed = changed
	return s, nil
}
