package store

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/mickamy/osfadapter/internal/naming"
)

// Serializer turns records into request bodies.
type Serializer interface {
	// Serialize builds a single-resource document from a snapshot.
	Serialize(s *Snapshot) ([]byte, error)
	// SerializeMany builds a collection document from records.
	SerializeMany(records []*Record) ([]byte, error)
}

// Option configures a Store.
type Option func(*Store)

// WithSerializer sets the serializer used for types without their own.
func WithSerializer(s Serializer) Option {
	return func(st *Store) { st.defaultSerializer = s }
}

// WithSchemas registers schemas on creation.
func WithSchemas(schemas ...Schema) Option {
	return func(st *Store) {
		for _, s := range schemas {
			st.register(s)
		}
	}
}

// Store holds records in memory, indexed by type and id.
type Store struct {
	mu                sync.RWMutex
	schemas           map[string]*Schema
	byID              map[recordKey]*Record
	byClientID        map[string]*Record
	serializers       map[string]Serializer
	defaultSerializer Serializer
}

type recordKey struct {
	typ string
	id  string
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		schemas:     make(map[string]*Schema),
		byID:        make(map[recordKey]*Record),
		byClientID:  make(map[string]*Record),
		serializers: make(map[string]Serializer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds or replaces the schema for a resource type.
func (s *Store) Register(schema Schema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.register(schema)
}

func (s *Store) register(schema Schema) {
	s.schemas[schema.Type] = &schema
}

// Schema returns the registered schema for a type.
func (s *Store) Schema(typ string) (*Schema, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	schema, ok := s.schemas[typ]
	return schema, ok
}

// RegisterSerializer sets a per-type serializer.
func (s *Store) RegisterSerializer(typ string, ser Serializer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serializers[typ] = ser
}

// SerializerFor returns the serializer for a type, falling back to the
// default serializer.
func (s *Store) SerializerFor(typ string) (Serializer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ser, ok := s.serializers[typ]; ok {
		return ser, nil
	}
	if s.defaultSerializer != nil {
		return s.defaultSerializer, nil
	}
	return nil, errors.Wrapf(ErrNoSerializer, "type %s", typ)
}

// CreateRecord instantiates an unsaved record with the given attributes.
func (s *Store) CreateRecord(typ string, attrs map[string]any) (*Record, error) {
	schema, ok := s.Schema(typ)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%s", typ)
	}
	rec := newRecord(schema, uuid.NewString(), "")
	for k, v := range attrs {
		if err := rec.SetAttr(k, v); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byClientID[rec.clientID] = rec
	return rec, nil
}

// Peek returns a loaded record without touching the network.
func (s *Store) Peek(typ, id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[recordKey{typ, id}]
	return rec, ok
}

// PeekClientID returns a record by its client id.
func (s *Store) PeekClientID(clientID string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byClientID[clientID]
	return rec, ok
}

// Unload removes a record from the store.
func (s *Store) Unload(rec *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byClientID, rec.clientID)
	if id := rec.ID(); id != "" {
		delete(s.byID, recordKey{rec.Type(), id})
	}
}

// recordFor returns the record for (typ, id), creating an empty one if
// it is not loaded yet.
func (s *Store) recordFor(typ, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.byID[recordKey{typ, id}]; ok {
		return rec, nil
	}
	schema, ok := s.schemas[typ]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%s", typ)
	}
	rec := newRecord(schema, uuid.NewString(), id)
	s.byID[recordKey{typ, id}] = rec
	s.byClientID[rec.clientID] = rec
	return rec, nil
}

func (s *Store) assignID(rec *Record, id string) {
	rec.mu.Lock()
	rec.id = id
	rec.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[recordKey{rec.Type(), id}] = rec
}

// Push loads a JSON:API document into the store and returns the records
// of its primary data. Resources in "included" are loaded as well.
func (s *Store) Push(doc []byte) ([]*Record, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.Wrap(ErrInvalidDocument, "malformed json")
	}
	root := gjson.ParseBytes(doc)
	data := root.Get("data")
	if !data.Exists() {
		return nil, errors.Wrap(ErrInvalidDocument, "missing data")
	}

	var resources []gjson.Result
	if data.IsArray() {
		resources = data.Array()
	} else if data.IsObject() {
		resources = []gjson.Result{data}
	}

	records := make([]*Record, 0, len(resources))
	for _, res := range resources {
		rec, err := s.pushResource(res)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	for _, res := range root.Get("included").Array() {
		if _, err := s.pushResource(res); err != nil && !errors.Is(err, ErrUnknownType) {
			return nil, err
		}
	}
	return records, nil
}

// PushFor applies the primary data of a single-resource document to rec,
// assigning the server id if rec is unsaved.
func (s *Store) PushFor(rec *Record, doc []byte) error {
	if len(doc) == 0 {
		return nil
	}
	if !gjson.ValidBytes(doc) {
		return errors.Wrap(ErrInvalidDocument, "malformed json")
	}
	data := gjson.GetBytes(doc, "data")
	if !data.IsObject() {
		return errors.Wrap(ErrInvalidDocument, "data is not a resource object")
	}
	if t := data.Get("type").String(); t != rec.Type() {
		return errors.Wrapf(ErrInvalidDocument, "type %q does not match %q", t, rec.Type())
	}
	if id := data.Get("id").String(); id != "" && rec.IsNew() {
		s.assignID(rec, id)
	}
	return s.apply(rec, data)
}

func (s *Store) pushResource(res gjson.Result) (*Record, error) {
	typ := res.Get("type").String()
	id := res.Get("id").String()
	if typ == "" || id == "" {
		return nil, errors.Wrap(ErrInvalidDocument, "resource object without type or id")
	}
	rec, err := s.recordFor(typ, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(rec, res); err != nil {
		return nil, err
	}
	return rec, nil
}

// apply copies attributes, relationship linkage and link bundles from a
// resource object into rec. Locally modified attributes and relationships
// keep their local values.
func (s *Store) apply(rec *Record, res gjson.Result) error {
	type linkage struct {
		name string
		ids  []recordKey
	}
	var linkages []linkage
	links := make(map[string]Links)

	res.Get("relationships").ForEach(func(key, rel gjson.Result) bool {
		links[naming.Underscore(key.String())] = parseLinks(rel.Get("links"))

		desc, ok := findByWireName(rec.schema, key.String())
		if !ok {
			return true
		}
		data := rel.Get("data")
		if !data.Exists() {
			return true
		}
		l := linkage{name: desc.Name}
		items := []gjson.Result{data}
		if data.IsArray() {
			items = data.Array()
		}
		for _, item := range items {
			if item.IsObject() {
				l.ids = append(l.ids, recordKey{item.Get("type").String(), item.Get("id").String()})
			}
		}
		linkages = append(linkages, l)
		return true
	})
	// Some APIs nest relationship links under the resource's own links object.
	res.Get("links.relationships").ForEach(func(key, rel gjson.Result) bool {
		if l := parseLinks(rel.Get("links")); !l.IsZero() {
			links[naming.Underscore(key.String())] = l
		}
		return true
	})

	resolved := make(map[string][]*Record, len(linkages))
	for _, l := range linkages {
		recs := make([]*Record, 0, len(l.ids))
		for _, k := range l.ids {
			related, err := s.recordFor(k.typ, k.id)
			if errors.Is(err, ErrUnknownType) {
				continue
			}
			if err != nil {
				return err
			}
			recs = append(recs, related)
		}
		resolved[l.name] = recs
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	res.Get("attributes").ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		v := value.Value()
		if _, ok := rec.persisted[name]; !ok || !attrChanged(rec.persisted, rec.attrs, name) {
			rec.attrs[name] = v
		}
		rec.persisted[name] = v
		return true
	})
	for name, recs := range resolved {
		if rec.inFlight[name] || slices.Contains(rec.dirty, name) {
			continue
		}
		rec.related[name] = recs
	}
	for k, v := range links {
		rec.links[k] = v
	}
	return nil
}

// findByWireName matches a relationship member name from a document,
// which the API underscores, against the schema's field names.
func findByWireName(schema *Schema, key string) (Relationship, bool) {
	for _, r := range schema.Relationships {
		if r.Name == key || naming.Underscore(r.Name) == key {
			return r, true
		}
	}
	return Relationship{}, false
}
