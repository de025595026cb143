package adapter_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/wI2L/jsondiff"

	"github.com/mickamy/osfadapter/adapter"
	"github.com/mickamy/osfadapter/jsonapi"
	"github.com/mickamy/osfadapter/store"
)

const (
	host      = "https://api.osf.io"
	namespace = "v2"

	nodeURL         = "https://api.osf.io/v2/nodes/n1/"
	childrenURL     = "https://api.osf.io/v2/nodes/n1/relationships/children/"
	contributorsURL = "https://api.osf.io/v2/nodes/n1/contributors/"
	institutionsURL = "https://api.osf.io/v2/nodes/n1/relationships/institutions/"
)

var errContributors = errors.New("contributors: refusing to serialize")

// contributorsPayload sends the whole contributor list as identifiers.
func contributorsPayload(r *store.Record) ([]byte, error) {
	if r.Attr("title") == "broken" {
		return nil, errContributors
	}
	return []byte(`{"node":"` + r.ID() + `"}`), nil
}

func nodeSchemas() []store.Schema {
	return []store.Schema{
		{
			Type:       "node",
			Attributes: []string{"title", "description"},
			Relationships: []store.Relationship{
				{Name: "children", Type: "node", Kind: store.HasMany, Inverse: "parent"},
				{Name: "parent", Type: "node", Kind: store.BelongsTo, Inverse: "children"},
				{Name: "contributors", Type: "user", Kind: store.HasMany, Serializer: contributorsPayload},
				{Name: "affiliatedInstitutions", Type: "institution", Kind: store.HasMany, UpdateMethod: "POST"},
			},
		},
		{Type: "user", Attributes: []string{"full_name"}},
		{Type: "institution", Attributes: []string{"name"}},
	}
}

const nodeDoc = `{
  "data": {
    "id": "n1",
    "type": "node",
    "attributes": {"title": "Project", "description": "A project"},
    "relationships": {
      "children": {
        "links": {
          "self": {"href": "https://api.osf.io/v2/nodes/n1/relationships/children/", "meta": {}},
          "related": {"href": "https://api.osf.io/v2/nodes/n1/children/", "meta": {}}
        },
        "data": [{"type": "node", "id": "n2"}]
      },
      "contributors": {
        "links": {"related": "https://api.osf.io/v2/nodes/n1/contributors/"}
      },
      "affiliated_institutions": {
        "links": {"self": "https://api.osf.io/v2/nodes/n1/relationships/institutions/"}
      },
      "files": {
        "links": {"related": "https://api.osf.io/v2/nodes/n1/files"}
      }
    }
  },
  "included": [
    {"id": "n2", "type": "node", "attributes": {"title": "Component"}}
  ]
}`

type fixture struct {
	store     *store.Store
	transport *adapter.TestTransport
	adapter   *adapter.Adapter
	node      *store.Record
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.New(store.WithSerializer(jsonapi.Serializer{}), store.WithSchemas(nodeSchemas()...))
	records, err := st.Push([]byte(nodeDoc))
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	tt := adapter.NewTestTransport()
	return &fixture{
		store:     st,
		transport: tt,
		adapter:   adapter.New(tt, adapter.Config{Host: host, Namespace: namespace}),
		node:      records[0],
	}
}

// newRelated creates an unsaved record of typ and attaches it to rel.
func (f *fixture) newRelated(t *testing.T, rel, typ string, attrs map[string]any) *store.Record {
	t.Helper()

	rec, err := f.store.CreateRecord(typ, attrs)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if err := f.node.AddRelated(rel, rec); err != nil {
		t.Fatalf("AddRelated(%s): %v", rel, err)
	}
	return rec
}

func (f *fixture) snapshot(t *testing.T) *store.Snapshot {
	t.Helper()

	snap, err := f.node.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	return snap
}

func (f *fixture) update(t *testing.T) error {
	t.Helper()
	return f.adapter.UpdateRecord(context.Background(), f.store, "node", f.snapshot(t), nil)
}

func (f *fixture) start(t *testing.T) *adapter.Save {
	t.Helper()
	return f.adapter.StartUpdate(context.Background(), f.store, "node", f.snapshot(t), nil)
}

func assertJSONEqual(t *testing.T, got []byte, want string) {
	t.Helper()

	patch, err := jsondiff.CompareJSON([]byte(want), got)
	if err != nil {
		t.Fatalf("compare: %v\n%s", err, got)
	}
	if len(patch) != 0 {
		t.Errorf("document mismatch: %s\ngot:  %s\nwant: %s", patch, got, want)
	}
}

type logEntry struct {
	method string
	url    string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) Log(_ context.Context, method, url string, _ []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{method, url})
}

func (l *recordingLogger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
