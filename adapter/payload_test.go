package adapter_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/mickamy/osfadapter/store"
)

// spySerializer counts calls and fails when err is set.
type spySerializer struct {
	calls atomic.Int32
	err   error
}

func (s *spySerializer) Serialize(*store.Snapshot) ([]byte, error) {
	s.calls.Add(1)
	return []byte(`{}`), s.err
}

func (s *spySerializer) SerializeMany([]*store.Record) ([]byte, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(`{"data":[]}`), nil
}

func TestRelationshipPayloadCustomSerializer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	spy := &spySerializer{}
	f.store.RegisterSerializer("user", spy)
	f.newRelated(t, "contributors", "user", map[string]any{"full_name": "Ada"})

	got, err := f.adapter.RelationshipPayload(f.store, f.snapshot(t), "contributors")
	if err != nil {
		t.Fatalf("RelationshipPayload: %v", err)
	}
	if string(got) != `{"node":"n1"}` {
		t.Errorf("payload = %s, want custom serializer output", got)
	}
	if n := spy.calls.Load(); n != 0 {
		t.Errorf("generic serializer called %d times", n)
	}
}

func TestRelationshipPayloadCustomSerializerError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if err := f.node.SetAttr("title", "broken"); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}

	_, err := f.adapter.RelationshipPayload(f.store, f.snapshot(t), "contributors")
	if !errors.Is(err, errContributors) {
		t.Errorf("err = %v, want %v", err, errContributors)
	}
}

func TestRelationshipPayloadOnlyUnsavedRecords(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.newRelated(t, "children", "node", map[string]any{"title": "First draft"})
	f.newRelated(t, "children", "node", map[string]any{"title": "Second draft"})
	snap := f.snapshot(t)
	// Added after the snapshot; must not be sent.
	f.newRelated(t, "children", "node", map[string]any{"title": "Late"})

	got, err := f.adapter.RelationshipPayload(f.store, snap, "children")
	if err != nil {
		t.Fatalf("RelationshipPayload: %v", err)
	}
	// n2 is persisted and stays out of the payload.
	assertJSONEqual(t, got, `{"data": [
		{"type": "node", "attributes": {"title": "First draft"}},
		{"type": "node", "attributes": {"title": "Second draft"}}
	]}`)
}

func TestRelationshipPayloadOnlyPersistedMembers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	if _, err := f.store.Push([]byte(`{"data": {"id": "cos", "type": "institution"}}`)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	cos, _ := f.store.Peek("institution", "cos")
	if err := f.node.AddRelated("affiliatedInstitutions", cos); err != nil {
		t.Fatalf("AddRelated: %v", err)
	}

	got, err := f.adapter.RelationshipPayload(f.store, f.snapshot(t), "affiliatedInstitutions")
	if err != nil {
		t.Fatalf("RelationshipPayload: %v", err)
	}
	assertJSONEqual(t, got, `{"data": []}`)
}

func TestRelationshipPayloadSerializerError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	boom := errors.New("boom")
	f.store.RegisterSerializer("institution", &spySerializer{err: boom})
	f.newRelated(t, "affiliatedInstitutions", "institution", map[string]any{"name": "COS"})

	_, err := f.adapter.RelationshipPayload(f.store, f.snapshot(t), "affiliatedInstitutions")
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestRelationshipPayloadUnknownRelationship(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.adapter.RelationshipPayload(f.store, f.snapshot(t), "wikis")
	if !errors.Is(err, store.ErrUnknownRelationship) {
		t.Errorf("err = %v, want ErrUnknownRelationship", err)
	}
}
