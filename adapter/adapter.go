package adapter

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mickamy/osfadapter/scope"
	"github.com/mickamy/osfadapter/store"
)

// Config holds the API location used by BuildURL.
type Config struct {
	Host      string // e.g. "https://api.osf.io"
	Namespace string // e.g. "v2"
}

// Adapter maps store operations onto API requests.
type Adapter struct {
	host      string
	namespace string
	transport Transport
	logger    Logger
}

// New returns an Adapter that sends requests through t.
func New(t Transport, cfg Config) *Adapter {
	return &Adapter{host: cfg.Host, namespace: cfg.Namespace, transport: t}
}

// Debug returns a new *Adapter that logs every request using the given Logger.
// The original Adapter is not modified.
func (a *Adapter) Debug(l Logger) *Adapter {
	a2 := *a
	a2.logger = l
	return &a2
}

func (a *Adapter) do(ctx context.Context, method, url string, body []byte) (*Response, error) {
	if a.logger != nil {
		a.logger.Log(ctx, method, url, body)
	}
	return a.transport.Do(ctx, &Request{Method: method, URL: url, Body: body}) //nolint:wrapcheck // pass through
}

// FindRecord loads a single record and pushes it into the store.
func (a *Adapter) FindRecord(ctx context.Context, st *store.Store, modelName, id string, query scope.Scopes) (*store.Record, error) {
	schema, _ := st.Schema(modelName)
	u := a.BuildURL(URLParams{
		ModelName:   modelName,
		ID:          id,
		Schema:      schema,
		RequestType: RequestFindRecord,
		Query:       query,
	})
	resp, err := a.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	records, err := st.Push(resp.Body)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "%s %s", modelName, id)
	}
	return records[0], nil
}

// Query loads a collection and pushes it into the store.
func (a *Adapter) Query(ctx context.Context, st *store.Store, modelName string, query scope.Scopes) ([]*store.Record, error) {
	schema, _ := st.Schema(modelName)
	u := a.BuildURL(URLParams{
		ModelName:   modelName,
		Schema:      schema,
		RequestType: RequestQuery,
		Query:       query,
	})
	resp, err := a.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return st.Push(resp.Body) //nolint:wrapcheck // pass through
}

// CreateRecord POSTs an unsaved record. The id and attributes from the
// response are applied to the record.
func (a *Adapter) CreateRecord(ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot, query scope.Scopes) error {
	u := a.BuildURL(URLParams{
		ModelName:   modelName,
		Snapshot:    snap,
		RequestType: RequestCreateRecord,
		Query:       query,
	})
	ser, err := st.SerializerFor(modelName)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	body, err := ser.Serialize(snap)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	resp, err := a.do(ctx, http.MethodPost, u, body)
	if err != nil {
		return err
	}
	snap.Record().CommitAttributes(snap)
	return st.PushFor(snap.Record(), resp.Body) //nolint:wrapcheck // pass through
}

// DeleteRecord deletes a persisted record and unloads it from the store.
func (a *Adapter) DeleteRecord(ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot) error {
	if snap.ID() == "" {
		return errors.Wrapf(ErrNotPersisted, "delete %s", modelName)
	}
	u := a.BuildURL(URLParams{
		ModelName:   modelName,
		ID:          snap.ID(),
		Snapshot:    snap,
		RequestType: RequestDeleteRecord,
	})
	if _, err := a.do(ctx, http.MethodDelete, u, nil); err != nil {
		return err
	}
	st.Unload(snap.Record())
	return nil
}

// UpdateRecord saves a persisted record. It is StartUpdate followed by
// Save.Wait: it returns as soon as any request fails, or once all have
// succeeded. Requests still running after a failure are not cancelled.
func (a *Adapter) UpdateRecord(ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot, query scope.Scopes) error {
	return a.StartUpdate(ctx, st, modelName, snap, query).Wait()
}

// StartUpdate issues the requests that save a persisted record and returns
// without waiting for them.
//
// Each dirty relationship gets its own request, and a dirty attribute set
// gets one more; all run concurrently. A relationship's dirty flag is
// cleared when its own request succeeds, regardless of its siblings. A
// failed relationship is reported as *RelationshipError and stays dirty.
func (a *Adapter) StartUpdate(ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot, query scope.Scopes) *Save {
	s := newSave()
	if snap.ID() == "" {
		s.fail(errors.Wrapf(ErrNotPersisted, "update %s", modelName))
		close(s.done)
		return s
	}

	// No errgroup.WithContext: a failure must not cancel sibling requests.
	var g errgroup.Group
	for _, rel := range snap.DirtyRelationships() {
		g.Go(func() error {
			if err := a.updateRelationship(ctx, st, modelName, snap, query, rel); err != nil {
				return s.fail(&RelationshipError{Relationship: rel, Err: err})
			}
			return nil
		})
	}
	if snap.HasDirtyAttributes() {
		g.Go(func() error {
			if err := a.updateAttributes(ctx, st, modelName, snap, query); err != nil {
				return s.fail(err)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(s.done)
	}()
	return s
}

func (a *Adapter) updateRelationship(
	ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot, query scope.Scopes, rel string,
) error {
	rec := snap.Record()
	desc, ok := rec.Schema().Relationship(rel)
	if !ok {
		return errors.Wrapf(store.ErrUnknownRelationship, "%s.%s", modelName, rel)
	}
	if !rec.BeginSync(rel) {
		return ErrInFlight
	}
	defer rec.EndSync(rel)

	u := a.RelationshipURL(URLParams{
		ModelName:    modelName,
		ID:           snap.ID(),
		Snapshot:     snap,
		RequestType:  RequestUpdateRecord,
		Query:        query,
		Relationship: rel,
	})
	body, err := a.RelationshipPayload(st, snap, rel)
	if err != nil {
		return err
	}

	method := desc.UpdateMethod
	if method == "" {
		method = http.MethodPatch
	}
	if _, err := a.do(ctx, method, u, body); err != nil {
		return err
	}
	snap.ClearDirtyRelationship(rel)
	return nil
}

func (a *Adapter) updateAttributes(ctx context.Context, st *store.Store, modelName string, snap *store.Snapshot, query scope.Scopes) error {
	u := a.BuildURL(URLParams{
		ModelName:   modelName,
		ID:          snap.ID(),
		Snapshot:    snap,
		RequestType: RequestUpdateRecord,
		Query:       query,
	})
	ser, err := st.SerializerFor(modelName)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	body, err := ser.Serialize(snap)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	resp, err := a.do(ctx, http.MethodPatch, u, body)
	if err != nil {
		return err
	}
	snap.Record().CommitAttributes(snap)
	return st.PushFor(snap.Record(), resp.Body) //nolint:wrapcheck // pass through
}
