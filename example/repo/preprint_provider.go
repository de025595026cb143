package repo

import (
	"context"

	"github.com/mickamy/osfadapter/adapter"
	"github.com/mickamy/osfadapter/scope"
	"github.com/mickamy/osfadapter/store"
)

const providerType = "preprint-provider"

// PreprintProviderRepository wraps adapter calls with a repository pattern.
type PreprintProviderRepository struct {
	api   *adapter.Adapter
	store *store.Store
}

func NewPreprintProviderRepository(api *adapter.Adapter, st *store.Store) *PreprintProviderRepository {
	return &PreprintProviderRepository{api: api, store: st}
}

func (r *PreprintProviderRepository) FindByID(ctx context.Context, id string) (*store.Record, error) {
	return r.api.FindRecord(ctx, r.store, providerType, id, scope.Combine(scope.Include("preprints")))
}

func (r *PreprintProviderRepository) FindAll(ctx context.Context, scopes ...scope.Scope) ([]*store.Record, error) {
	return r.api.Query(ctx, r.store, providerType, scope.Combine(scopes...).Append(scope.Sort("name")))
}

// Submit attaches a new preprint to the provider and saves the provider.
func (r *PreprintProviderRepository) Submit(ctx context.Context, provider *store.Record, title string) (*store.Record, error) {
	preprint, err := r.store.CreateRecord("preprint", map[string]any{"title": title})
	if err != nil {
		return nil, err
	}
	if err := provider.AddRelated("preprints", preprint); err != nil {
		return nil, err
	}
	return preprint, r.Update(ctx, provider)
}

func (r *PreprintProviderRepository) Update(ctx context.Context, provider *store.Record) error {
	snap, err := provider.Snapshot()
	if err != nil {
		return err
	}
	return r.api.UpdateRecord(ctx, r.store, providerType, snap, nil)
}
