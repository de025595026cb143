package adapter

import (
	"github.com/pkg/errors"

	"github.com/mickamy/osfadapter/store"
)

// RelationshipPayload builds the request body for a relationship update.
//
// A relationship declaring its own Serializer gets that function's output
// verbatim, called with the live record. Otherwise the related type's
// serializer receives only the related records that have no id yet;
// persisted records are referenced by id and need no payload. An empty set
// still yields a document, so removals and links to persisted records are
// sent too.
func (a *Adapter) RelationshipPayload(st *store.Store, snap *store.Snapshot, relationship string) ([]byte, error) {
	desc, ok := snap.Record().Schema().Relationship(relationship)
	if !ok {
		return nil, errors.Wrapf(store.ErrUnknownRelationship, "%s.%s", snap.Type(), relationship)
	}

	if desc.Serializer != nil {
		body, err := desc.Serializer(snap.Record())
		if err != nil {
			return nil, errors.Wrapf(err, "adapter: serialize %s.%s", snap.Type(), relationship)
		}
		return body, nil
	}

	ser, err := st.SerializerFor(desc.Type)
	if err != nil {
		return nil, err //nolint:wrapcheck // already names the type
	}

	var pending []*store.Record
	for _, rec := range snap.Related(relationship) {
		if rec.IsNew() {
			pending = append(pending, rec)
		}
	}
	body, err := ser.SerializeMany(pending)
	if err != nil {
		return nil, errors.Wrapf(err, "adapter: serialize %s.%s", snap.Type(), relationship)
	}
	return body, nil
}
