// Package jsonapi serializes store records into JSON:API request documents.
package jsonapi

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"

	"github.com/mickamy/osfadapter/internal/naming"
	"github.com/mickamy/osfadapter/store"
)

// Serializer is the generic store.Serializer. Attribute member names are
// underscored, matching the API's wire format.
type Serializer struct{}

var _ store.Serializer = Serializer{}

// Serialize builds {"data": {...}} for a single record. The id member is
// omitted for unsaved records.
func (Serializer) Serialize(s *store.Snapshot) ([]byte, error) {
	res, err := resource(s.Type(), s.ID(), s.Attributes())
	if err != nil {
		return nil, errors.Wrapf(err, "jsonapi: serialize %s", s.Type())
	}
	doc, err := sjson.SetRawBytes([]byte(`{}`), "data", res)
	if err != nil {
		return nil, errors.Wrapf(err, "jsonapi: serialize %s", s.Type())
	}
	return doc, nil
}

// SerializeMany builds {"data": [...]} for a set of records. An empty set
// yields an empty data array.
func (Serializer) SerializeMany(records []*store.Record) ([]byte, error) {
	doc, err := sjson.SetRawBytes([]byte(`{}`), "data", []byte(`[]`))
	if err != nil {
		return nil, errors.Wrap(err, "jsonapi: serialize collection")
	}
	for _, rec := range records {
		res, err := resource(rec.Type(), rec.ID(), rec.Attributes())
		if err != nil {
			return nil, errors.Wrapf(err, "jsonapi: serialize %s", rec.Type())
		}
		if doc, err = sjson.SetRawBytes(doc, "data.-1", res); err != nil {
			return nil, errors.Wrapf(err, "jsonapi: serialize %s", rec.Type())
		}
	}
	return doc, nil
}

// resource builds a resource object: {"type", "id"?, "attributes"}.
func resource(typ, id string, attrs map[string]any) ([]byte, error) {
	doc, err := sjson.SetBytes([]byte(`{}`), "type", typ)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	if id != "" {
		if doc, err = sjson.SetBytes(doc, "id", id); err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
	}

	if doc, err = sjson.SetRawBytes(doc, "attributes", []byte(`{}`)); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		member := "attributes." + escape(naming.Underscore(k))
		if doc, err = sjson.SetBytes(doc, member, attrs[k]); err != nil {
			return nil, err //nolint:wrapcheck // wrapped by caller
		}
	}
	return doc, nil
}

// escape quotes sjson path metacharacters in a member name.
var escape = strings.NewReplacer(`.`, `\.`, `*`, `\*`, `?`, `\?`).Replace
