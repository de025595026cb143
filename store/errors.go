package store

import "errors"

var (
	// ErrUnknownType is returned when no schema is registered for a type.
	ErrUnknownType = errors.New("store: unknown resource type")

	// ErrUnknownAttribute is returned when setting an undeclared attribute.
	ErrUnknownAttribute = errors.New("store: unknown attribute")

	// ErrUnknownRelationship is returned when a relationship name is not
	// declared on the record's schema.
	ErrUnknownRelationship = errors.New("store: unknown relationship")

	// ErrTypeMismatch is returned when a related record has the wrong type
	// for the relationship it is assigned to.
	ErrTypeMismatch = errors.New("store: related record type mismatch")

	// ErrInvalidDocument is returned when a pushed document is not a
	// JSON:API document with primary data.
	ErrInvalidDocument = errors.New("store: invalid document")

	// ErrNoSerializer is returned by SerializerFor when neither a per-type
	// nor a default serializer is configured.
	ErrNoSerializer = errors.New("store: no serializer")
)
