package store

// PathNamer can be implemented by model structs to override the
// auto-derived URL path segment.
type PathNamer interface {
	PathName() string
}

// ResolvePath returns the URL path segment for model type T.
// If T implements PathNamer (value or pointer receiver), that name is used;
// otherwise fallback is returned.
func ResolvePath[T any](fallback string) string {
	var zero T
	if pn, ok := any(&zero).(PathNamer); ok {
		return pn.PathName()
	}
	return fallback
}
