package scope

import "strings"

// Applier is implemented by URL builders to receive scope fragments.
// This interface lives in the scope package so that adapter can import
// scope without creating circular dependencies.
type Applier interface {
	ApplyInclude(relationships []string)
	ApplyFilter(field string, values []string)
	ApplySort(fields []string)
	ApplyFields(resourceType string, fields []string)
	ApplyPage(n int)
	ApplyPageSize(n int)
	ApplyParam(key, value string)
}

type scopeKind int

const (
	kindInclude scopeKind = iota
	kindFilter
	kindSort
	kindFields
	kindPage
	kindPageSize
	kindParam
)

// Scope represents a single query parameter fragment.
// Scopes are immutable and safe to reuse across requests.
type Scope struct {
	kind   scopeKind
	key    string
	values []string
	n      int
}

// Apply dispatches this Scope to the given Applier.
func (s Scope) Apply(a Applier) {
	switch s.kind {
	case kindInclude:
		a.ApplyInclude(s.values)
	case kindFilter:
		a.ApplyFilter(s.key, s.values)
	case kindSort:
		a.ApplySort(s.values)
	case kindFields:
		a.ApplyFields(s.key, s.values)
	case kindPage:
		a.ApplyPage(s.n)
	case kindPageSize:
		a.ApplyPageSize(s.n)
	case kindParam:
		a.ApplyParam(s.key, strings.Join(s.values, ","))
	}
}

// Include returns a Scope that requests related resources in "included".
//
//	scope.Include("preprints", "preprints.contributors")
func Include(relationships ...string) Scope {
	return Scope{kind: kindInclude, values: relationships}
}

// Filter returns a Scope that adds filter[field]=v1,v2.
//
//	scope.Filter("name", "OSF Preprints")
func Filter(field string, values ...string) Scope {
	return Scope{kind: kindFilter, key: field, values: values}
}

// Sort returns a Scope that sets the sort order. Prefix a field with "-"
// for descending order.
//
//	scope.Sort("-date_created", "title")
func Sort(fields ...string) Scope {
	return Scope{kind: kindSort, values: fields}
}

// Fields returns a Scope that requests a sparse fieldset for a type.
//
//	scope.Fields("preprint-provider", "name", "logo_path")
func Fields(resourceType string, fields ...string) Scope {
	return Scope{kind: kindFields, key: resourceType, values: fields}
}

// Page returns a Scope that selects a 1-based page.
func Page(n int) Scope {
	return Scope{kind: kindPage, n: n}
}

// PageSize returns a Scope that sets page[size].
func PageSize(n int) Scope {
	return Scope{kind: kindPageSize, n: n}
}

// Param returns a Scope that sets an arbitrary query parameter.
// Multiple values are comma-joined.
//
//	scope.Param("version", "2.8")
func Param(key string, values ...string) Scope {
	return Scope{kind: kindParam, key: key, values: values}
}

// Scopes is a named slice of Scope, useful for conditionally building
// up a set of scopes.
//
//	var s scope.Scopes
//	if embedContributors {
//	    s = s.Append(scope.Include("contributors"))
//	}
//	s = s.Append(scope.Page(2))
//	a.Query(ctx, st, "preprint", s)
type Scopes []Scope

// Append adds scopes and returns a new Scopes. The receiver is not modified.
func (ss Scopes) Append(scopes ...Scope) Scopes {
	return append(append(Scopes(nil), ss...), scopes...)
}

// Merge concatenates two Scopes and returns a new Scopes.
// Neither receiver nor argument is modified.
func (ss Scopes) Merge(other Scopes) Scopes {
	return append(append(Scopes(nil), ss...), other...)
}

// Apply applies every scope in order.
func (ss Scopes) Apply(a Applier) {
	for _, s := range ss {
		s.Apply(a)
	}
}

// Combine creates a Scopes from the given scopes.
//
//	scope.Combine(scope.PageSize(10), scope.Page(2))
func Combine(scopes ...Scope) Scopes {
	return Scopes(scopes)
}
