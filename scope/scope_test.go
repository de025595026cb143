package scope_test

import (
	"slices"
	"testing"

	"github.com/mickamy/osfadapter/scope"
)

// mockApplier records calls from Scope.Apply for assertions.
type mockApplier struct {
	includes [][]string
	filters  []appliedPair
	sorts    [][]string
	fields   []appliedPair
	params   []appliedPair
	page     *int
	pageSize *int
}

type appliedPair struct {
	key    string
	values []string
}

func (m *mockApplier) ApplyInclude(rels []string) { m.includes = append(m.includes, rels) }
func (m *mockApplier) ApplyFilter(field string, values []string) {
	m.filters = append(m.filters, appliedPair{field, values})
}
func (m *mockApplier) ApplySort(fields []string) { m.sorts = append(m.sorts, fields) }
func (m *mockApplier) ApplyFields(typ string, fields []string) {
	m.fields = append(m.fields, appliedPair{typ, fields})
}
func (m *mockApplier) ApplyPage(n int)     { m.page = &n }
func (m *mockApplier) ApplyPageSize(n int) { m.pageSize = &n }
func (m *mockApplier) ApplyParam(key, value string) {
	m.params = append(m.params, appliedPair{key, []string{value}})
}

func TestInclude(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Include("preprints", "preprints.contributors").Apply(m)

	if len(m.includes) != 1 {
		t.Fatalf("expected 1 include, got %d", len(m.includes))
	}
	if !slices.Equal(m.includes[0], []string{"preprints", "preprints.contributors"}) {
		t.Errorf("includes = %v", m.includes[0])
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Filter("name", "OSF Preprints").Apply(m)

	if len(m.filters) != 1 {
		t.Fatalf("expected 1 filter, got %d", len(m.filters))
	}
	if m.filters[0].key != "name" {
		t.Errorf("key = %q, want %q", m.filters[0].key, "name")
	}
	if !slices.Equal(m.filters[0].values, []string{"OSF Preprints"}) {
		t.Errorf("values = %v", m.filters[0].values)
	}
}

func TestFilterMultipleValues(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Filter("id", "abc12", "def34").Apply(m)

	if len(m.filters[0].values) != 2 {
		t.Errorf("values = %v, want 2 values", m.filters[0].values)
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Sort("-date_created", "title").Apply(m)

	if len(m.sorts) != 1 || !slices.Equal(m.sorts[0], []string{"-date_created", "title"}) {
		t.Errorf("sorts = %v", m.sorts)
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Fields("preprint-provider", "name", "logo_path").Apply(m)

	if len(m.fields) != 1 {
		t.Fatalf("expected 1 fieldset, got %d", len(m.fields))
	}
	if m.fields[0].key != "preprint-provider" || len(m.fields[0].values) != 2 {
		t.Errorf("fields = %+v", m.fields[0])
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Page(3).Apply(m)

	if m.page == nil || *m.page != 3 {
		t.Errorf("page = %v, want 3", m.page)
	}
}

func TestPageSize(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.PageSize(50).Apply(m)

	if m.pageSize == nil || *m.pageSize != 50 {
		t.Errorf("pageSize = %v, want 50", m.pageSize)
	}
}

func TestParam(t *testing.T) {
	t.Parallel()

	m := &mockApplier{}
	scope.Param("embed", "provider", "contributors").Apply(m)

	if len(m.params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(m.params))
	}
	if m.params[0].key != "embed" || m.params[0].values[0] != "provider,contributors" {
		t.Errorf("params = %+v", m.params[0])
	}
}

func TestScopesAppend(t *testing.T) {
	t.Parallel()

	s1 := scope.Combine(scope.Include("preprints"))
	s2 := s1.Append(scope.Filter("name", "x"), scope.Page(2))

	if len(s1) != 1 {
		t.Errorf("original modified: len = %d, want 1", len(s1))
	}
	if len(s2) != 3 {
		t.Errorf("appended len = %d, want 3", len(s2))
	}
}

func TestScopesMerge(t *testing.T) {
	t.Parallel()

	base := scope.Combine(scope.Filter("public", "true"), scope.Sort("title"))
	page := scope.Combine(scope.PageSize(20), scope.Page(3))
	merged := base.Merge(page)

	if len(base) != 2 {
		t.Errorf("base modified: len = %d, want 2", len(base))
	}
	if len(page) != 2 {
		t.Errorf("page modified: len = %d, want 2", len(page))
	}
	if len(merged) != 4 {
		t.Errorf("merged len = %d, want 4", len(merged))
	}

	m := &mockApplier{}
	merged.Apply(m)
	if len(m.filters) != 1 {
		t.Errorf("filters = %d, want 1", len(m.filters))
	}
	if len(m.sorts) != 1 {
		t.Errorf("sorts = %d, want 1", len(m.sorts))
	}
	if m.pageSize == nil || *m.pageSize != 20 {
		t.Errorf("pageSize = %v, want 20", m.pageSize)
	}
	if m.page == nil || *m.page != 3 {
		t.Errorf("page = %v, want 3", m.page)
	}
}

func TestCombine(t *testing.T) {
	t.Parallel()

	s := scope.Combine(scope.PageSize(5), scope.Page(10))
	if len(s) != 2 {
		t.Errorf("len = %d, want 2", len(s))
	}
}

func TestScopesAppendDoesNotMutate(t *testing.T) {
	t.Parallel()

	original := scope.Combine(scope.Filter("x", "1"))
	_ = original.Append(scope.Filter("y", "2"))

	if len(original) != 1 {
		t.Fatalf("original mutated: len = %d", len(original))
	}
}
