package adapter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mickamy/osfadapter/internal/naming"
	"github.com/mickamy/osfadapter/scope"
	"github.com/mickamy/osfadapter/store"
)

// RequestType names the operation a URL is built for.
type RequestType string

const (
	RequestFindRecord   RequestType = "findRecord"
	RequestQuery        RequestType = "query"
	RequestCreateRecord RequestType = "createRecord"
	RequestUpdateRecord RequestType = "updateRecord"
	RequestDeleteRecord RequestType = "deleteRecord"
)

// URLParams holds the inputs of BuildURL and RelationshipURL.
type URLParams struct {
	ModelName    string
	ID           string
	Snapshot     *store.Snapshot // optional
	Schema       *store.Schema   // optional; Schema.Path overrides the derived path
	RequestType  RequestType
	Query        scope.Scopes
	Relationship string // RelationshipURL only
}

// BuildURL returns host/namespace/<path>/<id>/ followed by the encoded
// query. The path always ends in exactly one slash: the API redirects
// slashless URLs, and cross-origin clients drop credentials on that
// redirect.
func (a *Adapter) BuildURL(p URLParams) string {
	var b strings.Builder
	b.WriteString(a.urlPrefix())
	b.WriteByte('/')
	b.WriteString(a.pathForType(p))
	if p.ID != "" {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(p.ID))
	}

	u := withTrailingSlash(b.String())
	if q := encodeQuery(p.Query); q != "" {
		u += "?" + q
	}
	return u
}

// RelationshipURL returns the URL for a relationship update. A link bundle
// supplied by the server wins: its self link, else its related link.
// Without one, it falls back to BuildURL.
func (a *Adapter) RelationshipURL(p URLParams) string {
	if p.Relationship != "" && p.Snapshot != nil {
		if links, ok := p.Snapshot.RelationshipLinks(p.Relationship); ok {
			return links.Href()
		}
	}
	return a.BuildURL(p)
}

func (a *Adapter) urlPrefix() string {
	prefix := strings.TrimRight(a.host, "/")
	if ns := strings.Trim(a.namespace, "/"); ns != "" {
		prefix += "/" + ns
	}
	return prefix
}

func (a *Adapter) pathForType(p URLParams) string {
	schema := p.Schema
	if schema == nil && p.Snapshot != nil {
		schema = p.Snapshot.Record().Schema()
	}
	if schema != nil && schema.Path != "" {
		return strings.Trim(schema.Path, "/")
	}
	return naming.PathForType(p.ModelName)
}

func withTrailingSlash(u string) string {
	return strings.TrimRight(u, "/") + "/"
}

func encodeQuery(ss scope.Scopes) string {
	if len(ss) == 0 {
		return ""
	}
	qb := queryBuilder{values: url.Values{}}
	ss.Apply(&qb)
	return qb.values.Encode()
}

// queryBuilder renders scopes as JSON:API query parameters.
type queryBuilder struct {
	values url.Values
}

var _ scope.Applier = (*queryBuilder)(nil)

func (q *queryBuilder) ApplyInclude(rels []string) {
	if cur := q.values.Get("include"); cur != "" {
		rels = append(strings.Split(cur, ","), rels...)
	}
	q.values.Set("include", strings.Join(rels, ","))
}

func (q *queryBuilder) ApplyFilter(field string, values []string) {
	q.values.Set("filter["+field+"]", strings.Join(values, ","))
}

func (q *queryBuilder) ApplySort(fields []string) {
	q.values.Set("sort", strings.Join(fields, ","))
}

func (q *queryBuilder) ApplyFields(typ string, fields []string) {
	q.values.Set("fields["+typ+"]", strings.Join(fields, ","))
}

func (q *queryBuilder) ApplyPage(n int)     { q.values.Set("page", strconv.Itoa(n)) }
func (q *queryBuilder) ApplyPageSize(n int) { q.values.Set("page[size]", strconv.Itoa(n)) }

func (q *queryBuilder) ApplyParam(key, value string) { q.values.Set(key, value) }
