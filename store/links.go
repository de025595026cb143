package store

import "github.com/tidwall/gjson"

// Link is one entry of a hypermedia link bundle.
type Link struct {
	Href string
	Meta map[string]any
}

// Links is the server-supplied link bundle of a relationship.
type Links struct {
	Self    *Link
	Related *Link
}

// Href returns the self link if present, else the related link.
// It returns "" when the bundle carries neither.
func (l Links) Href() string {
	if l.Self != nil && l.Self.Href != "" {
		return l.Self.Href
	}
	if l.Related != nil {
		return l.Related.Href
	}
	return ""
}

// IsZero reports whether the bundle carries no usable link.
func (l Links) IsZero() bool {
	return l.Href() == ""
}

// parseLinks reads a JSON:API links object. Each member may be either a
// plain URL string or an object with "href" and "meta".
func parseLinks(v gjson.Result) Links {
	if !v.IsObject() {
		return Links{}
	}
	return Links{
		Self:    parseLink(v.Get("self")),
		Related: parseLink(v.Get("related")),
	}
}

func parseLink(v gjson.Result) *Link {
	switch {
	case v.Type == gjson.String:
		return &Link{Href: v.String()}
	case v.IsObject():
		href := v.Get("href")
		if !href.Exists() {
			return nil
		}
		l := &Link{Href: href.String()}
		if meta, ok := v.Get("meta").Value().(map[string]any); ok {
			l.Meta = meta
		}
		return l
	default:
		return nil
	}
}
