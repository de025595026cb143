package testdata

type Provider struct {
	ID          string     `jsonapi:"primary,preprint-provider"`
	Name        string     `jsonapi:"attr,name"`
	LogoPath    string     `jsonapi:"attr,logo_path"`
	Description string     // untagged, inferred as "description"
	Preprints   []*Article `jsonapi:"relation,preprints" rel:"has_many,type:preprint,inverse:provider"`
	internal    string     // unexported, no tag: skipped
}

type Article struct {
	ID       string    `jsonapi:"primary,preprint"`
	Title    string    `jsonapi:"attr,title"`
	Cache    string    `jsonapi:"-"`
	Provider *Provider `jsonapi:"relation,provider" rel:"belongs_to,type:preprint-provider,inverse:preprints"`
}

// NotAModel has no jsonapi tags and is ignored.
type NotAModel struct {
	Name string
}
