package model

//go:generate go run github.com/mickamy/osfadapter -type=PreprintProvider

// PreprintProvider is a branded preprint service, e.g. a discipline archive.
type PreprintProvider struct {
	ID          string      `jsonapi:"primary,preprint-provider"`
	Name        string      `jsonapi:"attr,name"`
	LogoPath    string      `jsonapi:"attr,logo_path"`
	BannerPath  string      `jsonapi:"attr,banner_path"`
	Description string      `jsonapi:"attr,description"`
	Preprints   []*Preprint `jsonapi:"relation,preprints" rel:"has_many,inverse:provider"`
}
