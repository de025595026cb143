package model

//go:generate go run github.com/mickamy/osfadapter -type=Preprint

// Preprint is a manuscript submitted to a PreprintProvider.
type Preprint struct {
	ID       string            `jsonapi:"primary,preprint"`
	Title    string            `jsonapi:"attr,title"`
	DOI      string            `jsonapi:"attr,doi"`
	Provider *PreprintProvider `jsonapi:"relation,provider" rel:"belongs_to,type:preprint-provider,inverse:preprints"`
}
