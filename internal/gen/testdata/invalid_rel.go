package testdata

type Broken struct {
	ID    string   `jsonapi:"primary,broken"`
	Items []string `jsonapi:"relation,items" rel:"many_to_many"`
}
