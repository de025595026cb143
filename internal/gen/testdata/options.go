package testdata

type Node struct {
	ID           string     `jsonapi:"primary"`
	Title        string     `jsonapi:"attr"`
	Contributors []*User    `jsonapi:"relation" rel:"serializer:serializeContributors,update_method:post"`
	Parent       *Node      `jsonapi:"relation"`
}

type User struct {
	ID       string `jsonapi:"primary,user"`
	FullName string `jsonapi:"attr,full_name"`
}
