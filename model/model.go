// Package model declares the API resources. Schemas are generated by
// osfgen from the tagged structs; run go generate after editing them.
package model

import "github.com/mickamy/osfadapter/store"

// Schemas returns the schema of every declared resource.
func Schemas() []store.Schema {
	return []store.Schema{
		PreprintProviderSchema(),
		PreprintSchema(),
	}
}
