// Package postgres provides a PostgreSQL component source for flowlens.
//
// This file registers the source with the source registry.
// Import this package with a blank identifier to register it:
//
//	import _ "github.com/leapstack-labs/flowlens/pkg/sources/postgres"
package postgres

import (
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// Name is the registry name of the PostgreSQL source.
const Name = "postgres"

func init() {
	source.Register(Name, Open)
}
