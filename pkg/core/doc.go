// Package core defines the shared language of the flowlens system.
//
// This package contains:
//   - Domain entities (ComponentRecord, Health, Revision)
//   - Service interfaces (ComponentLoader, ComponentStore)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
