// Package state persists snapshots of component records in SQLite.
//
// A snapshot replaces the full set of components at once and is tagged with
// a revision, so the UI can serve the last known pipeline state when no live
// source is configured.
package state

import (
	"errors"

	"github.com/leapstack-labs/flowlens/pkg/core"
)

// ErrNoRevision is returned by LatestRevision before the first snapshot.
var ErrNoRevision = errors.New("no revisions recorded")

var _ core.ComponentStore = (*SQLiteStore)(nil)
