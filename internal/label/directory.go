// Package label maintains the per-run cache of mailbox labels and resolves
// hierarchical label names to their store-assigned ids, creating missing
// labels on demand.
package label

import (
	"context"
	"log/slog"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Directory caches the mailbox's label name-to-id mapping for one run.
// Entries are added on the initial fetch and on label creation; nothing
// removes them. Staleness within a run is accepted.
type Directory struct {
	byName map[string]gmail.LabelID
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{byName: make(map[string]gmail.LabelID)}
}

// Fetch populates the directory from a full label listing. A fetch failure
// is logged and leaves the directory empty; the run proceeds as if no labels
// exist, and creation conflicts are resolved later by the resolver.
func Fetch(ctx context.Context, client gmail.Client, log *slog.Logger) *Directory {
	dir := NewDirectory()
	labels, err := client.ListLabels(ctx)
	if err != nil {
		log.Error("fetching labels failed, proceeding with empty directory", "error", err)
		return dir
	}
	// copy rather than adopt: the directory owns its map regardless of what
	// the adapter returned (including nil)
	dir.Merge(labels)
	log.Debug("label directory populated", "count", dir.Len())
	return dir
}

// Exists reports whether name is present. In-memory only, no network call.
func (d *Directory) Exists(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// ID returns the id recorded for name, or "" when absent.
func (d *Directory) ID(name string) gmail.LabelID {
	return d.byName[name]
}

// Record inserts or overwrites an entry.
func (d *Directory) Record(name string, id gmail.LabelID) {
	d.byName[name] = id
}

// Merge copies every entry from the given mapping into the directory.
func (d *Directory) Merge(labels map[string]gmail.LabelID) {
	for name, id := range labels {
		d.byName[name] = id
	}
}

// Len returns the number of cached labels.
func (d *Directory) Len() int { return len(d.byName) }
