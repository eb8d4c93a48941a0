package label

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Outcome reports how Ensure satisfied a request.
type Outcome int

const (
	// AlreadyExisted means the label was found in the directory or, after a
	// creation conflict, recovered by refetching the label listing.
	AlreadyExisted Outcome = iota
	// Created means a new label was created in the store.
	Created
)

// Resolution is the result of a successful Ensure call.
type Resolution struct {
	ID      gmail.LabelID
	Outcome Outcome
}

// Resolver guarantees named labels exist, keeping the Directory current.
type Resolver struct {
	Client gmail.Client
	Dir    *Directory
	Log    *slog.Logger
}

// NewResolver wires a resolver over the given client and directory.
func NewResolver(client gmail.Client, dir *Directory, log *slog.Logger) *Resolver {
	return &Resolver{Client: client, Dir: dir, Log: log}
}

// Ensure returns the id for name, creating the label if the directory lacks
// it. A creation conflict means another writer got there first: the resolver
// refetches the full listing once, merges it, and returns the id from the
// refreshed directory. Ensure does not walk path separators; see EnsurePath.
func (r *Resolver) Ensure(ctx context.Context, name string) (Resolution, error) {
	if r.Dir.Exists(name) {
		return Resolution{ID: r.Dir.ID(name), Outcome: AlreadyExisted}, nil
	}

	id, err := r.Client.CreateLabel(ctx, name)
	if err == nil {
		r.Dir.Record(name, id)
		r.Log.Info("created label", "name", name, "id", id)
		return Resolution{ID: id, Outcome: Created}, nil
	}
	if !errors.Is(err, gmail.ErrLabelExists) {
		return Resolution{}, err
	}

	// Someone else created it concurrently, or a prior run left it behind.
	r.Log.Debug("label exists in store but not directory, refetching", "name", name)
	labels, listErr := r.Client.ListLabels(ctx)
	if listErr != nil {
		return Resolution{}, fmt.Errorf("refetch labels after conflict on %q: %w", name, listErr)
	}
	r.Dir.Merge(labels)
	if !r.Dir.Exists(name) {
		return Resolution{}, fmt.Errorf("label %q reported as existing but absent after refetch", name)
	}
	return Resolution{ID: r.Dir.ID(name), Outcome: AlreadyExisted}, nil
}

// EnsurePath ensures every parent segment of a hierarchical name exists,
// left to right, then the leaf, and returns the leaf's id.
func (r *Resolver) EnsurePath(ctx context.Context, path string) (gmail.LabelID, error) {
	segments := strings.Split(path, "/")
	name := ""
	var res Resolution
	for _, seg := range segments {
		if name == "" {
			name = seg
		} else {
			name = name + "/" + seg
		}
		var err error
		res, err = r.Ensure(ctx, name)
		if err != nil {
			return "", fmt.Errorf("ensure %q: %w", name, err)
		}
	}
	return res.ID, nil
}
