package label

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

type fakeClient struct {
	labels      map[string]gmail.LabelID
	createCalls []string
	createErr   error
	listCalls   int
	listErr     error
	nextID      int
}

func newFakeClient(labels map[string]gmail.LabelID) *fakeClient {
	if labels == nil {
		labels = map[string]gmail.LabelID{}
	}
	return &fakeClient{labels: labels}
}

func (f *fakeClient) ListInbox(context.Context, string, int64) (gmail.ListPage, error) {
	return gmail.ListPage{}, nil
}

func (f *fakeClient) GetMessage(context.Context, gmail.MessageID) (gmail.Message, error) {
	return gmail.Message{}, nil
}

func (f *fakeClient) ListLabels(context.Context) (map[string]gmail.LabelID, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.labels == nil {
		return nil, nil
	}
	out := make(map[string]gmail.LabelID, len(f.labels))
	for name, id := range f.labels {
		out[name] = id
	}
	return out, nil
}

func (f *fakeClient) CreateLabel(_ context.Context, name string) (gmail.LabelID, error) {
	f.createCalls = append(f.createCalls, name)
	if f.createErr != nil {
		return "", f.createErr
	}
	if _, ok := f.labels[name]; ok {
		return "", fmt.Errorf("create label %q: %w", name, gmail.ErrLabelExists)
	}
	f.nextID++
	id := gmail.LabelID(fmt.Sprintf("Label_%d", f.nextID))
	f.labels[name] = id
	return id, nil
}

func (f *fakeClient) BatchAddLabels(context.Context, []gmail.MessageID, []gmail.LabelID) error {
	return nil
}

func (f *fakeClient) ListHistory(context.Context, gmail.HistoryID) ([]gmail.MessageID, error) {
	return nil, nil
}

func (f *fakeClient) Watch(context.Context, string) (gmail.WatchInfo, error) {
	return gmail.WatchInfo{}, nil
}

func (f *fakeClient) StopWatch(context.Context) error { return nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchFailureYieldsEmptyDirectory(t *testing.T) {
	fake := newFakeClient(map[string]gmail.LabelID{"2025": "Label_1"})
	fake.listErr = errors.New("boom")

	dir := Fetch(context.Background(), fake, discard())
	if dir.Len() != 0 {
		t.Fatalf("expected empty directory, got %d entries", dir.Len())
	}
}

func TestFetchNilListingStillRecordable(t *testing.T) {
	// An adapter may legitimately return (nil, nil) for a mailbox with no
	// labels; the directory must still accept writes afterwards.
	fake := newFakeClient(nil)
	fake.labels = nil

	dir := Fetch(context.Background(), fake, discard())
	if dir.Len() != 0 {
		t.Fatalf("expected empty directory, got %d entries", dir.Len())
	}
	dir.Record("2025", "Label_1")
	if !dir.Exists("2025") {
		t.Fatal("record after nil listing did not stick")
	}
}

func TestEnsureIdempotent(t *testing.T) {
	fake := newFakeClient(nil)
	r := NewResolver(fake, NewDirectory(), discard())

	first, err := r.Ensure(context.Background(), "2025")
	if err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if first.Outcome != Created {
		t.Fatalf("first ensure outcome = %v, want Created", first.Outcome)
	}

	second, err := r.Ensure(context.Background(), "2025")
	if err != nil {
		t.Fatalf("second ensure: %v", err)
	}
	if second.Outcome != AlreadyExisted {
		t.Fatalf("second ensure outcome = %v, want AlreadyExisted", second.Outcome)
	}
	if first.ID != second.ID {
		t.Fatalf("ids differ: %s vs %s", first.ID, second.ID)
	}
	if len(fake.createCalls) != 1 {
		t.Fatalf("expected exactly 1 create call, got %d", len(fake.createCalls))
	}
}

func TestEnsureConflictRefetches(t *testing.T) {
	// Label exists in the store but the directory started empty, as after a
	// failed initial fetch or a concurrent creator.
	fake := newFakeClient(map[string]gmail.LabelID{"2025": "Label_77"})
	r := NewResolver(fake, NewDirectory(), discard())

	res, err := r.Ensure(context.Background(), "2025")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if res.ID != "Label_77" {
		t.Fatalf("id = %s, want Label_77", res.ID)
	}
	if res.Outcome != AlreadyExisted {
		t.Fatalf("outcome = %v, want AlreadyExisted", res.Outcome)
	}
	if fake.listCalls != 1 {
		t.Fatalf("expected exactly 1 refetch, got %d", fake.listCalls)
	}
}

func TestEnsureOtherErrorPropagates(t *testing.T) {
	fake := newFakeClient(nil)
	fake.createErr = errors.New("rate limited")
	r := NewResolver(fake, NewDirectory(), discard())

	if _, err := r.Ensure(context.Background(), "2025"); err == nil {
		t.Fatal("expected error")
	}
	if fake.listCalls != 0 {
		t.Fatalf("non-conflict error should not refetch, got %d list calls", fake.listCalls)
	}
}

func TestEnsurePathCreatesParentsFirst(t *testing.T) {
	fake := newFakeClient(nil)
	r := NewResolver(fake, NewDirectory(), discard())

	leaf, err := r.EnsurePath(context.Background(), "Senders/Domains/example.com")
	if err != nil {
		t.Fatalf("ensure path: %v", err)
	}

	want := []string{"Senders", "Senders/Domains", "Senders/Domains/example.com"}
	if len(fake.createCalls) != len(want) {
		t.Fatalf("create calls = %v, want %v", fake.createCalls, want)
	}
	for i, name := range want {
		if fake.createCalls[i] != name {
			t.Fatalf("create call %d = %s, want %s", i, fake.createCalls[i], name)
		}
	}
	if leaf != fake.labels["Senders/Domains/example.com"] {
		t.Fatalf("leaf id = %s, want %s", leaf, fake.labels["Senders/Domains/example.com"])
	}
}

func TestEnsurePathReusesExistingSegments(t *testing.T) {
	fake := newFakeClient(nil)
	dir := NewDirectory()
	dir.Record("Senders", "Label_1")
	dir.Record("Senders/Domains", "Label_2")
	r := NewResolver(fake, dir, discard())

	if _, err := r.EnsurePath(context.Background(), "Senders/Domains/example.com"); err != nil {
		t.Fatalf("ensure path: %v", err)
	}
	if len(fake.createCalls) != 1 || fake.createCalls[0] != "Senders/Domains/example.com" {
		t.Fatalf("create calls = %v, want only the leaf", fake.createCalls)
	}
}
