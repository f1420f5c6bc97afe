package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/layering"
	"github.com/goliatone/go-settings/pkg/state"
)

func TestResolverPersistMintsSnapshotID(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: state.NewMemoryStore()}
	resolver := state.Resolver{Store: store}
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser, User: "u42"}}

	m := newWorkspaceManager(t)
	if err := m.Change(map[string]any{"theme": "dark"}); err != nil {
		t.Fatalf("change: %v", err)
	}

	saved, err := resolver.Persist(ctx, m, ref, state.Meta{})
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if _, err := uuid.Parse(saved.SnapshotID); err != nil {
		t.Fatalf("expected a minted snapshot id, got %q: %v", saved.SnapshotID, err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be stamped")
	}

	changeset, _, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load after persist: ok=%t err=%v", ok, err)
	}
	if changeset["theme"] != "dark" {
		t.Fatalf("expected persisted changeset to carry the set value, got %#v", changeset)
	}
}

func TestResolverMutateRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	resolver := state.Resolver{Store: store}
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser, User: "u42"}}

	if _, err := store.Save(ctx, ref, map[string]any{"theme": "dark"}, state.Meta{SnapshotID: "snap-old", ETag: "v1"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	saved, err := resolver.Mutate(ctx, newWorkspaceManager(t), ref, state.Meta{ETag: "v1"}, func(m *settings.Manager) error {
		return m.Change(map[string]any{"editor": map[string]any{"tabWidth": 2}})
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if saved.SnapshotID == "" || saved.SnapshotID == "snap-old" {
		t.Fatalf("expected a fresh snapshot id, got %q", saved.SnapshotID)
	}

	changeset, _, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load after mutate: ok=%t err=%v", ok, err)
	}
	if changeset["theme"] != "dark" {
		t.Fatalf("expected loaded changeset to survive the mutation, got %#v", changeset)
	}
	editor, _ := changeset["editor"].(map[string]any)
	if editor["tabWidth"] != 2 {
		t.Fatalf("expected mutation to be persisted, got %#v", changeset)
	}
}

func TestResolverMutateETagMismatch(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: state.NewMemoryStore()}
	resolver := state.Resolver{Store: store}
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser, User: "u42"}}

	if _, err := store.Save(ctx, ref, map[string]any{"theme": "dark"}, state.Meta{ETag: "v2"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	store.saveCalls = 0

	mutated := false
	_, err := resolver.Mutate(ctx, newWorkspaceManager(t), ref, state.Meta{ETag: "v1"}, func(*settings.Manager) error {
		mutated = true
		return nil
	})
	if !errors.Is(err, state.ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
	if mutated {
		t.Fatal("expected the mutator not to run on conflict")
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no save calls, got %d", store.saveCalls)
	}
}

func TestResolverMutateMutatorFailureDoesNotSave(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: state.NewMemoryStore()}
	resolver := state.Resolver{Store: store}
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser, User: "u42"}}

	boom := errors.New("mutator failed")
	_, err := resolver.Mutate(ctx, newWorkspaceManager(t), ref, state.Meta{}, func(*settings.Manager) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the mutator error, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("expected no save calls, got %d", store.saveCalls)
	}
}

type countingStore struct {
	state.Store
	saveCalls int
}

func (s *countingStore) Save(ctx context.Context, ref state.Ref, changeset map[string]any, meta state.Meta) (state.Meta, error) {
	s.saveCalls++
	return s.Store.Save(ctx, ref, changeset, meta)
}
