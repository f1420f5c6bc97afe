package state_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-settings/layering"
	"github.com/goliatone/go-settings/pkg/state"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelGlobal}}

	if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
		t.Fatalf("expected a miss on an empty store, got ok=%t err=%v", ok, err)
	}

	changeset := map[string]any{"editor": map[string]any{"tabWidth": 2}}
	meta := state.Meta{SnapshotID: "snap-1", ETag: "v1", Extra: map[string]string{"actor": "u42"}}
	if _, err := store.Save(ctx, ref, changeset, meta); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, loadedMeta, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%t err=%v", ok, err)
	}
	if loadedMeta.SnapshotID != "snap-1" || loadedMeta.ETag != "v1" || loadedMeta.Extra["actor"] != "u42" {
		t.Fatalf("meta mismatch: %#v", loadedMeta)
	}

	// Loaded changesets are detached copies.
	loaded["editor"].(map[string]any)["tabWidth"] = 99
	reloaded, _, _, _ := store.Load(ctx, ref)
	if reloaded["editor"].(map[string]any)["tabWidth"] != 2 {
		t.Fatalf("store record aliased by loaded value: %#v", reloaded)
	}
}

func TestMemoryStoreRejectsIncompleteScope(t *testing.T) {
	store := state.NewMemoryStore()
	ref := state.Ref{Scope: layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser}}

	if _, err := store.Save(context.Background(), ref, nil, state.Meta{}); err == nil {
		t.Fatal("expected an error for a user scope without a user id")
	}
}
