package state_test

import (
	"context"
	"testing"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/layering"
	"github.com/goliatone/go-settings/pkg/state"
)

func TestResolverApplyComposesScopeChain(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()

	globalScope := layering.Scope{Key: "workspace", Level: layering.ScopeLevelGlobal}
	userScope := layering.Scope{Key: "workspace", Level: layering.ScopeLevelUser, User: "u42"}

	if _, err := store.Save(ctx, state.Ref{Scope: globalScope}, map[string]any{
		"theme":  "dark",
		"editor": map[string]any{"tabWidth": 4},
	}, state.Meta{SnapshotID: "snap-global"}); err != nil {
		t.Fatalf("save global: %v", err)
	}
	if _, err := store.Save(ctx, state.Ref{Scope: userScope}, map[string]any{
		"editor": map[string]any{"tabWidth": 2},
	}, state.Meta{SnapshotID: "snap-user"}); err != nil {
		t.Fatalf("save user: %v", err)
	}

	m := newWorkspaceManager(t)
	resolver := state.Resolver{Store: store}
	if err := resolver.Apply(ctx, m, layering.NewScopeChain(userScope, globalScope)); err != nil {
		t.Fatalf("apply: %v", err)
	}

	data := m.Data()
	if data["theme"] != "dark" {
		t.Fatalf("expected theme from global scope, got %v", data["theme"])
	}
	editor := data["editor"].(map[string]any)
	if editor["tabWidth"] != 2 {
		t.Fatalf("expected user scope to shadow tabWidth, got %v", editor["tabWidth"])
	}
	if editor["ruler"] != false {
		t.Fatalf("expected untouched field to keep its initial value, got %v", editor["ruler"])
	}
}

func TestResolverApplyNoStoredChangesets(t *testing.T) {
	m := newWorkspaceManager(t)
	resolver := state.Resolver{Store: state.NewMemoryStore()}
	chain := layering.NewScopeChain(layering.Scope{Key: "workspace", Level: layering.ScopeLevelGlobal})

	if err := resolver.Apply(context.Background(), m, chain); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(m.Changeset()) != 0 {
		t.Fatalf("expected manager to stay at its initial state, got %#v", m.Changeset())
	}
}

func TestResolverApplyEmptyChain(t *testing.T) {
	m := newWorkspaceManager(t)
	resolver := state.Resolver{Store: state.NewMemoryStore()}

	if err := resolver.Apply(context.Background(), m, layering.NewScopeChain()); err == nil {
		t.Fatal("expected an error for an empty scope chain")
	}
}

func newWorkspaceManager(t *testing.T) *settings.Manager {
	t.Helper()
	m, err := settings.New(settings.Spec{
		"theme": settings.Leaf{Initial: settings.Static("light")},
		"editor": settings.Namespace{Fields: settings.Spec{
			"tabWidth": settings.Leaf{Initial: settings.Static(8)},
			"ruler":    settings.Leaf{Initial: settings.Static(false)},
		}},
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}
