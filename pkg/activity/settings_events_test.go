package activity

import (
	"testing"
)

func TestBuildSettingsChangedEventIncludesStateMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	stateMeta := map[string]any{"region": "eu-west"}
	input := SettingsEventInput{
		ActorID:        " actor ",
		UserID:         " user ",
		TenantID:       " tenant ",
		Name:           "editor.tabWidth",
		Metadata:       meta,
		State:          StateContext{ScopeID: "user/u-1/editor", SnapshotID: "snap-1", Version: 3, Metadata: stateMeta},
		OldValue:       8,
		NewValue:       2,
		DefinitionCode: "settings:update",
		Recipients:     []string{"user@example.com"},
		Channel:        "settings",
	}

	event := BuildSettingsChangedEvent(input)

	if event.Verb != "settings.changed" {
		t.Fatalf("expected verb settings.changed got %s", event.Verb)
	}
	if event.ObjectType != "settings" || event.ObjectID != "editor.tabWidth" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.UserID != "user" || event.TenantID != "tenant" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	if event.Metadata["name"] != "editor.tabWidth" {
		t.Fatalf("expected name metadata, got %v", event.Metadata["name"])
	}
	if event.Metadata["scope_id"] != "user/u-1/editor" || event.Metadata["snapshot_id"] != "snap-1" {
		t.Fatalf("expected state metadata, got %+v", event.Metadata)
	}
	if event.Metadata["snapshot_version"] != "3" {
		t.Fatalf("expected snapshot_version, got %v", event.Metadata["snapshot_version"])
	}
	stateMetadata, ok := event.Metadata["state_metadata"].(map[string]any)
	if !ok || stateMetadata["region"] != "eu-west" {
		t.Fatalf("expected state_metadata clone, got %v", event.Metadata["state_metadata"])
	}
	if event.Metadata["old_value"] != 8 || event.Metadata["new_value"] != 2 {
		t.Fatalf("expected old/new values, got %v %v", event.Metadata["old_value"], event.Metadata["new_value"])
	}
	if event.DefinitionCode != "settings:update" {
		t.Fatalf("expected definition code, got %s", event.DefinitionCode)
	}
	if len(event.Recipients) != 1 || event.Recipients[0] != "user@example.com" {
		t.Fatalf("expected recipients preserved, got %v", event.Recipients)
	}
	event.Recipients[0] = "changed"
	if input.Recipients[0] != "user@example.com" {
		t.Fatalf("expected input recipients untouched, got %v", input.Recipients)
	}
	if meta["custom"] != "value" || stateMeta["region"] != "eu-west" {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildFixupAppliedEventCarriesCorrections(t *testing.T) {
	event := BuildFixupAppliedEvent(SettingsEventInput{
		Name:        "profile.homepage",
		OldValue:    "/foo",
		NewValue:    "https://example.com/foo",
		Corrections: []string{"Converted to an absolute URL."},
	})

	if event.Verb != "settings.fixup.applied" || event.ObjectType != "settings.fixup" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.ObjectID != "profile.homepage" {
		t.Fatalf("expected object id from name, got %q", event.ObjectID)
	}
	corrections, ok := event.Metadata["corrections"].([]string)
	if !ok || len(corrections) != 1 || corrections[0] != "Converted to an absolute URL." {
		t.Fatalf("expected corrections metadata, got %v", event.Metadata["corrections"])
	}
}

func TestBuildEntryAddedEventNamesTheEntry(t *testing.T) {
	event := BuildEntryAddedEvent(SettingsEventInput{
		Name:  "connections",
		Entry: "primary",
	})

	if event.Verb != "settings.entry.added" || event.ObjectType != "settings.entry" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.Metadata["entry"] != "primary" {
		t.Fatalf("expected entry metadata, got %v", event.Metadata["entry"])
	}
}

func TestBuildSettingsResetEventUsesFallbackObjectID(t *testing.T) {
	event := BuildSettingsResetEvent(SettingsEventInput{})
	if event.ObjectID != "settings" {
		t.Fatalf("expected fallback object ID 'settings', got %q", event.ObjectID)
	}
}

func TestBuildSettingsEventPrefersSnapshotIDOverObjectType(t *testing.T) {
	event := BuildSettingsResetEvent(SettingsEventInput{
		State: StateContext{SnapshotID: "snap-9"},
	})
	if event.ObjectID != "snap-9" {
		t.Fatalf("expected snapshot id fallback, got %q", event.ObjectID)
	}
	if event.Metadata["snapshot_id"] != "snap-9" {
		t.Fatalf("expected snapshot metadata, got %v", event.Metadata)
	}
}
