package activity

import (
	"strconv"
	"strings"
	"time"
)

// StateContext captures persistence metadata for the snapshot a settings
// event was produced against.
type StateContext struct {
	ScopeID    string
	SnapshotID string
	Version    int
	Metadata   map[string]any
}

// SettingsEventInput describes the common fields for settings lifecycle
// events. Name holds the dotted path of the affected setting; Entry names the
// record entry when the event concerns a dynamically keyed collection.
type SettingsEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	Name           string
	Entry          string
	OldValue       any
	NewValue       any
	Corrections    []string
	State          StateContext
	OccurredAt     time.Time
}

// BuildSettingsChangedEvent constructs an activity event for a committed
// changeset mutation.
func BuildSettingsChangedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent("settings.changed", "settings", input)
}

// BuildSettingsResetEvent constructs an activity event for a changeset reset.
func BuildSettingsResetEvent(input SettingsEventInput) Event {
	return buildSettingsEvent("settings.reset", "settings", input)
}

// BuildFixupAppliedEvent constructs an activity event describing a value that
// was corrected before commit.
func BuildFixupAppliedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent("settings.fixup.applied", "settings.fixup", input)
}

// BuildEntryAddedEvent constructs an activity event for a record entry that
// was introduced by a change.
func BuildEntryAddedEvent(input SettingsEventInput) Event {
	return buildSettingsEvent("settings.entry.added", "settings.entry", input)
}

func buildSettingsEvent(verb, objectType string, input SettingsEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Name != "" {
		metadata = ensureMetadata(metadata)
		metadata["name"] = input.Name
	}
	if input.Entry != "" {
		metadata = ensureMetadata(metadata)
		metadata["entry"] = input.Entry
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}
	if len(input.Corrections) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["corrections"] = append([]string{}, input.Corrections...)
	}
	if input.State.ScopeID != "" {
		metadata = ensureMetadata(metadata)
		metadata["scope_id"] = input.State.ScopeID
	}
	if input.State.SnapshotID != "" {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_id"] = input.State.SnapshotID
	}
	if input.State.Version > 0 {
		metadata = ensureMetadata(metadata)
		metadata["snapshot_version"] = strconv.Itoa(input.State.Version)
	}
	if len(input.State.Metadata) > 0 {
		metadata = ensureMetadata(metadata)
		metadata["state_metadata"] = cloneMap(input.State.Metadata)
	}

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Name)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.State.SnapshotID)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
