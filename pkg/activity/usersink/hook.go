// Package usersink bridges settings activity events into a go-users
// ActivitySink. The settings event builders put the affected dotted path,
// record entry, and fixup corrections into event metadata; the hook projects
// those into the ActivityRecord's data payload so audit consumers see them
// without knowing the manager's internal shape.
package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-settings/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards settings events to a go-users ActivitySink. Channel, when
// set, is stamped onto records whose event carried no channel of its own.
type Hook struct {
	Sink    usertypes.ActivitySink
	Channel string
}

// Notify maps the event into an ActivityRecord and logs it through the sink.
// Events missing a verb, object type, or object id are dropped silently.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	channel := normalized.Channel
	if channel == "" {
		channel = strings.TrimSpace(h.Channel)
	}

	record := usertypes.ActivityRecord{
		ActorID:    asUUID(normalized.ActorID),
		UserID:     asUUID(normalized.UserID),
		TenantID:   asUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    channel,
		Data:       settingsData(normalized),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	return h.Sink.Log(ctx, record)
}

// settingsData projects event metadata onto the record payload. The keys the
// settings builders emit for mutable state (corrections, state_metadata) are
// detached so the sink never aliases manager-owned slices or maps. When the
// event names a record entry, the full entry path is surfaced under
// "setting" alongside the raw name/entry pair.
func settingsData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+3)
	for key, value := range event.Metadata {
		switch key {
		case "corrections":
			if messages, ok := value.([]string); ok {
				data[key] = append([]string{}, messages...)
				continue
			}
		case "state_metadata":
			if meta, ok := value.(map[string]any); ok {
				detached := make(map[string]any, len(meta))
				for metaKey, metaValue := range meta {
					detached[metaKey] = metaValue
				}
				data[key] = detached
				continue
			}
		}
		data[key] = value
	}

	name, _ := data["name"].(string)
	entry, _ := data["entry"].(string)
	if name != "" && entry != "" {
		data["setting"] = name + "." + entry
	}

	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = append([]string{}, event.Recipients...)
	}

	if len(data) == 0 {
		return nil
	}
	return data
}

func asUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
