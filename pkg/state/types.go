package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	settings "github.com/goliatone/go-settings"
	"github.com/goliatone/go-settings/layering"
)

var ErrNotImplemented = errors.New("state: not implemented")

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted changeset for one scope.
type Ref struct {
	Scope layering.Scope
}

// Meta is storage-owned metadata used for trace/audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one changeset for a single scope reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (changeset map[string]any, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, changeset map[string]any, meta Meta) (Meta, error)
}

// Resolver orchestrates scoped loads and applies their composition to a
// settings Manager.
type Resolver struct {
	Store Store
}

// Mutator edits a Manager between load and persist.
type Mutator func(*settings.Manager) error

// Identifier returns the deterministic storage key for this reference, or an
// error when the scope is too incomplete to address storage.
func (r Ref) Identifier() (string, error) {
	if r.Scope.Key == "" {
		return "", fmt.Errorf("state: scope key is required")
	}
	switch r.Scope.Level {
	case layering.ScopeLevelGlobal:
	case layering.ScopeLevelGroup:
		if r.Scope.Group == "" {
			return "", fmt.Errorf("state: missing group id for scope %q", r.Scope.Key)
		}
	case layering.ScopeLevelUser:
		if r.Scope.User == "" {
			return "", fmt.Errorf("state: missing user id for scope %q", r.Scope.Key)
		}
	default:
		return "", fmt.Errorf("state: unsupported scope level %q", r.Scope.Level)
	}
	return r.Scope.Identifier(), nil
}

// Apply loads every scope in chain, composes the stored changesets
// strongest-wins, and applies the result to m as one change. Scopes with
// nothing persisted are skipped; a chain with no stored changesets leaves m
// at its initial state.
func (r Resolver) Apply(ctx context.Context, m *settings.Manager, chain layering.ScopeChain) error {
	if r.Store == nil {
		return fmt.Errorf("state: store is required")
	}
	if m == nil {
		return fmt.Errorf("state: manager is required")
	}
	scopes := chain.Ordered()
	if len(scopes) == 0 {
		return fmt.Errorf("state: at least one scope is required")
	}

	changesets := make([]map[string]any, 0, len(scopes))
	for _, scope := range scopes {
		changeset, _, ok, err := r.Store.Load(ctx, Ref{Scope: scope})
		if err != nil {
			return fmt.Errorf("state: load scope %q: %w", scope.Identifier(), err)
		}
		if !ok {
			continue
		}
		changesets = append(changesets, changeset)
	}
	if len(changesets) == 0 {
		return nil
	}

	merged := layering.MergeAll(changesets...)
	if len(merged) == 0 {
		return nil
	}
	return m.Change(merged)
}

// Persist saves m's current changeset under ref. A missing SnapshotID is
// minted and a missing UpdatedAt stamped before the save, so every persisted
// snapshot is addressable.
func (r Resolver) Persist(ctx context.Context, m *settings.Manager, ref Ref, meta Meta) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if m == nil {
		return Meta{}, fmt.Errorf("state: manager is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}

	if meta.SnapshotID == "" {
		meta.SnapshotID = uuid.NewString()
	}
	if meta.UpdatedAt.IsZero() {
		meta.UpdatedAt = time.Now().UTC()
	}

	saved, err := r.Store.Save(ctx, ref, m.Changeset(), meta)
	if err != nil {
		return Meta{}, fmt.Errorf("state: save scope %q: %w", ref.Scope.Identifier(), err)
	}
	return saved, nil
}

// Mutate loads ref's changeset, applies it to m, runs fn, then persists the
// resulting changeset under a freshly minted snapshot id. When both the
// caller and the store carry an ETag they must agree, otherwise the mutation
// stops with ErrETagMismatch before fn runs. A failing fn leaves the store
// untouched (m may already carry the loaded changeset).
func (r Resolver) Mutate(ctx context.Context, m *settings.Manager, ref Ref, meta Meta, fn Mutator) (Meta, error) {
	if r.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if m == nil {
		return Meta{}, fmt.Errorf("state: manager is required")
	}
	if fn == nil {
		return Meta{}, fmt.Errorf("state: mutator is required")
	}
	if _, err := ref.Identifier(); err != nil {
		return Meta{}, err
	}

	changeset, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load scope %q: %w", ref.Scope.Identifier(), err)
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if ok && len(changeset) > 0 {
		if err := m.Change(changeset); err != nil {
			return loadedMeta, err
		}
	}
	if err := fn(m); err != nil {
		return loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	saveMeta.SnapshotID = ""
	return r.Persist(ctx, m, ref, saveMeta)
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
