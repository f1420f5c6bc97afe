// Package state defines persistence-facing contracts for loading and saving
// per-scope settings changesets, plus a small resolver that orchestrates
// scope-chain loads and delegates composition to the layering primitives.
//
// Responsibilities:
//   - Store only loads/saves a single changeset for a single Ref.
//   - Resolver loads changesets along a layering.ScopeChain, composes them
//     strongest-wins, and applies the result to a settings.Manager; it also
//     persists a manager's current changeset, minting snapshot ids and
//     detecting concurrent writers through ETag comparison.
//   - The core settings package remains persistence-agnostic; all storage
//     logic stays behind Store implementations supplied by consumers.
//
// Data flow:
//
//	Store -> Resolver.Apply -> layering.MergeAll(...) -> Manager.Change(...)
//	Manager.Changeset() -> Resolver.Persist -> Store
//
// Deterministic keys:
//
//	Ref.Identifier() provides a canonical storage key format based on the
//	layering scope model (`global/group/user`). Adapters that persisted keys
//	in another format handle backward compatibility themselves.
//
// MemoryStore is a reference Store for tests and examples; real adapters
// (database, object storage) live outside this module.
package state
