// Package tournament holds the tournament snapshot: its entities, read-only
// accessors, typed event payloads and the Fold reducer that applies an
// already-decided event to a snapshot.
//
// Nothing in this package validates whether an event is allowed. Fold trusts
// its input; the engine decides first and folds only what it accepted.
package tournament
