// Package engine decides and applies tournament events.
//
// A candidate event is validated against the registry, decided against the
// current snapshot (which may normalize its payload, e.g. by embedding a
// planned seating or a generated check-in code), folded into a new snapshot
// and only then appended to the journal. Rejections leave both the snapshot
// and the journal untouched. Journaled events are replayed by folding alone,
// so replay never depends on planners, clocks or random sources.
package engine
