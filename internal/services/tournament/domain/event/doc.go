// Package event defines the tournament event envelope, the closed set of
// event types and the registry that validates events before they are
// appended to a journal.
//
// Events are the only mutation primitive of a tournament. The journal assigns
// sequence and integrity fields; everything else is supplied by the caller,
// including the uid that makes resubmission idempotent.
package event
