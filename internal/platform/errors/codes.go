// Package errors provides structured domain errors with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lifecycle errors
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodePermissionDenied  Code = "PERMISSION_DENIED"

	// Check-in errors
	CodeInvalidCode Code = "INVALID_CODE"
	CodeBlocked     Code = "BLOCKED"

	// Table errors
	CodeScoreIllegal   Code = "SCORE_ILLEGAL"
	CodeSeatingIllegal Code = "SEATING_ILLEGAL"

	// Lookup errors
	CodeUnknownPlayer Code = "UNKNOWN_PLAYER"
	CodeUnknownRound  Code = "UNKNOWN_ROUND"
	CodeUnknownTable  Code = "UNKNOWN_TABLE"

	// Envelope errors
	CodePayloadInvalid     Code = "PAYLOAD_INVALID"
	CodeEventTypeUnknown   Code = "EVENT_TYPE_UNKNOWN"
	CodeConfigPatchInvalid Code = "CONFIG_PATCH_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - malformed input
	case CodePayloadInvalid,
		CodeEventTypeUnknown,
		CodeConfigPatchInvalid,
		CodeScoreIllegal,
		CodeSeatingIllegal,
		CodeInvalidCode:
		return codes.InvalidArgument

	// FailedPrecondition - tournament state doesn't allow the event
	case CodeInvalidTransition,
		CodeBlocked:
		return codes.FailedPrecondition

	case CodePermissionDenied:
		return codes.PermissionDenied

	// NotFound - addressed entity doesn't exist
	case CodeUnknownPlayer,
		CodeUnknownRound,
		CodeUnknownTable,
		CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
