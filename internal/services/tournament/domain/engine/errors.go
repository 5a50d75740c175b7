package engine

import (
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

// nonRetryableError wraps an error to signal that resubmitting the same
// event cannot succeed, e.g. when the journal itself no longer replays.
type nonRetryableError struct {
	err error
}

func (e *nonRetryableError) Error() string { return e.err.Error() }
func (e *nonRetryableError) Unwrap() error { return e.err }

// NonRetryable returns true from IsNonRetryable checks.
func (e *nonRetryableError) NonRetryable() bool { return true }

func wrapNonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &nonRetryableError{err: err}
}

// IsNonRetryable returns true when the error (or any error in its chain)
// signals that the submission must not be retried.
func IsNonRetryable(err error) bool {
	var target interface{ NonRetryable() bool }
	if errors.As(err, &target) {
		return target.NonRetryable()
	}
	return false
}

func invalidTransition(state tournament.State, format string, args ...any) error {
	status := string(state.Status)
	if !state.Created {
		status = "NOT_CREATED"
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidTransition, fmt.Sprintf(format, args...), map[string]string{"State": status})
}

func permissionDenied(format string, args ...any) error {
	return apperrors.New(apperrors.CodePermissionDenied, fmt.Sprintf(format, args...))
}

func payloadInvalid(format string, args ...any) error {
	return apperrors.New(apperrors.CodePayloadInvalid, fmt.Sprintf(format, args...))
}

func unknownPlayer(uid string) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownPlayer, fmt.Sprintf("player %q not found", uid), map[string]string{"Player": uid})
}

func unknownRound(n int) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownRound, fmt.Sprintf("round %d not found", n), map[string]string{"Round": strconv.Itoa(n)})
}

func unknownTable(round, table int) error {
	return apperrors.WithMetadata(apperrors.CodeUnknownTable, fmt.Sprintf("table %d not found in round %d", table, round), map[string]string{
		"Round": strconv.Itoa(round),
		"Table": strconv.Itoa(table),
	})
}

func seatingIllegal(format string, args ...any) error {
	return apperrors.New(apperrors.CodeSeatingIllegal, fmt.Sprintf(format, args...))
}
