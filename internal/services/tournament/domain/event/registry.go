package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
)

var (
	// ErrTournamentIDRequired indicates a missing tournament id.
	ErrTournamentIDRequired = errors.New("tournament id is required")
	// ErrUIDRequired indicates a missing event uid.
	ErrUIDRequired = errors.New("event uid is required")
	// ErrTypeRequired indicates a missing event type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrTypeUnknown indicates an unregistered event type.
	ErrTypeUnknown = errors.New("event type is not registered")
	// ErrActorTypeInvalid indicates an unknown actor type.
	ErrActorTypeInvalid = errors.New("actor type is invalid")
	// ErrActorIDRequired indicates a missing actor id for judge/player.
	ErrActorIDRequired = errors.New("actor id is required for judge or player")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be a valid object")
)

// Definition registers metadata for an event type.
type Definition struct {
	Type Type
	// JudgeOnly events are rejected with PERMISSION_DENIED for non-judges.
	JudgeOnly bool
	// RoundChanging events move the active round boundary.
	RoundChanging bool
}

// Registry stores event definitions and validates events.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new event type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition returns the definition for t.
func (r *Registry) Definition(t Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.definitions[t]
	return def, ok
}

// IsRoundChanging reports whether t moves the active round boundary.
func (r *Registry) IsRoundChanging(t Type) bool {
	def, ok := r.Definition(t)
	return ok && def.RoundChanging
}

// ValidateForAppend validates and normalizes an event before it is decided
// and appended. The payload is rewritten in canonical form.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	evt.TournamentID = strings.TrimSpace(evt.TournamentID)
	if evt.TournamentID == "" {
		return Event{}, payloadError(ErrTournamentIDRequired)
	}
	evt.UID = strings.TrimSpace(evt.UID)
	if evt.UID == "" {
		return Event{}, payloadError(ErrUIDRequired)
	}
	evt.Type = Type(strings.TrimSpace(string(evt.Type)))
	if evt.Type == "" {
		return Event{}, apperrors.Wrap(apperrors.CodeEventTypeUnknown, ErrTypeRequired.Error(), ErrTypeRequired)
	}
	if _, ok := r.Definition(evt.Type); !ok {
		return Event{}, &apperrors.Error{
			Code:     apperrors.CodeEventTypeUnknown,
			Message:  fmt.Sprintf("event type %s is not registered", evt.Type),
			Metadata: map[string]string{"Type": string(evt.Type)},
			Cause:    ErrTypeUnknown,
		}
	}

	evt.ActorType = ActorType(strings.TrimSpace(string(evt.ActorType)))
	if evt.ActorType == "" {
		evt.ActorType = ActorTypeSystem
	}
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	switch evt.ActorType {
	case ActorTypeSystem:
	case ActorTypeJudge, ActorTypePlayer:
		if evt.ActorID == "" {
			return Event{}, payloadError(ErrActorIDRequired)
		}
	default:
		return Event{}, payloadError(ErrActorTypeInvalid)
	}

	payload, err := CanonicalPayload(evt.PayloadJSON)
	if err != nil {
		return Event{}, apperrors.Wrap(apperrors.CodePayloadInvalid, ErrPayloadInvalid.Error(), errors.Join(ErrPayloadInvalid, err))
	}
	evt.PayloadJSON = payload
	return evt, nil
}

func payloadError(err error) error {
	return apperrors.Wrap(apperrors.CodePayloadInvalid, err.Error(), err)
}

// DefaultRegistry returns a registry with every tournament event type.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			panic(err)
		}
	}
	return registry
}

var definitions = []Definition{
	{Type: TypeTournamentCreate},
	{Type: TypeUpdateConfig, JudgeOnly: true},
	{Type: TypeRegister},
	{Type: TypeCheckIn},
	{Type: TypeCheckEveryoneIn, JudgeOnly: true},
	{Type: TypeCheckOut},
	{Type: TypeDrop},
	{Type: TypeOpenRegistration, JudgeOnly: true},
	{Type: TypeCloseRegistration, JudgeOnly: true},
	{Type: TypeOpenCheckin, JudgeOnly: true},
	{Type: TypeCancelCheckin, JudgeOnly: true},
	{Type: TypeRoundStart, JudgeOnly: true, RoundChanging: true},
	{Type: TypeRoundFinish, JudgeOnly: true, RoundChanging: true},
	{Type: TypeRoundCancel, JudgeOnly: true, RoundChanging: true},
	{Type: TypeRoundAlter, JudgeOnly: true},
	{Type: TypeOverride, JudgeOnly: true},
	{Type: TypeUnoverride, JudgeOnly: true},
	{Type: TypeSetResult},
	{Type: TypeSetDeck},
	{Type: TypeSeedFinals, JudgeOnly: true, RoundChanging: true},
	{Type: TypeSeatFinals, JudgeOnly: true},
	{Type: TypeFinishTournament, JudgeOnly: true, RoundChanging: true},
}

// Types returns every registered type in registration order of the default
// registry.
func Types() []Type {
	out := make([]Type, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, def.Type)
	}
	return out
}

// CanonicalPayload re-encodes a JSON object with sorted keys and no
// insignificant whitespace. An empty payload becomes "{}".
func CanonicalPayload(raw []byte) ([]byte, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []byte("{}"), nil
	}
	var value map[string]any
	decoder := json.NewDecoder(strings.NewReader(string(raw)))
	decoder.UseNumber()
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("trailing data after payload")
	}
	if value == nil {
		return nil, errors.New("payload must be an object")
	}
	return json.Marshal(value)
}
