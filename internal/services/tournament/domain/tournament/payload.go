package tournament

// CreatePayload is the TOURNAMENT_CREATE payload.
type CreatePayload struct {
	Name   string   `json:"name"`
	Format string   `json:"format,omitempty"`
	Config Config   `json:"config"`
	Judges []string `json:"judges,omitempty"`
}

// UpdateConfigPayload is the UPDATE_CONFIG payload.
type UpdateConfigPayload struct {
	Patch ConfigPatch `json:"patch"`
}

// RegisterPayload is the REGISTER payload.
type RegisterPayload struct {
	PlayerUID string `json:"player_uid"`
	Name      string `json:"name"`
	VEKN      string `json:"vekn,omitempty"`
	Country   string `json:"country,omitempty"`
	City      string `json:"city,omitempty"`
}

// PlayerPayload addresses a single player: CHECK_IN, CHECK_OUT and DROP.
type PlayerPayload struct {
	PlayerUID string `json:"player_uid"`
	// Code is the check-in secret; only CHECK_IN reads it.
	Code string `json:"code,omitempty"`
}

// CheckEveryoneInPayload is the CHECK_EVERYONE_IN payload. PlayerUIDs is
// filled in when the event is decided and lists who was checked in.
type CheckEveryoneInPayload struct {
	PlayerUIDs []string `json:"player_uids,omitempty"`
}

// OpenCheckinPayload is the OPEN_CHECKIN payload. A missing code is
// generated when the event is decided.
type OpenCheckinPayload struct {
	Code string `json:"code,omitempty"`
}

// SeatingPayload carries a proposed seating: ROUND_START and ROUND_ALTER.
type SeatingPayload struct {
	// Round is read by ROUND_ALTER only.
	Round   int        `json:"round,omitempty"`
	Seating [][]string `json:"seating"`
}

// RoundFinishPayload is the ROUND_FINISH payload. NextStatus is filled in
// by the finish policy when the event is decided. When it is WAITING,
// CheckedIn lists the seated players without barriers; the others go back
// to REGISTERED.
type RoundFinishPayload struct {
	NextStatus Status   `json:"next_status,omitempty"`
	CheckedIn  []string `json:"checked_in,omitempty"`
}

// OverridePayload is the OVERRIDE and UNOVERRIDE payload.
type OverridePayload struct {
	Round   int    `json:"round"`
	Table   int    `json:"table"`
	Comment string `json:"comment,omitempty"`
}

// SetResultPayload is the SET_RESULT payload.
type SetResultPayload struct {
	PlayerUID string  `json:"player_uid"`
	Round     int     `json:"round"`
	VP        float64 `json:"vps"`
}

// SetDeckPayload is the SET_DECK payload. Round is resolved when the event
// is decided: 0 targets the player's single deck.
type SetDeckPayload struct {
	PlayerUID   string `json:"player_uid"`
	Deck        *Deck  `json:"deck"`
	Round       *int   `json:"round,omitempty"`
	Attribution bool   `json:"attribution,omitempty"`
}

// SeedFinalsPayload is the SEED_FINALS payload. Seeds are computed from
// standings when omitted.
type SeedFinalsPayload struct {
	Seeds []string       `json:"seeds,omitempty"`
	Toss  map[string]int `json:"toss,omitempty"`
}

// SeatFinalsPayload is the SEAT_FINALS payload.
type SeatFinalsPayload struct {
	Seating []string `json:"seating"`
}

// FinishPayload is the FINISH_TOURNAMENT payload. Winner is determined when
// the event is decided.
type FinishPayload struct {
	Winner string `json:"winner,omitempty"`
}
