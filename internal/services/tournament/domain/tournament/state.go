package tournament

// Status is the tournament lifecycle state.
type Status string

const (
	StatusPlanned      Status = "PLANNED"
	StatusRegistration Status = "REGISTRATION"
	StatusWaiting      Status = "WAITING"
	StatusPlaying      Status = "PLAYING"
	StatusFinals       Status = "FINALS"
	StatusFinished     Status = "FINISHED"
)

// PlayerState is the per-player lifecycle state.
type PlayerState string

const (
	PlayerRegistered PlayerState = "REGISTERED"
	PlayerCheckedIn  PlayerState = "CHECKED_IN"
	PlayerPlaying    PlayerState = "PLAYING"
	PlayerFinished   PlayerState = "FINISHED"
)

// Barrier names a reason preventing a player from checking in.
type Barrier string

const (
	BarrierBanned       Barrier = "BANNED"
	BarrierDisqualified Barrier = "DISQUALIFIED"
	BarrierMaxRounds    Barrier = "MAX_ROUNDS"
	BarrierMissingDeck  Barrier = "MISSING_DECK"
)

// Deck is a submitted decklist.
type Deck struct {
	Name    string `json:"name,omitempty"`
	Text    string `json:"text,omitempty"`
	VDBLink string `json:"vdb_link,omitempty"`
	// Author is set only when the player opted into attribution.
	Author string `json:"author,omitempty"`
}

// Score is the result recorded for a seat.
type Score struct {
	VP float64 `json:"vp"`
}

// Seat is one player's place at a table.
type Seat struct {
	PlayerUID string `json:"player_uid"`
	Result    *Score `json:"result,omitempty"`
	// Deck is only used by multideck tournaments.
	Deck *Deck `json:"deck,omitempty"`
}

// Override is a judge annotation on a table.
type Override struct {
	Judge   string `json:"judge,omitempty"`
	Comment string `json:"comment"`
}

// Table is an ordered seating with an optional judge override.
type Table struct {
	Seating  []Seat    `json:"seating"`
	Override *Override `json:"override,omitempty"`
}

// Round is a set of tables played together.
type Round struct {
	Tables   []Table `json:"tables"`
	Finals   bool    `json:"finals,omitempty"`
	Finished bool    `json:"finished,omitempty"`
}

// Player is a registered participant.
type Player struct {
	UID      string      `json:"uid"`
	Name     string      `json:"name"`
	VEKN     string      `json:"vekn,omitempty"`
	Country  string      `json:"country,omitempty"`
	City     string      `json:"city,omitempty"`
	State    PlayerState `json:"state"`
	Barriers []Barrier   `json:"barriers,omitempty"`
	// Table and Seat are 1-based and meaningful only while PLAYING.
	Table int   `json:"table,omitempty"`
	Seat  int   `json:"seat,omitempty"`
	Deck  *Deck `json:"deck,omitempty"`
	// RoundDecks stages multideck decks for rounds that have not started,
	// keyed by 1-based round number.
	RoundDecks map[int]Deck `json:"round_decks,omitempty"`
}

// State is the canonical tournament snapshot.
type State struct {
	Created      bool              `json:"created"`
	UID          string            `json:"uid"`
	Name         string            `json:"name"`
	Format       string            `json:"format,omitempty"`
	Config       Config            `json:"config"`
	Status       Status            `json:"status"`
	Rounds       []Round           `json:"rounds,omitempty"`
	Players      map[string]Player `json:"players,omitempty"`
	Judges       []string          `json:"judges,omitempty"`
	CheckinCode  string            `json:"checkin_code,omitempty"`
	FinalsSeeds  []string          `json:"finals_seeds,omitempty"`
	FinalsSeated bool              `json:"finals_seated,omitempty"`
	Winner       string            `json:"winner,omitempty"`
	// EventUIDs holds the uid of every folded event. It is rebuilt on replay
	// and left out of the published document.
	EventUIDs map[string]bool `json:"-"`
}
