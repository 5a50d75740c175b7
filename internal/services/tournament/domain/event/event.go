package event

import (
	"time"
)

// Type identifies the event type string.
type Type string

const (
	TypeTournamentCreate  Type = "TOURNAMENT_CREATE"
	TypeUpdateConfig      Type = "UPDATE_CONFIG"
	TypeRegister          Type = "REGISTER"
	TypeCheckIn           Type = "CHECK_IN"
	TypeCheckEveryoneIn   Type = "CHECK_EVERYONE_IN"
	TypeCheckOut          Type = "CHECK_OUT"
	TypeDrop              Type = "DROP"
	TypeOpenRegistration  Type = "OPEN_REGISTRATION"
	TypeCloseRegistration Type = "CLOSE_REGISTRATION"
	TypeOpenCheckin       Type = "OPEN_CHECKIN"
	TypeCancelCheckin     Type = "CANCEL_CHECKIN"
	TypeRoundStart        Type = "ROUND_START"
	TypeRoundFinish       Type = "ROUND_FINISH"
	TypeRoundCancel       Type = "ROUND_CANCEL"
	TypeRoundAlter        Type = "ROUND_ALTER"
	TypeOverride          Type = "OVERRIDE"
	TypeUnoverride        Type = "UNOVERRIDE"
	TypeSetResult         Type = "SET_RESULT"
	TypeSetDeck           Type = "SET_DECK"
	TypeSeedFinals        Type = "SEED_FINALS"
	TypeSeatFinals        Type = "SEAT_FINALS"
	TypeFinishTournament  Type = "FINISH_TOURNAMENT"
)

// ActorType identifies who submitted an event.
type ActorType string

const (
	// ActorTypeSystem is an automated or administrative submitter; it is
	// always treated as a judge.
	ActorTypeSystem ActorType = "system"
	// ActorTypeJudge is a user claiming judge rights. The claim is honored
	// only when ActorID is in the tournament's judge set.
	ActorTypeJudge ActorType = "judge"
	// ActorTypePlayer is a user acting on their own behalf.
	ActorTypePlayer ActorType = "player"
)

// Event is the canonical tournament event envelope.
type Event struct {
	TournamentID string
	// UID is client generated and unique per tournament.
	UID  string
	Type Type
	// Seq, Hash, PrevHash and ChainHash are assigned by the journal.
	Seq         uint64
	Hash        string
	PrevHash    string
	ChainHash   string
	Timestamp   time.Time
	ActorType   ActorType
	ActorID     string
	PayloadJSON []byte
}
