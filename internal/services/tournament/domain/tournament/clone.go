package tournament

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the snapshot. Fold works on clones so the
// input snapshot is never mutated.
func (s State) Clone() State {
	out := s
	out.Judges = slices.Clone(s.Judges)
	out.FinalsSeeds = slices.Clone(s.FinalsSeeds)
	if s.Rounds != nil {
		out.Rounds = make([]Round, len(s.Rounds))
		for i, r := range s.Rounds {
			out.Rounds[i] = r.Clone()
		}
	}
	if s.Players != nil {
		out.Players = make(map[string]Player, len(s.Players))
		for uid, p := range s.Players {
			out.Players[uid] = p.Clone()
		}
	}
	out.EventUIDs = maps.Clone(s.EventUIDs)
	return out
}

// Clone returns a deep copy of the round.
func (r Round) Clone() Round {
	out := r
	if r.Tables != nil {
		out.Tables = make([]Table, len(r.Tables))
		for i, t := range r.Tables {
			out.Tables[i] = t.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := t
	if t.Override != nil {
		o := *t.Override
		out.Override = &o
	}
	if t.Seating != nil {
		out.Seating = make([]Seat, len(t.Seating))
		for i, seat := range t.Seating {
			out.Seating[i] = seat.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the seat.
func (s Seat) Clone() Seat {
	out := s
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	out.Deck = s.Deck.Clone()
	return out
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	out := p
	out.Barriers = slices.Clone(p.Barriers)
	out.Deck = p.Deck.Clone()
	out.RoundDecks = maps.Clone(p.RoundDecks)
	return out
}

// Clone copies a deck pointer; nil stays nil.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
