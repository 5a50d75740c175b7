package tournament

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
)

// Fold applies a decided event to a copy of state and returns the copy.
// Barriers are not touched; they are derived after folding.
func Fold(state State, evt event.Event) (State, error) {
	next := state.Clone()
	if next.Players == nil {
		next.Players = map[string]Player{}
	}
	if err := fold(&next, evt); err != nil {
		return state, fmt.Errorf("fold %s: %w", evt.Type, err)
	}
	if evt.UID != "" {
		if next.EventUIDs == nil {
			next.EventUIDs = map[string]bool{}
		}
		next.EventUIDs[evt.UID] = true
	}
	return next, nil
}

func fold(s *State, evt event.Event) error {
	switch evt.Type {
	case event.TypeTournamentCreate:
		var p CreatePayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		s.Created = true
		s.UID = evt.TournamentID
		s.Name = p.Name
		s.Format = p.Format
		s.Config = p.Config.WithDefaults()
		s.Judges = slices.Clone(p.Judges)
		s.Status = StatusPlanned

	case event.TypeUpdateConfig:
		var p UpdateConfigPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		p.Patch.Apply(s)

	case event.TypeRegister:
		var p RegisterPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		player, ok := s.Players[p.PlayerUID]
		if !ok {
			player = Player{UID: p.PlayerUID, State: PlayerRegistered}
		}
		if player.State == PlayerFinished {
			player.State = PlayerRegistered
			player.Table = 0
			player.Seat = 0
		}
		player.Name = p.Name
		player.VEKN = p.VEKN
		player.Country = p.Country
		player.City = p.City
		s.Players[p.PlayerUID] = player

	case event.TypeCheckIn:
		var p PlayerPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		setPlayerState(s, p.PlayerUID, PlayerCheckedIn)

	case event.TypeCheckEveryoneIn:
		var p CheckEveryoneInPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		for _, uid := range p.PlayerUIDs {
			setPlayerState(s, uid, PlayerCheckedIn)
		}

	case event.TypeCheckOut:
		var p PlayerPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		setPlayerState(s, p.PlayerUID, PlayerRegistered)

	case event.TypeDrop:
		var p PlayerPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		setPlayerState(s, p.PlayerUID, PlayerFinished)

	case event.TypeOpenRegistration:
		s.Status = StatusRegistration

	case event.TypeCloseRegistration:
		s.Status = StatusPlanned

	case event.TypeOpenCheckin:
		var p OpenCheckinPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		s.CheckinCode = p.Code
		s.Status = StatusWaiting

	case event.TypeCancelCheckin:
		for _, uid := range s.PlayersIn(PlayerCheckedIn) {
			setPlayerState(s, uid, PlayerRegistered)
		}
		s.CheckinCode = ""
		s.Status = StatusRegistration

	case event.TypeRoundStart:
		var p SeatingPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		n := s.NextRound()
		round := Round{Tables: make([]Table, len(p.Seating))}
		for ti, uids := range p.Seating {
			round.Tables[ti] = Table{Seating: make([]Seat, len(uids))}
			for si, uid := range uids {
				round.Tables[ti].Seating[si] = Seat{PlayerUID: uid, Deck: unstageDeck(s, uid, n)}
			}
		}
		s.Rounds = append(s.Rounds, round)
		seatPlayers(s, n)
		s.Status = StatusPlaying

	case event.TypeRoundFinish:
		var p RoundFinishPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		next := p.NextStatus
		if next == "" {
			next = StatusRegistration
		}
		n := len(s.Rounds)
		if n == 0 {
			return fmt.Errorf("no round to finish")
		}
		s.Rounds[n-1].Finished = true
		unseatPlayers(s, s.Rounds[n-1], PlayerRegistered)
		if next == StatusWaiting {
			for _, uid := range p.CheckedIn {
				if player, ok := s.Players[uid]; ok && player.State == PlayerRegistered {
					setPlayerState(s, uid, PlayerCheckedIn)
				}
			}
		} else {
			s.CheckinCode = ""
		}
		s.Status = next

	case event.TypeRoundCancel:
		n := len(s.Rounds)
		if n == 0 {
			return fmt.Errorf("no round to cancel")
		}
		round := s.Rounds[n-1]
		for _, table := range round.Tables {
			for _, seat := range table.Seating {
				stageDeck(s, seat.PlayerUID, n, seat.Deck)
			}
		}
		unseatPlayers(s, round, PlayerCheckedIn)
		s.Rounds = s.Rounds[:n-1]
		s.Status = StatusWaiting

	case event.TypeRoundAlter:
		var p SeatingPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		return alterRound(s, p.Round, p.Seating)

	case event.TypeOverride, event.TypeUnoverride:
		var p OverridePayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		table, err := tableAt(s, p.Round, p.Table)
		if err != nil {
			return err
		}
		if evt.Type == event.TypeOverride {
			table.Override = &Override{Judge: evt.ActorID, Comment: p.Comment}
		} else {
			table.Override = nil
		}

	case event.TypeSetResult:
		var p SetResultPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		seat, err := seatAt(s, p.PlayerUID, p.Round)
		if err != nil {
			return err
		}
		seat.Result = &Score{VP: p.VP}

	case event.TypeSetDeck:
		var p SetDeckPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		return setDeck(s, p)

	case event.TypeSeedFinals:
		var p SeedFinalsPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		for _, uid := range s.PlayersIn(PlayerCheckedIn) {
			setPlayerState(s, uid, PlayerRegistered)
		}
		table := Table{Seating: make([]Seat, len(p.Seeds))}
		for i, uid := range p.Seeds {
			table.Seating[i] = Seat{PlayerUID: uid, Deck: unstageDeck(s, uid, s.NextRound())}
		}
		s.Rounds = append(s.Rounds, Round{Tables: []Table{table}, Finals: true})
		s.FinalsSeeds = slices.Clone(p.Seeds)
		s.FinalsSeated = false
		seatPlayers(s, len(s.Rounds))
		s.CheckinCode = ""
		s.Status = StatusFinals

	case event.TypeSeatFinals:
		var p SeatFinalsPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		_, n, ok := s.FinalsRound()
		if !ok {
			return fmt.Errorf("finals are not seeded")
		}
		if err := alterRound(s, n, [][]string{p.Seating}); err != nil {
			return err
		}
		s.FinalsSeated = true

	case event.TypeFinishTournament:
		var p FinishPayload
		if err := decode(evt, &p); err != nil {
			return err
		}
		if n := len(s.Rounds); n > 0 {
			s.Rounds[n-1].Finished = true
		}
		for uid, player := range s.Players {
			player.State = PlayerFinished
			player.Table, player.Seat = 0, 0
			s.Players[uid] = player
		}
		s.Winner = p.Winner
		s.CheckinCode = ""
		s.Status = StatusFinished

	default:
		return fmt.Errorf("unhandled event type %s", evt.Type)
	}
	return nil
}

func decode(evt event.Event, target any) error {
	if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func setPlayerState(s *State, uid string, state PlayerState) {
	player, ok := s.Players[uid]
	if !ok {
		return
	}
	player.State = state
	if state != PlayerPlaying && state != PlayerFinished {
		player.Table, player.Seat = 0, 0
	}
	s.Players[uid] = player
}

// seatPlayers marks everyone seated in round n as PLAYING at their seat.
// Players already FINISHED keep their state.
func seatPlayers(s *State, n int) {
	for ti, table := range s.Rounds[n-1].Tables {
		for si, seat := range table.Seating {
			player, ok := s.Players[seat.PlayerUID]
			if !ok {
				continue
			}
			if player.State != PlayerFinished {
				player.State = PlayerPlaying
			}
			player.Table, player.Seat = ti+1, si+1
			s.Players[seat.PlayerUID] = player
		}
	}
}

func unseatPlayers(s *State, round Round, back PlayerState) {
	for _, table := range round.Tables {
		for _, seat := range table.Seating {
			player, ok := s.Players[seat.PlayerUID]
			if !ok {
				continue
			}
			if player.State == PlayerPlaying {
				player.State = back
			}
			player.Table, player.Seat = 0, 0
			s.Players[seat.PlayerUID] = player
		}
	}
}

func unstageDeck(s *State, uid string, n int) *Deck {
	player, ok := s.Players[uid]
	if !ok {
		return nil
	}
	deck, ok := player.RoundDecks[n]
	if !ok {
		return nil
	}
	delete(player.RoundDecks, n)
	if len(player.RoundDecks) == 0 {
		player.RoundDecks = nil
	}
	s.Players[uid] = player
	return &deck
}

func stageDeck(s *State, uid string, n int, deck *Deck) {
	player, ok := s.Players[uid]
	if !ok {
		return
	}
	if deck == nil {
		delete(player.RoundDecks, n)
	} else {
		if player.RoundDecks == nil {
			player.RoundDecks = map[int]Deck{}
		}
		player.RoundDecks[n] = *deck
	}
	s.Players[uid] = player
}

func tableAt(s *State, round, table int) (*Table, error) {
	if round < 1 || round > len(s.Rounds) {
		return nil, fmt.Errorf("round %d not found", round)
	}
	r := &s.Rounds[round-1]
	if table < 1 || table > len(r.Tables) {
		return nil, fmt.Errorf("table %d not found in round %d", table, round)
	}
	return &r.Tables[table-1], nil
}

func seatAt(s *State, uid string, round int) (*Seat, error) {
	ref, ok := s.SeatOf(uid, round)
	if !ok {
		return nil, fmt.Errorf("player %s has no seat in round %d", uid, round)
	}
	return &s.Rounds[round-1].Tables[ref.Table-1].Seating[ref.Seat-1], nil
}

func setDeck(s *State, p SetDeckPayload) error {
	player, ok := s.Players[p.PlayerUID]
	if !ok {
		return fmt.Errorf("player %s not found", p.PlayerUID)
	}
	if p.Round == nil || *p.Round == 0 {
		player.Deck = p.Deck.Clone()
		s.Players[p.PlayerUID] = player
		return nil
	}
	n := *p.Round
	if n <= len(s.Rounds) {
		seat, err := seatAt(s, p.PlayerUID, n)
		if err != nil {
			return err
		}
		seat.Deck = p.Deck.Clone()
		return nil
	}
	stageDeck(s, p.PlayerUID, n, p.Deck)
	return nil
}

// alterRound replaces the seating of round n. Tables whose member set is
// unchanged keep their results and override; seat decks follow players.
func alterRound(s *State, n int, seating [][]string) error {
	if n < 1 || n > len(s.Rounds) {
		return fmt.Errorf("round %d not found", n)
	}
	old := s.Rounds[n-1]

	oldSeats := map[string]Seat{}
	oldTables := map[string]Table{}
	for _, table := range old.Tables {
		for _, seat := range table.Seating {
			oldSeats[seat.PlayerUID] = seat
		}
		oldTables[memberKey(table.UIDs())] = table
	}

	kept := map[string]bool{}
	tables := make([]Table, len(seating))
	for ti, uids := range seating {
		prev, same := oldTables[memberKey(uids)]
		table := Table{Seating: make([]Seat, len(uids))}
		if same {
			table.Override = prev.Override
		}
		for si, uid := range uids {
			seat := Seat{PlayerUID: uid}
			if previous, ok := oldSeats[uid]; ok {
				kept[uid] = true
				seat.Deck = previous.Deck
				if same {
					seat.Result = previous.Result
				}
			} else {
				seat.Deck = unstageDeck(s, uid, n)
			}
			table.Seating[si] = seat
		}
		tables[ti] = table
	}

	back := PlayerCheckedIn
	if old.Finals {
		back = PlayerRegistered
	}
	for uid, seat := range oldSeats {
		if kept[uid] {
			continue
		}
		stageDeck(s, uid, n, seat.Deck)
		player, ok := s.Players[uid]
		if !ok {
			continue
		}
		if player.State == PlayerPlaying {
			player.State = back
		}
		player.Table, player.Seat = 0, 0
		s.Players[uid] = player
	}

	s.Rounds[n-1].Tables = tables
	if !s.Rounds[n-1].Finished {
		seatPlayers(s, n)
	}
	return nil
}

func memberKey(uids []string) string {
	sorted := slices.Clone(uids)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
