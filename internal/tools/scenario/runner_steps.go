package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

func (r *Runner) runStep(ctx context.Context, state *scenarioState, step Step) error {
	switch step.Kind {
	case "expect_state":
		return r.expectState(state, step)
	case "expect_player":
		return r.expectPlayer(state, step)
	case "expect_winner":
		return r.expectWinner(state, step)
	case "expect_seeds":
		return r.expectSeeds(state, step)
	case "sanction":
		return r.runSanction(ctx, state, step)
	}

	evt, err := buildEvent(state, step)
	if err != nil {
		return err
	}
	result, err := state.engine.Submit(ctx, evt)
	if step.ExpectError != "" {
		return r.checkExpectedError(step, err)
	}
	if err != nil {
		return err
	}
	if result.Replayed {
		r.logf("replayed uid=%s seq=%d", result.Event.UID, result.Event.Seq)
	}
	return nil
}

func (r *Runner) checkExpectedError(step Step, err error) error {
	if err == nil {
		return r.assertions.Failf("%s: expected error %s", step.Kind, step.ExpectError)
	}
	if got := apperrors.CodeOf(err); string(got) != step.ExpectError {
		return r.assertions.Failf("%s: error code = %s, want %s (%v)", step.Kind, got, step.ExpectError, err)
	}
	return nil
}

// buildEvent turns a scripted step into a tournament event.
func buildEvent(state *scenarioState, step Step) (event.Event, error) {
	state.steps++
	uid := argString(step.Args, "uid")
	if uid == "" {
		uid = fmt.Sprintf("step-%d", state.steps)
	}
	evt := event.Event{
		TournamentID: state.tournamentID,
		UID:          uid,
		ActorType:    event.ActorTypeSystem,
	}
	if judge := argString(step.Args, "judge"); judge != "" {
		evt.ActorType = event.ActorTypeJudge
		evt.ActorID = judge
	}
	if player := argString(step.Args, "as"); player != "" {
		evt.ActorType = event.ActorTypePlayer
		evt.ActorID = player
	}

	payload, eventType, err := buildPayload(state, step)
	if err != nil {
		return event.Event{}, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return event.Event{}, fmt.Errorf("encode payload: %w", err)
	}
	evt.Type = eventType
	evt.PayloadJSON = data
	return evt, nil
}

func buildPayload(state *scenarioState, step Step) (any, event.Type, error) {
	args := step.Args
	switch step.Kind {
	case "create":
		cfg, err := buildConfig(args)
		if err != nil {
			return nil, "", err
		}
		judges, err := argStrings(args, "judges")
		if err != nil {
			return nil, "", err
		}
		name := argString(args, "name")
		if name == "" {
			name = "Scenario tournament"
		}
		return tournament.CreatePayload{Name: name, Format: argString(args, "format"), Config: cfg, Judges: judges}, event.TypeTournamentCreate, nil
	case "update_config":
		patch, err := buildPatch(args)
		if err != nil {
			return nil, "", err
		}
		return tournament.UpdateConfigPayload{Patch: patch}, event.TypeUpdateConfig, nil
	case "register":
		player, err := requireString(args, "player")
		if err != nil {
			return nil, "", err
		}
		return tournament.RegisterPayload{
			PlayerUID: player,
			Name:      argString(args, "name"),
			VEKN:      argString(args, "vekn"),
			Country:   argString(args, "country"),
			City:      argString(args, "city"),
		}, event.TypeRegister, nil
	case "open_registration":
		return struct{}{}, event.TypeOpenRegistration, nil
	case "close_registration":
		return struct{}{}, event.TypeCloseRegistration, nil
	case "open_checkin":
		return tournament.OpenCheckinPayload{Code: argString(args, "code")}, event.TypeOpenCheckin, nil
	case "cancel_checkin":
		return struct{}{}, event.TypeCancelCheckin, nil
	case "check_everyone_in":
		return tournament.CheckEveryoneInPayload{}, event.TypeCheckEveryoneIn, nil
	case "check_in":
		player, err := requireString(args, "player")
		if err != nil {
			return nil, "", err
		}
		code := argString(args, "code")
		if useCode, _, err := argBool(args, "with_code"); err != nil {
			return nil, "", err
		} else if useCode {
			code = state.engine.State().CheckinCode
		}
		return tournament.PlayerPayload{PlayerUID: player, Code: code}, event.TypeCheckIn, nil
	case "check_out", "drop":
		player, err := requireString(args, "player")
		if err != nil {
			return nil, "", err
		}
		eventType := event.TypeCheckOut
		if step.Kind == "drop" {
			eventType = event.TypeDrop
		}
		return tournament.PlayerPayload{PlayerUID: player}, eventType, nil
	case "round_start":
		seating, err := argSeating(args, "seating")
		if err != nil {
			return nil, "", err
		}
		return tournament.SeatingPayload{Seating: seating}, event.TypeRoundStart, nil
	case "round_finish":
		return tournament.RoundFinishPayload{}, event.TypeRoundFinish, nil
	case "round_cancel":
		return struct{}{}, event.TypeRoundCancel, nil
	case "round_alter":
		round, _, err := argInt(args, "round")
		if err != nil {
			return nil, "", err
		}
		seating, err := argSeating(args, "seating")
		if err != nil {
			return nil, "", err
		}
		return tournament.SeatingPayload{Round: round, Seating: seating}, event.TypeRoundAlter, nil
	case "override", "unoverride":
		round, _, err := argInt(args, "round")
		if err != nil {
			return nil, "", err
		}
		table, _, err := argInt(args, "table")
		if err != nil {
			return nil, "", err
		}
		eventType := event.TypeOverride
		if step.Kind == "unoverride" {
			eventType = event.TypeUnoverride
		}
		return tournament.OverridePayload{Round: round, Table: table, Comment: argString(args, "comment")}, eventType, nil
	case "result":
		player, err := requireString(args, "player")
		if err != nil {
			return nil, "", err
		}
		round, _, err := argInt(args, "round")
		if err != nil {
			return nil, "", err
		}
		vp, err := argFloat(args, "vp")
		if err != nil {
			return nil, "", err
		}
		return tournament.SetResultPayload{PlayerUID: player, Round: round, VP: vp}, event.TypeSetResult, nil
	case "deck":
		player, err := requireString(args, "player")
		if err != nil {
			return nil, "", err
		}
		attribution, _, err := argBool(args, "attribution")
		if err != nil {
			return nil, "", err
		}
		payload := tournament.SetDeckPayload{PlayerUID: player, Deck: buildDeck(args), Attribution: attribution}
		if round, ok, err := argInt(args, "round"); err != nil {
			return nil, "", err
		} else if ok {
			payload.Round = &round
		}
		return payload, event.TypeSetDeck, nil
	case "seed_finals":
		seeds, err := argStrings(args, "seeds")
		if err != nil {
			return nil, "", err
		}
		toss, err := argIntMap(args, "toss")
		if err != nil {
			return nil, "", err
		}
		return tournament.SeedFinalsPayload{Seeds: seeds, Toss: toss}, event.TypeSeedFinals, nil
	case "seat_finals":
		seating, err := argStrings(args, "seating")
		if err != nil {
			return nil, "", err
		}
		return tournament.SeatFinalsPayload{Seating: seating}, event.TypeSeatFinals, nil
	case "finish":
		return tournament.FinishPayload{}, event.TypeFinishTournament, nil
	default:
		return nil, "", fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

func (r *Runner) runSanction(ctx context.Context, state *scenarioState, step Step) error {
	player, err := requireString(step.Args, "player")
	if err != nil {
		return err
	}
	rec := storage.SanctionRecord{PlayerUID: player, TournamentID: state.tournamentID}
	if argString(step.Args, "scope") == "global" {
		rec.TournamentID = ""
	}
	if rec.Banned, _, err = argBool(step.Args, "banned"); err != nil {
		return err
	}
	if rec.Disqualified, _, err = argBool(step.Args, "disqualified"); err != nil {
		return err
	}
	if !rec.Banned && !rec.Disqualified {
		rec.Banned = true
	}
	rec.Reason = argString(step.Args, "reason")
	return r.deps.sanctions.PutSanction(ctx, rec)
}

func (r *Runner) expectState(state *scenarioState, step Step) error {
	want := tournament.Status(argString(step.Args, "status"))
	if got := state.engine.State().Status; got != want {
		return r.assertions.Failf("tournament status = %s, want %s", got, want)
	}
	return nil
}

func (r *Runner) expectPlayer(state *scenarioState, step Step) error {
	uid := argString(step.Args, "player")
	want := tournament.PlayerState(argString(step.Args, "state"))
	player, ok := state.engine.State().Player(uid)
	if !ok {
		return r.assertions.Failf("player %s not registered", uid)
	}
	if player.State != want {
		return r.assertions.Failf("player %s state = %s, want %s", uid, player.State, want)
	}
	return nil
}

func (r *Runner) expectWinner(state *scenarioState, step Step) error {
	want := argString(step.Args, "player")
	if got := state.engine.State().Winner; got != want {
		return r.assertions.Failf("winner = %q, want %q", got, want)
	}
	return nil
}

func (r *Runner) expectSeeds(state *scenarioState, step Step) error {
	want, err := argStrings(step.Args, "seeds")
	if err != nil {
		return err
	}
	if got := state.engine.State().FinalsSeeds; !slices.Equal(got, want) {
		return r.assertions.Failf("finals seeds = %v, want %v", got, want)
	}
	return nil
}
