package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// LoadScenarioFromFile runs a Lua script that must return a Scenario.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runScript(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenarioFromString runs Lua source that must return a Scenario.
func LoadScenarioFromString(name, source string) (*Scenario, error) {
	state := newLuaState()
	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runScript(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func newLuaState() *lua.State {
	state := lua.NewState()
	lua.OpenLibraries(state)

	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, []lua.RegistryFunction{{Name: "new", Function: scenarioNew}}, 0)
	state.SetGlobal("Scenario")
	return state
}

func runScript(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func scenarioNew(state *lua.State) int {
	scenario := &Scenario{Name: lua.OptString(state, 1, "")}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "create", Function: tableStep("create", 2)},
	{Name: "update_config", Function: tableStep("update_config", 2)},
	{Name: "register", Function: scenarioRegister},
	{Name: "open_registration", Function: tableStep("open_registration", 2)},
	{Name: "close_registration", Function: tableStep("close_registration", 2)},
	{Name: "open_checkin", Function: tableStep("open_checkin", 2)},
	{Name: "cancel_checkin", Function: tableStep("cancel_checkin", 2)},
	{Name: "check_in", Function: playerStep("check_in")},
	{Name: "check_everyone_in", Function: tableStep("check_everyone_in", 2)},
	{Name: "check_out", Function: playerStep("check_out")},
	{Name: "drop", Function: playerStep("drop")},
	{Name: "sanction", Function: playerStep("sanction")},
	{Name: "round_start", Function: tableStep("round_start", 2)},
	{Name: "round_finish", Function: tableStep("round_finish", 2)},
	{Name: "round_cancel", Function: tableStep("round_cancel", 2)},
	{Name: "round_alter", Function: scenarioRoundAlter},
	{Name: "override", Function: scenarioOverride},
	{Name: "unoverride", Function: scenarioUnoverride},
	{Name: "result", Function: scenarioResult},
	{Name: "deck", Function: playerStep("deck")},
	{Name: "seed_finals", Function: tableStep("seed_finals", 2)},
	{Name: "seat_finals", Function: scenarioSeatFinals},
	{Name: "finish", Function: tableStep("finish", 2)},
	{Name: "expect_state", Function: scenarioExpectState},
	{Name: "expect_player", Function: scenarioExpectPlayer},
	{Name: "expect_winner", Function: scenarioExpectWinner},
	{Name: "expect_seeds", Function: scenarioExpectSeeds},
	{Name: "expect_error", Function: scenarioExpectError},
}

// tableStep records a step whose only argument is an optional table.
func tableStep(kind string, index int) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		appendStep(scenario, kind, optionalTable(state, index))
		state.PushValue(1)
		return 1
	}
}

// playerStep records a step addressing a player uid plus options.
func playerStep(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		data := optionalTable(state, 3)
		data["player"] = lua.CheckString(state, 2)
		appendStep(scenario, kind, data)
		state.PushValue(1)
		return 1
	}
}

func scenarioRegister(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 4)
	data["player"] = lua.CheckString(state, 2)
	data["name"] = lua.CheckString(state, 3)
	appendStep(scenario, "register", data)
	state.PushValue(1)
	return 1
}

func scenarioResult(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 5)
	data["player"] = lua.CheckString(state, 2)
	data["round"] = lua.CheckInteger(state, 3)
	data["vp"] = normalizeNumber(lua.CheckNumber(state, 4))
	appendStep(scenario, "result", data)
	state.PushValue(1)
	return 1
}

func scenarioRoundAlter(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 3, lua.TypeTable)
	data := optionalTable(state, 4)
	data["round"] = lua.CheckInteger(state, 2)
	data["seating"] = tableToGo(state, 3)
	appendStep(scenario, "round_alter", data)
	state.PushValue(1)
	return 1
}

func scenarioOverride(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 5)
	data["round"] = lua.CheckInteger(state, 2)
	data["table"] = lua.CheckInteger(state, 3)
	data["comment"] = lua.CheckString(state, 4)
	appendStep(scenario, "override", data)
	state.PushValue(1)
	return 1
}

func scenarioUnoverride(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 4)
	data["round"] = lua.CheckInteger(state, 2)
	data["table"] = lua.CheckInteger(state, 3)
	appendStep(scenario, "unoverride", data)
	state.PushValue(1)
	return 1
}

func scenarioSeatFinals(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := optionalTable(state, 3)
	data["seating"] = tableToGo(state, 2)
	appendStep(scenario, "seat_finals", data)
	state.PushValue(1)
	return 1
}

func scenarioExpectState(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_state", map[string]any{"status": lua.CheckString(state, 2)})
	state.PushValue(1)
	return 1
}

func scenarioExpectPlayer(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_player", map[string]any{
		"player": lua.CheckString(state, 2),
		"state":  lua.CheckString(state, 3),
	})
	state.PushValue(1)
	return 1
}

func scenarioExpectWinner(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "expect_winner", map[string]any{"player": lua.CheckString(state, 2)})
	state.PushValue(1)
	return 1
}

func scenarioExpectSeeds(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect_seeds", map[string]any{"seeds": tableToGo(state, 2)})
	state.PushValue(1)
	return 1
}

// scenarioExpectError marks the previous step as expected to fail.
func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.ArgumentError(state, 2, "expect_error must follow a step")
		return 0
	}
	scenario.Steps[len(scenario.Steps)-1].ExpectError = code
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if scenario == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}
	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts sequences to []any and other tables to maps.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}
	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				maxIndex = max(maxIndex, idx)
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}
	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
