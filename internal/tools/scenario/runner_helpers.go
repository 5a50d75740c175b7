package scenario

import (
	"fmt"
	"strings"

	"github.com/louisbranch/archon/internal/services/tournament/domain/tournament"
)

func argString(args map[string]any, key string) string {
	value, ok := args[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func requireString(args map[string]any, key string) (string, error) {
	value := argString(args, key)
	if value == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return value, nil
}

func argInt(args map[string]any, key string) (int, bool, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return 0, false, nil
	}
	switch v := value.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%s must be an integer", key)
		}
		return int(v), true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
}

func argFloat(args map[string]any, key string) (float64, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

func argBool(args map[string]any, key string) (bool, bool, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return false, false, nil
	}
	v, ok := value.(bool)
	if !ok {
		return false, true, fmt.Errorf("%s must be a boolean", key)
	}
	return v, true, nil
}

func argStrings(args map[string]any, key string) ([]string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	return toStrings(value, key)
}

func toStrings(value any, key string) ([]string, error) {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a list of strings", key)
			}
			out = append(out, strings.TrimSpace(s))
		}
		return out, nil
	case []string:
		return append([]string(nil), v...), nil
	case map[string]any:
		// Lua has no empty-list literal distinct from an empty table.
		if len(v) == 0 {
			return []string{}, nil
		}
	}
	return nil, fmt.Errorf("%s must be a list of strings", key)
}

func argSeating(args map[string]any, key string) ([][]string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	tables, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of tables", key)
	}
	seating := make([][]string, 0, len(tables))
	for i, table := range tables {
		uids, err := toStrings(table, fmt.Sprintf("%s[%d]", key, i+1))
		if err != nil {
			return nil, err
		}
		seating = append(seating, uids)
	}
	return seating, nil
}

func argIntMap(args map[string]any, key string) (map[string]int, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return nil, nil
	}
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a table of numbers", key)
	}
	out := make(map[string]int, len(raw))
	for name := range raw {
		n, _, err := argInt(raw, name)
		if err != nil {
			return nil, fmt.Errorf("%s.%w", key, err)
		}
		out[name] = n
	}
	return out, nil
}

// buildConfig reads create options into a tournament config.
func buildConfig(args map[string]any) (tournament.Config, error) {
	cfg := tournament.DefaultConfig()
	var err error
	if cfg.Multideck, _, err = argBool(args, "multideck"); err != nil {
		return cfg, err
	}
	if cfg.DecklistRequired, _, err = argBool(args, "decklist_required"); err != nil {
		return cfg, err
	}
	if cfg.Limited, _, err = argBool(args, "limited"); err != nil {
		return cfg, err
	}
	if mode := argString(args, "standings_mode"); mode != "" {
		cfg.StandingsMode = tournament.StandingsMode(mode)
	}
	if mode := argString(args, "decklists_mode"); mode != "" {
		cfg.DecklistsMode = tournament.DecklistsMode(mode)
	}
	if n, ok, err := argInt(args, "max_rounds"); err != nil {
		return cfg, err
	} else if ok {
		cfg.MaxRounds = n
	}
	if n, ok, err := argInt(args, "finalists"); err != nil {
		return cfg, err
	} else if ok {
		cfg.Finalists = n
	}
	return cfg, nil
}

// buildPatch reads update_config options; absent keys stay nil.
func buildPatch(args map[string]any) (tournament.ConfigPatch, error) {
	var patch tournament.ConfigPatch
	if v := argString(args, "name"); v != "" {
		patch.Name = &v
	}
	if v := argString(args, "format"); v != "" {
		patch.Format = &v
	}
	for key, target := range map[string]**bool{
		"multideck":         &patch.Multideck,
		"decklist_required": &patch.DecklistRequired,
		"limited":           &patch.Limited,
	} {
		v, ok, err := argBool(args, key)
		if err != nil {
			return patch, err
		}
		if ok {
			*target = &v
		}
	}
	if v := argString(args, "standings_mode"); v != "" {
		mode := tournament.StandingsMode(v)
		patch.StandingsMode = &mode
	}
	if v := argString(args, "decklists_mode"); v != "" {
		mode := tournament.DecklistsMode(v)
		patch.DecklistsMode = &mode
	}
	for key, target := range map[string]**int{
		"max_rounds": &patch.MaxRounds,
		"finalists":  &patch.Finalists,
	} {
		v, ok, err := argInt(args, key)
		if err != nil {
			return patch, err
		}
		if ok {
			*target = &v
		}
	}
	return patch, nil
}

func buildDeck(args map[string]any) *tournament.Deck {
	deck := &tournament.Deck{
		Name:    argString(args, "name"),
		Text:    argString(args, "text"),
		VDBLink: argString(args, "vdb_link"),
	}
	return deck
}
