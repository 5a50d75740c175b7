package tournament

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/archon/internal/platform/errors"
)

// StandingsMode controls who may see standings.
type StandingsMode string

const (
	StandingsPublic  StandingsMode = "public"
	StandingsPrivate StandingsMode = "private"
	StandingsTop10   StandingsMode = "top10"
)

// DecklistsMode controls which decklists are published.
type DecklistsMode string

const (
	DecklistsAll       DecklistsMode = "all"
	DecklistsWinner    DecklistsMode = "winner"
	DecklistsFinalists DecklistsMode = "finalists"
)

const (
	// DefaultFinalists is the size of a standard finals table.
	DefaultFinalists = 5
	minFinalists     = 2
	maxFinalists     = 5
)

// Config is the immutable tournament configuration. It changes only through
// a validated ConfigPatch.
type Config struct {
	Multideck        bool          `json:"multideck"`
	DecklistRequired bool          `json:"decklist_required"`
	StandingsMode    StandingsMode `json:"standings_mode"`
	DecklistsMode    DecklistsMode `json:"decklists_mode"`
	// MaxRounds caps the rounds a player may play; 0 means unlimited.
	MaxRounds int  `json:"max_rounds"`
	Limited   bool `json:"limited"`
	Finalists int  `json:"finalists"`
}

// DefaultConfig returns the configuration of a new tournament.
func DefaultConfig() Config {
	return Config{
		StandingsMode: StandingsPrivate,
		DecklistsMode: DecklistsWinner,
		Finalists:     DefaultFinalists,
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.StandingsMode == "" {
		c.StandingsMode = def.StandingsMode
	}
	if c.DecklistsMode == "" {
		c.DecklistsMode = def.DecklistsMode
	}
	if c.Finalists == 0 {
		c.Finalists = def.Finalists
	}
	return c
}

// Validate checks every field in isolation.
func (c Config) Validate() error {
	if !validStandingsMode(c.StandingsMode) {
		return patchError("standings_mode", fmt.Sprintf("unknown standings mode %q", c.StandingsMode))
	}
	if !validDecklistsMode(c.DecklistsMode) {
		return patchError("decklists_mode", fmt.Sprintf("unknown decklists mode %q", c.DecklistsMode))
	}
	if c.MaxRounds < 0 {
		return patchError("max_rounds", "max rounds must not be negative")
	}
	if c.Finalists < minFinalists || c.Finalists > maxFinalists {
		return patchError("finalists", fmt.Sprintf("finalists must be between %d and %d", minFinalists, maxFinalists))
	}
	return nil
}

func validStandingsMode(m StandingsMode) bool {
	switch m {
	case StandingsPublic, StandingsPrivate, StandingsTop10:
		return true
	}
	return false
}

func validDecklistsMode(m DecklistsMode) bool {
	switch m {
	case DecklistsAll, DecklistsWinner, DecklistsFinalists:
		return true
	}
	return false
}

// ConfigPatch lists the fields an UPDATE_CONFIG event may change. Nil
// fields are left untouched.
type ConfigPatch struct {
	Name             *string        `json:"name,omitempty"`
	Format           *string        `json:"format,omitempty"`
	Multideck        *bool          `json:"multideck,omitempty"`
	DecklistRequired *bool          `json:"decklist_required,omitempty"`
	Limited          *bool          `json:"limited,omitempty"`
	StandingsMode    *StandingsMode `json:"standings_mode,omitempty"`
	DecklistsMode    *DecklistsMode `json:"decklists_mode,omitempty"`
	MaxRounds        *int           `json:"max_rounds,omitempty"`
	Finalists        *int           `json:"finalists,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p ConfigPatch) IsEmpty() bool {
	return p == ConfigPatch{}
}

// Validate checks the patch field by field against the snapshot it would be
// applied to.
func (p ConfigPatch) Validate(s State) error {
	if p.IsEmpty() {
		return patchError("", "config patch is empty")
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return patchError("name", "name must not be empty")
	}
	started := s.HasStarted()
	if p.Multideck != nil && started && *p.Multideck != s.Config.Multideck {
		return patchError("multideck", "multideck cannot change once a round started")
	}
	if p.DecklistRequired != nil && started && *p.DecklistRequired != s.Config.DecklistRequired {
		return patchError("decklist_required", "decklist requirement cannot change once a round started")
	}
	if p.Limited != nil && started && *p.Limited != s.Config.Limited {
		return patchError("limited", "limited cannot change once a round started")
	}
	if p.StandingsMode != nil && !validStandingsMode(*p.StandingsMode) {
		return patchError("standings_mode", fmt.Sprintf("unknown standings mode %q", *p.StandingsMode))
	}
	if p.DecklistsMode != nil && !validDecklistsMode(*p.DecklistsMode) {
		return patchError("decklists_mode", fmt.Sprintf("unknown decklists mode %q", *p.DecklistsMode))
	}
	if p.MaxRounds != nil {
		if *p.MaxRounds < 0 {
			return patchError("max_rounds", "max rounds must not be negative")
		}
		if *p.MaxRounds != 0 && *p.MaxRounds < s.PlayedRounds() {
			return patchError("max_rounds", fmt.Sprintf("max rounds below the %d rounds already played", s.PlayedRounds()))
		}
	}
	if p.Finalists != nil {
		if *p.Finalists < minFinalists || *p.Finalists > maxFinalists {
			return patchError("finalists", fmt.Sprintf("finalists must be between %d and %d", minFinalists, maxFinalists))
		}
		if (s.Status == StatusFinals || s.Status == StatusFinished) && *p.Finalists != s.Config.Finalists {
			return patchError("finalists", "finalists cannot change once finals are seeded")
		}
	}
	return nil
}

// Apply writes the patch into s without validation.
func (p ConfigPatch) Apply(s *State) {
	if p.Name != nil {
		s.Name = strings.TrimSpace(*p.Name)
	}
	if p.Format != nil {
		s.Format = strings.TrimSpace(*p.Format)
	}
	if p.Multideck != nil {
		s.Config.Multideck = *p.Multideck
	}
	if p.DecklistRequired != nil {
		s.Config.DecklistRequired = *p.DecklistRequired
	}
	if p.Limited != nil {
		s.Config.Limited = *p.Limited
	}
	if p.StandingsMode != nil {
		s.Config.StandingsMode = *p.StandingsMode
	}
	if p.DecklistsMode != nil {
		s.Config.DecklistsMode = *p.DecklistsMode
	}
	if p.MaxRounds != nil {
		s.Config.MaxRounds = *p.MaxRounds
	}
	if p.Finalists != nil {
		s.Config.Finalists = *p.Finalists
	}
}

func patchError(field, message string) error {
	meta := map[string]string{}
	if field != "" {
		meta["Field"] = field
	}
	return apperrors.WithMetadata(apperrors.CodeConfigPatchInvalid, message, meta)
}
