package scenario

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/archon/internal/platform/id"
	"github.com/louisbranch/archon/internal/platform/timeouts"
	"github.com/louisbranch/archon/internal/services/tournament/discipline"
	"github.com/louisbranch/archon/internal/services/tournament/domain/engine"
	"github.com/louisbranch/archon/internal/services/tournament/domain/event"
	"github.com/louisbranch/archon/internal/services/tournament/domain/journal"
	"github.com/louisbranch/archon/internal/services/tournament/storage/sqlite"
)

// Config controls scenario execution.
type Config struct {
	// DBPath selects a sqlite journal; empty runs in memory.
	DBPath     string
	Timeout    time.Duration
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:    timeouts.ScenarioStep,
		Assertions: AssertionStrict,
	}
}

// Runner executes Lua scenarios against a tournament engine.
type Runner struct {
	deps       runnerDeps
	assertions Assertions
	logger     *log.Logger
	verbose    bool
	timeout    time.Duration
}

// NewRunner opens the configured journal and prepares a runner.
func NewRunner(cfg Config) (*Runner, error) {
	deps, err := openDeps(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return newRunnerWithDeps(cfg, deps), nil
}

func openDeps(dbPath string) (runnerDeps, error) {
	registry := event.DefaultRegistry()
	if strings.TrimSpace(dbPath) == "" {
		sanctions := discipline.NewMemory()
		return runnerDeps{journal: journal.NewMemory(registry), discipline: sanctions, sanctions: sanctions}, nil
	}
	store, err := sqlite.Open(dbPath, registry)
	if err != nil {
		return runnerDeps{}, fmt.Errorf("open journal: %w", err)
	}
	return runnerDeps{journal: store, discipline: store, sanctions: store, close: store.Close}, nil
}

// newRunnerWithDeps applies config defaults so they are testable.
func newRunnerWithDeps(cfg Config, deps runnerDeps) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = timeouts.ScenarioStep
	}
	return &Runner{
		deps:       deps,
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
		timeout:    timeout,
	}
}

// Close releases the journal.
func (r *Runner) Close() error {
	if r.deps.close != nil {
		return r.deps.close()
	}
	return nil
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	runner, err := NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return runner.RunScenario(ctx, scenario)
}

// RunScenario executes the scenario steps in order against a fresh
// tournament.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	tournamentID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("tournament id: %w", err)
	}
	state := &scenarioState{
		tournamentID: tournamentID,
		engine: engine.New(r.deps.journal, tournamentID, engine.Options{
			Discipline: r.deps.discipline,
			Notifier:   engine.NotifierFunc(r.notify),
		}),
	}

	for index, step := range scenario.Steps {
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.runStep(stepCtx, state, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", stepNumber, step.Kind, err)
		}
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func (r *Runner) notify(_ context.Context, n engine.Notification) {
	if n.RoundChanging {
		r.logf("round boundary: seq=%d type=%s", n.Event.Seq, n.Event.Type)
	}
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}

type scenarioState struct {
	tournamentID string
	engine       *engine.Engine
	steps        int
}
