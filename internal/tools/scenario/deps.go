package scenario

import (
	"context"

	"github.com/louisbranch/archon/internal/services/tournament/domain/engine"
	"github.com/louisbranch/archon/internal/services/tournament/storage"
)

// sanctionWriter records sanctions for the discipline source the engine
// reads.
type sanctionWriter interface {
	PutSanction(ctx context.Context, rec storage.SanctionRecord) error
}

// runnerDeps bundles the storage a run executes against.
type runnerDeps struct {
	journal    engine.Journal
	discipline engine.DisciplineSource
	sanctions  sanctionWriter
	close      func() error
}
