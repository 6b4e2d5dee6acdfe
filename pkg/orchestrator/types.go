package orchestrator

import (
	"context"

	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/plan"
	"github.com/tressel-dev/tressel/pkg/resolve"
)

// DependencyResolver is the subset of the resolver used by the orchestrator.
type DependencyResolver interface {
	Append(ctx context.Context, graph *resolve.Graph, specs []model.Specifier, strict bool) error
}

// PlanExecutor is the subset of the installer used by the orchestrator.
type PlanExecutor interface {
	ExecutePlan(ctx context.Context, p *plan.Plan) error
	RunScripts(ctx context.Context, p *plan.Plan) error
	SetupBins(p *plan.Plan) error
}

// StoreCleaner removes the package store.
type StoreCleaner interface {
	Clean() error
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // resolving|locking|planning|installing|done|error
	ID    string // package identity name@version
	Msg   string
}

// Hooks carries callbacks for progress events.
type Hooks struct {
	OnEvent func(Event)
}

// InstallOptions control orchestrator install execution.
type InstallOptions struct {
	// Immutable skips resolution and loads the graph verbatim from the
	// lockfile; a manifest requirement the lockfile cannot satisfy fails
	// the install.
	Immutable bool
}

// AddOptions control how new requirements are written into the manifest.
type AddOptions struct {
	Dev bool
	// Pin writes the exact resolved version instead of a caret range.
	Pin bool
}
