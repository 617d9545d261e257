// Package resolution drives reconciliation cases through classification, routes them into
// resolved and unresolved partitions, and grows the known-pattern log.
package resolution

import (
	"context"

	"github.com/Veraticus/recon-agent/internal/model"
)

// Classifier is the text-understanding capability the pipeline depends on.
// Each call is independent; an error is absorbed by the pipeline, never retried.
type Classifier interface {
	ClassifyStatus(ctx context.Context, comments string) (string, error)
	Summarize(ctx context.Context, comments string) (string, error)
	SuggestNextSteps(ctx context.Context, comments string) (string, error)
	IdentifyPattern(ctx context.Context, comments string) (string, error)
}

// Sink receives the output partitions once per run. An empty slice means the run had no
// cases of that kind: the sink must not create an output for it and should drop any left
// by an earlier run.
type Sink interface {
	WriteResolved(ctx context.Context, rows []model.ResolvedCase) error
	WriteUnresolved(ctx context.Context, rows []model.UnresolvedCase) error
}

// Progress observes per-case progress.
type Progress interface {
	Start(total int)
	Step()
	Finish()
}

type noProgress struct{}

func (noProgress) Start(int) {}
func (noProgress) Step()     {}
func (noProgress) Finish()   {}
