package resolution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
	"github.com/Veraticus/recon-agent/internal/pattern"
)

// Options configures a Pipeline. Zero values select the defaults.
type Options struct {
	Policy   StatusPolicy
	Logger   *slog.Logger
	Progress Progress
}

// Pipeline classifies cases one at a time and persists the results when every case is routed.
type Pipeline struct {
	classifier Classifier
	store      pattern.Store
	sink       Sink
	policy     StatusPolicy
	logger     *slog.Logger
	progress   Progress
}

// Result summarises a completed run.
type Result struct {
	Resolved         []model.ResolvedCase
	Unresolved       []model.UnresolvedCase
	NewPatterns      []string // Appended to the pattern log, in discovery order
	KnownPatterns    int
	AutoClosed       int
	ClassifierErrors int // Cases carrying at least one failed classifier output
}

// Total returns the number of cases routed.
func (r *Result) Total() int {
	return len(r.Resolved) + len(r.Unresolved)
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(classifier Classifier, store pattern.Store, sink Sink, opts Options) (*Pipeline, error) {
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	if store == nil {
		return nil, ErrNilStore
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	policy := opts.Policy
	if policy == nil {
		policy = FailSafeResolved
	}
	progress := opts.Progress
	if progress == nil {
		progress = noProgress{}
	}

	return &Pipeline{
		classifier: classifier,
		store:      store,
		sink:       sink,
		policy:     policy,
		logger:     common.LoggerOrDefault(opts.Logger),
		progress:   progress,
	}, nil
}

// Run routes every case and then persists both partitions and the new patterns.
// Nothing is written if the context is cancelled before all cases are routed.
// Persistence failures are joined and returned alongside the result.
func (p *Pipeline) Run(ctx context.Context, cases []model.Case) (*Result, error) {
	known, err := p.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pattern log: %w", err)
	}

	result := &Result{KnownPatterns: known.Len()}
	var candidates []string

	p.progress.Start(len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			p.progress.Finish()
			return nil, fmt.Errorf("run aborted before persisting: %w", err)
		}

		if candidate, ok := p.route(ctx, c, known, result); ok {
			candidates = append(candidates, candidate)
		}
		p.progress.Step()
	}
	p.progress.Finish()

	return result, p.persist(ctx, known, candidates, result)
}

// route takes one case from Received to Routed. It returns the pattern to record when the
// case was resolved under a pattern missing from the load-time snapshot.
func (p *Pipeline) route(ctx context.Context, c model.Case, known pattern.Set, result *Result) (string, bool) {
	p.transition(c, model.StateReceived)

	failed := false
	ask := func(capability string, fn func(context.Context, string) (string, error)) string {
		out, err := fn(ctx, c.Comments)
		if err != nil {
			p.logger.Warn("classifier call failed",
				"capability", capability,
				"transaction_id", c.TransactionID,
				"error", err)
			failed = true
			return model.ErrorText
		}
		out = strings.TrimSpace(out)
		if model.IsErrorText(out) {
			failed = true
		}
		return out
	}

	label := ask("classify-status", p.classifier.ClassifyStatus)
	status := p.policy(label)
	p.transition(c, model.StateClassified)

	defer func() {
		if failed {
			result.ClassifierErrors++
		}
		p.transition(c, model.StateRouted)
	}()

	if status == model.StatusUnresolved {
		summary := ask("summarize", p.classifier.Summarize)
		nextSteps := ask("suggest-next-steps", p.classifier.SuggestNextSteps)
		result.Unresolved = append(result.Unresolved, model.UnresolvedCase{
			Case:      c,
			Summary:   summary,
			NextSteps: nextSteps,
		})
		p.logger.Info("case unresolved",
			"transaction_id", c.TransactionID,
			"summary", summary,
			"next_steps", nextSteps)
		return "", false
	}

	found := pattern.Normalize(ask("identify-pattern", p.classifier.IdentifyPattern))
	recordable := found != "" && !model.IsErrorText(found)
	autoClosed := recordable && known.Contains(found)
	if autoClosed {
		result.AutoClosed++
		p.logger.Info("case resolved, auto-closed on known pattern",
			"transaction_id", c.TransactionID,
			"pattern", found)
	} else {
		p.logger.Info("case resolved, new pattern identified",
			"transaction_id", c.TransactionID,
			"pattern", found)
	}

	result.Resolved = append(result.Resolved, model.ResolvedCase{
		Case:       c,
		Pattern:    found,
		AutoClosed: autoClosed,
	})

	if recordable && !autoClosed {
		return found, true
	}
	return "", false
}

func (p *Pipeline) persist(ctx context.Context, known pattern.Set, candidates []string, result *Result) error {
	var errs []error

	if err := p.sink.WriteUnresolved(ctx, result.Unresolved); err != nil {
		errs = append(errs, &PersistError{Partition: PartitionUnresolved, Err: err})
	}
	if err := p.sink.WriteResolved(ctx, result.Resolved); err != nil {
		errs = append(errs, &PersistError{Partition: PartitionResolved, Err: err})
	}

	appended, err := p.store.Commit(ctx, known, candidates)
	if err != nil {
		errs = append(errs, &PersistError{Partition: PartitionPatterns, Err: err})
	}
	result.NewPatterns = appended

	if len(errs) > 0 {
		for _, e := range errs {
			p.logger.Error("output not persisted", "error", e)
		}
		return errors.Join(errs...)
	}

	p.logger.Debug("cases persisted",
		"state", model.StatePersisted.String(),
		"resolved", len(result.Resolved),
		"unresolved", len(result.Unresolved),
		"new_patterns", len(appended))
	return nil
}

func (p *Pipeline) transition(c model.Case, state model.CaseState) {
	p.logger.Debug("case state", "transaction_id", c.TransactionID, "state", state.String())
}
