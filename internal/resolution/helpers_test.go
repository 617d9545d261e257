package resolution

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/recon-agent/internal/model"
)

// scriptedReply is what the fake classifier answers for one comment string.
type scriptedReply struct {
	statusErr  error
	summaryErr error
	patternErr error
	status     string
	summary    string
	nextSteps  string
	pattern    string
}

// fakeClassifier answers from a script keyed by comments and records every call.
type fakeClassifier struct {
	script map[string]scriptedReply
	calls  []string
	mu     sync.Mutex
}

func newFakeClassifier(script map[string]scriptedReply) *fakeClassifier {
	return &fakeClassifier{script: script}
}

func (f *fakeClassifier) record(call, comments string) scriptedReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call+":"+comments)
	return f.script[comments]
}

func (f *fakeClassifier) ClassifyStatus(_ context.Context, comments string) (string, error) {
	r := f.record("status", comments)
	return r.status, r.statusErr
}

func (f *fakeClassifier) Summarize(_ context.Context, comments string) (string, error) {
	r := f.record("summary", comments)
	return r.summary, r.summaryErr
}

func (f *fakeClassifier) SuggestNextSteps(_ context.Context, comments string) (string, error) {
	r := f.record("next", comments)
	return r.nextSteps, nil
}

func (f *fakeClassifier) IdentifyPattern(_ context.Context, comments string) (string, error) {
	r := f.record("pattern", comments)
	return r.pattern, r.patternErr
}

func (f *fakeClassifier) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// memorySink keeps what the pipeline hands it.
type memorySink struct {
	resolvedErr     error
	unresolvedErr   error
	resolved        []model.ResolvedCase
	unresolved      []model.UnresolvedCase
	resolvedCalls   int
	unresolvedCalls int
}

func (s *memorySink) WriteResolved(_ context.Context, rows []model.ResolvedCase) error {
	s.resolvedCalls++
	if s.resolvedErr != nil {
		return s.resolvedErr
	}
	s.resolved = rows
	return nil
}

func (s *memorySink) WriteUnresolved(_ context.Context, rows []model.UnresolvedCase) error {
	s.unresolvedCalls++
	if s.unresolvedErr != nil {
		return s.unresolvedErr
	}
	s.unresolved = rows
	return nil
}

var errLLMDown = errors.New("connection refused")

func resolvedWith(p string) scriptedReply {
	return scriptedReply{status: "Resolved", pattern: p}
}

func unresolvedWith(summary, next string) scriptedReply {
	return scriptedReply{status: "Unresolved", summary: summary, nextSteps: next}
}

func resolvedIDs(rows []model.ResolvedCase) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TransactionID)
	}
	return out
}

func unresolvedIDs(rows []model.UnresolvedCase) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.TransactionID)
	}
	return out
}
