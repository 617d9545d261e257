// Package model defines the core domain models used throughout the application.
package model

import "strings"

// ErrorText is the value recorded in place of any classifier output that could not be produced.
const ErrorText = "Error: Could not generate response."

// Case is one reconciliation record awaiting a resolution decision.
type Case struct {
	TransactionID string
	Amount        string // Kept verbatim from the input; never used for arithmetic
	Comments      string
}

// ResolutionStatus is the outcome of classifying a case's comments.
type ResolutionStatus string

// Resolution status constants.
const (
	StatusResolved   ResolutionStatus = "Resolved"
	StatusUnresolved ResolutionStatus = "Unresolved"
)

// CaseState tracks how far a case has progressed through a resolution run.
type CaseState int

// Case states, in the only order a case may pass through them.
const (
	StateReceived CaseState = iota
	StateClassified
	StateRouted
	StatePersisted
)

func (s CaseState) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateClassified:
		return "classified"
	case StateRouted:
		return "routed"
	case StatePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// ResolvedCase is a row of the resolved output partition.
type ResolvedCase struct {
	Case
	Pattern    string
	AutoClosed bool
}

// AutoClosedLabel renders the auto-closed flag the way the output file stores it.
func (r ResolvedCase) AutoClosedLabel() string {
	if r.AutoClosed {
		return "Yes"
	}
	return "No"
}

// UnresolvedCase is a row of the unresolved output partition.
type UnresolvedCase struct {
	Case
	Summary   string
	NextSteps string
}

// IsErrorText reports whether a classifier output is the failure placeholder.
func IsErrorText(s string) bool {
	return strings.TrimSpace(s) == ErrorText
}
