package resolution

import (
	"fmt"
	"strings"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
)

// StatusPolicy maps a raw classify-status label onto a resolution status.
type StatusPolicy func(label string) model.ResolutionStatus

// FailSafeResolved treats a label as unresolved only when it says "unresolved"
// (any case). Empty, failed, and unrecognised labels go to the resolved path, where
// they still surface a pattern for review.
func FailSafeResolved(label string) model.ResolutionStatus {
	if strings.Contains(strings.ToLower(label), "unresolved") {
		return model.StatusUnresolved
	}
	return model.StatusResolved
}

// FailSafeUnresolved treats a label as resolved only when it says "resolved" without
// saying "unresolved". Empty, failed, and unrecognised labels go to the unresolved path.
func FailSafeUnresolved(label string) model.ResolutionStatus {
	if model.IsErrorText(label) {
		return model.StatusUnresolved
	}
	lower := strings.ToLower(label)
	if strings.Contains(lower, "unresolved") {
		return model.StatusUnresolved
	}
	if strings.Contains(lower, "resolved") {
		return model.StatusResolved
	}
	return model.StatusUnresolved
}

// PolicyByName selects a policy by the direction ambiguous labels fall towards.
func PolicyByName(name string) (StatusPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "resolved", "":
		return FailSafeResolved, nil
	case "unresolved":
		return FailSafeUnresolved, nil
	default:
		return nil, fmt.Errorf("%w: fail-safe direction %q (want resolved or unresolved)", common.ErrInvalidConfig, name)
	}
}
