package resolution

import (
	"testing"

	"github.com/Veraticus/recon-agent/internal/common"
	"github.com/Veraticus/recon-agent/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPolicies(t *testing.T) {
	tests := []struct {
		label         string
		failSafeRes   model.ResolutionStatus
		failSafeUnres model.ResolutionStatus
	}{
		{label: "Resolved", failSafeRes: model.StatusResolved, failSafeUnres: model.StatusResolved},
		{label: "Unresolved", failSafeRes: model.StatusUnresolved, failSafeUnres: model.StatusUnresolved},
		{label: "the case remains UNRESOLVED", failSafeRes: model.StatusUnresolved, failSafeUnres: model.StatusUnresolved},
		{label: "", failSafeRes: model.StatusResolved, failSafeUnres: model.StatusUnresolved},
		{label: model.ErrorText, failSafeRes: model.StatusResolved, failSafeUnres: model.StatusUnresolved},
		{label: "unclear", failSafeRes: model.StatusResolved, failSafeUnres: model.StatusUnresolved},
		{label: "'Resolved' - refund issued", failSafeRes: model.StatusResolved, failSafeUnres: model.StatusResolved},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.failSafeRes, FailSafeResolved(tt.label))
			assert.Equal(t, tt.failSafeUnres, FailSafeUnresolved(tt.label))
		})
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("resolved")
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, p(""))

	p, err = PolicyByName(" Unresolved ")
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnresolved, p(""))

	_, err = PolicyByName("sideways")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
