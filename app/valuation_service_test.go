package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bimrov/domain/tender"
	"bimrov/internal/config"
)

func newService(t *testing.T) *ValuationService {
	t.Helper()
	cfg := config.SimConfig{Iterations: 1000, Seed: 42, Workers: 2}
	service, err := NewValuationService(cfg, config.DefaultFixedParams())
	require.NoError(t, err)
	return service
}

func TestEvaluateBatchSampleProjects(t *testing.T) {
	service := newService(t)

	batch := service.EvaluateBatch(context.Background(), SampleProjects())

	require.Len(t, batch.Outcomes, 10)
	assert.Equal(t, 10, batch.Succeeded)
	assert.Equal(t, 0, batch.Failed)
	assert.NotEmpty(t, batch.RunID)

	for i, outcome := range batch.Outcomes {
		require.NoError(t, outcome.Err, "project %d", i)
		require.NotNil(t, outcome.Result)
		// Outcomes stay aligned with the input order.
		assert.Equal(t, outcome.Input.ProjectID, outcome.Result.ProjectID)
	}
}

// TestEvaluateBatchIsolatesFailures: one malformed row must be rejected on
// its own while every other row still evaluates.
func TestEvaluateBatchIsolatesFailures(t *testing.T) {
	service := newService(t)

	inputs := SampleProjects()
	inputs[3].ContractAmount = -50

	batch := service.EvaluateBatch(context.Background(), inputs)

	assert.Equal(t, 9, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)

	bad := batch.Outcomes[3]
	require.Error(t, bad.Err)
	assert.True(t, tender.IsValidationError(bad.Err))
	assert.Nil(t, bad.Result)
	assert.NotEmpty(t, bad.ErrMsg)

	for i, outcome := range batch.Outcomes {
		if i == 3 {
			continue
		}
		assert.NoError(t, outcome.Err, "project %d should be unaffected", i)
	}
}

func TestEvaluateBatchDeterministic(t *testing.T) {
	first := newService(t).EvaluateBatch(context.Background(), SampleProjects())
	second := newService(t).EvaluateBatch(context.Background(), SampleProjects())

	require.Len(t, second.Outcomes, len(first.Outcomes))
	for i := range first.Outcomes {
		a, b := first.Outcomes[i].Result, second.Outcomes[i].Result
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.Equal(t, a.TPVMean, b.TPVMean, "project %s", a.ProjectID)
		assert.Equal(t, a.Decision, b.Decision, "project %s", a.ProjectID)
	}
	// Run IDs are per-run, not per-seed.
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestServiceRejectsBadConfig(t *testing.T) {
	cfg := config.SimConfig{Iterations: 10, Seed: 42, Workers: 1}
	_, err := NewValuationService(cfg, config.DefaultFixedParams())
	assert.Error(t, err)
}

func TestSensitivityPassthrough(t *testing.T) {
	service := newService(t)

	report, err := service.Sensitivity(context.Background(), SampleProjects()[0], 0.20)
	require.NoError(t, err)
	assert.Equal(t, "R01", report.ProjectID)
	assert.NotEmpty(t, report.Results)
}
