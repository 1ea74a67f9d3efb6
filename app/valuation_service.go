// Package app wires the valuation engine into batch-level workflows: many
// projects in, one result or one validation error per project out.
package app

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"bimrov/adapters/rng"
	"bimrov/domain/tender"
	"bimrov/domain/valuation"
	"bimrov/internal/config"
	"bimrov/internal/engine"
	"bimrov/internal/logx"
)

// ProjectOutcome pairs one input row with either its result or the error
// that rejected it. A batch always yields exactly one outcome per row.
type ProjectOutcome struct {
	Input  tender.ProjectInput      `json:"input"`
	Result *valuation.ProjectResult `json:"result,omitempty"`
	Err    error                    `json:"-"`
	ErrMsg string                   `json:"error,omitempty"`
}

// BatchResult is the outcome set of one batch run.
type BatchResult struct {
	RunID     string           `json:"run_id"`
	Outcomes  []ProjectOutcome `json:"outcomes"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// ValuationService runs batches against one configured engine.
type ValuationService struct {
	engine *engine.Engine
	log    *logx.Logger
}

// NewValuationService builds a service (and its engine) from run settings and
// a fixed-parameter table. Construction fails on invalid configuration.
func NewValuationService(cfg config.SimConfig, params config.FixedParams) (*ValuationService, error) {
	eng, err := engine.New(cfg, params, rng.NewHashedStreamFactory(cfg.Seed))
	if err != nil {
		return nil, err
	}
	return &ValuationService{engine: eng, log: logx.Default}, nil
}

// Engine exposes the underlying engine for callers that need single-project
// evaluation or sensitivity sweeps.
func (s *ValuationService) Engine() *engine.Engine {
	return s.engine
}

// EvaluateBatch evaluates every project concurrently. Each project runs under
// its own derived context, and one project's validation failure or abort
// never touches the others; failures are reported per row.
func (s *ValuationService) EvaluateBatch(ctx context.Context, inputs []tender.ProjectInput) *BatchResult {
	batch := &BatchResult{
		RunID:    uuid.NewString(),
		Outcomes: make([]ProjectOutcome, len(inputs)),
	}

	var wg sync.WaitGroup
	for i, input := range inputs {
		i, input := i, input
		wg.Add(1)
		go func() {
			defer wg.Done()

			projectCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			outcome := ProjectOutcome{Input: input}
			res, err := s.engine.Evaluate(projectCtx, input)
			if err != nil {
				outcome.Err = err
				outcome.ErrMsg = err.Error()
			} else {
				outcome.Result = res
			}
			batch.Outcomes[i] = outcome
		}()
	}
	wg.Wait()

	for _, o := range batch.Outcomes {
		if o.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}
	s.log.Info("batch %s: %d evaluated, %d rejected", batch.RunID, batch.Succeeded, batch.Failed)
	return batch
}

// Sensitivity runs the +/-delta sweep for one project.
func (s *ValuationService) Sensitivity(ctx context.Context, input tender.ProjectInput, delta float64) (*engine.SensitivityReport, error) {
	return s.engine.Sensitivity(ctx, input, delta)
}
