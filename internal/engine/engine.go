// Package engine runs the Monte Carlo valuation: N independent iterations,
// each drawing a Tier-2 sample, pricing seven real options, applying the
// three adjustments and the cap, then reducing to one ProjectResult.
//
// Iterations are partitioned into fixed-size chunks, each with its own
// seeded random stream keyed by (project, chunk). Chunk results land in a
// preallocated slice at their iteration index, so the reduction order - and
// therefore the aggregated output - is bit-identical for a given seed no
// matter how many workers the chunks were scheduled across.
package engine

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"bimrov/domain/tender"
	"bimrov/domain/valuation"
	"bimrov/internal/config"
	"bimrov/internal/errors"
	"bimrov/internal/logx"
	"bimrov/internal/sampler"
	"bimrov/ports"
)

// chunkSize fixes the iteration partition. It is part of the reproducibility
// contract: changing it reseeds every chunk stream.
const chunkSize = 500

// Engine evaluates projects against one immutable parameter table. Instances
// hold no mutable state and are safe for concurrent use.
type Engine struct {
	cfg        config.SimConfig
	params     config.FixedParams
	thresholds valuation.DecisionThresholds
	streams    ports.StreamFactory
	log        *logx.Logger
}

// New constructs an engine, rejecting unsupported run settings or parameter
// overrides before any simulation can start.
func New(cfg config.SimConfig, params config.FixedParams, streams ports.StreamFactory) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if streams == nil {
		return nil, errors.ConfigInvalid("stream factory is required")
	}
	workers := cfg.Workers
	if workers == 0 {
		workers = config.DefaultSimConfig().Workers
	}
	cfg.Workers = workers
	return &Engine{
		cfg:        cfg,
		params:     params,
		thresholds: valuation.DefaultThresholds(),
		streams:    streams,
		log:        logx.Default,
	}, nil
}

// Thresholds returns the decision cut rules the engine classifies with.
func (e *Engine) Thresholds() valuation.DecisionThresholds {
	return e.thresholds
}

// Iterations returns the configured iteration count.
func (e *Engine) Iterations() int {
	return e.cfg.Iterations
}

// Evaluate runs the full simulation for one project. Malformed input fails
// fast with a validation error before any iteration runs.
func (e *Engine) Evaluate(ctx context.Context, input tender.ProjectInput) (*valuation.ProjectResult, error) {
	derived, err := valuation.Derive(input)
	if err != nil {
		return nil, errors.Wrapf(err, "project %s rejected", input.ProjectID)
	}
	return e.evaluateDerived(ctx, input, derived)
}

// evaluateDerived is the shared simulation path for Evaluate and the
// sensitivity sweep, which re-enters with perturbed derived parameters.
func (e *Engine) evaluateDerived(ctx context.Context, input tender.ProjectInput, derived valuation.DerivedParameters) (*valuation.ProjectResult, error) {
	n := e.cfg.Iterations
	realization := e.params.InfraRealization[input.InfraType]

	results := make([]valuation.IterationResult, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)

	numChunks := (n + chunkSize - 1) / chunkSize
	for c := 0; c < numChunks; c++ {
		chunk := c
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			src := e.streams.Stream(input.ProjectID, chunk)
			smp := sampler.New(src, e.params.InteractionGammaMin, e.params.InteractionGammaMax)

			start := chunk * chunkSize
			end := start + chunkSize
			if end > n {
				end = n
			}
			for i := start; i < end; i++ {
				drawn := smp.Sample(derived)
				results[i] = e.runIteration(input.ContractAmount, realization, derived, drawn)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := e.aggregate(input, results)
	e.log.Debug("evaluated %s: npv=%.2f tpv=%.2f decision=%s",
		input.ProjectID, res.NPVMean, res.TPVMean, res.Decision)
	return res, nil
}

// runIteration executes the per-iteration pipeline: NPV, seven options,
// interaction discount, risk premium, deferral cost, cap, TPV. Every formula
// is total over the sampler's output domain; an iteration cannot fail.
func (e *Engine) runIteration(contract, realization float64, d valuation.DerivedParameters, s valuation.SampledParameters) valuation.IterationResult {
	p := e.params

	npv := contract * (1 - s.CostRatio)

	opts := e.optionValues(contract, realization, npv, d, s)
	gross := opts.Sum()

	// Interaction discount: simultaneously exercisable options are not fully
	// additive. Gamma grows with the number of active options.
	gamma := e.interactionGamma(opts, contract, s.InteractionCoeff)
	interaction := gross * gamma
	rovAdj := gross - interaction

	// Risk premium for the illiquidity of real (non-tradable) options.
	rho := p.RiskPremiumBase + s.Volatility*p.RiskPremiumVolatility + s.Complexity*p.RiskPremiumComplexity
	riskPremium := rovAdj * rho
	rovRisk := rovAdj - riskPremium

	// Deferral cost: committing now forgoes attractive alternatives, more so
	// when strategic fit is poor and the decision horizon is long.
	deferral := contract * (1 - s.StrategicAlignment) * s.MarketAttractiveness *
		p.DeferralMultiplier * math.Sqrt(d.TimeToDecision)
	netRaw := rovRisk - deferral

	// Two-sided cap: |ROV_net| <= CapRatio * |NPV|.
	capValue := p.CapRatio * math.Abs(npv)
	net := netRaw
	if net > capValue {
		net = capValue
	} else if net < -capValue {
		net = -capValue
	}

	return valuation.IterationResult{
		NPV:      npv,
		Options:  opts,
		GrossROV: gross,
		Adjustments: valuation.Adjustments{
			Interaction: interaction,
			RiskPremium: riskPremium,
			Deferral:    deferral,
		},
		NetROV: net,
		TPV:    npv + net,
	}
}

// interactionGamma maps the count of active options onto the configured gamma
// support. The support splits into three bands (up to 3 active, 4-5, 6-7);
// the sampled coefficient positions gamma inside its band, so gamma is
// monotone in the active count and stays within [GammaMin, GammaMax].
func (e *Engine) interactionGamma(opts valuation.OptionValues, contract, sampledGamma float64) float64 {
	p := e.params
	eps := p.ActiveOptionEpsilon * contract

	active := 0
	for _, v := range []float64{
		opts.FollowOn, opts.Capability, opts.Resource, opts.ContractFlex,
		opts.Switch, opts.Abandonment, opts.Staging,
	} {
		if math.Abs(v) > eps {
			active++
		}
	}

	span := p.InteractionGammaMax - p.InteractionGammaMin
	if span <= 0 {
		return p.InteractionGammaMin
	}

	var bandLo, bandHi float64
	switch {
	case active >= 6:
		bandLo, bandHi = 2.0/3.0, 1.0
	case active >= 4:
		bandLo, bandHi = 1.0/3.0, 2.0/3.0
	default:
		bandLo, bandHi = 0, 1.0/3.0
	}

	// Position inside the band by the sampled coefficient's quantile.
	u := (sampledGamma - p.InteractionGammaMin) / span
	frac := bandLo + u*(bandHi-bandLo)
	return p.InteractionGammaMin + frac*span
}
