package engine

import (
	"context"
	"math"
	"reflect"
	"testing"

	exprand "golang.org/x/exp/rand"

	"bimrov/adapters/rng"
	"bimrov/domain/tender"
	"bimrov/domain/valuation"
	"bimrov/internal/config"
	"bimrov/internal/sampler"
)

func roadBasicInput() tender.ProjectInput {
	return tender.ProjectInput{
		ProjectID:          "E-001",
		ContractAmount:     520,
		InfraType:          tender.InfraRoad,
		DesignPhase:        tender.PhaseBasic,
		ContractDuration:   2.5,
		ProcurementType:    tender.ProcurementOpen,
		ClientType:         tender.ClientCentral,
		FirmSize:           tender.FirmMedium,
		ExperienceYears:    5,
		SimilarCount:       8,
		CurrentUtilization: 0.65,
	}
}

func newEngine(t *testing.T, cfg config.SimConfig) *Engine {
	t.Helper()
	e, err := New(cfg, config.DefaultFixedParams(), rng.NewHashedStreamFactory(cfg.Seed))
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	return e
}

// TestEvaluateDeterministicAcrossWorkerCounts is the core reproducibility
// property: the same seed must yield bit-identical results no matter how the
// chunks were scheduled.
func TestEvaluateDeterministicAcrossWorkerCounts(t *testing.T) {
	input := roadBasicInput()

	var baseline *valuation.ProjectResult
	for _, workers := range []int{1, 2, 4, 8} {
		cfg := config.SimConfig{Iterations: 2000, Seed: 42, Workers: workers}
		e := newEngine(t, cfg)

		res, err := e.Evaluate(context.Background(), input)
		if err != nil {
			t.Fatalf("Evaluate with %d workers failed: %v", workers, err)
		}
		if baseline == nil {
			baseline = res
			continue
		}
		if !reflect.DeepEqual(baseline, res) {
			t.Errorf("Result with %d workers differs from single-worker baseline", workers)
		}
	}
}

func TestEvaluateDeterministicAcrossRuns(t *testing.T) {
	cfg := config.SimConfig{Iterations: 1000, Seed: 7, Workers: 4}
	input := roadBasicInput()

	first, err := newEngine(t, cfg).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	second, err := newEngine(t, cfg).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical results for identical seed and settings")
	}
}

func TestEvaluateDiffersAcrossSeeds(t *testing.T) {
	input := roadBasicInput()

	a, err := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 1, Workers: 2}).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	b, err := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 2, Workers: 2}).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if a.TPVMean == b.TPVMean {
		t.Error("Expected different seeds to move the TPV mean")
	}
}

// TestIterationCapInvariant checks |ROV_net| <= CapRatio*|NPV| and the TPV
// identity on every iteration across a large seeded sweep.
func TestIterationCapInvariant(t *testing.T) {
	cfg := config.SimConfig{Iterations: 1000, Seed: 42, Workers: 1}
	e := newEngine(t, cfg)
	params := config.DefaultFixedParams()

	derived, err := valuation.Derive(roadBasicInput())
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	smp := sampler.New(exprand.NewSource(42), params.InteractionGammaMin, params.InteractionGammaMax)
	realization := params.InfraRealization[tender.InfraRoad]

	for i := 0; i < 20_000; i++ {
		drawn := smp.Sample(derived)
		res := e.runIteration(520, realization, derived, drawn)

		capValue := params.CapRatio*math.Abs(res.NPV) + 1e-9
		if math.Abs(res.NetROV) > capValue {
			t.Fatalf("iteration %d: |NetROV| %.6f exceeds cap %.6f", i, math.Abs(res.NetROV), capValue)
		}
		if math.Abs(res.TPV-(res.NPV+res.NetROV)) > 1e-9 {
			t.Fatalf("iteration %d: TPV %.6f != NPV %.6f + NetROV %.6f", i, res.TPV, res.NPV, res.NetROV)
		}
	}
}

// TestInteractionGammaBands pins the active-count banding of the interaction
// coefficient.
func TestInteractionGammaBands(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 1, Workers: 1})
	p := config.DefaultFixedParams()
	span := p.InteractionGammaMax - p.InteractionGammaMin

	active := func(n int) valuation.OptionValues {
		var o valuation.OptionValues
		vals := []*float64{&o.FollowOn, &o.Capability, &o.Resource, &o.ContractFlex, &o.Switch, &o.Abandonment, &o.Staging}
		for i := 0; i < n; i++ {
			*vals[i] = 10
		}
		return o
	}

	tests := []struct {
		activeCount    int
		bandLo, bandHi float64
	}{
		{0, 0, 1.0 / 3.0},
		{3, 0, 1.0 / 3.0},
		{4, 1.0 / 3.0, 2.0 / 3.0},
		{5, 1.0 / 3.0, 2.0 / 3.0},
		{6, 2.0 / 3.0, 1},
		{7, 2.0 / 3.0, 1},
	}

	for _, test := range tests {
		for _, coeff := range []float64{p.InteractionGammaMin, 0.19, p.InteractionGammaMax} {
			gamma := e.interactionGamma(active(test.activeCount), 100, coeff)

			lo := p.InteractionGammaMin + test.bandLo*span - 1e-12
			hi := p.InteractionGammaMin + test.bandHi*span + 1e-12
			if gamma < lo || gamma > hi {
				t.Errorf("%d active, coeff %.2f: gamma %.4f outside band [%.4f, %.4f]",
					test.activeCount, coeff, gamma, lo, hi)
			}
		}
	}

	// Monotone in the active count for a fixed coefficient.
	prev := -1.0
	for _, n := range []int{1, 4, 6} {
		gamma := e.interactionGamma(active(n), 100, 0.19)
		if gamma <= prev {
			t.Errorf("gamma not increasing with active count at n=%d", n)
		}
		prev = gamma
	}
}

// TestAggregateProbabilitiesSumToOne checks the category distribution and the
// robustness figure for a full run.
func TestAggregateProbabilitiesSumToOne(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 2000, Seed: 42, Workers: 4})

	res, err := e.Evaluate(context.Background(), roadBasicInput())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	var total float64
	for _, cat := range valuation.Categories() {
		p, ok := res.DecisionProbs[cat]
		if !ok {
			t.Errorf("Missing probability for category %s", cat)
		}
		if p < 0 || p > 1 {
			t.Errorf("Probability for %s = %.4f outside [0, 1]", cat, p)
		}
		total += p
	}
	if math.Abs(total-1) > 1e-9 {
		t.Errorf("Probabilities sum to %.6f, want 1", total)
	}

	if res.DecisionRobustness != res.DecisionProbs[res.Decision] {
		t.Errorf("Robustness %.4f does not match the winning category's probability %.4f",
			res.DecisionRobustness, res.DecisionProbs[res.Decision])
	}
}

// TestRoadBasicScenario pins the qualitative profile of the reference
// basic-design road project: profitable, option value on top of NPV, and at
// least a Participate signal.
func TestRoadBasicScenario(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 5000, Seed: 42, Workers: 4})

	res, err := e.Evaluate(context.Background(), roadBasicInput())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	if res.NPVMean <= 0 {
		t.Errorf("Expected positive NPV mean, got %.4f", res.NPVMean)
	}
	if res.TPVMean <= res.NPVMean {
		t.Errorf("Expected options to lift TPV mean %.4f above NPV mean %.4f", res.TPVMean, res.NPVMean)
	}
	if res.OptionMeans.FollowOn <= 0 {
		t.Errorf("Expected a positive follow-on option mean, got %.6f", res.OptionMeans.FollowOn)
	}
	if res.OptionMeans.Staging <= 0 {
		t.Errorf("Expected a positive staging option mean, got %.6f", res.OptionMeans.Staging)
	}
	if res.Decision != valuation.DecisionParticipate && res.Decision != valuation.DecisionStrongParticipate {
		t.Errorf("Expected at least Participate, got %s", res.Decision)
	}
	if res.TPVP5 > res.TPVMean || res.TPVMean > res.TPVP95 {
		t.Errorf("Percentiles do not bracket the mean: p5=%.2f mean=%.2f p95=%.2f",
			res.TPVP5, res.TPVMean, res.TPVP95)
	}
}

// TestHealthyProjectAbandonmentPenalty: with the cost ratio bounded below
// one, every simulated NPV is positive, so abandonment must price as the
// fixed walk-away penalty on every iteration.
func TestHealthyProjectAbandonmentPenalty(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 9, Workers: 1})
	params := config.DefaultFixedParams()

	derived, err := valuation.Derive(roadBasicInput())
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	smp := sampler.New(exprand.NewSource(9), params.InteractionGammaMin, params.InteractionGammaMax)
	contract := 520.0
	want := -contract * params.AbandonPenaltyRate

	for i := 0; i < 10_000; i++ {
		drawn := smp.Sample(derived)
		res := e.runIteration(contract, 0.25, derived, drawn)
		if res.NPV <= 0 {
			t.Fatalf("iteration %d: NPV %.6f not positive with cost ratio below one", i, res.NPV)
		}
		if math.Abs(res.Options.Abandonment-want) > 1e-9 {
			t.Fatalf("iteration %d: abandonment %.6f, want %.6f", i, res.Options.Abandonment, want)
		}
	}
}

// TestDistressedSmallFirm exercises the loss-making branches directly: an
// overloaded one-year-old small firm with a crafted deeply negative NPV. The
// salvage branch must never go negative, the follow-on gates must hold shut,
// and the unskilled learning cost must dominate the capability option on
// average.
func TestDistressedSmallFirm(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 3, Workers: 1})
	params := config.DefaultFixedParams()

	derived, err := valuation.Derive(tender.ProjectInput{
		ProjectID:          "E-002",
		ContractAmount:     120,
		InfraType:          tender.InfraBridge,
		DesignPhase:        tender.PhaseDetailed,
		ContractDuration:   1.5,
		ProcurementType:    tender.ProcurementNominated,
		ClientType:         tender.ClientLocal,
		FirmSize:           tender.FirmSmall,
		ExperienceYears:    1,
		SimilarCount:       1,
		CurrentUtilization: 0.95,
	})
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	smp := sampler.New(exprand.NewSource(3), params.InteractionGammaMin, params.InteractionGammaMax)
	contract := 120.0

	var capabilitySum float64
	for i := 0; i < 1000; i++ {
		drawn := smp.Sample(derived)
		// Deep in distress: NPV far below the activation floor.
		opts := e.optionValues(contract, 0.42, -50, derived, drawn)

		if opts.Abandonment < 0 {
			t.Fatalf("iteration %d: distressed abandonment %.6f must not be negative", i, opts.Abandonment)
		}
		if opts.FollowOn != 0 {
			t.Fatalf("iteration %d: follow-on %.6f must be gated off when NPV <= 0", i, opts.FollowOn)
		}
		capabilitySum += opts.Capability
	}

	if capabilitySum >= 0 {
		t.Errorf("Expected learning cost to dominate for a one-year firm, capability mean %.6f", capabilitySum/1000)
	}
}

// TestFollowOnRespondsToPrior: raising the follow-on award probability prior
// must not lower the follow-on option's mean value under common random
// numbers.
func TestFollowOnRespondsToPrior(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 5000, Seed: 42, Workers: 4})
	input := roadBasicInput()

	derived, err := valuation.Derive(input)
	if err != nil {
		t.Fatalf("Derive failed: %v", err)
	}

	base, err := e.evaluateDerived(context.Background(), input, derived)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	// Shift the beta prior's mean up, concentration preserved.
	nu := derived.FollowOnAlpha + derived.FollowOnBeta
	boosted := derived
	boosted.FollowOnAlpha = 0.90 * nu
	boosted.FollowOnBeta = 0.10 * nu

	high, err := e.evaluateDerived(context.Background(), input, boosted)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if high.OptionMeans.FollowOn < base.OptionMeans.FollowOn {
		t.Errorf("Follow-on mean fell from %.4f to %.4f when the award prior rose",
			base.OptionMeans.FollowOn, high.OptionMeans.FollowOn)
	}
}

// TestConvergence compares a small and a large run of the same project; the
// means must agree within Monte Carlo error.
func TestConvergence(t *testing.T) {
	input := roadBasicInput()

	small, err := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 42, Workers: 4}).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	large, err := newEngine(t, config.SimConfig{Iterations: 20_000, Seed: 42, Workers: 4}).Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	tolerance := 0.10*math.Abs(large.TPVMean) + 4*large.TPVStd/math.Sqrt(1000)
	if diff := math.Abs(small.TPVMean - large.TPVMean); diff > tolerance {
		t.Errorf("TPV means diverge: %.4f vs %.4f (tolerance %.4f)", small.TPVMean, large.TPVMean, tolerance)
	}
}

func TestEvaluateRejectsInvalidInput(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 1000, Seed: 1, Workers: 1})

	input := roadBasicInput()
	input.ContractAmount = 0

	if _, err := e.Evaluate(context.Background(), input); !tender.IsValidationError(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestEvaluateHonorsCancellation(t *testing.T) {
	e := newEngine(t, config.SimConfig{Iterations: 20_000, Seed: 1, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Evaluate(ctx, roadBasicInput()); err == nil {
		t.Error("Expected an error from a cancelled context")
	}
}

func TestKeepTPVDistribution(t *testing.T) {
	cfg := config.SimConfig{Iterations: 1000, Seed: 5, Workers: 2, KeepTPV: true}
	res, err := newEngine(t, cfg).Evaluate(context.Background(), roadBasicInput())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(res.TPVDistribution) != 1000 {
		t.Errorf("Expected 1000 retained TPV values, got %d", len(res.TPVDistribution))
	}
}
