// Package sampler draws the Tier-2 stochastic parameter set for each Monte
// Carlo iteration. Distribution shapes follow the assignment policy of the
// source calibration (Vose 2008 criteria): beta for bounded probabilities,
// triangular for range-constrained quantities with a most-likely value,
// uniform for range-only quantities, and (truncated) normal for composites.
package sampler

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"bimrov/domain/valuation"
)

const (
	costRatioMin = 0.80
	costRatioMax = 0.98

	alignmentSpread = 0.15
	alignmentFloor  = 0.30
	alignmentCap    = 0.95

	marketMin  = 0.35
	marketMode = 0.55
	marketMax  = 0.75

	recoveryMin  = 0.10
	recoveryMode = 0.30
	recoveryMax  = 0.50

	// Beta concentration for the capability draw; the shape parameters are
	// chosen so the mean matches the derived capability score.
	capabilityConcentration = 40.0

	volatilityNoiseScale = 0.18
	volatilityFloor      = 0.05

	utilizationJitter = 0.05
	utilizationMin    = 0.40
	utilizationMax    = 0.95

	complexityStd = 0.08
	complexityMin = 0.10
	complexityMax = 1.20
)

// Sampler draws one independent SampledParameters set per call. It keeps no
// state between calls other than the advancing random source, so iterations
// correlate only through the shared DerivedParameters.
type Sampler struct {
	src      rand.Source
	gammaMin float64
	gammaMax float64
}

// New creates a sampler over the given source. The gamma bounds are the
// configured support of the interaction-discount coefficient.
func New(src rand.Source, gammaMin, gammaMax float64) *Sampler {
	return &Sampler{src: src, gammaMin: gammaMin, gammaMax: gammaMax}
}

// Sample draws a full Tier-2 parameter set from the derived Tier-1 values.
// The draw order is fixed; changing it changes every seeded run.
func (s *Sampler) Sample(d valuation.DerivedParameters) valuation.SampledParameters {
	var out valuation.SampledParameters

	// Competition level: truncated normal on [0, 1].
	out.CompetitionLevel = clamp(
		distuv.Normal{Mu: d.CompetitionMean, Sigma: d.CompetitionStd, Src: s.src}.Rand(),
		0, 1)

	// Cost ratio: triangular around the competition-shaped mode.
	mode := clamp(d.CostRatioMode, costRatioMin, costRatioMax)
	out.CostRatio = distuv.NewTriangle(costRatioMin, costRatioMax, mode, s.src).Rand()

	// Follow-on award probability and multiplier. The beta prior is near-zero
	// for detailed-design tenders; the multiplier support collapses to zero
	// there as well.
	out.FollowOnProb = distuv.Beta{Alpha: d.FollowOnAlpha, Beta: d.FollowOnBeta, Src: s.src}.Rand()
	out.FollowOnMultiplier = distuv.Uniform{Min: d.FollowOnMultMin, Max: d.FollowOnMultMax, Src: s.src}.Rand()

	// Strategic alignment: triangular around the derived fit score.
	lo := d.StrategicFit - alignmentSpread
	if lo < alignmentFloor {
		lo = alignmentFloor
	}
	hi := d.StrategicFit + alignmentSpread
	if hi > alignmentCap {
		hi = alignmentCap
	}
	out.StrategicAlignment = distuv.NewTriangle(lo, hi, clamp(d.StrategicFit, lo, hi), s.src).Rand()

	// Market attractiveness of alternative engagements.
	out.MarketAttractiveness = distuv.NewTriangle(marketMin, marketMax, marketMode, s.src).Rand()

	// Project complexity: truncated normal around the size-adjusted value.
	out.Complexity = clamp(
		distuv.Normal{Mu: d.Complexity, Sigma: complexityStd, Src: s.src}.Rand(),
		complexityMin, complexityMax)

	// Volatility: dynamic adjustment by realized complexity relative to the
	// infrastructure-type base, plus a normal noise term.
	adjusted := d.BaseVolatility * (1 + (out.Complexity-d.BaseComplexity)/d.BaseComplexity)
	noise := distuv.Normal{Mu: 0, Sigma: volatilityNoiseScale * d.BaseVolatility, Src: s.src}.Rand()
	out.Volatility = adjusted + noise
	if out.Volatility < volatilityFloor {
		out.Volatility = volatilityFloor
	}

	// Capability level: beta with mean matched to the derived score.
	mean := clamp(d.CapabilityScore, 0.02, 0.98)
	out.CapabilityLevel = distuv.Beta{
		Alpha: mean * capabilityConcentration,
		Beta:  (1 - mean) * capabilityConcentration,
		Src:   s.src,
	}.Rand()

	// Resource utilization: uniform jitter around the current level,
	// truncated to the plausible operating band.
	current := 1 - d.IdleResourceRatio
	jitter := distuv.Uniform{Min: -utilizationJitter, Max: utilizationJitter, Src: s.src}.Rand()
	out.ResourceUtilization = clamp(current+jitter, utilizationMin, utilizationMax)

	// Salvage recovery rate on abandonment.
	out.RecoveryRate = distuv.NewTriangle(recoveryMin, recoveryMax, recoveryMode, s.src).Rand()

	// Interaction-discount coefficient over the configured support.
	out.InteractionCoeff = distuv.Uniform{Min: s.gammaMin, Max: s.gammaMax, Src: s.src}.Rand()

	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
