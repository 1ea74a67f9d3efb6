package engine

import (
	"math"

	"bimrov/domain/valuation"
)

// Structural gates of the option formulas. These are part of the model's
// branch contract rather than tunable calibration, so they stay as constants
// while the magnitude coefficients live in FixedParams.
const (
	followOnProbGate      = 0.50
	followOnAlignmentGate = 0.40
	followOnPenaltyKnee   = 0.50
	followOnPenaltyRate   = 0.15
	adverseProbSlope      = 2.0
)

// optionValues prices the seven options for one iteration. Components may be
// negative where the branch allows it: capability below the skill threshold,
// resource above the overload threshold, and abandonment of a healthy
// project all model real losses, not floored-at-zero upside.
func (e *Engine) optionValues(contract, realization, npv float64, d valuation.DerivedParameters, s valuation.SampledParameters) valuation.OptionValues {
	p := e.params
	var o valuation.OptionValues

	// Competition erodes the operating options' captured value.
	competitionDiscount := 1 - s.CompetitionLevel*p.CompetitionDiscountSlope

	// Follow-on (compound option on the detailed-design stage). All three
	// gates must hold or the option contributes nothing.
	if d.HasFollowOn && npv > 0 && s.FollowOnProb > followOnProbGate && s.StrategicAlignment > followOnAlignmentGate {
		stage2Value := contract * s.FollowOnMultiplier * s.FollowOnProb
		stage2Cost := contract * s.FollowOnMultiplier * s.CostRatio

		var intrinsic float64
		if s.StrategicAlignment < followOnPenaltyKnee {
			penalty := (followOnPenaltyKnee - s.StrategicAlignment) * contract * followOnPenaltyRate
			intrinsic = (stage2Value - stage2Cost) - penalty
		} else {
			intrinsic = math.Max(stage2Value-stage2Cost, 0)
		}

		timeDecay := math.Exp(-p.RiskFreeRate * d.TimeToDecision)
		o.FollowOn = intrinsic * timeDecay * realization * competitionDiscount
	}

	// Capability growth. Below the skill threshold the learning overhead can
	// outweigh the learning benefit; above it, returns diminish with
	// accumulated capability.
	if s.CapabilityLevel < p.CapabilityThreshold {
		benefit := contract * s.Complexity * s.CapabilityLevel * p.LearningBenefitRate
		cost := contract * s.Complexity * (p.CapabilityThreshold - s.CapabilityLevel) * p.LearningCostRate
		o.Capability = benefit - cost
	} else {
		diminishing := 1 - math.Pow(s.CapabilityLevel, 1.5)
		o.Capability = contract * s.Complexity * p.CapabilityGrowthRate * diminishing
	}
	o.Capability *= competitionDiscount

	// Resource utilization. Past the overload threshold the opportunity cost
	// of stretched capacity dominates the thin idle benefit.
	if s.ResourceUtilization > p.OverloadThreshold {
		idle := contract * (1 - s.ResourceUtilization) * p.IdleBenefitRate
		overload := (s.ResourceUtilization - p.OverloadThreshold) * contract * p.OverloadCostRate
		o.Resource = idle - overload
	} else {
		o.Resource = contract * (1 - s.ResourceUtilization) * p.ResourcePremium * s.Complexity
	}
	o.Resource *= competitionDiscount

	// Contract flexibility: scope-reduction value under adverse cost
	// outcomes, scaled by how much the design can actually flex.
	adverseProb := math.Max(0, s.CostRatio-p.AdverseCostThreshold) * adverseProbSlope
	o.ContractFlex = contract * d.DesignFlexibility * adverseProb * p.ContractFlexRate

	// Switch: redeploying the team to an attractive alternative. Complex
	// projects pin their resources down.
	mobility := 1 - s.Complexity*p.MobilityComplexitySlope
	o.Switch = contract * mobility * s.MarketAttractiveness * p.SwitchMobilityRate

	// Abandonment. Walking away from a healthy project destroys value; for
	// a distressed one, salvage plus redeployment can beat sinking the rest.
	if npv > 0 {
		o.Abandonment = -contract * p.AbandonPenaltyRate
	} else if npv < contract*p.AbandonNPVFloorRatio || s.StrategicAlignment < p.AbandonAlignmentFloor {
		salvage := contract * p.CompletionRatio * p.SalvageFactor
		reallocation := contract * (1 - p.CompletionRatio) * s.ResourceUtilization * s.RecoveryRate
		sunk := contract * p.CompletionRatio
		o.Abandonment = math.Max(salvage+reallocation-sunk, 0)
	}

	// Staged investment: each review checkpoint buys information, up to the
	// configured horizon.
	infoFactor := math.Min(d.TimeToDecision, p.StageInfoHorizon) / p.StageInfoHorizon
	o.Staging = contract * float64(d.Milestones) * infoFactor * p.StageCheckpointValue

	return o
}
