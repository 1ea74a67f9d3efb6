package valuation

import (
	"math"

	"bimrov/domain/tender"
)

// Tier-1 derivation tables. Constants follow the calibration literature:
// complexity and volatility from cost-overrun studies (Flyvbjerg et al. 2003),
// competition parameters and cost ratios from industry association statistics
// (KENCA 2023), capability saturation from BIM adoption surveys (Lee & Yu 2020).

var baseComplexity = map[tender.InfraType]float64{
	tender.InfraRoad:   0.60,
	tender.InfraBridge: 0.85,
	tender.InfraTunnel: 1.00,
}

var designFlexibility = map[tender.InfraType]float64{
	tender.InfraRoad:   1.00,
	tender.InfraBridge: 0.65,
	tender.InfraTunnel: 0.48,
}

var baseVolatility = map[tender.InfraType]float64{
	tender.InfraRoad:   0.22,
	tender.InfraBridge: 0.35,
	tender.InfraTunnel: 0.42,
}

var designReviews = map[tender.InfraType]int{
	tender.InfraRoad:   3,
	tender.InfraBridge: 4,
	tender.InfraTunnel: 4,
}

var valueMultiplier = map[tender.InfraType]float64{
	tender.InfraRoad:   1.67,
	tender.InfraBridge: 1.84,
	tender.InfraTunnel: 1.84,
}

type competitionParams struct {
	mean, std float64
}

var competitionByProcurement = map[tender.ProcurementType]competitionParams{
	tender.ProcurementOpen:      {mean: 0.72, std: 0.14},
	tender.ProcurementLimited:   {mean: 0.48, std: 0.10},
	tender.ProcurementNominated: {mean: 0.21, std: 0.04},
}

var clientReliability = map[tender.ClientType]float64{
	tender.ClientCentral:    0.92,
	tender.ClientPublicCorp: 0.88,
	tender.ClientLocal:      0.81,
}

var costRatioBase = map[tender.FirmSize]float64{
	tender.FirmLarge:  0.87,
	tender.FirmMedium: 0.92,
	tender.FirmSmall:  0.97,
}

const (
	// Complexity adjustment: kappa_adj = 1 + epsilon*(S/S_ref - 1).
	complexityEpsilon = 0.13
	referenceAmount   = 100.0 // million currency units

	// Capability saturation threshold in years of experience.
	saturationYears = 10

	// Strategic fit: 0.40 + 0.55 * min(N, 10)/10.
	strategicFitFloor = 0.40
	strategicFitSlope = 0.55
	similarCountRef   = 10

	// Follow-on award probability beta priors.
	followOnAlphaBasic = 3.2
	followOnBetaBasic  = 2.3
	followOnAlphaNone  = 1.0
	followOnBetaNone   = 9.0

	// Follow-on multiplier uniform support: +/-15% around the type multiplier.
	followOnMultSpread = 0.15

	// Cost-ratio triangular shaping.
	costRatioCompetitionSlope = 0.10
	costRatioDetailedPenalty  = 0.03
	costRatioModeCap          = 0.98
)

// Derive maps one validated ProjectInput to its Tier-1 modeling parameters.
// Pure: same input always yields the same output, and the input is not
// mutated. Callers are expected to have run input.Validate() first; Derive
// repeats the check so it cannot silently produce parameters from bad facts.
func Derive(input tender.ProjectInput) (DerivedParameters, error) {
	if err := input.Validate(); err != nil {
		return DerivedParameters{}, err
	}

	comp := competitionByProcurement[input.ProcurementType]

	d := DerivedParameters{
		HasFollowOn:       input.HasFollowOn(),
		BaseComplexity:    baseComplexity[input.InfraType],
		BaseVolatility:    baseVolatility[input.InfraType],
		DesignFlexibility: designFlexibility[input.InfraType],
		Milestones:        designReviews[input.InfraType],
		CompetitionMean:   comp.mean,
		CompetitionStd:    comp.std,
		ClientReliability: clientReliability[input.ClientType],
		TimeToDecision:    input.ContractDuration,
		CostRatioBase:     costRatioBase[input.FirmSize],
		IdleResourceRatio: 1 - input.CurrentUtilization,
	}

	// Size-adjusted complexity.
	adjustment := 1 + complexityEpsilon*(input.ContractAmount/referenceAmount-1)
	d.Complexity = d.BaseComplexity * adjustment

	// Follow-on priors. Detailed-design tenders keep a near-zero probability
	// prior and no multiplier support.
	if d.HasFollowOn {
		d.FollowOnAlpha = followOnAlphaBasic
		d.FollowOnBeta = followOnBetaBasic
		mult := valueMultiplier[input.InfraType]
		d.FollowOnMultMin = mult * (1 - followOnMultSpread)
		d.FollowOnMultMax = mult * (1 + followOnMultSpread)
	} else {
		d.FollowOnAlpha = followOnAlphaNone
		d.FollowOnBeta = followOnBetaNone
	}

	// Capability score saturates at 1.0 once experience reaches the threshold.
	if input.ExperienceYears >= saturationYears {
		d.CapabilityScore = 1.0
	} else {
		d.CapabilityScore = math.Log(1+float64(input.ExperienceYears)) /
			math.Log(1+float64(saturationYears))
	}

	n := input.SimilarCount
	if n > similarCountRef {
		n = similarCountRef
	}
	d.StrategicFit = strategicFitFloor + strategicFitSlope*float64(n)/float64(similarCountRef)

	// Cost-ratio triangular mode: stronger expected competition pushes bids
	// lower and the realized cost ratio up; detailed-design rounds compete
	// harder still.
	mode := d.CostRatioBase + comp.mean*costRatioCompetitionSlope
	if input.DesignPhase == tender.PhaseDetailed {
		mode += costRatioDetailedPenalty
	}
	if mode > costRatioModeCap {
		mode = costRatioModeCap
	}
	d.CostRatioMode = mode

	return d, nil
}
