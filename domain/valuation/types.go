package valuation

// DerivedParameters is the Tier-1 parameter set: a pure function of one
// ProjectInput and the fixed literature-constant tables. No randomness enters
// at this stage; every field is immutable once derived.
type DerivedParameters struct {
	// Tender-side parameters
	HasFollowOn       bool
	FollowOnAlpha     float64 // beta prior shape for follow-on award probability
	FollowOnBeta      float64
	FollowOnMultMin   float64 // uniform support of the follow-on value multiplier
	FollowOnMultMax   float64
	BaseComplexity    float64 // infrastructure-type complexity constant
	Complexity        float64 // size-adjusted complexity value
	BaseVolatility    float64
	DesignFlexibility float64
	Milestones        int
	CompetitionMean   float64
	CompetitionStd    float64
	ClientReliability float64
	TimeToDecision    float64 // years until the follow-on decision point

	// Firm-side parameters
	CostRatioBase     float64
	CostRatioMode     float64 // triangular mode after competition shaping
	CapabilityScore   float64 // saturating experience score in [0,1]
	StrategicFit      float64 // in [0.40, 0.95]
	IdleResourceRatio float64 // 1 - current utilization
}

// SampledParameters is one Tier-2 draw: regenerated independently every
// simulation iteration and discarded immediately after use. All values fall
// within the declared support of their distribution.
type SampledParameters struct {
	CostRatio            float64
	FollowOnProb         float64
	FollowOnMultiplier   float64
	StrategicAlignment   float64
	MarketAttractiveness float64
	Volatility           float64
	CapabilityLevel      float64
	ResourceUtilization  float64
	CompetitionLevel     float64
	Complexity           float64
	RecoveryRate         float64
	InteractionCoeff     float64 // uniform draw over the configured gamma bounds
}

// OptionValues holds the seven per-iteration option contributions. Individual
// components may be negative where the formula's branch allows it.
type OptionValues struct {
	FollowOn     float64 `json:"follow_on"`
	Capability   float64 `json:"capability"`
	Resource     float64 `json:"resource"`
	ContractFlex float64 `json:"contract_flex"`
	Switch       float64 `json:"switch"`
	Abandonment  float64 `json:"abandonment"`
	Staging      float64 `json:"staging"`
}

// Sum returns the gross real-option value before adjustments.
func (o OptionValues) Sum() float64 {
	return o.FollowOn + o.Capability + o.Resource + o.ContractFlex +
		o.Switch + o.Abandonment + o.Staging
}

// Adjustments holds the three downward adjustment magnitudes applied to the
// gross option value, in application order.
type Adjustments struct {
	Interaction float64 `json:"interaction"`
	RiskPremium float64 `json:"risk_premium"`
	Deferral    float64 `json:"deferral"`
}

// IterationResult is one Monte Carlo iteration's valuation triple plus its
// components. Ephemeral: retained only until aggregation.
type IterationResult struct {
	NPV         float64
	Options     OptionValues
	GrossROV    float64
	Adjustments Adjustments
	NetROV      float64 // capped at ±CapRatio·|NPV|
	TPV         float64
}

// ProjectResult is the aggregated output record for one project.
type ProjectResult struct {
	ProjectID      string  `json:"project_id"`
	ContractAmount float64 `json:"contract_amount"`
	Iterations     int     `json:"iterations"`

	NPVMean float64 `json:"npv_mean"`
	NPVStd  float64 `json:"npv_std"`
	TPVMean float64 `json:"tpv_mean"`
	TPVStd  float64 `json:"tpv_std"`
	TPVP5   float64 `json:"tpv_p5"`
	TPVP95  float64 `json:"tpv_p95"`

	NetROVMean      float64      `json:"net_rov_mean"`
	OptionMeans     OptionValues `json:"option_means"`
	AdjustmentMeans Adjustments  `json:"adjustment_means"`

	DecisionProbs      map[DecisionCategory]float64 `json:"decision_probs"`
	Decision           DecisionCategory             `json:"decision"`
	DecisionRobustness float64                      `json:"decision_robustness"`

	NPVDecision       DecisionCategory  `json:"npv_decision"`
	DecisionChanged   bool              `json:"decision_changed"`
	DecisionDirection DecisionDirection `json:"decision_direction"`

	// TPVDistribution carries the raw per-iteration TPV samples when the
	// engine is configured to keep them, for downstream plotting. Nil
	// otherwise.
	TPVDistribution []float64 `json:"tpv_distribution,omitempty"`
}
