package config

import (
	"os"
	"runtime"
	"strconv"

	"bimrov/domain/tender"
	"bimrov/internal/errors"
)

// Simulation iteration bounds. The default of 5,000 is where the source
// calibration observed the TPV coefficient of variation dropping below 1%;
// that is an empirical observation, not an algorithmic guarantee.
const (
	MinIterations     = 1_000
	DefaultIterations = 5_000
	MaxIterations     = 20_000
)

// SimConfig holds the Monte Carlo run settings for one engine instance.
type SimConfig struct {
	Iterations int
	Seed       int64
	Workers    int  // concurrent chunk workers; 0 means GOMAXPROCS
	KeepTPV    bool // retain the raw per-iteration TPV distribution
}

// DefaultSimConfig returns the standard run settings with a fixed seed of 0
// (reproducible by default; callers wanting fresh draws supply their own seed).
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Iterations: DefaultIterations,
		Workers:    runtime.GOMAXPROCS(0),
	}
}

// Validate rejects unsupported run settings at engine construction time.
func (c SimConfig) Validate() error {
	if c.Iterations < MinIterations || c.Iterations > MaxIterations {
		return errors.ConfigInvalid("iterations must be within [1000, 20000]")
	}
	if c.Workers < 0 {
		return errors.ConfigInvalid("workers must be non-negative")
	}
	return nil
}

// FixedParams is the immutable literature-constant table the engine is
// constructed with. Every coefficient is overridable; the defaults carry the
// source calibration (Smith & Nau 1995, Borison 2005, Dixit & Pindyck 1994,
// Trigeorgis 1993/1996, Flyvbjerg et al. 2003). The calibration of the
// adjustment magnitudes is a known open question in the source material, which
// is exactly why they live here rather than in the formulas.
type FixedParams struct {
	RiskFreeRate float64

	// Option exercise coefficients.
	CapabilityGrowthRate    float64
	ResourcePremium         float64
	ContractFlexRate        float64
	SwitchMobilityRate      float64
	StageCheckpointValue    float64
	CapabilityThreshold     float64 // skill level below which learning costs dominate
	LearningBenefitRate     float64
	LearningCostRate        float64
	OverloadThreshold       float64 // utilization above which idle value flips negative
	OverloadCostRate        float64
	IdleBenefitRate         float64
	AdverseCostThreshold    float64 // cost-ratio overrun point for contract flexibility
	MobilityComplexitySlope float64
	AbandonPenaltyRate      float64 // explicit loss from abandoning a healthy project
	AbandonNPVFloorRatio    float64 // NPV/contract ratio below which abandonment activates
	AbandonAlignmentFloor   float64
	CompletionRatio         float64
	SalvageFactor           float64
	StageInfoHorizon        float64 // years over which staged checkpoints add information

	// Adjustment coefficients.
	InteractionGammaMin   float64
	InteractionGammaMax   float64
	RiskPremiumBase       float64
	RiskPremiumVolatility float64
	RiskPremiumComplexity float64
	DeferralMultiplier    float64
	CapRatio              float64 // |ROV_net| <= CapRatio * |NPV|

	// Competition discount applied to the operating options.
	CompetitionDiscountSlope float64

	// Negligibility threshold for counting an option as active, as a
	// fraction of the contract amount.
	ActiveOptionEpsilon float64

	// Per-infrastructure realization rates of the follow-on opportunity.
	InfraRealization map[tender.InfraType]float64
}

// DefaultFixedParams returns the literature-sourced calibration.
func DefaultFixedParams() FixedParams {
	return FixedParams{
		RiskFreeRate: 0.035,

		CapabilityGrowthRate:    0.10,
		ResourcePremium:         0.06,
		ContractFlexRate:        0.05,
		SwitchMobilityRate:      0.04,
		StageCheckpointValue:    0.03,
		CapabilityThreshold:     0.60,
		LearningBenefitRate:     0.10,
		LearningCostRate:        0.20,
		OverloadThreshold:       0.80,
		OverloadCostRate:        0.15,
		IdleBenefitRate:         0.06,
		AdverseCostThreshold:    0.85,
		MobilityComplexitySlope: 0.50,
		AbandonPenaltyRate:      0.02,
		AbandonNPVFloorRatio:    0.15,
		AbandonAlignmentFloor:   0.30,
		CompletionRatio:         0.45,
		SalvageFactor:           0.80,
		StageInfoHorizon:        2.0,

		InteractionGammaMin:   0.08,
		InteractionGammaMax:   0.30,
		RiskPremiumBase:       0.15,
		RiskPremiumVolatility: 0.30,
		RiskPremiumComplexity: 0.10,
		DeferralMultiplier:    0.18,
		CapRatio:              0.80,

		CompetitionDiscountSlope: 0.25,
		ActiveOptionEpsilon:      1e-6,

		InfraRealization: map[tender.InfraType]float64{
			tender.InfraRoad:   0.25,
			tender.InfraBridge: 0.42,
			tender.InfraTunnel: 0.55,
		},
	}
}

// Validate rejects parameter overrides that break the model's structural
// assumptions.
func (p FixedParams) Validate() error {
	if p.CapRatio <= 0 || p.CapRatio > 1 {
		return errors.ConfigInvalid("cap ratio must be in (0, 1]")
	}
	if p.InteractionGammaMin < 0 || p.InteractionGammaMax > 1 ||
		p.InteractionGammaMin > p.InteractionGammaMax {
		return errors.ConfigInvalid("interaction gamma bounds must satisfy 0 <= min <= max <= 1")
	}
	if p.RiskFreeRate < 0 {
		return errors.ConfigInvalid("risk-free rate must be non-negative")
	}
	if p.CompletionRatio <= 0 || p.CompletionRatio >= 1 {
		return errors.ConfigInvalid("completion ratio must be in (0, 1)")
	}
	if p.OverloadThreshold <= 0 || p.OverloadThreshold >= 1 {
		return errors.ConfigInvalid("overload threshold must be in (0, 1)")
	}
	if p.CapabilityThreshold <= 0 || p.CapabilityThreshold >= 1 {
		return errors.ConfigInvalid("capability threshold must be in (0, 1)")
	}
	for _, it := range []tender.InfraType{tender.InfraRoad, tender.InfraBridge, tender.InfraTunnel} {
		r, ok := p.InfraRealization[it]
		if !ok {
			return errors.ConfigInvalid("infra realization table missing " + string(it))
		}
		if r < 0 || r > 1 {
			return errors.ConfigInvalid("infra realization rates must be in [0, 1]")
		}
	}
	return nil
}

// LoadSimConfig reads run settings from environment variables, falling back
// to built-in defaults. Entrypoints load .env before calling this.
func LoadSimConfig() (SimConfig, error) {
	cfg := DefaultSimConfig()
	cfg.Iterations = getEnvIntOrDefault("SIM_ITERATIONS", cfg.Iterations)
	cfg.Seed = int64(getEnvIntOrDefault("SIM_SEED", 0))
	cfg.Workers = getEnvIntOrDefault("SIM_WORKERS", cfg.Workers)
	if err := cfg.Validate(); err != nil {
		return SimConfig{}, err
	}
	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
