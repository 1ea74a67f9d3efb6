package engine

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"bimrov/domain/tender"
	"bimrov/domain/valuation"
	"bimrov/internal/errors"
)

// SensitivityParam names a derived central estimate that the sweep perturbs.
type SensitivityParam string

const (
	ParamCostRatio    SensitivityParam = "cost_ratio"
	ParamFollowOnProb SensitivityParam = "follow_on_prob"
	ParamStrategicFit SensitivityParam = "strategic_fit"
	ParamCompetition  SensitivityParam = "competition_level"
	ParamVolatility   SensitivityParam = "volatility"
	ParamCapability   SensitivityParam = "capability_level"
	ParamUtilization  SensitivityParam = "resource_utilization"
	ParamComplexity   SensitivityParam = "complexity"
)

// DefaultSensitivityParams lists the sweep targets in the source model's
// tornado-diagram order.
func DefaultSensitivityParams() []SensitivityParam {
	return []SensitivityParam{
		ParamCostRatio,
		ParamFollowOnProb,
		ParamStrategicFit,
		ParamCompetition,
		ParamVolatility,
		ParamCapability,
		ParamUtilization,
		ParamComplexity,
	}
}

// SensitivityResult is one parameter's realized impact on mean TPV.
type SensitivityResult struct {
	Param   SensitivityParam `json:"param"`
	LowTPV  float64          `json:"low_tpv"`  // mean TPV with the estimate scaled down
	HighTPV float64          `json:"high_tpv"` // mean TPV with the estimate scaled up
	Impact  float64          `json:"impact"`   // half the low-high swing, as % of |base TPV|
	// Positive when raising the estimate raises TPV.
	Positive bool `json:"positive"`
}

// SensitivityReport ranks the swept parameters by realized impact.
type SensitivityReport struct {
	ProjectID     string              `json:"project_id"`
	Delta         float64             `json:"delta"` // relative perturbation, e.g. 0.20
	BaseTPV       float64             `json:"base_tpv"`
	Results       []SensitivityResult `json:"results"` // descending impact
	MostSensitive SensitivityParam    `json:"most_sensitive"`
}

// Sensitivity perturbs each derived central estimate by +/-delta and re-runs
// the full simulation for every variant. All runs share the same seeded
// stream family, so parameter effects are isolated from sampling noise
// (common random numbers) and the report is deterministic under a fixed seed.
func (e *Engine) Sensitivity(ctx context.Context, input tender.ProjectInput, delta float64) (*SensitivityReport, error) {
	if delta <= 0 || delta >= 1 {
		return nil, errors.ConfigInvalid("sensitivity delta must be in (0, 1)")
	}

	derived, err := valuation.Derive(input)
	if err != nil {
		return nil, errors.Wrapf(err, "project %s rejected", input.ProjectID)
	}

	base, err := e.evaluateDerived(ctx, input, derived)
	if err != nil {
		return nil, err
	}

	params := DefaultSensitivityParams()
	results := make([]SensitivityResult, len(params))

	g, ctx := errgroup.WithContext(ctx)
	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			low, err := e.evaluateDerived(ctx, input, perturb(derived, p, 1-delta))
			if err != nil {
				return err
			}
			high, err := e.evaluateDerived(ctx, input, perturb(derived, p, 1+delta))
			if err != nil {
				return err
			}

			swing := (high.TPVMean - low.TPVMean) / 2
			scale := math.Abs(base.TPVMean)
			if scale < 1e-9 {
				scale = 1e-9
			}
			results[i] = SensitivityResult{
				Param:    p,
				LowTPV:   low.TPVMean,
				HighTPV:  high.TPVMean,
				Impact:   math.Abs(swing) / scale * 100,
				Positive: swing > 0,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Impact > results[b].Impact
	})

	report := &SensitivityReport{
		ProjectID: input.ProjectID,
		Delta:     delta,
		BaseTPV:   base.TPVMean,
		Results:   results,
	}
	if len(results) > 0 {
		report.MostSensitive = results[0].Param
	}
	return report, nil
}

// perturb scales one central estimate, clamped to its legal domain. The
// follow-on probability shifts the beta prior's mean while preserving its
// concentration.
func perturb(d valuation.DerivedParameters, p SensitivityParam, factor float64) valuation.DerivedParameters {
	switch p {
	case ParamCostRatio:
		d.CostRatioMode = clampF(d.CostRatioMode*factor, 0.80, 0.98)
	case ParamFollowOnProb:
		nu := d.FollowOnAlpha + d.FollowOnBeta
		mean := clampF(d.FollowOnAlpha/nu*factor, 0.02, 0.98)
		d.FollowOnAlpha = mean * nu
		d.FollowOnBeta = (1 - mean) * nu
	case ParamStrategicFit:
		d.StrategicFit = clampF(d.StrategicFit*factor, 0.40, 0.95)
	case ParamCompetition:
		d.CompetitionMean = clampF(d.CompetitionMean*factor, 0, 1)
	case ParamVolatility:
		d.BaseVolatility = math.Max(d.BaseVolatility*factor, 0.01)
	case ParamCapability:
		d.CapabilityScore = clampF(d.CapabilityScore*factor, 0, 1)
	case ParamUtilization:
		current := clampF((1-d.IdleResourceRatio)*factor, 0, 1)
		d.IdleResourceRatio = 1 - current
	case ParamComplexity:
		d.Complexity *= factor
	}
	return d
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
