package engine

import (
	"github.com/montanaflynn/stats"

	"bimrov/domain/tender"
	"bimrov/domain/valuation"
)

// aggregate reduces the ordered iteration results to one ProjectResult.
// Reduction walks the slice in iteration order, so the output is a pure
// function of the per-iteration values regardless of how they were produced.
func (e *Engine) aggregate(input tender.ProjectInput, results []valuation.IterationResult) *valuation.ProjectResult {
	n := len(results)
	fn := float64(n)

	npvs := make([]float64, n)
	tpvs := make([]float64, n)

	var optSum valuation.OptionValues
	var adjSum valuation.Adjustments
	var netSum float64

	for i, r := range results {
		npvs[i] = r.NPV
		tpvs[i] = r.TPV
		netSum += r.NetROV

		optSum.FollowOn += r.Options.FollowOn
		optSum.Capability += r.Options.Capability
		optSum.Resource += r.Options.Resource
		optSum.ContractFlex += r.Options.ContractFlex
		optSum.Switch += r.Options.Switch
		optSum.Abandonment += r.Options.Abandonment
		optSum.Staging += r.Options.Staging

		adjSum.Interaction += r.Adjustments.Interaction
		adjSum.RiskPremium += r.Adjustments.RiskPremium
		adjSum.Deferral += r.Adjustments.Deferral
	}

	npvMean, _ := stats.Mean(npvs)
	npvStd, _ := stats.StandardDeviation(npvs)
	tpvMean, _ := stats.Mean(tpvs)
	tpvStd, _ := stats.StandardDeviation(tpvs)
	p5, _ := stats.Percentile(tpvs, 5)
	p95, _ := stats.Percentile(tpvs, 95)

	// Category probabilities: each iteration's TPV classified against the
	// run's mean NPV.
	counts := make(map[valuation.DecisionCategory]int, 4)
	for _, tpv := range tpvs {
		counts[e.thresholds.Classify(tpv, npvMean)]++
	}
	probs := make(map[valuation.DecisionCategory]float64, 4)
	for _, cat := range valuation.Categories() {
		probs[cat] = float64(counts[cat]) / fn
	}

	// Most probable category; ties resolve to the stronger signal.
	decision := valuation.DecisionReject
	best := -1.0
	for _, cat := range valuation.Categories() {
		if probs[cat] > best {
			best = probs[cat]
			decision = cat
		}
	}

	res := &valuation.ProjectResult{
		ProjectID:      input.ProjectID,
		ContractAmount: input.ContractAmount,
		Iterations:     n,

		NPVMean: npvMean,
		NPVStd:  npvStd,
		TPVMean: tpvMean,
		TPVStd:  tpvStd,
		TPVP5:   p5,
		TPVP95:  p95,

		NetROVMean: netSum / fn,
		OptionMeans: valuation.OptionValues{
			FollowOn:     optSum.FollowOn / fn,
			Capability:   optSum.Capability / fn,
			Resource:     optSum.Resource / fn,
			ContractFlex: optSum.ContractFlex / fn,
			Switch:       optSum.Switch / fn,
			Abandonment:  optSum.Abandonment / fn,
			Staging:      optSum.Staging / fn,
		},
		AdjustmentMeans: valuation.Adjustments{
			Interaction: adjSum.Interaction / fn,
			RiskPremium: adjSum.RiskPremium / fn,
			Deferral:    adjSum.Deferral / fn,
		},

		DecisionProbs:      probs,
		Decision:           decision,
		DecisionRobustness: best,

		NPVDecision:       valuation.NPVDecision(npvMean),
		DecisionChanged:   valuation.Changed(npvMean, probs),
		DecisionDirection: valuation.Direction(npvMean, probs),
	}

	if e.cfg.KeepTPV {
		res.TPVDistribution = tpvs
	}
	return res
}
