package valuation

// DecisionCategory is the bid/no-bid signal derived from TPV relative to NPV.
type DecisionCategory string

const (
	DecisionStrongParticipate DecisionCategory = "Strong Participate"
	DecisionParticipate       DecisionCategory = "Participate"
	DecisionConditional       DecisionCategory = "Conditional"
	DecisionReject            DecisionCategory = "Reject"
)

// Categories lists the four decision categories in descending strength order.
func Categories() []DecisionCategory {
	return []DecisionCategory{
		DecisionStrongParticipate,
		DecisionParticipate,
		DecisionConditional,
		DecisionReject,
	}
}

// DecisionDirection flags how the options-adjusted decision moved relative to
// the NPV-only decision.
type DecisionDirection string

const (
	DirectionUp       DecisionDirection = "Up"   // NPV says reject, TPV says participate
	DirectionDown     DecisionDirection = "Down" // NPV says participate, TPV says reject
	DirectionNoChange DecisionDirection = "No Change"
)

// DecisionThresholds are the category cut rules. Relative thresholds compare
// TPV against a reference NPV; StrongAbsolute is an additional absolute floor
// for the strongest signal.
type DecisionThresholds struct {
	StrongMultiple      float64 // Strong Participate: TPV >= NPV*1.5 and TPV > StrongAbsolute
	StrongAbsolute      float64
	ParticipateMultiple float64 // Participate: TPV >= NPV*1.05
	ConditionalMultiple float64 // Conditional: TPV > NPV*0.80 and TPV > 0
}

// DefaultThresholds returns the calibration from the source model.
func DefaultThresholds() DecisionThresholds {
	return DecisionThresholds{
		StrongMultiple:      1.50,
		StrongAbsolute:      300,
		ParticipateMultiple: 1.05,
		ConditionalMultiple: 0.80,
	}
}

// Classify assigns exactly one category to a TPV observation against the
// reference NPV. The four branches partition the TPV axis: relative lower
// boundaries are inclusive, so TPV == NPV*1.05 is Participate rather than
// Conditional, and TPV == NPV*0.80 falls to Reject.
func (t DecisionThresholds) Classify(tpv, npvRef float64) DecisionCategory {
	if tpv <= 0 || tpv <= npvRef*t.ConditionalMultiple {
		return DecisionReject
	}
	if tpv >= npvRef*t.StrongMultiple && tpv > t.StrongAbsolute {
		return DecisionStrongParticipate
	}
	if tpv >= npvRef*t.ParticipateMultiple {
		return DecisionParticipate
	}
	return DecisionConditional
}

// NPVDecision collapses the NPV-only view to the binary signal a
// discounted-cash-flow analysis would give: participate at or above zero.
func NPVDecision(npvMean float64) DecisionCategory {
	if npvMean >= 0 {
		return DecisionParticipate
	}
	return DecisionReject
}

// Direction compares the NPV-only decision with the TPV probability masses.
// The TPV side is called Participate when the combined strong+participate
// mass exceeds one half, Reject when the reject mass does; anything in
// between is indeterminate and reports No Change.
func Direction(npvMean float64, probs map[DecisionCategory]float64) DecisionDirection {
	npvSide := NPVDecision(npvMean)

	participateMass := probs[DecisionStrongParticipate] + probs[DecisionParticipate]
	rejectMass := probs[DecisionReject]

	var tpvSide DecisionCategory
	switch {
	case participateMass > 0.5:
		tpvSide = DecisionParticipate
	case rejectMass > 0.5:
		tpvSide = DecisionReject
	default:
		return DirectionNoChange
	}

	if npvSide == DecisionReject && tpvSide == DecisionParticipate {
		return DirectionUp
	}
	if npvSide == DecisionParticipate && tpvSide == DecisionReject {
		return DirectionDown
	}
	return DirectionNoChange
}

// Changed reports whether the options-adjusted view overturns the NPV-only
// decision, treating an indeterminate TPV mass as Conditional.
func Changed(npvMean float64, probs map[DecisionCategory]float64) bool {
	npvSide := NPVDecision(npvMean)

	participateMass := probs[DecisionStrongParticipate] + probs[DecisionParticipate]
	rejectMass := probs[DecisionReject]

	var tpvSide DecisionCategory
	switch {
	case participateMass > 0.5:
		tpvSide = DecisionParticipate
	case rejectMass > 0.5:
		tpvSide = DecisionReject
	default:
		tpvSide = DecisionConditional
	}
	return npvSide != tpvSide
}
