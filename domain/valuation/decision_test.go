package valuation

import "testing"

// TestClassifyPartition checks the four-way cut against a positive reference
// NPV of 100, including the boundary conventions: relative lower bounds are
// inclusive for the upside categories, and the conditional floor falls to
// Reject.
func TestClassifyPartition(t *testing.T) {
	th := DefaultThresholds()
	npvRef := 100.0

	tests := []struct {
		name     string
		tpv      float64
		expected DecisionCategory
	}{
		{"negative tpv", -50, DecisionReject},
		{"zero tpv", 0, DecisionReject},
		{"below conditional floor", 70, DecisionReject},
		{"exactly at conditional floor", 80, DecisionReject},
		{"just above conditional floor", 80.01, DecisionConditional},
		{"below participate", 104.99, DecisionConditional},
		{"exactly at participate", 105, DecisionParticipate},
		{"above participate", 130, DecisionParticipate},
		{"strong multiple but small absolute", 150, DecisionParticipate}, // 1.5x but <= 300
		{"large and strong", 400, DecisionStrongParticipate},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := th.Classify(test.tpv, npvRef); got != test.expected {
				t.Errorf("Classify(%.2f, %.2f) = %s, want %s", test.tpv, npvRef, got, test.expected)
			}
		})
	}
}

// TestClassifyNegativeReference covers the distressed case: with a negative
// reference NPV a positive TPV clears every relative threshold, so only the
// absolute floor separates Strong from Participate.
func TestClassifyNegativeReference(t *testing.T) {
	th := DefaultThresholds()
	npvRef := -80.0

	tests := []struct {
		tpv      float64
		expected DecisionCategory
	}{
		{-100, DecisionReject}, // tpv <= npvRef*0.80 = -64
		{-64, DecisionReject},
		{-10, DecisionReject}, // negative tpv is always Reject
		{0, DecisionReject},
		{50, DecisionParticipate},
		{350, DecisionStrongParticipate},
	}

	for _, test := range tests {
		if got := th.Classify(test.tpv, npvRef); got != test.expected {
			t.Errorf("Classify(%.2f, %.2f) = %s, want %s", test.tpv, npvRef, got, test.expected)
		}
	}
}

// TestClassifyExhaustive verifies that every TPV lands in exactly one
// category over a dense sweep.
func TestClassifyExhaustive(t *testing.T) {
	th := DefaultThresholds()
	known := map[DecisionCategory]bool{
		DecisionStrongParticipate: true,
		DecisionParticipate:       true,
		DecisionConditional:       true,
		DecisionReject:            true,
	}

	for _, npvRef := range []float64{-200, -10, 0, 10, 100, 500} {
		for tpv := -600.0; tpv <= 600; tpv += 0.5 {
			if cat := th.Classify(tpv, npvRef); !known[cat] {
				t.Fatalf("Classify(%.2f, %.2f) returned unknown category %q", tpv, npvRef, cat)
			}
		}
	}
}

func TestNPVDecision(t *testing.T) {
	if NPVDecision(10) != DecisionParticipate {
		t.Error("Expected positive NPV to mean Participate")
	}
	if NPVDecision(0) != DecisionParticipate {
		t.Error("Expected zero NPV to mean Participate")
	}
	if NPVDecision(-10) != DecisionReject {
		t.Error("Expected negative NPV to mean Reject")
	}
}

func TestDirectionAndChanged(t *testing.T) {
	participateHeavy := map[DecisionCategory]float64{
		DecisionStrongParticipate: 0.30,
		DecisionParticipate:       0.40,
		DecisionConditional:       0.20,
		DecisionReject:            0.10,
	}
	rejectHeavy := map[DecisionCategory]float64{
		DecisionStrongParticipate: 0.05,
		DecisionParticipate:       0.10,
		DecisionConditional:       0.15,
		DecisionReject:            0.70,
	}
	split := map[DecisionCategory]float64{
		DecisionStrongParticipate: 0.10,
		DecisionParticipate:       0.30,
		DecisionConditional:       0.30,
		DecisionReject:            0.30,
	}

	tests := []struct {
		name      string
		npvMean   float64
		probs     map[DecisionCategory]float64
		direction DecisionDirection
		changed   bool
	}{
		{"options rescue a negative npv", -20, participateHeavy, DirectionUp, true},
		{"options sink a positive npv", 20, rejectHeavy, DirectionDown, true},
		{"agreement on participate", 20, participateHeavy, DirectionNoChange, false},
		{"agreement on reject", -20, rejectHeavy, DirectionNoChange, false},
		{"indeterminate mass, positive npv", 20, split, DirectionNoChange, true},
		{"indeterminate mass, negative npv", -20, split, DirectionNoChange, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Direction(test.npvMean, test.probs); got != test.direction {
				t.Errorf("Direction = %s, want %s", got, test.direction)
			}
			if got := Changed(test.npvMean, test.probs); got != test.changed {
				t.Errorf("Changed = %v, want %v", got, test.changed)
			}
		})
	}
}

func TestCategoriesOrderedByStrength(t *testing.T) {
	cats := Categories()
	expected := []DecisionCategory{
		DecisionStrongParticipate, DecisionParticipate, DecisionConditional, DecisionReject,
	}
	if len(cats) != len(expected) {
		t.Fatalf("Expected %d categories, got %d", len(expected), len(cats))
	}
	for i, cat := range expected {
		if cats[i] != cat {
			t.Errorf("Categories()[%d] = %s, want %s", i, cats[i], cat)
		}
	}
}
