package tender

import (
	"errors"
	"testing"
)

func validInput() ProjectInput {
	return ProjectInput{
		ProjectID:          "T-001",
		ContractAmount:     520,
		InfraType:          InfraRoad,
		DesignPhase:        PhaseBasic,
		ContractDuration:   2.5,
		ProcurementType:    ProcurementOpen,
		ClientType:         ClientCentral,
		FirmSize:           FirmMedium,
		ExperienceYears:    5,
		SimilarCount:       8,
		CurrentUtilization: 0.65,
	}
}

func TestValidateAcceptsWellFormedInput(t *testing.T) {
	if err := validInput().Validate(); err != nil {
		t.Fatalf("Expected valid input to pass, got %v", err)
	}
}

func TestValidateRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ProjectInput)
		sentinel error
	}{
		{"missing project id", func(p *ProjectInput) { p.ProjectID = "" }, ErrMissingField},
		{"zero contract amount", func(p *ProjectInput) { p.ContractAmount = 0 }, ErrNonPositiveValue},
		{"negative contract amount", func(p *ProjectInput) { p.ContractAmount = -100 }, ErrNonPositiveValue},
		{"zero duration", func(p *ProjectInput) { p.ContractDuration = 0 }, ErrNonPositiveValue},
		{"unknown infra type", func(p *ProjectInput) { p.InfraType = "Airport" }, ErrUnknownCategory},
		{"unknown design phase", func(p *ProjectInput) { p.DesignPhase = "Concept" }, ErrUnknownCategory},
		{"unknown procurement", func(p *ProjectInput) { p.ProcurementType = "Negotiated" }, ErrUnknownCategory},
		{"unknown client type", func(p *ProjectInput) { p.ClientType = "Private" }, ErrUnknownCategory},
		{"unknown firm size", func(p *ProjectInput) { p.FirmSize = "Tiny" }, ErrUnknownCategory},
		{"negative experience", func(p *ProjectInput) { p.ExperienceYears = -1 }, ErrNonPositiveValue},
		{"negative similar count", func(p *ProjectInput) { p.SimilarCount = -2 }, ErrNonPositiveValue},
		{"utilization above one", func(p *ProjectInput) { p.CurrentUtilization = 1.2 }, ErrUtilizationOutOfRange},
		{"utilization below zero", func(p *ProjectInput) { p.CurrentUtilization = -0.1 }, ErrUtilizationOutOfRange},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			input := validInput()
			test.mutate(&input)

			err := input.Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !errors.Is(err, test.sentinel) {
				t.Errorf("Expected sentinel %v, got %v", test.sentinel, err)
			}
			if !IsValidationError(err) {
				t.Errorf("Expected IsValidationError to report true for %v", err)
			}
		})
	}
}

func TestHasFollowOn(t *testing.T) {
	basic := validInput()
	if !basic.HasFollowOn() {
		t.Error("Expected basic design to carry a follow-on stage")
	}

	detailed := validInput()
	detailed.DesignPhase = PhaseDetailed
	if detailed.HasFollowOn() {
		t.Error("Expected detailed design to carry no follow-on stage")
	}
}
