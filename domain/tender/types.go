package tender

import (
	"errors"
	"fmt"
)

// InfraType is the infrastructure category of a tendered design project.
type InfraType string

const (
	InfraRoad   InfraType = "Road"
	InfraBridge InfraType = "Bridge"
	InfraTunnel InfraType = "Tunnel"
)

// DesignPhase is the stage of the design work being procured. Only basic
// design carries a follow-on opportunity (the detailed-design stage).
type DesignPhase string

const (
	PhaseBasic    DesignPhase = "Basic Design"
	PhaseDetailed DesignPhase = "Detailed Design"
)

// ProcurementType is the competition regime of the tender.
type ProcurementType string

const (
	ProcurementOpen      ProcurementType = "Open"
	ProcurementLimited   ProcurementType = "Limited"
	ProcurementNominated ProcurementType = "Nominated"
)

// ClientType is the category of the commissioning body.
type ClientType string

const (
	ClientCentral    ClientType = "Central"
	ClientLocal      ClientType = "Local"
	ClientPublicCorp ClientType = "Public Corp"
)

// FirmSize buckets the bidding firm by scale, which fixes its baseline cost ratio.
type FirmSize string

const (
	FirmLarge  FirmSize = "Large"
	FirmMedium FirmSize = "Medium"
	FirmSmall  FirmSize = "Small"
)

// Validation errors - centralized sentinel definitions
var (
	ErrValidation            = errors.New("tender validation failed")
	ErrMissingField          = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrUnknownCategory       = fmt.Errorf("%w: unknown categorical value", ErrValidation)
	ErrNonPositiveValue      = fmt.Errorf("%w: value must be positive", ErrValidation)
	ErrUtilizationOutOfRange = fmt.Errorf("%w: utilization outside [0,1]", ErrValidation)
)

// ProjectInput is the immutable per-project fact set extracted from the
// tender notice plus firm characteristics. Six tender variables, four
// company variables.
type ProjectInput struct {
	ProjectID        string          `json:"project_id"`
	ContractAmount   float64         `json:"contract_amount"` // million currency units
	InfraType        InfraType       `json:"infra_type"`
	DesignPhase      DesignPhase     `json:"design_phase"`
	ContractDuration float64         `json:"contract_duration"` // years
	ProcurementType  ProcurementType `json:"procurement_type"`
	ClientType       ClientType      `json:"client_type"`

	FirmSize           FirmSize `json:"firm_size"`
	ExperienceYears    int      `json:"experience_years"`    // years of relevant modeling experience
	SimilarCount       int      `json:"similar_count"`       // same-type projects in the lookback window
	CurrentUtilization float64  `json:"current_utilization"` // fraction in [0,1]
}

// Validate rejects malformed input before any simulation work begins.
// One project's failure must not abort a batch of otherwise valid rows,
// so the error carries the offending field for per-row reporting.
func (p ProjectInput) Validate() error {
	if p.ProjectID == "" {
		return fmt.Errorf("%w: project_id", ErrMissingField)
	}
	if p.ContractAmount <= 0 {
		return fmt.Errorf("%w: contract_amount %.4f", ErrNonPositiveValue, p.ContractAmount)
	}
	if p.ContractDuration <= 0 {
		return fmt.Errorf("%w: contract_duration %.4f", ErrNonPositiveValue, p.ContractDuration)
	}
	switch p.InfraType {
	case InfraRoad, InfraBridge, InfraTunnel:
	default:
		return fmt.Errorf("%w: infra_type %q", ErrUnknownCategory, p.InfraType)
	}
	switch p.DesignPhase {
	case PhaseBasic, PhaseDetailed:
	default:
		return fmt.Errorf("%w: design_phase %q", ErrUnknownCategory, p.DesignPhase)
	}
	switch p.ProcurementType {
	case ProcurementOpen, ProcurementLimited, ProcurementNominated:
	default:
		return fmt.Errorf("%w: procurement_type %q", ErrUnknownCategory, p.ProcurementType)
	}
	switch p.ClientType {
	case ClientCentral, ClientLocal, ClientPublicCorp:
	default:
		return fmt.Errorf("%w: client_type %q", ErrUnknownCategory, p.ClientType)
	}
	switch p.FirmSize {
	case FirmLarge, FirmMedium, FirmSmall:
	default:
		return fmt.Errorf("%w: firm_size %q", ErrUnknownCategory, p.FirmSize)
	}
	if p.ExperienceYears < 0 {
		return fmt.Errorf("%w: experience_years %d", ErrNonPositiveValue, p.ExperienceYears)
	}
	if p.SimilarCount < 0 {
		return fmt.Errorf("%w: similar_count %d", ErrNonPositiveValue, p.SimilarCount)
	}
	if p.CurrentUtilization < 0 || p.CurrentUtilization > 1 {
		return fmt.Errorf("%w: got %.4f", ErrUtilizationOutOfRange, p.CurrentUtilization)
	}
	return nil
}

// IsValidationError reports whether err originated from input validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// HasFollowOn reports whether a detailed-design follow-on stage exists for
// this tender. Only basic-design work carries one.
func (p ProjectInput) HasFollowOn() bool {
	return p.DesignPhase == PhaseBasic
}
