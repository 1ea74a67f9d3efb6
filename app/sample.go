package app

import "bimrov/domain/tender"

// SampleProjects returns the ten-project reference portfolio used for demos
// and convergence checks: a realistic spread of infrastructure types, design
// phases, procurement regimes, and firm profiles.
func SampleProjects() []tender.ProjectInput {
	return []tender.ProjectInput{
		{ProjectID: "R01", ContractAmount: 520, InfraType: tender.InfraRoad, DesignPhase: tender.PhaseBasic, ContractDuration: 2.5, ProcurementType: tender.ProcurementOpen, ClientType: tender.ClientCentral, FirmSize: tender.FirmMedium, ExperienceYears: 5, SimilarCount: 8, CurrentUtilization: 0.65},
		{ProjectID: "R02", ContractAmount: 180, InfraType: tender.InfraRoad, DesignPhase: tender.PhaseDetailed, ContractDuration: 1.0, ProcurementType: tender.ProcurementLimited, ClientType: tender.ClientLocal, FirmSize: tender.FirmSmall, ExperienceYears: 2, SimilarCount: 3, CurrentUtilization: 0.80},
		{ProjectID: "R03", ContractAmount: 280, InfraType: tender.InfraRoad, DesignPhase: tender.PhaseBasic, ContractDuration: 2.0, ProcurementType: tender.ProcurementLimited, ClientType: tender.ClientPublicCorp, FirmSize: tender.FirmMedium, ExperienceYears: 6, SimilarCount: 5, CurrentUtilization: 0.70},
		{ProjectID: "R04", ContractAmount: 450, InfraType: tender.InfraBridge, DesignPhase: tender.PhaseBasic, ContractDuration: 2.5, ProcurementType: tender.ProcurementOpen, ClientType: tender.ClientCentral, FirmSize: tender.FirmLarge, ExperienceYears: 9, SimilarCount: 7, CurrentUtilization: 0.60},
		{ProjectID: "R05", ContractAmount: 120, InfraType: tender.InfraBridge, DesignPhase: tender.PhaseDetailed, ContractDuration: 1.5, ProcurementType: tender.ProcurementNominated, ClientType: tender.ClientLocal, FirmSize: tender.FirmSmall, ExperienceYears: 1, SimilarCount: 1, CurrentUtilization: 0.95},
		{ProjectID: "R06", ContractAmount: 95, InfraType: tender.InfraBridge, DesignPhase: tender.PhaseDetailed, ContractDuration: 1.0, ProcurementType: tender.ProcurementNominated, ClientType: tender.ClientLocal, FirmSize: tender.FirmSmall, ExperienceYears: 3, SimilarCount: 2, CurrentUtilization: 0.85},
		{ProjectID: "R07", ContractAmount: 680, InfraType: tender.InfraTunnel, DesignPhase: tender.PhaseBasic, ContractDuration: 3.0, ProcurementType: tender.ProcurementOpen, ClientType: tender.ClientCentral, FirmSize: tender.FirmLarge, ExperienceYears: 11, SimilarCount: 9, CurrentUtilization: 0.55},
		{ProjectID: "R08", ContractAmount: 220, InfraType: tender.InfraTunnel, DesignPhase: tender.PhaseDetailed, ContractDuration: 2.0, ProcurementType: tender.ProcurementLimited, ClientType: tender.ClientPublicCorp, FirmSize: tender.FirmMedium, ExperienceYears: 4, SimilarCount: 4, CurrentUtilization: 0.75},
		{ProjectID: "R09", ContractAmount: 850, InfraType: tender.InfraTunnel, DesignPhase: tender.PhaseBasic, ContractDuration: 3.5, ProcurementType: tender.ProcurementOpen, ClientType: tender.ClientCentral, FirmSize: tender.FirmLarge, ExperienceYears: 8, SimilarCount: 6, CurrentUtilization: 0.68},
		{ProjectID: "R10", ContractAmount: 320, InfraType: tender.InfraTunnel, DesignPhase: tender.PhaseDetailed, ContractDuration: 2.5, ProcurementType: tender.ProcurementLimited, ClientType: tender.ClientPublicCorp, FirmSize: tender.FirmMedium, ExperienceYears: 7, SimilarCount: 5, CurrentUtilization: 0.72},
	}
}
