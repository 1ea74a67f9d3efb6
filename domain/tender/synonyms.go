package tender

import "strings"

// Canonicalization tables for the categorical columns. Source datasets mix
// Korean tender-notice terms with English labels, so the parsing boundary
// accepts both and the core stays strictly typed against the canonical enums.

var infraSynonyms = map[string]InfraType{
	"road":   InfraRoad,
	"도로":     InfraRoad,
	"bridge": InfraBridge,
	"교량":     InfraBridge,
	"tunnel": InfraTunnel,
	"터널":     InfraTunnel,
}

var phaseSynonyms = map[string]DesignPhase{
	"basic design":    PhaseBasic,
	"basic":           PhaseBasic,
	"기본설계":            PhaseBasic,
	"detailed design": PhaseDetailed,
	"detailed":        PhaseDetailed,
	"실시설계":            PhaseDetailed,
}

var procurementSynonyms = map[string]ProcurementType{
	"open":      ProcurementOpen,
	"일반경쟁":      ProcurementOpen,
	"limited":   ProcurementLimited,
	"제한경쟁":      ProcurementLimited,
	"nominated": ProcurementNominated,
	"지명경쟁":      ProcurementNominated,
}

var clientSynonyms = map[string]ClientType{
	"central":     ClientCentral,
	"중앙":          ClientCentral,
	"local":       ClientLocal,
	"지방":          ClientLocal,
	"public corp": ClientPublicCorp,
	"public-corp": ClientPublicCorp,
	"publiccorp":  ClientPublicCorp,
	"공기업":         ClientPublicCorp,
}

var firmSizeSynonyms = map[string]FirmSize{
	"large":  FirmLarge,
	"대기업":    FirmLarge,
	"medium": FirmMedium,
	"중견기업":   FirmMedium,
	"small":  FirmSmall,
	"소기업":    FirmSmall,
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseInfraType canonicalizes an infrastructure label. The boolean is false
// when the label matches no known synonym.
func ParseInfraType(s string) (InfraType, bool) {
	v, ok := infraSynonyms[normalizeKey(s)]
	return v, ok
}

// ParseDesignPhase canonicalizes a design-phase label.
func ParseDesignPhase(s string) (DesignPhase, bool) {
	v, ok := phaseSynonyms[normalizeKey(s)]
	return v, ok
}

// ParseProcurementType canonicalizes a procurement-method label.
func ParseProcurementType(s string) (ProcurementType, bool) {
	v, ok := procurementSynonyms[normalizeKey(s)]
	return v, ok
}

// ParseClientType canonicalizes a client-category label.
func ParseClientType(s string) (ClientType, bool) {
	v, ok := clientSynonyms[normalizeKey(s)]
	return v, ok
}

// ParseFirmSize canonicalizes a firm-size label.
func ParseFirmSize(s string) (FirmSize, bool) {
	v, ok := firmSizeSynonyms[normalizeKey(s)]
	return v, ok
}
