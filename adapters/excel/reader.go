// Package excel is the tabular boundary of the valuation core: project rows
// in from xlsx or csv files, result rows out. Categorical columns are
// canonicalized through the tender synonym tables; everything else about a
// row's validity is the engine's concern.
package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bimrov/domain/tender"
)

// Column headers accepted for each ProjectInput field. The first name is the
// canonical one; the rest match the source datasets.
var columnAliases = map[string][]string{
	"project_id":          {"project_id", "id"},
	"contract_amount":     {"contract_amount", "amount"},
	"infra_type":          {"infra_type", "infrastructure"},
	"design_phase":        {"design_phase", "phase"},
	"contract_duration":   {"contract_duration", "duration"},
	"procurement_type":    {"procurement_type", "procurement"},
	"client_type":         {"client_type", "client"},
	"firm_size":           {"firm_size"},
	"experience_years":    {"experience_years", "bim_years"},
	"similar_count":       {"similar_count", "same_type_count"},
	"current_utilization": {"current_utilization", "utilization"},
}

// ProjectReader reads project rows from Excel or CSV files.
type ProjectReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewProjectReader creates a reader; the file type follows the extension.
func NewProjectReader(filePath string) *ProjectReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &ProjectReader{filePath: filePath, fileType: fileType}
}

// ReadProjects reads all project rows. Structural problems (missing file,
// missing header) fail the read; a malformed cell in one row is carried into
// that row's input unparsed so validation can reject it individually without
// aborting the batch.
func (r *ProjectReader) ReadProjects() ([]tender.ProjectInput, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("input must have a header row and at least one data row")
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	projects := make([]tender.ProjectInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		projects = append(projects, parseRow(row, index))
	}
	return projects, nil
}

func (r *ProjectReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *ProjectReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// headerIndex maps each canonical field to its column position.
func headerIndex(header []string) (map[string]int, error) {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		normalized[strings.ToLower(strings.TrimSpace(h))] = i
	}

	index := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		found := false
		for _, alias := range aliases {
			if pos, ok := normalized[alias]; ok {
				index[field] = pos
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("missing required column %q", field)
		}
	}
	return index, nil
}

// parseRow builds one ProjectInput from a data row. Unrecognized categorical
// labels pass through raw so Validate reports them per project.
func parseRow(row []string, index map[string]int) tender.ProjectInput {
	get := func(field string) string {
		pos := index[field]
		if pos >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[pos])
	}

	input := tender.ProjectInput{
		ProjectID:          get("project_id"),
		ContractAmount:     parseFloat(get("contract_amount")),
		ContractDuration:   parseFloat(get("contract_duration")),
		ExperienceYears:    parseInt(get("experience_years")),
		SimilarCount:       parseInt(get("similar_count")),
		CurrentUtilization: parseFloat(get("current_utilization")),
	}

	if v, ok := tender.ParseInfraType(get("infra_type")); ok {
		input.InfraType = v
	} else {
		input.InfraType = tender.InfraType(get("infra_type"))
	}
	if v, ok := tender.ParseDesignPhase(get("design_phase")); ok {
		input.DesignPhase = v
	} else {
		input.DesignPhase = tender.DesignPhase(get("design_phase"))
	}
	if v, ok := tender.ParseProcurementType(get("procurement_type")); ok {
		input.ProcurementType = v
	} else {
		input.ProcurementType = tender.ProcurementType(get("procurement_type"))
	}
	if v, ok := tender.ParseClientType(get("client_type")); ok {
		input.ClientType = v
	} else {
		input.ClientType = tender.ClientType(get("client_type"))
	}
	if v, ok := tender.ParseFirmSize(get("firm_size")); ok {
		input.FirmSize = v
	} else {
		input.FirmSize = tender.FirmSize(get("firm_size"))
	}

	return input
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
