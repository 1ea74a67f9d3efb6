package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"bimrov/app"
	"bimrov/internal/engine"
)

var resultHeader = []string{
	"project_id", "status", "npv_mean", "npv_std", "tpv_mean", "tpv_std",
	"tpv_p5", "tpv_p95", "net_rov_mean", "decision", "decision_robustness",
	"npv_decision", "decision_changed", "decision_direction", "error",
}

// ResultWriter writes batch valuation results to an xlsx or csv file.
type ResultWriter struct {
	filePath string
	fileType string
}

func NewResultWriter(filePath string) *ResultWriter {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &ResultWriter{filePath: filePath, fileType: fileType}
}

// WriteBatch writes one row per project outcome. Failed projects get a row
// with the error message so the output stays aligned with the input.
func (w *ResultWriter) WriteBatch(batch *app.BatchResult) error {
	rows := make([][]string, 0, len(batch.Outcomes)+1)
	rows = append(rows, resultHeader)
	for _, outcome := range batch.Outcomes {
		rows = append(rows, resultRow(outcome))
	}

	if w.fileType == "csv" {
		return w.writeCSV(rows)
	}
	return w.writeExcel(rows)
}

func resultRow(outcome app.ProjectOutcome) []string {
	if outcome.Err != nil {
		row := make([]string, len(resultHeader))
		row[0] = outcome.Input.ProjectID
		row[1] = "failed"
		row[len(row)-1] = outcome.ErrMsg
		return row
	}

	res := outcome.Result
	return []string{
		res.ProjectID,
		"ok",
		formatFloat(res.NPVMean),
		formatFloat(res.NPVStd),
		formatFloat(res.TPVMean),
		formatFloat(res.TPVStd),
		formatFloat(res.TPVP5),
		formatFloat(res.TPVP95),
		formatFloat(res.NetROVMean),
		string(res.Decision),
		formatFloat(res.DecisionRobustness),
		string(res.NPVDecision),
		strconv.FormatBool(res.DecisionChanged),
		string(res.DecisionDirection),
		"",
	}
}

func (w *ResultWriter) writeExcel(rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Results"
	f.SetSheetName("Sheet1", sheet)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(w.filePath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}
	return nil
}

func (w *ResultWriter) writeCSV(rows [][]string) error {
	f, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// WriteSensitivity writes a sensitivity report as a two-column swing table.
func (w *ResultWriter) WriteSensitivity(report *engine.SensitivityReport) error {
	rows := [][]string{
		{"parameter", "low_tpv", "high_tpv", "impact_pct", "positive"},
	}
	for _, r := range report.Results {
		rows = append(rows, []string{
			string(r.Param),
			formatFloat(r.LowTPV),
			formatFloat(r.HighTPV),
			formatFloat(r.Impact),
			strconv.FormatBool(r.Positive),
		})
	}

	if w.fileType == "csv" {
		return w.writeCSV(rows)
	}
	return w.writeExcel(rows)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
