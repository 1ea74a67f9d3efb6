// Package report renders batch valuation results as a markdown document,
// optionally converted to HTML for browser viewing.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/leekchan/accounting"

	"bimrov/app"
	"bimrov/domain/valuation"
	"bimrov/internal/engine"
)

// Generator renders batch and sensitivity reports.
type Generator struct {
	money accounting.Accounting
}

func NewGenerator() *Generator {
	// Contract amounts are in hundred-million KRW units in the source data;
	// the report keeps the unit label rather than inventing an exchange rate.
	return &Generator{money: accounting.Accounting{Symbol: "", Precision: 1}}
}

// BatchMarkdown renders one batch run as a markdown document.
func (g *Generator) BatchMarkdown(batch *app.BatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Tender Valuation Report\n\n")
	fmt.Fprintf(&b, "Run `%s` on %s.\n\n", batch.RunID, time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "%d projects evaluated, %d rejected.\n\n", batch.Succeeded, batch.Failed)

	b.WriteString("## Decisions\n\n")
	b.WriteString("| Project | NPV (mean) | TPV (mean) | TPV p5..p95 | Net ROV | Decision | Robustness |\n")
	b.WriteString("|---------|-----------:|-----------:|------------:|--------:|----------|-----------:|\n")
	for _, outcome := range batch.Outcomes {
		if outcome.Err != nil {
			fmt.Fprintf(&b, "| %s | - | - | - | - | rejected | - |\n", outcome.Input.ProjectID)
			continue
		}
		res := outcome.Result
		fmt.Fprintf(&b, "| %s | %s | %s | %s .. %s | %s | %s | %.2f |\n",
			res.ProjectID,
			g.money.FormatMoney(res.NPVMean),
			g.money.FormatMoney(res.TPVMean),
			g.money.FormatMoney(res.TPVP5),
			g.money.FormatMoney(res.TPVP95),
			g.money.FormatMoney(res.NetROVMean),
			res.Decision,
			res.DecisionRobustness)
	}
	b.WriteString("\n")

	g.writeDecisionChanges(&b, batch)
	g.writeOptionBreakdown(&b, batch)

	if batch.Failed > 0 {
		b.WriteString("## Rejected Projects\n\n")
		for _, outcome := range batch.Outcomes {
			if outcome.Err != nil {
				fmt.Fprintf(&b, "- `%s`: %s\n", outcome.Input.ProjectID, outcome.ErrMsg)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// writeDecisionChanges lists projects where option value moved the decision
// away from the NPV-only call.
func (g *Generator) writeDecisionChanges(b *strings.Builder, batch *app.BatchResult) {
	changed := make([]*valuation.ProjectResult, 0)
	for _, outcome := range batch.Outcomes {
		if outcome.Err == nil && outcome.Result.DecisionChanged {
			changed = append(changed, outcome.Result)
		}
	}
	if len(changed) == 0 {
		return
	}

	b.WriteString("## Decision Changes vs NPV-Only\n\n")
	for _, res := range changed {
		fmt.Fprintf(b, "- `%s`: NPV alone says %s, option value moves the call to %s (%s)\n",
			res.ProjectID, res.NPVDecision, res.Decision, res.DecisionDirection)
	}
	b.WriteString("\n")
}

// writeOptionBreakdown shows the mean value of each option source, largest
// first, for the successful projects.
func (g *Generator) writeOptionBreakdown(b *strings.Builder, batch *app.BatchResult) {
	b.WriteString("## Option Value Sources\n\n")
	b.WriteString("| Project | Follow-on | Capability | Resource | Contract | Switch | Abandon | Staging |\n")
	b.WriteString("|---------|----------:|-----------:|---------:|---------:|-------:|--------:|--------:|\n")
	for _, outcome := range batch.Outcomes {
		if outcome.Err != nil {
			continue
		}
		res := outcome.Result
		m := res.OptionMeans
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			res.ProjectID, m.FollowOn, m.Capability, m.Resource, m.ContractFlex, m.Switch, m.Abandonment, m.Staging)
	}
	b.WriteString("\n")
}

// SensitivityMarkdown renders one sensitivity sweep as a tornado-style table.
func (g *Generator) SensitivityMarkdown(report *engine.SensitivityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sensitivity Sweep: %s\n\n", report.ProjectID)
	fmt.Fprintf(&b, "Base TPV %s, +/-%.0f%% per parameter.\n\n",
		g.money.FormatMoney(report.BaseTPV), report.Delta*100)

	results := make([]engine.SensitivityResult, len(report.Results))
	copy(results, report.Results)
	sort.Slice(results, func(i, j int) bool { return results[i].Impact > results[j].Impact })

	b.WriteString("| Parameter | TPV at -delta | TPV at +delta | Impact % | Direction |\n")
	b.WriteString("|-----------|--------------:|--------------:|---------:|-----------|\n")
	for _, r := range results {
		direction := "inverse"
		if r.Positive {
			direction = "direct"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.1f | %s |\n",
			r.Param, g.money.FormatMoney(r.LowTPV), g.money.FormatMoney(r.HighTPV), r.Impact, direction)
	}
	fmt.Fprintf(&b, "\nMost sensitive parameter: **%s**.\n", report.MostSensitive)

	return b.String()
}

// ToHTML converts a markdown report to a standalone HTML fragment.
func ToHTML(md string) []byte {
	extensions := parser.CommonExtensions | parser.Tables
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(md))

	opts := html.RendererOptions{Flags: html.CommonFlags}
	renderer := html.NewRenderer(opts)
	return markdown.Render(doc, renderer)
}
