package render

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fisight/fisight/pkg/marketshare"
)

// shareDigits is the number of decimals shown for share percentages.
const shareDigits = 2

// absentCell marks a metric that has no value for the month.
const absentCell = "-"

// FirmNamer resolves a finance code to a display name. A nil namer shows
// raw codes.
type FirmNamer func(financeCd string) string

// RankingTable writes the per-firm share ranking for one month as a
// terminal table. Rows of other months are skipped.
func RankingTable(w io.Writer, result marketshare.Result, month string, namer FirmNamer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	tbl.AppendHeader(table.Row{"Rank", "Firm", "Share %", "Δ Prev", "Δ 1y", "Δ 2y", "Rank Δ"})

	count := 0

	for _, row := range result.PerFirm {
		if row.BaseMonth != month {
			continue
		}

		name := row.FinanceCd
		if namer != nil {
			name = namer(row.FinanceCd)
		}

		tbl.AppendRow(table.Row{
			rankCell(row.Rank),
			name,
			percentCell(row.SharePct),
			percentCell(row.DPrevPP),
			percentCell(row.D1yPP),
			percentCell(row.D2yPP),
			rankChangeCell(row.RankChange),
		})

		count++
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("%s: %d firms", month, count)})
	tbl.SortBy([]table.SortBy{{Name: "Rank", Mode: table.AscNumeric}})
	tbl.Render()
}

func rankCell(rank int) string {
	if rank == 0 {
		return absentCell
	}

	return fmt.Sprintf("%d", rank)
}

func percentCell(value float64) string {
	if math.IsNaN(value) {
		return absentCell
	}

	return humanize.CommafWithDigits(value, shareDigits)
}

func rankChangeCell(change int) string {
	switch {
	case change > 0:
		return color.New(color.FgGreen).Sprintf("▲%d", change)
	case change < 0:
		return color.New(color.FgRed).Sprintf("▼%d", -change)
	default:
		return "="
	}
}

// LevelTable writes a rescaled level breakdown as a terminal table. Rows
// carry one labeled value per month column.
func LevelTable(w io.Writer, months []string, labels []string, values map[string][]float64, unit string) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	header := table.Row{headerWithUnit("Component", unit)}
	for _, month := range months {
		header = append(header, month)
	}

	tbl.AppendHeader(header)

	for _, label := range labels {
		row := table.Row{label}
		for _, v := range values[label] {
			row = append(row, percentCell(v))
		}

		tbl.AppendRow(row)
	}

	tbl.Render()
}

func headerWithUnit(name, unit string) string {
	if unit == "" {
		return name
	}

	return fmt.Sprintf("%s (%s)", name, unit)
}
