package commands

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/internal/render"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/marketshare"
)

// ErrNoMarket indicates no market firms are configured.
var ErrNoMarket = errors.New("firms.market must name at least one finance code")

// SharesCommand holds flags and dependencies for the shares command.
type SharesCommand struct {
	globals *Globals

	spec     string
	path     string
	month    string
	htmlPath string
}

// NewSharesCommand creates the shares command.
func NewSharesCommand(globals *Globals) *cobra.Command {
	sc := &SharesCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "shares",
		Short: "Rank market shares across the configured market",
		Long: "Compute each market firm's share of the current hierarchy level, " +
			"with period deltas, ranks and group aggregates.",
		Args: cobra.NoArgs,
		RunE: sc.run,
	}

	cmd.Flags().StringVar(&sc.spec, "spec", "", "node spec override (example: SA002:B,SA002:C)")
	cmd.Flags().StringVar(&sc.path, "path", "", "drill path of node keys (example: acc:SA002:B)")
	cmd.Flags().StringVar(&sc.month, "month", "", "ranking month (default: latest)")
	cmd.Flags().StringVar(&sc.htmlPath, "html", "", "write a share line chart page to this path")

	return cmd
}

func (sc *SharesCommand) run(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(sc.globals)
	if err != nil {
		return err
	}

	if len(app.cfg.Firms.Market) == 0 {
		return ErrNoMarket
	}

	t, err := app.loadFacts()
	if err != nil {
		return err
	}

	custom, err := app.customNodes(sc.spec)
	if err != nil {
		return err
	}

	path, err := parsePath(sc.path)
	if err != nil {
		return err
	}

	result, err := marketshare.Compute(t, marketshare.Params{
		Hier:      app.hier,
		ListNos:   app.cfg.Data.ListNos,
		ColumnID:  app.cfg.Data.ColumnID,
		Path:      path,
		Custom:    custom,
		MarketCds: app.cfg.Firms.Market,
		Groups:    app.cfg.Firms.Groups,
	})
	if err != nil {
		return err
	}

	months := shareMonths(result)
	if len(months) == 0 {
		return errors.New("no share data in the configured range")
	}

	month := sc.month
	if month == "" {
		month = months[len(months)-1]
	}

	render.RankingTable(cmd.OutOrStdout(), result, month, app.firmNamer())
	sc.printGroups(cmd, result, month)

	if sc.htmlPath != "" {
		chart := render.LineChart("Market share", months, shareLines(result, months, app.firmNamer()), "%")
		if err := render.WritePage(sc.htmlPath, chart); err != nil {
			return err
		}

		app.logger.Info("wrote chart page", "path", sc.htmlPath)
	}

	return nil
}

func (sc *SharesCommand) printGroups(cmd *cobra.Command, result marketshare.Result, month string) {
	out := cmd.OutOrStdout()

	for name, group := range result.Groups {
		for _, m := range group.Agg {
			if m.BaseMonth == month {
				fmt.Fprintf(out, "group %s: aggregate %s\n", name, groupShareCell(m.SharePct))
			}
		}

		for _, m := range group.Avg {
			if m.BaseMonth == month {
				fmt.Fprintf(out, "group %s: average %s\n", name, groupShareCell(m.SharePct))
			}
		}
	}
}

// groupShareCell formats a group share percentage, "-" when undefined.
func groupShareCell(sharePct float64) string {
	if math.IsNaN(sharePct) {
		return "-"
	}

	return fmt.Sprintf("%.2f%%", sharePct)
}

// shareMonths collects the distinct months of the per-firm rows in
// chronological order. Rows are already ordered by firm then month.
func shareMonths(result marketshare.Result) []string {
	seen := make(map[string]struct{})

	var months []string

	for _, row := range result.PerFirm {
		if _, ok := seen[row.BaseMonth]; ok {
			continue
		}

		seen[row.BaseMonth] = struct{}{}
		months = append(months, row.BaseMonth)
	}

	facts.SortMonths(months)

	return months
}

func shareLines(result marketshare.Result, months []string, namer render.FirmNamer) []render.ChartSeries {
	position := make(map[string]int, len(months))
	for i, month := range months {
		position[month] = i
	}

	byFirm := make(map[string][]float64)

	var order []string

	for _, row := range result.PerFirm {
		if _, ok := byFirm[row.FinanceCd]; !ok {
			byFirm[row.FinanceCd] = make([]float64, len(months))
			order = append(order, row.FinanceCd)
		}

		byFirm[row.FinanceCd][position[row.BaseMonth]] = row.SharePct
	}

	out := make([]render.ChartSeries, 0, len(order))
	for _, cd := range order {
		out = append(out, render.ChartSeries{Name: namer(cd), Values: byFirm[cd]})
	}

	return out
}
