package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/internal/render"
	"github.com/fisight/fisight/pkg/bucketing"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/resolve"
)

// LevelCommand holds flags and dependencies for the level command.
type LevelCommand struct {
	globals *Globals

	spec     string
	path     string
	firm     string
	htmlPath string
	noBucket bool
}

// NewLevelCommand creates the level command.
func NewLevelCommand(globals *Globals) *cobra.Command {
	lc := &LevelCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "level",
		Short: "Show statement composition at a hierarchy level",
		Long: "Resolve the current hierarchy level and show each component's value " +
			"per month, collapsing components below the bucket threshold.",
		Args: cobra.NoArgs,
		RunE: lc.run,
	}

	cmd.Flags().StringVar(&lc.spec, "spec", "", "node spec override (example: SA002:B,SA002:C)")
	cmd.Flags().StringVar(&lc.path, "path", "", "drill path of node keys (example: acc:SA002:B)")
	cmd.Flags().StringVar(&lc.firm, "firm", "", "restrict to one finance code (default: all target firms)")
	cmd.Flags().StringVar(&lc.htmlPath, "html", "", "write a stacked bar chart page to this path")
	cmd.Flags().BoolVar(&lc.noBucket, "no-bucket", false, "disable small-component bucketing")

	return cmd
}

func (lc *LevelCommand) run(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(lc.globals)
	if err != nil {
		return err
	}

	t, err := app.loadFacts()
	if err != nil {
		return err
	}

	t = lc.scopeFirms(t, app)

	custom, err := app.customNodes(lc.spec)
	if err != nil {
		return err
	}

	path, err := parsePath(lc.path)
	if err != nil {
		return err
	}

	res, err := resolve.Resolve(t, app.hier, app.cfg.Data.ListNos, app.cfg.Data.ColumnID, path, custom)
	if err != nil {
		return err
	}

	app.logger.Debug("resolved level", "scope", res.Scope, "nodes", len(res.Nodes))

	months := t.Months()
	labels, values := lc.breakdown(app, res, months)

	rescaler := render.SelectRescaler(maxAbsOf(values))
	for label := range values {
		for i, v := range values[label] {
			values[label][i] = rescaler.Apply(v)
		}
	}

	render.LevelTable(cmd.OutOrStdout(), months, labels, values, rescaler.Unit)

	if lc.htmlPath != "" {
		chart := render.LevelChart("Level breakdown", months, chartSeriesOf(labels, values), rescaler.Unit)
		if err := render.WritePage(lc.htmlPath, chart); err != nil {
			return err
		}

		app.logger.Info("wrote chart page", "path", lc.htmlPath)
	}

	return nil
}

func (lc *LevelCommand) scopeFirms(t facts.Table, a *app) facts.Table {
	if lc.firm != "" {
		return t.ByFirm(facts.CanonFinanceCd(lc.firm))
	}

	if len(a.cfg.Firms.Targets) > 0 {
		return t.ByFirms(a.cfg.Firms.Targets)
	}

	return t
}

// breakdown flattens the resolved series into per-month bucketing rows and
// regroups the bucketed output into label-aligned value columns.
func (lc *LevelCommand) breakdown(a *app, res resolve.Result, months []string) ([]string, map[string][]float64) {
	var rows []bucketing.Row

	for _, node := range res.Nodes {
		label := a.nodeLabel(node)
		s := res.Series[node.Key()]

		for _, month := range months {
			value, ok := s.At(month)
			if !ok {
				value = 0
			}

			rows = append(rows, bucketing.Row{Group: month, Item: label, Value: value})
		}
	}

	if !lc.noBucket {
		rows = bucketing.Bucket(rows, bucketing.Options{
			Threshold:  a.cfg.Views.Bucket.Threshold,
			Label:      a.cfg.Views.Bucket.Label,
			StrictLess: true,
		})
	}

	position := make(map[string]int, len(months))
	for i, month := range months {
		position[month] = i
	}

	values := make(map[string][]float64)

	var labels []string

	for _, row := range rows {
		if _, ok := values[row.Item]; !ok {
			values[row.Item] = make([]float64, len(months))
			labels = append(labels, row.Item)
		}

		// Distinct nodes can share a display label; their values sum into
		// one column, matching what bucketing's re-aggregation does.
		values[row.Item][position[row.Group]] += row.Value
	}

	sort.Strings(labels)

	return labels, values
}

func maxAbsOf(values map[string][]float64) float64 {
	var all []float64
	for _, column := range values {
		all = append(all, column...)
	}

	return render.MaxAbs(all...)
}

func chartSeriesOf(labels []string, values map[string][]float64) []render.ChartSeries {
	out := make([]render.ChartSeries, 0, len(labels))
	for _, label := range labels {
		out = append(out, render.ChartSeries{Name: label, Values: values[label]})
	}

	return out
}
