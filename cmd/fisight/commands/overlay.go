package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/internal/config"
	"github.com/fisight/fisight/internal/render"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/overlay"
	"github.com/fisight/fisight/pkg/series"
)

// ErrNoOverlays indicates neither an expression argument nor configured
// overlays are available.
var ErrNoOverlays = errors.New("no overlay expression given and none configured")

// OverlayCommand holds flags and dependencies for the overlay command.
type OverlayCommand struct {
	globals *Globals

	firm     string
	htmlPath string
}

// NewOverlayCommand creates the overlay command.
func NewOverlayCommand(globals *Globals) *cobra.Command {
	oc := &OverlayCommand{globals: globals}

	cmd := &cobra.Command{
		Use:   "overlay [expression]",
		Short: "Evaluate overlay expressions across statements",
		Long: "Evaluate an overlay expression, or every configured overlay, over " +
			"the cached facts. Operands are list totals (SA002) or accounts (SA002:B).",
		Args: cobra.MaximumNArgs(1),
		RunE: oc.run,
	}

	cmd.Flags().StringVar(&oc.firm, "firm", "", "restrict to one finance code")
	cmd.Flags().StringVar(&oc.htmlPath, "html", "", "write a line chart page to this path")

	return cmd
}

func (oc *OverlayCommand) run(cmd *cobra.Command, args []string) error {
	app, err := loadApp(oc.globals)
	if err != nil {
		return err
	}

	t, err := app.loadFacts()
	if err != nil {
		return err
	}

	if oc.firm != "" {
		t = t.ByFirm(facts.CanonFinanceCd(oc.firm))
	}

	overlays := oc.selectOverlays(app.cfg, args)
	if len(overlays) == 0 {
		return ErrNoOverlays
	}

	months := t.Months()
	labels := make([]string, 0, len(overlays))
	values := make(map[string][]float64, len(overlays))

	for _, ov := range overlays {
		s, evalErr := overlay.Eval(t, app.hier, ov.Expr, app.cfg.Data.ColumnID)
		if evalErr != nil {
			return evalErr
		}

		labels = append(labels, ov.Name)
		values[ov.Name] = seriesColumn(s, months)
	}

	render.LevelTable(cmd.OutOrStdout(), months, labels, values, "")

	if oc.htmlPath != "" {
		chart := render.LineChart("Overlays", months, chartSeriesOf(labels, values), "")
		if err := render.WritePage(oc.htmlPath, chart); err != nil {
			return err
		}

		app.logger.Info("wrote chart page", "path", oc.htmlPath)
	}

	return nil
}

// selectOverlays prefers an explicit expression argument over the
// configured overlays. A bare argument is named after itself.
func (oc *OverlayCommand) selectOverlays(cfg *config.Config, args []string) []config.OverlayConfig {
	if len(args) > 0 {
		return []config.OverlayConfig{{Name: args[0], Expr: args[0]}}
	}

	return cfg.Views.Overlays
}

func seriesColumn(s series.Series, months []string) []float64 {
	out := make([]float64, len(months))

	for i, month := range months {
		value, ok := s.At(month)
		if !ok {
			value = 0
		}

		out[i] = value
	}

	return out
}
