package commands

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fisight/fisight/internal/cache"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/fisis"
)

// ErrMissingAuthKey indicates no FISIS auth key is configured.
var ErrMissingAuthKey = errors.New("api.auth_key is not configured")

// FetchCommand holds dependencies for the fetch command.
type FetchCommand struct {
	globals *Globals
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(globals *Globals) *cobra.Command {
	fc := &FetchCommand{globals: globals}

	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch statement facts from the FISIS API into the local cache",
		Long: "Fetch statement facts for every configured list and firm over the " +
			"configured month range, then store them in the local cache.",
		Args: cobra.NoArgs,
		RunE: fc.run,
	}
}

func (fc *FetchCommand) run(cmd *cobra.Command, _ []string) error {
	app, err := loadApp(fc.globals)
	if err != nil {
		return err
	}

	cfg := app.cfg
	if cfg.API.AuthKey == "" {
		return ErrMissingAuthKey
	}

	client := fisis.NewClient(cfg.API.AuthKey, fisis.WithBaseURL(cfg.API.BaseURL))

	// An empty table resolves the range sentinels to the widest bounds.
	start, end := facts.Table(nil).ResolveRange(cfg.Data.StartMonth, cfg.Data.EndMonth)
	firms := fetchFirms(cfg.Firms.Targets, cfg.Firms.Market)

	var table facts.Table

	for _, listNo := range cfg.Data.ListNos {
		for _, financeCd := range firms {
			rows, fetchErr := client.FetchFacts(cmd.Context(), fisis.Query{
				FinanceCd:  financeCd,
				ListNo:     listNo,
				Term:       cfg.Data.Term,
				StartMonth: start,
				EndMonth:   end,
				ColumnIDs:  []string{cfg.Data.ColumnID},
			})
			if fetchErr != nil {
				return fmt.Errorf("fetch list=%s firm=%s: %w", listNo, financeCd, fetchErr)
			}

			app.logger.Debug("fetched facts", "list_no", listNo, "finance_cd", financeCd, "rows", len(rows))

			table = append(table, rows...)
		}
	}

	if err := app.store.SaveFacts(table); err != nil {
		return err
	}

	report := app.store.Check(table, cache.Requirements{
		FinanceCds: firms,
		ListNos:    cfg.Data.ListNos,
		StartMonth: cfg.Data.StartMonth,
		EndMonth:   cfg.Data.EndMonth,
		Term:       cfg.Data.Term,
	})
	if !report.Complete() {
		app.logger.Warn("cache is incomplete; see missing items above")
	}

	app.logger.Info("fetch completed", "rows", len(table), "path", app.store.Path())

	return nil
}

// fetchFirms unions the target and market firm codes in canonical form.
func fetchFirms(targets, market []string) []string {
	seen := make(map[string]struct{}, len(targets)+len(market))

	var out []string

	for _, cd := range append(append([]string(nil), targets...), market...) {
		canon := facts.CanonFinanceCd(cd)
		if canon == "" {
			continue
		}

		if _, ok := seen[canon]; ok {
			continue
		}

		seen[canon] = struct{}{}
		out = append(out, canon)
	}

	sort.Strings(out)

	return out
}
