// Package commands implements CLI command handlers for fisight.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fisight/fisight/internal/cache"
	"github.com/fisight/fisight/internal/config"
	"github.com/fisight/fisight/internal/render"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/nodes"
)

// Globals holds root-level flag values shared by every command.
type Globals struct {
	ConfigPath string
	Verbose    bool
	Quiet      bool
}

// Logger builds the command logger at the level the root flags select.
func (g *Globals) Logger() *slog.Logger {
	level := slog.LevelInfo

	switch {
	case g.Quiet:
		level = slog.LevelError
	case g.Verbose:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// app bundles the loaded configuration, the fact cache, and the statement
// hierarchies every analysis command works against.
type app struct {
	cfg    *config.Config
	store  *cache.Store
	hier   hierarchy.Set
	logger *slog.Logger
}

func loadApp(globals *Globals) (*app, error) {
	cfg, err := config.Load(globals.ConfigPath)
	if err != nil {
		return nil, err
	}

	canonFirms(&cfg.Firms)

	logger := globals.Logger()

	hier, err := cache.LoadMapping(cfg.Data.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}

	return &app{
		cfg:    cfg,
		store:  cache.NewStore(cfg.Cache.Dir, logger),
		hier:   hier,
		logger: logger,
	}, nil
}

// canonFirms rewrites every configured firm code into canonical form so it
// matches cached facts, which always carry canonical codes. Codes without
// digits are dropped.
func canonFirms(firms *config.FirmsConfig) {
	firms.Targets = canonCds(firms.Targets)
	firms.Market = canonCds(firms.Market)

	for name, members := range firms.Groups {
		firms.Groups[name] = canonCds(members)
	}

	if len(firms.Names) > 0 {
		names := make(map[string]string, len(firms.Names))
		for cd, name := range firms.Names {
			names[facts.CanonFinanceCd(cd)] = name
		}

		firms.Names = names
	}
}

func canonCds(cds []string) []string {
	out := make([]string, 0, len(cds))

	for _, cd := range cds {
		if canon := facts.CanonFinanceCd(cd); canon != "" {
			out = append(out, canon)
		}
	}

	return out
}

// loadFacts reads the cached fact table trimmed to the configured month
// range and the term's essential months.
func (a *app) loadFacts() (facts.Table, error) {
	t, err := a.store.LoadFacts()
	if err != nil {
		return nil, fmt.Errorf("load facts (run fetch first): %w", err)
	}

	start, end := t.ResolveRange(a.cfg.Data.StartMonth, a.cfg.Data.EndMonth)

	return t.InRange(start, end).KeepEssentialMonths(a.cfg.Data.Term), nil
}

// customNodes parses the node spec override or the configured spec into
// custom scope nodes. An empty spec means no custom scope.
func (a *app) customNodes(specOverride string) ([]nodes.Node, error) {
	spec := specOverride
	if spec == "" {
		spec = a.cfg.Views.NodeSpec
	}

	if spec == "" {
		return nil, nil
	}

	parsed, err := nodes.ParseSpec(spec, a.hier)
	if err != nil {
		return nil, fmt.Errorf("parse node spec: %w", err)
	}

	return parsed, nil
}

// parsePath converts a comma-separated list of node keys into a drill path.
func parsePath(raw string) (nodes.Path, error) {
	if raw == "" {
		return nil, nil
	}

	var path nodes.Path

	for _, key := range strings.Split(raw, ",") {
		node, err := nodes.ParseKey(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("parse path: %w", err)
		}

		path = path.Push(node)
	}

	return path, nil
}

// firmNamer resolves finance codes to the configured display names.
func (a *app) firmNamer() render.FirmNamer {
	names := a.cfg.Firms.Names

	return func(financeCd string) string {
		if name, ok := names[financeCd]; ok {
			return name
		}

		return financeCd
	}
}

// nodeLabel renders one node for display: the account name within its list,
// or the list label for a list total.
func (a *app) nodeLabel(n nodes.Node) string {
	idx, err := a.hier.Get(n.ListNo)
	if err != nil {
		return n.Key()
	}

	if n.Kind == nodes.KindListTotal {
		return idx.Label()
	}

	if name := idx.AccountName(n.AccountCd); name != "" {
		return name
	}

	return n.Key()
}
