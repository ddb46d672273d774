// Package config provides YAML-based configuration for fisight: the API
// credentials, the data window to fetch, the firms under analysis, and the
// views rendered from them.
package config

import (
	"errors"

	"github.com/fisight/fisight/pkg/facts"
)

// Config is the top-level configuration struct for fisight.
// Field tags use mapstructure for viper unmarshalling and yaml for
// writing a starter config file.
type Config struct {
	API   APIConfig   `mapstructure:"api"   yaml:"api"`
	Data  DataConfig  `mapstructure:"data"  yaml:"data"`
	Firms FirmsConfig `mapstructure:"firms" yaml:"firms"`
	Views ViewsConfig `mapstructure:"views" yaml:"views"`
	Cache CacheConfig `mapstructure:"cache" yaml:"cache"`
}

// APIConfig holds statistics API access settings.
type APIConfig struct {
	AuthKey string `mapstructure:"auth_key" yaml:"auth_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DataConfig selects which facts to fetch and analyze.
type DataConfig struct {
	ListNos     []string `mapstructure:"list_nos"     yaml:"list_nos"`
	Term        string   `mapstructure:"term"         yaml:"term"`
	StartMonth  string   `mapstructure:"start_month"  yaml:"start_month"`
	EndMonth    string   `mapstructure:"end_month"    yaml:"end_month"`
	ColumnID    string   `mapstructure:"column_id"    yaml:"column_id"`
	MappingPath string   `mapstructure:"mapping_path" yaml:"mapping_path"`
}

// FirmsConfig names the firms under analysis. Targets are the firms whose
// metrics are reported, Market is the denominator population for shares,
// and Groups aggregate target firms under a label.
type FirmsConfig struct {
	Targets []string            `mapstructure:"targets" yaml:"targets"`
	Market  []string            `mapstructure:"market"  yaml:"market"`
	Groups  map[string][]string `mapstructure:"groups"  yaml:"groups"`
	Names   map[string]string   `mapstructure:"names"   yaml:"names"`
}

// ViewsConfig holds presentation settings.
type ViewsConfig struct {
	NodeSpec string          `mapstructure:"node_spec" yaml:"node_spec"`
	Overlays []OverlayConfig `mapstructure:"overlays"  yaml:"overlays"`
	Bucket   BucketConfig    `mapstructure:"bucket"    yaml:"bucket"`
}

// OverlayConfig names one overlay expression drawn on top of a chart.
type OverlayConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Expr string `mapstructure:"expr" yaml:"expr"`
}

// BucketConfig controls small-component bucketing in composition views.
type BucketConfig struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold"`
	Label     string  `mapstructure:"label"     yaml:"label"`
}

// CacheConfig holds the local fact-cache settings.
type CacheConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidTerm indicates the reporting term is not Q, H, or Y.
	ErrInvalidTerm = errors.New("data.term must be Q, H, or Y")
	// ErrInvalidMonth indicates a month bound is neither a range sentinel nor YYYYMM.
	ErrInvalidMonth = errors.New("data month bounds must be YYYYMM, start, or end")
	// ErrInvalidThreshold indicates the bucket threshold is out of range.
	ErrInvalidThreshold = errors.New("views.bucket.threshold must be between 0 and 1")
	// ErrNoLists indicates no statement lists were configured.
	ErrNoLists = errors.New("data.list_nos must name at least one list")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if len(c.Data.ListNos) == 0 {
		return ErrNoLists
	}

	switch c.Data.Term {
	case facts.TermQuarterly, facts.TermHalfYearly, facts.TermYearly:
	default:
		return ErrInvalidTerm
	}

	if !validMonthBound(c.Data.StartMonth) || !validMonthBound(c.Data.EndMonth) {
		return ErrInvalidMonth
	}

	if c.Views.Bucket.Threshold < 0 || c.Views.Bucket.Threshold >= 1 {
		return ErrInvalidThreshold
	}

	return nil
}

func validMonthBound(month string) bool {
	if month == facts.RangeStart || month == facts.RangeEnd {
		return true
	}

	return facts.MonthInt(month) >= 0
}
