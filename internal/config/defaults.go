package config

import (
	"github.com/fisight/fisight/pkg/bucketing"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/fisis"
)

// Data window defaults.
const (
	DefaultTerm       = facts.TermQuarterly
	DefaultStartMonth = facts.RangeStart
	DefaultEndMonth   = facts.RangeEnd
	DefaultColumnID   = "A"
)

// File location defaults.
const (
	DefaultMappingPath = "mapping.csv"
	DefaultCacheDir    = ".fisight"
)

// Bucketing defaults.
const (
	DefaultBucketThreshold = bucketing.DefaultThreshold
	DefaultBucketLabel     = bucketing.DefaultLabel
)

// DefaultBaseURL is the statistics API endpoint used when none is configured.
const DefaultBaseURL = fisis.DefaultBaseURL

// Default returns a Config carrying every default value. It is the
// starting point for a written starter config and for tests.
func Default() *Config {
	return &Config{
		API: APIConfig{BaseURL: DefaultBaseURL},
		Data: DataConfig{
			Term:        DefaultTerm,
			StartMonth:  DefaultStartMonth,
			EndMonth:    DefaultEndMonth,
			ColumnID:    DefaultColumnID,
			MappingPath: DefaultMappingPath,
		},
		Views: ViewsConfig{
			Bucket: BucketConfig{
				Threshold: DefaultBucketThreshold,
				Label:     DefaultBucketLabel,
			},
		},
		Cache: CacheConfig{Dir: DefaultCacheDir},
	}
}
