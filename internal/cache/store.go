// Package cache persists fetched fact tables on disk so repeated runs
// do not hit the statistics API again. Facts are stored as LZ4-compressed
// CSV under a single cache directory.
package cache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pierrec/lz4/v4"

	"github.com/fisight/fisight/pkg/facts"
)

// factsFileName is the on-disk name of the compressed fact table.
const factsFileName = "master.csv.lz4"

// absentValue marks a fact whose numeric value is missing in the CSV form.
const absentValue = ""

// factsHeader is the column order of the persisted fact table.
var factsHeader = []string{"list_no", "finance_cd", "base_month", "account_cd", "column_id", "value"}

// ErrNoCache is returned by LoadFacts when the cache directory holds no fact table.
var ErrNoCache = errors.New("cache: no cached facts")

// ErrBadHeader is returned when a cached fact table has an unexpected CSV header.
var ErrBadHeader = errors.New("cache: unexpected facts header")

// Store reads and writes cached fact tables in a directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir. The directory is created on first save.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{dir: dir, logger: logger}
}

// Path returns the location of the cached fact table.
func (s *Store) Path() string {
	return filepath.Join(s.dir, factsFileName)
}

// SaveFacts writes the fact table to the cache directory, replacing any
// previous table.
func (s *Store) SaveFacts(t facts.Table) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	file, err := os.Create(s.Path())
	if err != nil {
		return fmt.Errorf("creating facts cache: %w", err)
	}
	defer file.Close()

	zw := lz4.NewWriter(file)
	cw := csv.NewWriter(zw)

	if err := cw.Write(factsHeader); err != nil {
		return fmt.Errorf("writing facts header: %w", err)
	}

	for _, row := range t {
		value := absentValue
		if !facts.IsAbsent(row.Value) {
			value = strconv.FormatFloat(row.Value, 'g', -1, 64)
		}

		record := []string{row.ListNo, row.FinanceCd, row.BaseMonth, row.AccountCd, row.ColumnID, value}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing facts row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing facts cache: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing facts compressor: %w", err)
	}

	s.logger.Debug("saved facts cache", "path", s.Path(), "rows", len(t))

	return nil
}

// LoadFacts reads the cached fact table. It returns ErrNoCache when
// nothing has been saved yet.
func (s *Store) LoadFacts() (facts.Table, error) {
	file, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCache
		}

		return nil, fmt.Errorf("opening facts cache: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(lz4.NewReader(file))
	cr.FieldsPerRecord = len(factsHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading facts header: %w", err)
	}

	for i, name := range factsHeader {
		if header[i] != name {
			return nil, fmt.Errorf("%w: got %v", ErrBadHeader, header)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading facts rows: %w", err)
	}

	table := make(facts.Table, 0, len(records))

	for _, record := range records {
		value := math.NaN()

		if record[5] != absentValue {
			parsed, parseErr := strconv.ParseFloat(record[5], 64)
			if parseErr != nil {
				return nil, fmt.Errorf("parsing cached value %q: %w", record[5], parseErr)
			}

			value = parsed
		}

		table = append(table, facts.Row{
			ListNo:    record[0],
			FinanceCd: record[1],
			BaseMonth: record[2],
			AccountCd: record[3],
			ColumnID:  record[4],
			Value:     value,
		})
	}

	s.logger.Debug("loaded facts cache", "path", s.Path(), "rows", len(table))

	return table, nil
}
