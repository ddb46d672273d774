package cache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/fisight/fisight/pkg/hierarchy"
)

// ErrMissingColumn is returned by LoadMapping when the mapping CSV lacks a
// required column.
var ErrMissingColumn = errors.New("cache: mapping column missing")

// mappingColumns are the columns a mapping CSV must carry.
var mappingColumns = []string{"list_no", "list_nm", "account_cd", "account_nm", "column_id", "column_nm"}

// LoadMapping reads a statement-mapping CSV and builds a hierarchy index per
// statement list. The CSV carries one row per (account, column) combination;
// account and column catalogs are deduplicated per list.
func LoadMapping(path string) (hierarchy.Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(file)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading mapping header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for _, name := range mappingColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading mapping rows: %w", err)
	}

	type catalog struct {
		listNm   string
		accounts map[string]string
		columns  map[string]string
	}

	catalogs := make(map[string]*catalog)

	var order []string

	for _, record := range records {
		listNo := record[index["list_no"]]
		if listNo == "" {
			continue
		}

		cat, ok := catalogs[listNo]
		if !ok {
			cat = &catalog{
				listNm:   record[index["list_nm"]],
				accounts: make(map[string]string),
				columns:  make(map[string]string),
			}
			catalogs[listNo] = cat
			order = append(order, listNo)
		}

		if cd := record[index["account_cd"]]; cd != "" {
			cat.accounts[cd] = record[index["account_nm"]]
		}

		if id := record[index["column_id"]]; id != "" {
			cat.columns[id] = record[index["column_nm"]]
		}
	}

	set := make(hierarchy.Set, len(catalogs))

	for _, listNo := range order {
		cat := catalogs[listNo]
		set[listNo] = hierarchy.Build(listNo, cat.listNm, cat.accounts, cat.columns)
	}

	return set, nil
}
