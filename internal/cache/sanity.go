package cache

import (
	"sort"

	"github.com/fisight/fisight/pkg/facts"
)

// Requirements describes what a complete cached fact table must contain:
// every required firm and list, with rows on every essential month of the
// requested range.
type Requirements struct {
	FinanceCds []string
	ListNos    []string
	StartMonth string
	EndMonth   string
	Term       string
}

// Report lists what a fact table is missing relative to a Requirements.
type Report struct {
	MissingFirms []string
	MissingLists []string
	// MissingMonths maps "listNo/financeCd" to the essential months that
	// carry no rows for that pair.
	MissingMonths map[string][]string
}

// Complete reports whether nothing is missing.
func (r Report) Complete() bool {
	return len(r.MissingFirms) == 0 && len(r.MissingLists) == 0 && len(r.MissingMonths) == 0
}

// Check compares the table against the requirements and logs every gap.
// It never fails: callers decide whether an incomplete cache warrants a
// refetch.
func (s *Store) Check(t facts.Table, req Requirements) Report {
	report := Report{MissingMonths: map[string][]string{}}

	seenFirms := make(map[string]struct{})
	seenLists := make(map[string]struct{})
	seenMonths := make(map[string]map[string]struct{})

	for _, row := range t {
		seenFirms[row.FinanceCd] = struct{}{}
		seenLists[row.ListNo] = struct{}{}

		pair := row.ListNo + "/" + row.FinanceCd
		if seenMonths[pair] == nil {
			seenMonths[pair] = make(map[string]struct{})
		}

		seenMonths[pair][row.BaseMonth] = struct{}{}
	}

	for _, cd := range req.FinanceCds {
		if _, ok := seenFirms[facts.CanonFinanceCd(cd)]; !ok {
			report.MissingFirms = append(report.MissingFirms, cd)
		}
	}

	for _, listNo := range req.ListNos {
		if _, ok := seenLists[listNo]; !ok {
			report.MissingLists = append(report.MissingLists, listNo)
		}
	}

	start, end := t.ResolveRange(req.StartMonth, req.EndMonth)
	expected := facts.ExpectedMonths(start, end, req.Term)

	for _, listNo := range req.ListNos {
		for _, cd := range req.FinanceCds {
			pair := listNo + "/" + facts.CanonFinanceCd(cd)

			var missing []string

			for _, month := range expected {
				if _, ok := seenMonths[pair][month]; !ok {
					missing = append(missing, month)
				}
			}

			if len(missing) > 0 {
				report.MissingMonths[pair] = missing
			}
		}
	}

	sort.Strings(report.MissingFirms)
	sort.Strings(report.MissingLists)

	s.logReport(report)

	return report
}

func (s *Store) logReport(report Report) {
	if report.Complete() {
		s.logger.Debug("facts cache complete")

		return
	}

	if len(report.MissingFirms) > 0 {
		s.logger.Warn("facts cache missing firms", "finance_cds", report.MissingFirms)
	}

	if len(report.MissingLists) > 0 {
		s.logger.Warn("facts cache missing lists", "list_nos", report.MissingLists)
	}

	for pair, months := range report.MissingMonths {
		s.logger.Warn("facts cache missing months", "pair", pair, "months", months)
	}
}
