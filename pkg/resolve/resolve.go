// Package resolve turns a navigation context into the current set of
// hierarchy nodes and their per-month series. It owns the two aggregation
// primitives: per-account series over the shared month axis and list totals
// as the sum of a list's top-layer accounts. Aggregation is always over the
// current level only; a node's descendants are never implicitly summed.
package resolve

import (
	"errors"
	"fmt"
	"math"

	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/nodes"
	"github.com/fisight/fisight/pkg/series"
)

// Scope sentinels for result sets that span lists. Any other scope value is
// the list_no every current node belongs to.
const (
	// ScopeCustom marks results resolved from an explicit custom node list.
	ScopeCustom = "__CUSTOM__"

	// ScopeMulti marks results resolved at the multi-list root.
	ScopeMulti = "__MULTI__"
)

// ErrNoScope is returned when resolution is requested with no configured
// lists and no custom nodes; there is nothing to resolve against.
var ErrNoScope = errors.New("no lists configured and no custom nodes")

// Result is the outcome of one resolution: the scope label, the ordered
// current nodes, and each node's series keyed by its boundary key. Results
// are fresh per call and owned by the caller.
type Result struct {
	Scope  string
	Nodes  []nodes.Node
	Series map[string]series.Series
}

// SeriesFor aggregates the table into one series per requested account:
// rows are filtered to the list, column and account set, duplicate rows are
// absorbed by summation, and every series is reindexed onto the full sorted
// month axis of the supplied table with gaps filled as 0.0. Absent values
// (NaN) are excluded from sums rather than read as zero.
func SeriesFor(t facts.Table, listNo string, accountCds []string, columnID string) map[string]series.Series {
	axis := t.Months()

	wanted := make(map[string]struct{}, len(accountCds))
	for _, cd := range accountCds {
		wanted[cd] = struct{}{}
	}

	raw := make(map[string]series.Series, len(accountCds))

	for _, r := range t {
		if r.ListNo != listNo || r.ColumnID != columnID {
			continue
		}

		if _, ok := wanted[r.AccountCd]; !ok {
			continue
		}

		if facts.IsAbsent(r.Value) {
			continue
		}

		s := raw[r.AccountCd]
		if s == nil {
			s = series.Series{}
			raw[r.AccountCd] = s
		}

		s[r.BaseMonth] += r.Value
	}

	out := make(map[string]series.Series, len(accountCds))

	for _, cd := range accountCds {
		if s, ok := raw[cd]; ok {
			out[cd] = s.Reindex(axis)
		} else {
			out[cd] = series.Zero(axis)
		}
	}

	return out
}

// ListTotalSeries returns the total series of one list: the sum of its
// top-layer accounts' own series, not a recursive descendant sum. Values are
// scoped to the list's rows while the month axis comes from the whole table,
// so totals of different lists stay aligned.
func ListTotalSeries(t facts.Table, idx *hierarchy.Index, columnID string) series.Series {
	total := series.Zero(t.Months())

	perAccount := SeriesFor(t, idx.ListNo, idx.TopAccounts(), columnID)

	for _, s := range perAccount {
		for m, v := range s {
			if !math.IsNaN(v) {
				total[m] += v
			}
		}
	}

	return total
}

// Resolve determines the current node set for the navigation context and
// aggregates each node's series.
//
// The state machine, in precedence order:
//
//   - custom nodes with an empty path: the custom list verbatim;
//   - empty path, several configured lists: one list total per list;
//   - empty path, one configured list: that list's top-layer accounts;
//   - non-empty path ending in an account: that account's children
//     (zero nodes for a leaf, which is not an error);
//   - non-empty path ending in a list total: that list's top-layer accounts.
//
// An unknown list_no anywhere in the context fails loudly; an empty fact
// slice for a valid node yields an all-zero series.
func Resolve(
	t facts.Table,
	hier hierarchy.Set,
	listNos []string,
	columnID string,
	path nodes.Path,
	custom []nodes.Node,
) (Result, error) {
	if last, ok := path.Last(); ok {
		return resolveDrilled(t, hier, columnID, last)
	}

	switch {
	case len(custom) > 0:
		return resolveCustom(t, hier, columnID, custom)
	case len(listNos) > 1:
		return resolveMultiRoot(t, hier, columnID, listNos)
	case len(listNos) == 1:
		return resolveListRoot(t, hier, columnID, listNos[0])
	default:
		return Result{}, fmt.Errorf("resolve: %w", ErrNoScope)
	}
}

func resolveCustom(t facts.Table, hier hierarchy.Set, columnID string, custom []nodes.Node) (Result, error) {
	res := Result{
		Scope:  ScopeCustom,
		Nodes:  append([]nodes.Node(nil), custom...),
		Series: make(map[string]series.Series, len(custom)),
	}

	for _, n := range custom {
		idx, err := hier.Get(n.ListNo)
		if err != nil {
			return Result{}, err
		}

		if n.Kind == nodes.KindListTotal {
			res.Series[n.Key()] = ListTotalSeries(t, idx, columnID)

			continue
		}

		// An account node contributes its own series only.
		own := SeriesFor(t, n.ListNo, []string{n.AccountCd}, columnID)
		res.Series[n.Key()] = own[n.AccountCd]
	}

	return res, nil
}

func resolveMultiRoot(t facts.Table, hier hierarchy.Set, columnID string, listNos []string) (Result, error) {
	res := Result{
		Scope:  ScopeMulti,
		Nodes:  make([]nodes.Node, 0, len(listNos)),
		Series: make(map[string]series.Series, len(listNos)),
	}

	for _, ln := range listNos {
		idx, err := hier.Get(ln)
		if err != nil {
			return Result{}, err
		}

		n := nodes.ListTotal(ln)
		res.Nodes = append(res.Nodes, n)
		res.Series[n.Key()] = ListTotalSeries(t, idx, columnID)
	}

	return res, nil
}

func resolveListRoot(t facts.Table, hier hierarchy.Set, columnID, listNo string) (Result, error) {
	idx, err := hier.Get(listNo)
	if err != nil {
		return Result{}, err
	}

	return accountsResult(t, listNo, idx.TopAccounts(), columnID), nil
}

func resolveDrilled(t facts.Table, hier hierarchy.Set, columnID string, last nodes.Node) (Result, error) {
	idx, err := hier.Get(last.ListNo)
	if err != nil {
		return Result{}, err
	}

	if last.Kind == nodes.KindListTotal {
		// Entering a list from the multi-root level.
		return accountsResult(t, last.ListNo, idx.TopAccounts(), columnID), nil
	}

	// Children of the drilled account; empty for a leaf.
	return accountsResult(t, last.ListNo, idx.ChildrenOf(last.AccountCd), columnID), nil
}

func accountsResult(t facts.Table, listNo string, accountCds []string, columnID string) Result {
	res := Result{
		Scope:  listNo,
		Nodes:  make([]nodes.Node, 0, len(accountCds)),
		Series: make(map[string]series.Series, len(accountCds)),
	}

	perAccount := SeriesFor(t, listNo, accountCds, columnID)

	for _, cd := range accountCds {
		n := nodes.Account(listNo, cd)
		res.Nodes = append(res.Nodes, n)
		res.Series[n.Key()] = perAccount[cd]
	}

	return res
}
