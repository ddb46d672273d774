// Package hierarchy builds per-statement account hierarchies from flat
// code-to-name mappings. An account code's length encodes its depth: codes
// are grouped into layers by length, and a code's parent is the code of the
// immediately next-shorter layer that is a string prefix of it. An index is
// built once per mapping snapshot and is immutable afterwards; it is safe to
// share across concurrent queries without locking.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownList is returned when a node reference or query names a list the
// hierarchy set does not contain. This indicates a mismatch between section
// configuration and mapping data, not a transient condition.
var ErrUnknownList = errors.New("unknown list_no")

// Layer holds the account codes whose length equals Length. Layers are
// ordered from shortest code length (top of the hierarchy) to longest.
type Layer struct {
	Length int
	Codes  []string
}

// Index is the immutable hierarchy of one statement list.
type Index struct {
	ListNo string
	ListNm string

	// Accounts maps account_cd to account_nm.
	Accounts map[string]string

	// Columns maps column_id to column_nm for the list's measured figures.
	Columns map[string]string

	// Layers are ordered top to bottom. A list with no accounts has zero
	// layers, which is a valid degenerate hierarchy.
	Layers []Layer

	// Parent maps a child code to its parent code. Codes without an entry
	// are roots; a root can occur below the top layer when no code of the
	// next-shorter layer is a prefix of it.
	Parent map[string]string

	// Children maps a parent code to its sorted child codes. Codes without
	// an entry have no children.
	Children map[string][]string
}

// Build constructs the index for one list from its distinct account and
// column mappings. Empty account codes are ignored. The result is
// deterministic for a given input set: codes are processed in sorted order
// and children lists are sorted.
func Build(listNo, listNm string, accounts, columns map[string]string) *Index {
	idx := &Index{
		ListNo:   listNo,
		ListNm:   listNm,
		Accounts: make(map[string]string, len(accounts)),
		Columns:  make(map[string]string, len(columns)),
		Parent:   map[string]string{},
		Children: map[string][]string{},
	}

	for id, nm := range columns {
		if id != "" {
			idx.Columns[id] = nm
		}
	}

	codes := make([]string, 0, len(accounts))

	for cd, nm := range accounts {
		if cd == "" {
			continue
		}

		idx.Accounts[cd] = nm
		codes = append(codes, cd)
	}

	if len(codes) == 0 {
		return idx
	}

	sort.Strings(codes)

	idx.Layers = groupByLength(codes)
	linkParents(idx)

	return idx
}

// groupByLength splits sorted codes into layers ordered shortest to longest.
func groupByLength(sortedCodes []string) []Layer {
	byLen := map[int][]string{}

	for _, cd := range sortedCodes {
		byLen[len(cd)] = append(byLen[len(cd)], cd)
	}

	lengths := make([]int, 0, len(byLen))
	for l := range byLen {
		lengths = append(lengths, l)
	}

	sort.Ints(lengths)

	layers := make([]Layer, 0, len(lengths))
	for _, l := range lengths {
		layers = append(layers, Layer{Length: l, Codes: byLen[l]})
	}

	return layers
}

// linkParents walks the layers bottom to top and records the parent relation:
// a code's candidate parent is its prefix at the next-shorter layer's length,
// and only a hit in that exact layer links it. A miss leaves the code a root
// even when shorter layers further up would match.
func linkParents(idx *Index) {
	for i := len(idx.Layers) - 1; i > 0; i-- {
		parentLayer := idx.Layers[i-1]

		candidates := make(map[string]struct{}, len(parentLayer.Codes))
		for _, cd := range parentLayer.Codes {
			candidates[cd] = struct{}{}
		}

		for _, child := range idx.Layers[i].Codes {
			prefix := child[:parentLayer.Length]
			if _, ok := candidates[prefix]; !ok {
				continue
			}

			idx.Parent[child] = prefix
			idx.Children[prefix] = append(idx.Children[prefix], child)
		}
	}

	for _, kids := range idx.Children {
		sort.Slice(kids, func(i, j int) bool { return NaturalLess(kids[i], kids[j]) })
	}
}

// TopAccounts returns the codes of the top layer in natural order. These are
// the nodes displayed at the root of the list and the terms of the list
// total.
func (idx *Index) TopAccounts() []string {
	if len(idx.Layers) == 0 {
		return nil
	}

	top := append([]string(nil), idx.Layers[0].Codes...)
	sort.Slice(top, func(i, j int) bool { return NaturalLess(top[i], top[j]) })

	return top
}

// ChildrenOf returns the sorted children of the given code, or nil for a leaf
// or unknown code.
func (idx *Index) ChildrenOf(accountCd string) []string {
	kids := idx.Children[accountCd]
	if len(kids) == 0 {
		return nil
	}

	return append([]string(nil), kids...)
}

// ParentOf returns the parent of the given code and whether one exists.
func (idx *Index) ParentOf(accountCd string) (string, bool) {
	p, ok := idx.Parent[accountCd]

	return p, ok
}

// AccountName returns the display name of a code, falling back to the code
// itself when the mapping carries no name.
func (idx *Index) AccountName(accountCd string) string {
	if nm := idx.Accounts[accountCd]; nm != "" {
		return nm
	}

	return accountCd
}

// Label returns a human display label for the list.
func (idx *Index) Label() string {
	if idx.ListNm == "" {
		return idx.ListNo
	}

	return fmt.Sprintf("%s · %s", idx.ListNo, idx.ListNm)
}

// Set maps list_no to its built index. The set itself is immutable after
// construction.
type Set map[string]*Index

// Get returns the index for a list or ErrUnknownList. Callers must treat the
// error as fatal to the query: it means configuration references a list the
// mapping never defined.
func (s Set) Get(listNo string) (*Index, error) {
	idx, ok := s[listNo]
	if !ok {
		return nil, fmt.Errorf("hierarchy: %w: %q", ErrUnknownList, listNo)
	}

	return idx, nil
}

// ListNos returns the sorted list numbers of the set.
func (s Set) ListNos() []string {
	out := make([]string, 0, len(s))
	for ln := range s {
		out = append(out, ln)
	}

	sort.Strings(out)

	return out
}
