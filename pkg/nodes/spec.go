package nodes

import (
	"strings"

	"github.com/fisight/fisight/pkg/hierarchy"
)

// ParseSpec expands a node-spec string into its node list. Tokens are
// separated by "+" and the grammar is context sensitive:
//
//   - "SH001 + SH002"      → the two list totals (high-level comparison)
//   - "SH022"              → the top-layer accounts of SH022 (immediate breakdown)
//   - "SH001:A + SH004:A2" → the named accounts; a bare list token mixed in
//     is treated as that list's total.
//
// The hierarchy set resolves single-list expansion; a bare sole token naming
// an unknown list is a configuration error.
func ParseSpec(spec string, hier hierarchy.Set) ([]Node, error) {
	parts := splitSpec(spec)
	if len(parts) == 0 {
		return nil, nil
	}

	bareOnly := true

	for _, p := range parts {
		if strings.Contains(p, ":") {
			bareOnly = false

			break
		}
	}

	if bareOnly && len(parts) > 1 {
		out := make([]Node, 0, len(parts))
		for _, listNo := range parts {
			out = append(out, ListTotal(listNo))
		}

		return out, nil
	}

	if bareOnly {
		return expandList(parts[0], hier)
	}

	out := make([]Node, 0, len(parts))

	for _, p := range parts {
		listNo, accountCd, qualified := strings.Cut(p, ":")
		if qualified {
			out = append(out, Account(strings.TrimSpace(listNo), strings.TrimSpace(accountCd)))

			continue
		}

		out = append(out, ListTotal(p))
	}

	return out, nil
}

// expandList resolves a sole bare list token to its top-layer account nodes.
func expandList(listNo string, hier hierarchy.Set) ([]Node, error) {
	idx, err := hier.Get(listNo)
	if err != nil {
		return nil, err
	}

	tops := idx.TopAccounts()
	out := make([]Node, 0, len(tops))

	for _, cd := range tops {
		out = append(out, Account(listNo, cd))
	}

	return out, nil
}

func splitSpec(spec string) []string {
	var parts []string

	for _, p := range strings.Split(spec, "+") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}

	return parts
}
