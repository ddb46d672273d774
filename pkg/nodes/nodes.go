// Package nodes defines the typed node references used to address points in
// the statement hierarchies: a whole-list total or a single account. String
// keys of the form "list:LIST" and "acc:LIST:CD" are parsed once at the
// system boundary; internal logic only ever sees the closed Node type.
package nodes

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the two node variants.
type Kind int

const (
	// KindListTotal addresses the total of one statement list, defined as
	// the sum of the list's top-layer accounts.
	KindListTotal Kind = iota

	// KindAccount addresses one account's own figure, never a descendant
	// roll-up.
	KindAccount
)

// Key prefixes of the boundary string form.
const (
	listKeyPrefix    = "list:"
	accountKeyPrefix = "acc:"
)

// ErrMalformedKey is returned when a boundary string is not a valid node key.
var ErrMalformedKey = errors.New("malformed node key")

// Node is a value-typed reference to a hierarchy point. Nodes compare by
// value and are safe to use as map keys.
type Node struct {
	Kind      Kind
	ListNo    string
	AccountCd string
}

// ListTotal returns a node addressing a list's total.
func ListTotal(listNo string) Node {
	return Node{Kind: KindListTotal, ListNo: listNo}
}

// Account returns a node addressing one account of a list.
func Account(listNo, accountCd string) Node {
	return Node{Kind: KindAccount, ListNo: listNo, AccountCd: accountCd}
}

// Key renders the boundary string form of the node.
func (n Node) Key() string {
	if n.Kind == KindListTotal {
		return listKeyPrefix + n.ListNo
	}

	return accountKeyPrefix + n.ListNo + ":" + n.AccountCd
}

// String implements fmt.Stringer.
func (n Node) String() string { return n.Key() }

// ParseKey parses a boundary key ("list:LIST" or "acc:LIST:CD") into a Node.
func ParseKey(key string) (Node, error) {
	switch {
	case strings.HasPrefix(key, listKeyPrefix):
		listNo := key[len(listKeyPrefix):]
		if listNo == "" || strings.Contains(listNo, ":") {
			return Node{}, fmt.Errorf("nodes: %w: %q", ErrMalformedKey, key)
		}

		return ListTotal(listNo), nil

	case strings.HasPrefix(key, accountKeyPrefix):
		rest := key[len(accountKeyPrefix):]

		listNo, accountCd, ok := strings.Cut(rest, ":")
		if !ok || listNo == "" || accountCd == "" {
			return Node{}, fmt.Errorf("nodes: %w: %q", ErrMalformedKey, key)
		}

		return Account(listNo, accountCd), nil

	default:
		return Node{}, fmt.Errorf("nodes: %w: %q", ErrMalformedKey, key)
	}
}

// Path is the ordered sequence of drill-downs applied so far, empty at the
// root. Paths are immutable values owned by the caller: Push and Pop return
// fresh slices and never alias the receiver's backing array.
type Path []Node

// Push returns a new path with the node appended.
func (p Path) Push(n Node) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = n

	return out
}

// Pop returns a new path with the last node removed. Popping an empty path
// returns an empty path.
func (p Path) Pop() Path {
	if len(p) == 0 {
		return Path{}
	}

	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])

	return out
}

// Last returns the final path element and whether the path is non-empty.
func (p Path) Last() (Node, bool) {
	if len(p) == 0 {
		return Node{}, false
	}

	return p[len(p)-1], true
}
