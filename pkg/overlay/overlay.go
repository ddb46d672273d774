// Package overlay evaluates the small expression language used to derive
// ratio and composite series from statement figures. An expression is a
// sequence of operands — a bare list number ("SH150", the list total) or a
// qualified account ("SH150:A", that account's own series) — joined by the
// operators + - * /, evaluated strictly left to right with no precedence.
// Division by a zero or absent denominator yields 0 for that month rather
// than an error.
package overlay

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/resolve"
	"github.com/fisight/fisight/pkg/series"
)

// tokenRE matches one (operator?, operand) pair. Operands are a two-letter,
// three-digit list number optionally qualified by an account code.
var tokenRE = regexp.MustCompile(`\s*([+\-*/])?\s*([A-Z]{2}\d{3}(?::[A-Z0-9]+)?)\s*`)

// ErrEmptyExpression is returned when an expression contains no operands.
var ErrEmptyExpression = errors.New("expression has no operands")

// Term is one parsed (operator, operand) pair. The first term's operator is
// implicit addition.
type Term struct {
	Op        byte
	ListNo    string
	AccountCd string // empty for a list-total operand.
}

// Parse tokenizes an expression into its terms. Anything the token grammar
// does not match is skipped, mirroring a permissive boundary: malformed
// fragments cannot reference data, so they contribute nothing.
func Parse(expr string) ([]Term, error) {
	matches := tokenRE.FindAllStringSubmatch(expr, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("overlay: %w: %q", ErrEmptyExpression, expr)
	}

	terms := make([]Term, 0, len(matches))
	op := byte('+')

	for _, m := range matches {
		if m[1] != "" {
			op = m[1][0]
		}

		listNo, accountCd, _ := strings.Cut(m[2], ":")

		terms = append(terms, Term{Op: op, ListNo: listNo, AccountCd: accountCd})
	}

	return terms, nil
}

// Eval parses and evaluates an expression over the table's month axis. Each
// operand resolves to its series on the full axis; an unknown list number is
// a configuration error.
func Eval(t facts.Table, hier hierarchy.Set, expr, columnID string) (series.Series, error) {
	terms, err := Parse(expr)
	if err != nil {
		return nil, err
	}

	var acc series.Series

	for _, term := range terms {
		s, err := operandSeries(t, hier, term, columnID)
		if err != nil {
			return nil, err
		}

		if acc == nil {
			acc = s.Clone()

			continue
		}

		switch term.Op {
		case '+':
			acc = acc.Add(s)
		case '-':
			acc = acc.Sub(s)
		case '*':
			acc = acc.Mul(s)
		case '/':
			acc = acc.DivZero(s)
		}
	}

	return acc, nil
}

func operandSeries(t facts.Table, hier hierarchy.Set, term Term, columnID string) (series.Series, error) {
	if term.AccountCd == "" {
		idx, err := hier.Get(term.ListNo)
		if err != nil {
			return nil, err
		}

		return resolve.ListTotalSeries(t, idx, columnID), nil
	}

	if _, err := hier.Get(term.ListNo); err != nil {
		return nil, err
	}

	own := resolve.SeriesFor(t, term.ListNo, []string{term.AccountCd}, columnID)

	return own[term.AccountCd], nil
}
