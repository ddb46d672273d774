package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/overlay"
)

const (
	listAssets = "SH150"
	listEquity = "SH151"
	columnA    = "a"
)

func testHier() hierarchy.Set {
	return hierarchy.Set{
		listAssets: hierarchy.Build(listAssets, "", map[string]string{"A": "자산"}, nil),
		listEquity: hierarchy.Build(listEquity, "", map[string]string{"F": "자본"}, nil),
	}
}

func testFacts() facts.Table {
	return facts.Table{
		{ListNo: listAssets, BaseMonth: "202312", AccountCd: "A", ColumnID: columnA, Value: 200},
		{ListNo: listAssets, BaseMonth: "202403", AccountCd: "A", ColumnID: columnA, Value: 300},
		{ListNo: listEquity, BaseMonth: "202312", AccountCd: "F", ColumnID: columnA, Value: 100},
		{ListNo: listEquity, BaseMonth: "202403", AccountCd: "F", ColumnID: columnA, Value: 0},
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	terms, err := overlay.Parse("SH150:A / SH151:F + SH151")

	require.NoError(t, err)
	require.Len(t, terms, 3)

	assert.Equal(t, overlay.Term{Op: '+', ListNo: listAssets, AccountCd: "A"}, terms[0])
	assert.Equal(t, overlay.Term{Op: '/', ListNo: listEquity, AccountCd: "F"}, terms[1])
	assert.Equal(t, overlay.Term{Op: '+', ListNo: listEquity}, terms[2])
}

func TestParse_LeadingOperatorAndWhitespace(t *testing.T) {
	t.Parallel()

	terms, err := overlay.Parse("  - SH150:A ")

	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, byte('-'), terms[0].Op)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	_, err := overlay.Parse("nothing here")

	require.ErrorIs(t, err, overlay.ErrEmptyExpression)
}

func TestEval_Ratio(t *testing.T) {
	t.Parallel()

	got, err := overlay.Eval(testFacts(), testHier(), "SH150:A/SH151:F", columnA)

	require.NoError(t, err)
	assert.InDelta(t, 2, got["202312"], 1e-9)
	// Division by a zero denominator yields 0 for that month.
	assert.InDelta(t, 0, got["202403"], 1e-9)
}

func TestEval_LeftToRightNoPrecedence(t *testing.T) {
	t.Parallel()

	// (A + A) * A at 202312: (200+200)*200, not 200+200*200.
	got, err := overlay.Eval(testFacts(), testHier(), "SH150:A + SH150:A * SH150:A", columnA)

	require.NoError(t, err)
	assert.InDelta(t, 80000, got["202312"], 1e-9)
}

func TestEval_ListTotalOperand(t *testing.T) {
	t.Parallel()

	got, err := overlay.Eval(testFacts(), testHier(), "SH150 - SH151", columnA)

	require.NoError(t, err)
	assert.InDelta(t, 100, got["202312"], 1e-9)
	assert.InDelta(t, 300, got["202403"], 1e-9)
}

func TestEval_UnknownListFails(t *testing.T) {
	t.Parallel()

	_, err := overlay.Eval(testFacts(), testHier(), "SH999:A", columnA)

	require.ErrorIs(t, err, hierarchy.ErrUnknownList)
}
