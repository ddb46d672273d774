package facts_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisight/fisight/pkg/facts"
)

const (
	testListNo  = "SH150"
	testFirmCd  = "0010607"
	testColumnA = "a"
)

func sampleTable() facts.Table {
	return facts.Table{
		{ListNo: testListNo, FinanceCd: testFirmCd, BaseMonth: "202403", AccountCd: "11", ColumnID: testColumnA, Value: 60},
		{ListNo: testListNo, FinanceCd: testFirmCd, BaseMonth: "202312", AccountCd: "12", ColumnID: testColumnA, Value: 40},
		{ListNo: "SH151", FinanceCd: "0010608", BaseMonth: "202306", AccountCd: "1", ColumnID: "b", Value: 10},
	}
}

func TestMonths_SortedNumerically(t *testing.T) {
	t.Parallel()

	table := facts.Table{
		{BaseMonth: "202403"},
		{BaseMonth: "99912"},
		{BaseMonth: "202312"},
		{BaseMonth: "202403"},
	}

	// "99912" is numerically smaller than any six-digit month and must sort first.
	assert.Equal(t, []string{"99912", "202312", "202403"}, table.Months())
}

func TestByList(t *testing.T) {
	t.Parallel()

	got := sampleTable().ByList(testListNo)

	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, testListNo, r.ListNo)
	}
}

func TestByFirms(t *testing.T) {
	t.Parallel()

	got := sampleTable().ByFirms([]string{testFirmCd})

	require.Len(t, got, 2)
	assert.Empty(t, sampleTable().ByFirms(nil))
}

func TestInRange(t *testing.T) {
	t.Parallel()

	got := sampleTable().InRange("202312", "202403")

	require.Len(t, got, 2)
}

func TestResolveRange_Sentinels(t *testing.T) {
	t.Parallel()

	table := sampleTable()

	start, end := table.ResolveRange(facts.RangeStart, facts.RangeEnd)
	assert.Equal(t, "202306", start)
	assert.Equal(t, "202403", end)

	start, end = table.ResolveRange("202312", facts.RangeEnd)
	assert.Equal(t, "202312", start)
	assert.Equal(t, "202403", end)
}

func TestResolveRange_EmptyTable(t *testing.T) {
	t.Parallel()

	start, end := facts.Table{}.ResolveRange("", "")

	assert.Equal(t, "190001", start)
	assert.Equal(t, "299912", end)
}

func TestCanonFinanceCd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "pads short codes", in: "10607", want: "0010607"},
		{name: "strips non digits", in: " 0010607 ", want: "0010607"},
		{name: "keeps long codes", in: "123456789", want: "123456789"},
		{name: "no digits", in: "abc", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, facts.CanonFinanceCd(tc.in))
		})
	}
}

func TestIsAbsent(t *testing.T) {
	t.Parallel()

	assert.True(t, facts.IsAbsent(math.NaN()))
	assert.False(t, facts.IsAbsent(0))
}

func TestEssentialEndings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"03", "06", "09", "12"}, facts.EssentialEndings(facts.TermQuarterly))
	assert.Equal(t, []string{"06", "12"}, facts.EssentialEndings(facts.TermHalfYearly))
	assert.Equal(t, []string{"12"}, facts.EssentialEndings(facts.TermYearly))
	assert.Nil(t, facts.EssentialEndings("M"))
}

func TestExpectedMonths(t *testing.T) {
	t.Parallel()

	got := facts.ExpectedMonths("202301", "202312", facts.TermQuarterly)
	assert.Equal(t, []string{"202303", "202306", "202309", "202312"}, got)

	got = facts.ExpectedMonths("202206", "202312", facts.TermYearly)
	assert.Equal(t, []string{"202212", "202312"}, got)

	assert.Nil(t, facts.ExpectedMonths("202301", "202212", facts.TermQuarterly))
	assert.Nil(t, facts.ExpectedMonths("202301", "202312", "M"))
}

func TestKeepEssentialMonths(t *testing.T) {
	t.Parallel()

	table := facts.Table{
		{BaseMonth: "202301"},
		{BaseMonth: "202303"},
		{BaseMonth: "202306"},
		{BaseMonth: "202312"},
	}

	half := table.KeepEssentialMonths(facts.TermHalfYearly)
	require.Len(t, half, 2)
	assert.Equal(t, "202306", half[0].BaseMonth)

	// Unknown term keeps everything.
	assert.Len(t, table.KeepEssentialMonths("X"), 4)
}
