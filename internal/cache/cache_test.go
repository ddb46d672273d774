package cache

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisight/fisight/pkg/facts"
)

const (
	testListNo    = "SA002"
	testFinanceCd = "0010001"
	testColumnID  = "A"
)

func testTable() facts.Table {
	return facts.Table{
		{ListNo: testListNo, FinanceCd: testFinanceCd, BaseMonth: "202303", AccountCd: "B", ColumnID: testColumnID, Value: 100},
		{ListNo: testListNo, FinanceCd: testFinanceCd, BaseMonth: "202306", AccountCd: "B", ColumnID: testColumnID, Value: -2.5},
		{ListNo: testListNo, FinanceCd: testFinanceCd, BaseMonth: "202309", AccountCd: "B", ColumnID: testColumnID, Value: math.NaN()},
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	require.NoError(t, store.SaveFacts(testTable()))

	loaded, err := store.LoadFacts()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	assert.Equal(t, testListNo, loaded[0].ListNo)
	assert.Equal(t, testFinanceCd, loaded[0].FinanceCd)
	assert.InDelta(t, 100, loaded[0].Value, 1e-9)
	assert.InDelta(t, -2.5, loaded[1].Value, 1e-9)
	assert.True(t, facts.IsAbsent(loaded[2].Value))
}

func TestStore_LoadFactsNoCache(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	_, err := store.LoadFacts()
	require.ErrorIs(t, err, ErrNoCache)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	require.NoError(t, store.SaveFacts(testTable()))
	require.NoError(t, store.SaveFacts(testTable()[:1]))

	loaded, err := store.LoadFacts()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestStore_CheckComplete(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	report := store.Check(testTable(), Requirements{
		FinanceCds: []string{testFinanceCd},
		ListNos:    []string{testListNo},
		StartMonth: "202303",
		EndMonth:   "202309",
		Term:       facts.TermQuarterly,
	})

	assert.True(t, report.Complete())
}

func TestStore_CheckReportsGaps(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	report := store.Check(testTable(), Requirements{
		FinanceCds: []string{testFinanceCd, "0010002"},
		ListNos:    []string{testListNo, "SA003"},
		StartMonth: "202303",
		EndMonth:   "202312",
		Term:       facts.TermQuarterly,
	})

	require.False(t, report.Complete())
	assert.Equal(t, []string{"0010002"}, report.MissingFirms)
	assert.Equal(t, []string{"SA003"}, report.MissingLists)
	assert.Equal(t, []string{"202312"}, report.MissingMonths[testListNo+"/"+testFinanceCd])
	assert.Contains(t, report.MissingMonths, "SA003/0010002")
}

func TestStore_CheckCanonicalizesFinanceCds(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir(), nil)

	report := store.Check(testTable(), Requirements{
		// Short code should match the zero-padded form stored in facts.
		FinanceCds: []string{"10001"},
		ListNos:    []string{testListNo},
		StartMonth: "202303",
		EndMonth:   "202309",
		Term:       facts.TermQuarterly,
	})

	assert.True(t, report.Complete())
}

func TestLoadMapping(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.csv")
	content := "list_no,list_nm,account_cd,account_nm,column_id,column_nm\n" +
		"SA002,재무상태표,B,자산,A,금액\n" +
		"SA002,재무상태표,B11,현금,A,금액\n" +
		"SA003,손익계산서,C,수익,A,금액\n"

	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := LoadMapping(path)
	require.NoError(t, err)
	require.Len(t, set, 2)

	idx, err := set.Get("SA002")
	require.NoError(t, err)
	assert.Equal(t, "재무상태표", idx.ListNm)
	assert.Equal(t, "자산", idx.Accounts["B"])
	assert.Equal(t, []string{"B11"}, idx.ChildrenOf("B"))
	assert.Equal(t, "금액", idx.Columns["A"])
}

func TestLoadMapping_MissingColumn(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mapping.csv")
	require.NoError(t, os.WriteFile(path, []byte("list_no,list_nm,account_cd\nSA002,x,B\n"), 0o644))

	_, err := LoadMapping(path)
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoadMapping_FileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadMapping(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}
