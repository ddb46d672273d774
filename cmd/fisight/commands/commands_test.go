package commands

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fisight/fisight/internal/config"
	"github.com/fisight/fisight/pkg/facts"
	"github.com/fisight/fisight/pkg/hierarchy"
	"github.com/fisight/fisight/pkg/marketshare"
	"github.com/fisight/fisight/pkg/nodes"
	"github.com/fisight/fisight/pkg/resolve"
	"github.com/fisight/fisight/pkg/series"
)

func TestParsePath(t *testing.T) {
	t.Parallel()

	path, err := parsePath("list:SA002, acc:SA002:B")
	require.NoError(t, err)
	require.Len(t, path, 2)

	last, ok := path.Last()
	require.True(t, ok)
	assert.Equal(t, nodes.Account("SA002", "B"), last)
}

func TestParsePath_Empty(t *testing.T) {
	t.Parallel()

	path, err := parsePath("")
	require.NoError(t, err)
	assert.Nil(t, path)
}

func TestParsePath_Malformed(t *testing.T) {
	t.Parallel()

	_, err := parsePath("what:SA002")
	require.Error(t, err)
}

func TestFetchFirms(t *testing.T) {
	t.Parallel()

	firms := fetchFirms([]string{"10001", "0010002"}, []string{"0010001", "0010003"})

	// Canonical, deduplicated, sorted.
	assert.Equal(t, []string{"0010001", "0010002", "0010003"}, firms)
}

func TestCanonFirms(t *testing.T) {
	t.Parallel()

	firms := config.FirmsConfig{
		Targets: []string{"10607", "0010001"},
		Market:  []string{"10607", "abc"},
		Groups:  map[string][]string{"banks": {"10607"}},
		Names:   map[string]string{"10607": "국민은행"},
	}

	canonFirms(&firms)

	assert.Equal(t, []string{"0010607", "0010001"}, firms.Targets)
	assert.Equal(t, []string{"0010607"}, firms.Market)
	assert.Equal(t, []string{"0010607"}, firms.Groups["banks"])
	assert.Equal(t, "국민은행", firms.Names["0010607"])
}

func TestCanonFirms_ShortCodesMatchCachedFacts(t *testing.T) {
	t.Parallel()

	// Cached facts always carry canonical seven-digit codes; a short
	// configured code must still select them.
	table := facts.Table{
		{ListNo: "SA002", FinanceCd: "0010607", BaseMonth: "202403", AccountCd: "B", ColumnID: "A", Value: 100},
	}

	hier := hierarchy.Set{
		"SA002": hierarchy.Build("SA002", "재무상태표", map[string]string{"B": "자산"}, map[string]string{"A": "금액"}),
	}

	firms := config.FirmsConfig{Market: []string{"10607"}}
	canonFirms(&firms)

	result, err := marketshare.Compute(table, marketshare.Params{
		Hier:      hier,
		ListNos:   []string{"SA002"},
		ColumnID:  "A",
		MarketCds: firms.Market,
	})
	require.NoError(t, err)
	require.Len(t, result.PerFirm, 1)

	assert.Equal(t, "0010607", result.PerFirm[0].FinanceCd)
	assert.InDelta(t, 100, result.PerFirm[0].SharePct, 1e-9)
	assert.Equal(t, 1, result.PerFirm[0].Rank)
}

func TestGroupShareCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.35%", groupShareCell(12.345))
	assert.Equal(t, "-", groupShareCell(math.NaN()))
}

func TestBreakdown_DuplicateLabelsSum(t *testing.T) {
	t.Parallel()

	// Two accounts with the same display name feed one column that sums
	// their values even when bucketing is off.
	hier := hierarchy.Set{
		"SA002": hierarchy.Build("SA002", "재무상태표",
			map[string]string{"B": "자산", "C": "자산"},
			map[string]string{"A": "금액"}),
	}

	a := &app{cfg: config.Default(), hier: hier}
	lc := &LevelCommand{noBucket: true}

	res := resolve.Result{
		Nodes: []nodes.Node{nodes.Account("SA002", "B"), nodes.Account("SA002", "C")},
		Series: map[string]series.Series{
			nodes.Account("SA002", "B").Key(): {"202403": 10},
			nodes.Account("SA002", "C").Key(): {"202403": 5},
		},
	}

	labels, values := lc.breakdown(a, res, []string{"202403"})

	require.Equal(t, []string{"자산"}, labels)
	assert.Equal(t, []float64{15}, values["자산"])
}

func TestShareMonths(t *testing.T) {
	t.Parallel()

	result := marketshare.Result{PerFirm: []marketshare.FirmRow{
		{FinanceCd: "0010001", Metric: marketshare.Metric{BaseMonth: "202306"}},
		{FinanceCd: "0010001", Metric: marketshare.Metric{BaseMonth: "202312"}},
		{FinanceCd: "0010002", Metric: marketshare.Metric{BaseMonth: "202303"}},
	}}

	assert.Equal(t, []string{"202303", "202306", "202312"}, shareMonths(result))
}

func TestShareLines(t *testing.T) {
	t.Parallel()

	result := marketshare.Result{PerFirm: []marketshare.FirmRow{
		{FinanceCd: "0010001", Metric: marketshare.Metric{BaseMonth: "202303", SharePct: 60}},
		{FinanceCd: "0010001", Metric: marketshare.Metric{BaseMonth: "202306", SharePct: 70}},
		{FinanceCd: "0010002", Metric: marketshare.Metric{BaseMonth: "202303", SharePct: 40}},
	}}

	months := []string{"202303", "202306"}
	lines := shareLines(result, months, func(cd string) string { return "firm-" + cd })

	require.Len(t, lines, 2)
	assert.Equal(t, "firm-0010001", lines[0].Name)
	assert.Equal(t, []float64{60, 70}, lines[0].Values)
	assert.Equal(t, []float64{40, 0}, lines[1].Values)
}

func TestSelectOverlays(t *testing.T) {
	t.Parallel()

	oc := &OverlayCommand{}
	cfg := &config.Config{Views: config.ViewsConfig{Overlays: []config.OverlayConfig{{Name: "ratio", Expr: "SA002:B / SA002"}}}}

	configured := oc.selectOverlays(cfg, nil)
	require.Len(t, configured, 1)
	assert.Equal(t, "ratio", configured[0].Name)

	explicit := oc.selectOverlays(cfg, []string{"SA002:C"})
	require.Len(t, explicit, 1)
	assert.Equal(t, "SA002:C", explicit[0].Expr)
}

func TestSeriesColumn(t *testing.T) {
	t.Parallel()

	s := series.Series{"202303": 1.5}
	assert.Equal(t, []float64{1.5, 0}, seriesColumn(s, []string{"202303", "202306"}))
}

func TestChartSeriesOf(t *testing.T) {
	t.Parallel()

	out := chartSeriesOf([]string{"a"}, map[string][]float64{"a": {1, 2}})
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, []float64{1, 2}, out[0].Values)
}
