package cleaning

import (
	"testing"

	"cdicorr/adapters/datareadiness/coercer"
	"cdicorr/domain/core"
	"cdicorr/domain/dataset"
	"cdicorr/domain/election"
	"cdicorr/domain/health"
	"cdicorr/internal/errors"
	"cdicorr/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoercer() *coercer.NumericCoercer {
	return coercer.NewNumericCoercer(coercer.DefaultCoercionConfig())
}

func TestPruneColumns_DistinctThreshold(t *testing.T) {
	table := &dataset.Table{
		Headers: []string{"Constant", "TwoValues", "ThreeValues", "WithBlank", "TopicID"},
		Rows: []dataset.Row{
			{"Constant": "x", "TwoValues": "a", "ThreeValues": "1", "WithBlank": "p", "TopicID": "T1"},
			{"Constant": "x", "TwoValues": "b", "ThreeValues": "2", "WithBlank": "q", "TopicID": "T2"},
			{"Constant": "x", "TwoValues": "a", "ThreeValues": "3", "WithBlank": "", "TopicID": "T3"},
		},
	}

	pruned, dropped := PruneColumns(table, DefaultPruneOptions())

	assert.Equal(t, []string{"Constant", "TwoValues", "TopicID"}, dropped)
	assert.Equal(t, []string{"ThreeValues", "WithBlank"}, pruned.Headers)
	for _, row := range pruned.Rows {
		assert.NotContains(t, row, "Constant")
		assert.NotContains(t, row, "TwoValues")
	}
	// the input table is not modified
	assert.Len(t, table.Headers, 5)
	assert.Equal(t, "x", table.Rows[0]["Constant"])
}

func TestPruneColumns_ProtectsAnalysisColumns(t *testing.T) {
	table := testkit.Table(testkit.HealthRecords(testkit.TwoStateObservations()))

	pruned, dropped := PruneColumns(table, DefaultPruneOptions())

	for _, col := range health.RequiredColumns {
		assert.True(t, pruned.HasColumn(col), "required column %s must survive", col)
	}
	assert.Contains(t, dropped, "DataValueFootnoteSymbol")
	assert.Contains(t, dropped, "Topic")
	assert.True(t, pruned.HasColumn("YearStart"))
}

func TestHealthRecords_CoercesValues(t *testing.T) {
	obs := testkit.TwoStateObservations()
	obs[1].DataValue = "No"
	obs[3].DataValue = ""
	table := testkit.Table(testkit.HealthRecords(obs))

	records, err := HealthRecords(table, newCoercer())
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, core.SomeFloat(10), records[0].DataValue)
	assert.False(t, records[1].DataValue.Valid)
	assert.Equal(t, core.SomeFloat(30), records[2].DataValue)
	assert.False(t, records[3].DataValue.Valid)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, "Overall", r.Stratification)
	}
}

func TestHealthRecords_MissingColumn(t *testing.T) {
	table := testkit.Table(testkit.HealthRecords(testkit.TwoStateObservations()))
	table = table.Without([]string{health.ColStratification})

	_, err := HealthRecords(table, newCoercer())
	assert.ErrorIs(t, err, core.ErrMissingColumn)
}

func TestAggregateElection_SumsAndRecomputes(t *testing.T) {
	counties := append(testkit.TwoStateCounties(),
		// third-party votes: dem+gop < total
		testkit.County{StateAbbr: "CC", FIPS: 3001, Dem: 40, GOP: 50, Total: 100},
		testkit.County{StateAbbr: "CC", FIPS: 3003, Dem: 10, GOP: 20, Total: 50},
	)
	table := testkit.Table(testkit.ElectionRecords(counties))

	aggs, err := AggregateElection(table, newCoercer())
	require.NoError(t, err)
	require.Len(t, aggs, 3)

	byState := make(map[string]election.StateAggregate)
	for _, a := range aggs {
		byState[a.StateAbbr] = a
	}
	assert.Equal(t, []string{"AA", "BB", "CC"}, []string{aggs[0].StateAbbr, aggs[1].StateAbbr, aggs[2].StateAbbr})

	expectTotals := map[string]float64{}
	for _, c := range counties {
		expectTotals[c.StateAbbr] += float64(c.Total)
	}
	for abbr, total := range expectTotals {
		assert.Equal(t, total, byState[abbr].TotalVotes(), abbr)
	}

	aa := byState["AA"]
	assert.Equal(t, 2, aa.Counties)
	assert.Equal(t, 60.0, aa.VotesDem())
	assert.Equal(t, 40.0, aa.VotesGOP())
	assert.Equal(t, core.SomeFloat(60), aa.PerDem)
	assert.Equal(t, core.SomeFloat(40), aa.PerGOP)

	cc := byState["CC"]
	assert.Equal(t, 100*50.0/150.0, cc.PerDem.Float64)
	assert.Equal(t, 100*70.0/150.0, cc.PerGOP.Float64)
	assert.Less(t, cc.PerDem.Float64+cc.PerGOP.Float64, 100.0)

	// percentages and identifiers are not summed
	assert.NotContains(t, aa.Sums, election.ColPerDem)
	assert.NotContains(t, aa.Sums, election.ColPerGOP)
	assert.NotContains(t, aa.Sums, election.ColCombinedFIPS)
	assert.NotContains(t, aa.Sums, "Unnamed: 0")
	assert.NotContains(t, aa.Sums, "county_name")
}

func TestAggregateElection_NotAveragedFromCountyPercentages(t *testing.T) {
	// a tiny 100% GOP county must not pull the state share to the midpoint
	counties := []testkit.County{
		{StateAbbr: "DD", FIPS: 1, Dem: 900, GOP: 100, Total: 1000},
		{StateAbbr: "DD", FIPS: 2, Dem: 0, GOP: 10, Total: 10},
	}
	aggs, err := AggregateElection(testkit.Table(testkit.ElectionRecords(counties)), newCoercer())
	require.NoError(t, err)

	assert.InDelta(t, 100*110.0/1010.0, aggs[0].PerGOP.Float64, 1e-12)
}

func TestAggregateElection_ZeroTotalIsAbsent(t *testing.T) {
	counties := []testkit.County{{StateAbbr: "ZZ", FIPS: 1, Dem: 0, GOP: 0, Total: 0}}
	aggs, err := AggregateElection(testkit.Table(testkit.ElectionRecords(counties)), newCoercer())
	require.NoError(t, err)

	assert.False(t, aggs[0].PerDem.Valid)
	assert.False(t, aggs[0].PerGOP.Valid)
}

func TestAggregateElection_Errors(t *testing.T) {
	table := testkit.Table(testkit.ElectionRecords(testkit.TwoStateCounties()))

	_, err := AggregateElection(table.Without([]string{election.ColVotesGOP}), newCoercer())
	assert.ErrorIs(t, err, core.ErrMissingColumn)

	table.Rows[0][election.ColTotalVotes] = "lots"
	_, err = AggregateElection(table, newCoercer())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
