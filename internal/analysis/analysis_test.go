package analysis

import (
	"math"
	"testing"

	"cdicorr/adapters/datareadiness/coercer"
	domain "cdicorr/domain/analysis"
	"cdicorr/domain/core"
	"cdicorr/domain/health"
	"cdicorr/internal/cleaning"
	"cdicorr/internal/join"
	"cdicorr/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinedRecords(t *testing.T, counties []testkit.County, obs []testkit.Observation) []health.HealthRecord {
	t.Helper()
	c := coercer.NewNumericCoercer(coercer.DefaultCoercionConfig())

	aggs, err := cleaning.AggregateElection(testkit.Table(testkit.ElectionRecords(counties)), c)
	require.NoError(t, err)
	records, err := cleaning.HealthRecords(testkit.Table(testkit.HealthRecords(obs)), c)
	require.NoError(t, err)

	joined, _ := join.AttachVotes(records, join.NewVoteIndex(aggs))
	return joined
}

func questions(results []domain.CorrelationResult) []string {
	var qs []string
	for _, r := range results {
		qs = append(qs, r.Question)
	}
	return qs
}

func TestCorrelate_TwoStateScenario(t *testing.T) {
	records := joinedRecords(t, testkit.TwoStateCounties(), testkit.TwoStateObservations())

	results := Correlate(records, DefaultOptions(), nil)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, testkit.ScenarioQuestion, r.Question)
	assert.Equal(t, "%", r.Unit)
	assert.Equal(t, 4, r.N)
	assert.Greater(t, r.Coefficient, 0.8)
	assert.InDelta(t, 600/math.Sqrt(500*900), r.Coefficient, 1e-9)
	assert.Len(t, r.Subset, 4)
	assert.Equal(t, 25.0, r.Summary.Mean)
}

func TestCorrelate_FiltersStratification(t *testing.T) {
	obs := append(testkit.TwoStateObservations(),
		testkit.Observation{LocationAbbr: "AA", Question: testkit.ScenarioQuestion, Stratification: "Female", DataValue: "99", Unit: "%"},
		testkit.Observation{LocationAbbr: "BB", Question: testkit.ScenarioQuestion, Stratification: "Male", DataValue: "1", Unit: "%"},
	)
	records := joinedRecords(t, testkit.TwoStateCounties(), obs)

	results := Correlate(records, DefaultOptions(), nil)

	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].N)
	for _, row := range results[0].Subset {
		assert.Equal(t, "Overall", row.Stratification)
	}
}

func TestCorrelate_SkipsQuestionsWithoutUnit(t *testing.T) {
	obs := append(testkit.TwoStateObservations(),
		testkit.Observation{LocationAbbr: "AA", Question: "No unit", Stratification: "Overall", DataValue: "1"},
		testkit.Observation{LocationAbbr: "BB", Question: "No unit", Stratification: "Overall", DataValue: "2"},
		testkit.Observation{LocationAbbr: "AA", Question: "Stratified only", Stratification: "Female", DataValue: "2", Unit: "%"},
	)
	records := joinedRecords(t, testkit.TwoStateCounties(), obs)

	results := Correlate(records, DefaultOptions(), nil)

	assert.Equal(t, []string{testkit.ScenarioQuestion}, questions(results))
}

func TestCorrelate_GeneratedRelationships(t *testing.T) {
	counties, obs := testkit.NewGenerator(testkit.DefaultGeneratorConfig()).Generate()
	records := joinedRecords(t, counties, obs)

	results := Correlate(records, DefaultOptions(), nil)

	require.Len(t, results, 2)
	assert.Equal(t, "Obesity among adults", results[0].Question)
	assert.Greater(t, results[0].Coefficient, 0.8)
	assert.Less(t, results[1].Coefficient, -0.8)
	assert.Equal(t, 12, results[0].N)
}

func TestQuestions_FirstAppearanceOrder(t *testing.T) {
	records := []health.HealthRecord{{Question: "b"}, {Question: "a"}, {Question: "b"}, {Question: "c"}}
	assert.Equal(t, []string{"b", "a", "c"}, Questions(records))
}

func TestUnitMode(t *testing.T) {
	tests := []struct {
		name  string
		units []string
		want  string
		ok    bool
	}{
		{"majority", []string{"%", "Number", "%"}, "%", true},
		{"tie broken lexicographically", []string{"per 100,000", "%", "per 100,000", "%"}, "%", true},
		{"empty units ignored", []string{"", "", "Number"}, "Number", true},
		{"no units", []string{"", ""}, "", false},
		{"no rows", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var subset []health.HealthRecord
			for _, u := range tt.units {
				subset = append(subset, health.HealthRecord{DataValueUnit: u})
			}
			got, ok := UnitMode(subset)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func rankFixture() []domain.CorrelationResult {
	return []domain.CorrelationResult{
		{Question: "A", Unit: "%", Coefficient: 0.2},
		{Question: "B", Unit: "%", Coefficient: math.NaN()},
		{Question: "C", Unit: "%", Coefficient: -0.5},
	}
}

func TestRank_UndefinedPlacement(t *testing.T) {
	results := rankFixture()

	assert.Equal(t, []string{"C", "A", "B"}, questions(Rank(results, domain.UndefinedLast)))
	assert.Equal(t, []string{"B", "C", "A"}, questions(Rank(results, domain.UndefinedFirst)))
	assert.Equal(t, []string{"A", "B", "C"}, questions(results), "input order is preserved")
}

func TestRank_StableForTies(t *testing.T) {
	results := []domain.CorrelationResult{
		{Question: "first", Coefficient: 0.1},
		{Question: "nan1", Coefficient: math.NaN()},
		{Question: "second", Coefficient: 0.1},
		{Question: "nan2", Coefficient: math.NaN()},
		{Question: "low", Coefficient: -0.9},
	}

	assert.Equal(t, []string{"low", "first", "second", "nan1", "nan2"}, questions(Rank(results, domain.UndefinedLast)))
}

func TestSelectForMap(t *testing.T) {
	ranked := Rank(rankFixture(), domain.UndefinedFirst)

	lowest, err := SelectForMap(ranked, domain.SelectLowest)
	require.NoError(t, err)
	assert.Equal(t, "C", lowest.Question)

	highest, err := SelectForMap(ranked, domain.SelectHighest)
	require.NoError(t, err)
	assert.Equal(t, "A", highest.Question)
}

func TestSelectForMap_NothingDefined(t *testing.T) {
	ranked := []domain.CorrelationResult{{Question: "B", Coefficient: math.NaN()}}

	_, err := SelectForMap(ranked, domain.SelectLowest)
	assert.ErrorIs(t, err, core.ErrNoDefinedCorrelation)

	_, err = SelectForMap(nil, domain.SelectHighest)
	assert.ErrorIs(t, err, core.ErrNoDefinedCorrelation)
}
