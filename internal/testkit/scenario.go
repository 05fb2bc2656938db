package testkit

import (
	"math/rand"
	"strconv"
)

// ScenarioQuestion is the only question in the two-state scenario
const ScenarioQuestion = "Current smoking among adults aged >= 18 years"

// TwoStateCounties: state AA votes 60 dem / 40 gop, state BB 30 dem / 70 gop,
// each split across two counties
func TwoStateCounties() []County {
	return []County{
		{StateAbbr: "AA", FIPS: 1001, Dem: 36, GOP: 24, Total: 60},
		{StateAbbr: "AA", FIPS: 1003, Dem: 24, GOP: 16, Total: 40},
		{StateAbbr: "BB", FIPS: 2001, Dem: 10, GOP: 20, Total: 30},
		{StateAbbr: "BB", FIPS: 2003, Dem: 20, GOP: 50, Total: 70},
	}
}

// TwoStateObservations has values 10,20,30,40 matched to AA,AA,BB,BB
func TwoStateObservations() []Observation {
	return []Observation{
		{LocationAbbr: "AA", Question: ScenarioQuestion, Stratification: "Overall", DataValue: "10", Unit: "%"},
		{LocationAbbr: "AA", Question: ScenarioQuestion, Stratification: "Overall", DataValue: "20", Unit: "%"},
		{LocationAbbr: "BB", Question: ScenarioQuestion, Stratification: "Overall", DataValue: "30", Unit: "%"},
		{LocationAbbr: "BB", Question: ScenarioQuestion, Stratification: "Overall", DataValue: "40", Unit: "%"},
	}
}

// TwoStateBoxes places both states inside the rendering extent
func TwoStateBoxes() map[string]Box {
	return map[string]Box{
		"AA": {MinLon: -110, MinLat: 35, MaxLon: -100, MaxLat: 45},
		"BB": {MinLon: -95, MinLat: 30, MaxLon: -85, MaxLat: 40},
	}
}

// GeneratorConfig configures a multi-state synthetic dataset
type GeneratorConfig struct {
	States    int      `json:"states"`
	Counties  int      `json:"counties"` // per state
	Slope     float64  `json:"slope"`    // DataValue change per point of GOP share
	Noise     float64  `json:"noise"`
	Seed      int64    `json:"seed"`
	Questions []string `json:"questions"`
}

// DefaultGeneratorConfig returns a positively related, lightly noisy dataset
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		States:    12,
		Counties:  4,
		Slope:     0.5,
		Noise:     1.0,
		Seed:      42,
		Questions: []string{"Obesity among adults", "Binge drinking prevalence"},
	}
}

// Generator produces counties and observations with a planted relationship
// between each question's value and Republican share.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a seeded generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config, rng: rand.New(rand.NewSource(config.Seed))}
}

// StateAbbr names the i-th synthetic state
func StateAbbr(i int) string {
	return string(rune('A'+i/26)) + string(rune('A'+i%26))
}

// Generate returns counties and observations. Each question gets one
// "Overall" row and one "Female" row per state; the first question's values
// rise with GOP share and the second's fall.
func (g *Generator) Generate() ([]County, []Observation) {
	var counties []County
	var obs []Observation

	for s := 0; s < g.config.States; s++ {
		abbr := StateAbbr(s)
		gopShare := 30 + g.rng.Float64()*40

		gop, total := 0, 0
		for c := 0; c < g.config.Counties; c++ {
			t := 1000 + g.rng.Intn(9000)
			gv := int(float64(t) * gopShare / 100)
			dv := t - gv - g.rng.Intn(t/20+1)
			counties = append(counties, County{StateAbbr: abbr, FIPS: (s+1)*1000 + c, Dem: dv, GOP: gv, Total: t})
			gop, total = gop+gv, total+t
		}
		share := float64(gop) / float64(total) * 100

		for q, question := range g.config.Questions {
			sign := 1.0
			if q%2 == 1 {
				sign = -1
			}
			value := 50 + sign*g.config.Slope*share + g.rng.NormFloat64()*g.config.Noise
			obs = append(obs,
				Observation{LocationAbbr: abbr, Question: question, Stratification: "Overall",
					DataValue: strconv.FormatFloat(value, 'f', 1, 64), Unit: "%"},
				Observation{LocationAbbr: abbr, Question: question, Stratification: "Female",
					DataValue: strconv.FormatFloat(g.rng.Float64()*100, 'f', 1, 64), Unit: "%"},
			)
		}
	}
	return counties, obs
}
