// Package analysis defines per-question correlation results and the policies
// that order them and pick the one that gets mapped.
package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"cdicorr/domain/health"
)

// CorrelationResult is the Pearson coefficient between one survey question's
// values and Republican vote share across the question's "Overall" rows.
type CorrelationResult struct {
	Question    string                `json:"question"`
	Unit        string                `json:"unit"`
	Coefficient float64               `json:"coefficient"` // NaN when undefined
	N           int                   `json:"n"`           // complete pairs
	PValue      float64               `json:"p_value"`
	Spearman    float64               `json:"spearman"` // rank correlation on the same pairs
	SpearmanP   float64               `json:"spearman_p"`
	Summary     ValueSummary          `json:"summary"`
	Subset      []health.HealthRecord `json:"-"`
}

// Defined reports whether the coefficient is a finite number
func (r CorrelationResult) Defined() bool {
	return !math.IsNaN(r.Coefficient) && !math.IsInf(r.Coefficient, 0)
}

// Label is the question text followed by its unit in parentheses
func (r CorrelationResult) Label() string {
	return fmt.Sprintf("%s (%s)", r.Question, r.Unit)
}

// ValueSummary describes the value column of a question's subset. Statistics
// that cannot be computed are NaN and marshal as null.
type ValueSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Median   float64 `json:"median"`
	Q1       float64 `json:"q1"`
	Q3       float64 `json:"q3"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"` // beyond 1.5 IQR of the quartiles
}

// MarshalJSON writes non-finite statistics as null
func (s ValueSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count    int      `json:"count"`
		Mean     *float64 `json:"mean"`
		StdDev   *float64 `json:"std_dev"`
		Median   *float64 `json:"median"`
		Q1       *float64 `json:"q1"`
		Q3       *float64 `json:"q3"`
		Min      *float64 `json:"min"`
		Max      *float64 `json:"max"`
		Skewness *float64 `json:"skewness"`
		Outliers int      `json:"outliers"`
	}{
		Count:    s.Count,
		Mean:     finiteOrNil(s.Mean),
		StdDev:   finiteOrNil(s.StdDev),
		Median:   finiteOrNil(s.Median),
		Q1:       finiteOrNil(s.Q1),
		Q3:       finiteOrNil(s.Q3),
		Min:      finiteOrNil(s.Min),
		Max:      finiteOrNil(s.Max),
		Skewness: finiteOrNil(s.Skewness),
		Outliers: s.Outliers,
	})
}

// UndefinedPlacement decides where NaN coefficients land in the ranking
type UndefinedPlacement string

const (
	UndefinedLast  UndefinedPlacement = "last"
	UndefinedFirst UndefinedPlacement = "first"
)

// ParseUndefinedPlacement validates a placement name
func ParseUndefinedPlacement(s string) (UndefinedPlacement, error) {
	switch p := UndefinedPlacement(strings.ToLower(strings.TrimSpace(s))); p {
	case UndefinedLast, UndefinedFirst:
		return p, nil
	}
	return "", fmt.Errorf("unknown undefined placement %q (want last|first)", s)
}

// MapSelection decides which ranked result is rendered
type MapSelection string

const (
	SelectLowest  MapSelection = "lowest"
	SelectHighest MapSelection = "highest"
)

// ParseMapSelection validates a selection name
func ParseMapSelection(s string) (MapSelection, error) {
	switch m := MapSelection(strings.ToLower(strings.TrimSpace(s))); m {
	case SelectLowest, SelectHighest:
		return m, nil
	}
	return "", fmt.Errorf("unknown map selection %q (want lowest|highest)", s)
}

// RunSummary is the machine-readable account of one pipeline run
type RunSummary struct {
	RunID       string            `json:"run_id"`
	StartedAt   time.Time         `json:"started_at"`
	DurationMs  int64             `json:"duration_ms"`
	Inputs      map[string]string `json:"inputs"`
	Counts      RunCounts         `json:"counts"`
	Dropped     []string          `json:"dropped_columns"`
	Results     []ResultSummary   `json:"results"`
	MapQuestion string            `json:"map_question,omitempty"`
}

// RunCounts records dataset sizes at each stage
type RunCounts struct {
	HealthRows        int `json:"health_rows"`
	CountyRows        int `json:"county_rows"`
	States            int `json:"states"`
	Boundaries        int `json:"boundaries"`
	UnmatchedVotes    int `json:"unmatched_votes"`
	UnmatchedGeometry int `json:"unmatched_geometry"`
	Questions         int `json:"questions"`
	Results           int `json:"results"`
}

// ResultSummary is a CorrelationResult with undefined numbers encoded as null
type ResultSummary struct {
	Question    string       `json:"question"`
	Unit        string       `json:"unit"`
	Coefficient *float64     `json:"coefficient"`
	PValue      *float64     `json:"p_value"`
	Spearman    *float64     `json:"spearman"`
	SpearmanP   *float64     `json:"spearman_p"`
	N           int          `json:"n"`
	Summary     ValueSummary `json:"summary"`
}

// Summarize converts a result for JSON output
func (r CorrelationResult) Summarize() ResultSummary {
	return ResultSummary{
		Question:    r.Question,
		Unit:        r.Unit,
		Coefficient: finiteOrNil(r.Coefficient),
		PValue:      finiteOrNil(r.PValue),
		Spearman:    finiteOrNil(r.Spearman),
		SpearmanP:   finiteOrNil(r.SpearmanP),
		N:           r.N,
		Summary:     r.Summary,
	}
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
