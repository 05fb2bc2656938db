package coercer

import (
	"math"
	"strconv"
	"strings"

	"cdicorr/domain/core"
)

// NumericCoercer converts raw cell text to numbers, yielding an explicit
// absent value instead of an error when a cell does not parse.
type NumericCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-empty cells that must parse for a numeric column
	MissingTokens    []string `json:"missing_tokens"`    // lower-cased tokens meaning absent
}

// DefaultCoercionConfig mirrors a strict to-numeric conversion: plain decimal
// and scientific notation only.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 1.0,
		MissingTokens:    []string{"", "nan", "na", "n/a", "null", "none", "-", "~", "*"},
	}
}

// NewNumericCoercer creates a coercer with the given config
func NewNumericCoercer(config CoercionConfig) *NumericCoercer {
	return &NumericCoercer{config: config}
}

// Coerce parses one cell. Unparseable, missing-token and non-finite cells are absent.
func (c *NumericCoercer) Coerce(raw string) core.NullFloat {
	v, ok := c.parse(raw)
	if !ok {
		return core.NoFloat()
	}
	return core.SomeFloat(v)
}

// CoerceColumn coerces every cell of a column in order
func (c *NumericCoercer) CoerceColumn(values []string) []core.NullFloat {
	out := make([]core.NullFloat, len(values))
	for i, v := range values {
		out[i] = c.Coerce(v)
	}
	return out
}

// IsMissing reports whether raw is one of the configured missing tokens
func (c *NumericCoercer) IsMissing(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	for _, tok := range c.config.MissingTokens {
		if lower == tok {
			return true
		}
	}
	return false
}

// TypeAnalysis summarizes how a column's cells coerce
type TypeAnalysis struct {
	TotalCount   int     `json:"total_count"`
	ValidCount   int     `json:"valid_count"` // non-missing cells
	NumericCount int     `json:"numeric_count"`
	NumericRatio float64 `json:"numeric_ratio"`
	IsNumeric    bool    `json:"is_numeric"`
}

// AnalyzeColumn decides whether a column is numeric. A column with no
// non-missing cells is not numeric.
func (c *NumericCoercer) AnalyzeColumn(values []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(values)}
	for _, v := range values {
		if c.IsMissing(v) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.parse(v); ok {
			analysis.NumericCount++
		}
	}
	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.IsNumeric = analysis.NumericRatio >= c.config.NumericThreshold
	}
	return analysis
}

func (c *NumericCoercer) parse(raw string) (float64, bool) {
	if c.IsMissing(raw) {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	return val, true
}
