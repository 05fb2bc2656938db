// Package report writes the ranked correlation list and the run summary.
package report

import (
	"bufio"
	"context"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"cdicorr/domain/analysis"
	"cdicorr/internal"
	"cdicorr/internal/errors"
)

// Header is the first line of every report
const Header = "Correlation coefficients between CDC health data questions and percentage of Republican votes on a state-by-state basis"

// LabelWidth is the column the coefficient starts at; longer labels push it right
const LabelWidth = 200

// TextWriter implements ports.ReportWriter over a plain text file
type TextWriter struct {
	path   string
	logger *internal.Logger
}

// NewTextWriter creates a writer that replaces path on every run
func NewTextWriter(path string, logger *internal.Logger) *TextWriter {
	if logger == nil {
		logger = internal.Discard
	}
	return &TextWriter{path: path, logger: logger.With("Report")}
}

// WriteReport writes results in the order given
func (w *TextWriter) WriteReport(ctx context.Context, results []analysis.CorrelationResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(w.path)
	if err != nil {
		return errors.ReportFailed(w.path, err)
	}
	defer f.Close()

	if err := Format(f, results); err != nil {
		return errors.ReportFailed(w.path, err)
	}
	if err := f.Close(); err != nil {
		return errors.ReportFailed(w.path, err)
	}
	w.logger.Info("Wrote %d correlations to %s", len(results), w.path)
	return nil
}

// Format writes the header, a blank line and one padded line per result
func Format(out io.Writer, results []analysis.CorrelationResult) error {
	bw := bufio.NewWriter(out)
	bw.WriteString(Header + "\n\n")
	for _, r := range results {
		bw.WriteString(Line(r))
	}
	return bw.Flush()
}

// Line renders one result: the label padded with underscores to LabelWidth,
// then the coefficient
func Line(r analysis.CorrelationResult) string {
	label := r.Label()
	if pad := LabelWidth - len([]rune(label)); pad > 0 {
		label += strings.Repeat("_", pad)
	}
	return label + FormatCoefficient(r.Coefficient) + "\n"
}

// FormatCoefficient rounds to three decimals and prints the shortest form
// that keeps a decimal point, e.g. -0.5, 0.123, 1.0. Non-finite values print
// as nan, inf or -inf.
func FormatCoefficient(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	// 'f' with precision 3 rounds the exact binary value, ties to even
	s := strings.TrimRight(strconv.FormatFloat(v, 'f', 3, 64), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
