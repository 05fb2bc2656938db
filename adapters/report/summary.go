package report

import (
	"context"
	"encoding/json"
	"os"

	"cdicorr/domain/analysis"
	"cdicorr/internal"
	"cdicorr/internal/errors"
)

// JSONSummaryWriter implements ports.SummaryWriter
type JSONSummaryWriter struct {
	path   string
	logger *internal.Logger
}

// NewJSONSummaryWriter creates a writer for path
func NewJSONSummaryWriter(path string, logger *internal.Logger) *JSONSummaryWriter {
	if logger == nil {
		logger = internal.Discard
	}
	return &JSONSummaryWriter{path: path, logger: logger.With("Report")}
}

func (w *JSONSummaryWriter) WriteSummary(ctx context.Context, summary analysis.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.ReportFailed(w.path, err)
	}
	if err := os.WriteFile(w.path, data, 0644); err != nil {
		return errors.ReportFailed(w.path, err)
	}
	w.logger.Debug("Wrote run summary %s to %s", summary.RunID, w.path)
	return nil
}
