package ports

import (
	"context"

	"cdicorr/domain/analysis"
)

// ReportWriter persists the ranked correlation list
type ReportWriter interface {
	WriteReport(ctx context.Context, results []analysis.CorrelationResult) error
}

// SummaryWriter persists a machine-readable run summary
type SummaryWriter interface {
	WriteSummary(ctx context.Context, summary analysis.RunSummary) error
}

// MapRenderer draws the choropleth for a single result
type MapRenderer interface {
	RenderMap(ctx context.Context, result analysis.CorrelationResult) error
}
