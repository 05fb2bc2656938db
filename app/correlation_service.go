package app

import (
	"context"
	stderrors "errors"
	"time"

	"cdicorr/adapters/datareadiness/coercer"
	"cdicorr/domain/analysis"
	"cdicorr/domain/core"
	"cdicorr/domain/dataset"
	"cdicorr/domain/election"
	"cdicorr/domain/geo"
	"cdicorr/domain/health"
	"cdicorr/internal"
	analyzer "cdicorr/internal/analysis"
	"cdicorr/internal/cleaning"
	"cdicorr/internal/errors"
	"cdicorr/internal/join"
	"cdicorr/ports"

	"github.com/dustin/go-humanize"
)

// Options carries the analysis settings of one run
type Options struct {
	Prune        cleaning.PruneOptions
	Analysis     analyzer.Options
	Placement    analysis.UndefinedPlacement
	MapSelection analysis.MapSelection
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		Prune:        cleaning.DefaultPruneOptions(),
		Analysis:     analyzer.DefaultOptions(),
		Placement:    analysis.UndefinedLast,
		MapSelection: analysis.SelectLowest,
	}
}

// Inputs are the three datasets a run reads
type Inputs struct {
	Election ports.TableSource
	Health   ports.TableSource
	States   ports.GeometrySource
}

// Outputs are the run's sinks. Summary and Map may be nil to disable them.
type Outputs struct {
	Report  ports.ReportWriter
	Summary ports.SummaryWriter
	Map     ports.MapRenderer
}

// RunResult is everything a run produced
type RunResult struct {
	Summary analysis.RunSummary
	Ranked  []analysis.CorrelationResult
	Mapped  *analysis.CorrelationResult // nil when no map was drawn
}

// CorrelationService runs load, clean, join and analyze in sequence, handing
// each stage's output to the next explicitly.
type CorrelationService struct {
	inputs  Inputs
	outputs Outputs
	options Options
	coercer *coercer.NumericCoercer
	logger  *internal.Logger
	now     func() time.Time
}

// NewCorrelationService wires a service. A nil logger discards output.
func NewCorrelationService(inputs Inputs, outputs Outputs, options Options, logger *internal.Logger) *CorrelationService {
	if logger == nil {
		logger = internal.Discard
	}
	return &CorrelationService{
		inputs:  inputs,
		outputs: outputs,
		options: options,
		coercer: coercer.NewNumericCoercer(coercer.DefaultCoercionConfig()),
		logger:  logger.With("Pipeline"),
		now:     time.Now,
	}
}

type loaded struct {
	election *dataset.Table
	health   *dataset.Table
	states   geo.StateGeometry
}

type cleaned struct {
	records    []health.HealthRecord
	aggregates []election.StateAggregate
	dropped    []string
}

// Run executes the pipeline once. Any load or report failure aborts; a map
// failure is returned after the report has been written.
func (s *CorrelationService) Run(ctx context.Context) (*RunResult, error) {
	started := s.now()
	summary := analysis.RunSummary{
		RunID:     core.NewRunID().String(),
		StartedAt: started,
		Inputs: map[string]string{
			"election": s.inputs.Election.Describe(),
			"health":   s.inputs.Health.Describe(),
			"states":   s.inputs.States.Describe(),
		},
	}
	s.logger.Info("Run %s started", summary.RunID)

	in, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	summary.Counts.HealthRows = in.health.Len()
	summary.Counts.CountyRows = in.election.Len()
	summary.Counts.Boundaries = len(in.states)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := s.clean(in)
	if err != nil {
		return nil, err
	}
	summary.Counts.States = len(clean.aggregates)
	summary.Dropped = clean.dropped

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	joined, voteStats, geoStats := s.attach(clean, in.states)
	summary.Counts.UnmatchedVotes = voteStats.Unmatched
	summary.Counts.UnmatchedGeometry = geoStats.Unmatched

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := analyzer.Correlate(joined, s.options.Analysis, s.logger)
	ranked := analyzer.Rank(results, s.options.Placement)
	summary.Counts.Questions = len(analyzer.Questions(joined))
	summary.Counts.Results = len(ranked)
	for _, r := range ranked {
		summary.Results = append(summary.Results, r.Summarize())
	}
	s.logger.Info("Correlated %s of %s questions", humanize.Comma(int64(len(ranked))), humanize.Comma(int64(summary.Counts.Questions)))

	if err := s.outputs.Report.WriteReport(ctx, ranked); err != nil {
		return nil, errors.Wrap(err, "report stage failed")
	}

	result := &RunResult{Ranked: ranked}
	mapErr := s.renderMap(ctx, ranked, result)
	if result.Mapped != nil {
		summary.MapQuestion = result.Mapped.Label()
	}

	summary.DurationMs = s.now().Sub(started).Milliseconds()
	result.Summary = summary
	if s.outputs.Summary != nil {
		if err := s.outputs.Summary.WriteSummary(ctx, summary); err != nil {
			return result, errors.Wrap(err, "summary stage failed")
		}
	}

	if mapErr != nil {
		return result, errors.Wrap(mapErr, "map stage failed")
	}
	s.logger.Info("Run %s finished in %dms", summary.RunID, summary.DurationMs)
	return result, nil
}

func (s *CorrelationService) load(ctx context.Context) (*loaded, error) {
	electionTable, err := s.inputs.Election.LoadTable(ctx)
	if err != nil {
		return nil, errors.LoadFailed(s.inputs.Election.Describe(), err)
	}
	healthTable, err := s.inputs.Health.LoadTable(ctx)
	if err != nil {
		return nil, errors.LoadFailed(s.inputs.Health.Describe(), err)
	}
	states, err := s.inputs.States.LoadGeometry(ctx)
	if err != nil {
		return nil, errors.LoadFailed(s.inputs.States.Describe(), err)
	}
	s.logger.Info("Loaded %s county rows, %s health rows, %d state boundaries",
		humanize.Comma(int64(electionTable.Len())), humanize.Comma(int64(healthTable.Len())), len(states))
	return &loaded{election: electionTable, health: healthTable, states: states}, nil
}

func (s *CorrelationService) clean(in *loaded) (*cleaned, error) {
	pruned, dropped := cleaning.PruneColumns(in.health, s.options.Prune)
	if len(dropped) > 0 {
		s.logger.Info("Dropped %d health columns: %v", len(dropped), dropped)
	}

	records, err := cleaning.HealthRecords(pruned, s.coercer)
	if err != nil {
		return nil, errors.LoadFailed(s.inputs.Health.Describe(), err)
	}
	aggregates, err := cleaning.AggregateElection(in.election, s.coercer)
	if err != nil {
		if core.IsInputError(err) {
			return nil, errors.LoadFailed(s.inputs.Election.Describe(), err)
		}
		return nil, errors.Wrap(err, "election aggregation failed")
	}
	s.logger.Debug("Aggregated %d states from %d county rows", len(aggregates), in.election.Len())
	return &cleaned{records: records, aggregates: aggregates, dropped: dropped}, nil
}

func (s *CorrelationService) attach(clean *cleaned, states geo.StateGeometry) ([]health.HealthRecord, join.Stats, join.Stats) {
	votes := join.NewVoteIndex(clean.aggregates)
	shapes := join.NewGeometryIndex(states)
	s.logger.Debug("Joining against %d vote shares and %d boundaries", votes.Len(), shapes.Len())

	withVotes, voteStats := join.AttachVotes(clean.records, votes)
	joined, geoStats := join.AttachGeometry(withVotes, shapes)
	if voteStats.Unmatched > 0 {
		s.logger.Info("%s of %s health rows have no election aggregate",
			humanize.Comma(int64(voteStats.Unmatched)), humanize.Comma(int64(voteStats.Rows)))
	}
	if geoStats.Unmatched > 0 {
		s.logger.Info("%s of %s health rows have no state boundary",
			humanize.Comma(int64(geoStats.Unmatched)), humanize.Comma(int64(geoStats.Rows)))
	}
	return joined, voteStats, geoStats
}

// renderMap draws the selected result. Having nothing defined to draw is a
// warning, not a failure.
func (s *CorrelationService) renderMap(ctx context.Context, ranked []analysis.CorrelationResult, result *RunResult) error {
	if s.outputs.Map == nil {
		s.logger.Debug("Map rendering disabled")
		return nil
	}
	selected, err := analyzer.SelectForMap(ranked, s.options.MapSelection)
	if stderrors.Is(err, core.ErrNoDefinedCorrelation) {
		s.logger.Warn("Skipping map: %v", err)
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Mapping %s (r=%.3f)", selected.Label(), selected.Coefficient)
	if err := s.outputs.Map.RenderMap(ctx, selected); err != nil {
		return err
	}
	result.Mapped = &selected
	return nil
}
