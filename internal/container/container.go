package container

import (
	"fmt"

	"cdicorr/adapters/geometry"
	"cdicorr/adapters/render"
	"cdicorr/adapters/report"
	"cdicorr/adapters/tabular"
	"cdicorr/app"
	"cdicorr/internal"
	"cdicorr/internal/cleaning"
	"cdicorr/internal/config"
	"cdicorr/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Inputs
	ElectionSource ports.TableSource
	HealthSource   ports.TableSource
	StatesSource   ports.GeometrySource

	// Outputs
	ReportWriter  ports.ReportWriter
	SummaryWriter ports.SummaryWriter // nil when SUMMARY_PATH is empty
	MapRenderer   ports.MapRenderer   // nil when RENDER_MAP is false

	Service *app.CorrelationService
}

// New creates a container with every adapter wired from cfg
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	c.initSources()
	c.initOutputs()
	c.Service = app.NewCorrelationService(
		app.Inputs{Election: c.ElectionSource, Health: c.HealthSource, States: c.StatesSource},
		app.Outputs{Report: c.ReportWriter, Summary: c.SummaryWriter, Map: c.MapRenderer},
		c.options(),
		logger,
	)
	return c, nil
}

func (c *Container) initSources() {
	paths := c.Config.Paths

	c.ElectionSource = tabular.NewFileSource(tabular.DefaultReaderConfig(paths.ElectionCSV), c.Logger)

	healthConfig := tabular.DefaultReaderConfig(paths.HealthCSV)
	healthConfig.Encoding = paths.HealthEncoding
	c.HealthSource = tabular.NewFileSource(healthConfig, c.Logger)

	c.StatesSource = geometry.NewFileSource(paths.StatesShapefile, c.Logger)
}

func (c *Container) initOutputs() {
	out := c.Config.Output

	c.ReportWriter = report.NewTextWriter(out.ReportPath, c.Logger)
	if out.SummaryPath != "" {
		c.SummaryWriter = report.NewJSONSummaryWriter(out.SummaryPath, c.Logger)
	}
	if out.RenderMap {
		c.MapRenderer = render.NewChoroplethRenderer(render.DefaultConfig(out.MapPath), c.Logger)
	}
}

func (c *Container) options() app.Options {
	a := c.Config.Analysis

	opts := app.DefaultOptions()
	opts.Prune = cleaning.DefaultPruneOptions()
	opts.Prune.MinDistinct = a.MinDistinctValues
	opts.Analysis.Stratification = a.Stratification
	opts.Placement = a.UndefinedPlacement
	opts.MapSelection = a.MapSelection
	return opts
}
