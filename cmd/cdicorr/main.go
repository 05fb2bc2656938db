package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cdicorr/domain/analysis"
	"cdicorr/internal"
	"cdicorr/internal/config"
	"cdicorr/internal/container"
	"cdicorr/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}

	rootCmd := &cobra.Command{
		Use:          "cdicorr",
		Short:        "Correlate CDC chronic disease indicators with 2016 Republican vote share by state",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newConfigCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errors.GetCode(err), err)
		stop()
		os.Exit(1)
	}
}

// overrides are CLI flags layered over the loaded configuration
type overrides struct {
	configPath   string
	election     string
	health       string
	states       string
	reportPath   string
	mapPath      string
	summaryPath  string
	mapSelection string
	noMap        bool
}

func (o *overrides) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "YAML configuration file (default $CDICORR_CONFIG)")
	cmd.Flags().StringVar(&o.election, "election", "", "County-level election results CSV")
	cmd.Flags().StringVar(&o.health, "health", "", "Chronic disease indicators CSV or XLSX")
	cmd.Flags().StringVar(&o.states, "states", "", "State boundaries (.shp or .geojson)")
	cmd.Flags().StringVar(&o.reportPath, "report", "", "Ranked correlation report output path")
	cmd.Flags().StringVar(&o.mapPath, "map", "", "Choropleth PNG output path")
	cmd.Flags().StringVar(&o.summaryPath, "summary", "", "JSON run summary output path")
	cmd.Flags().StringVar(&o.mapSelection, "map-selection", "", "Which correlation to map: lowest|highest")
	cmd.Flags().BoolVar(&o.noMap, "no-map", false, "Skip map rendering")
}

// load resolves configuration: defaults, YAML, environment, then flags
func (o *overrides) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	setIf(&cfg.Paths.ElectionCSV, o.election)
	setIf(&cfg.Paths.HealthCSV, o.health)
	setIf(&cfg.Paths.StatesShapefile, o.states)
	setIf(&cfg.Output.ReportPath, o.reportPath)
	setIf(&cfg.Output.MapPath, o.mapPath)
	setIf(&cfg.Output.SummaryPath, o.summaryPath)
	if o.mapSelection != "" {
		cfg.Analysis.MapSelection = analysis.MapSelection(o.mapSelection)
	}
	if o.noMap {
		cfg.Output.RenderMap = false
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid command-line options")
	}
	return cfg, nil
}

func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func newRunCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, clean, join and correlate the datasets, then write the report and map",
		Long: `Run the full pipeline once.

Inputs and outputs default to the paths in the configuration and may be set with
ELECTION_CSV, HEALTH_CSV, STATES_SHAPEFILE, REPORT_PATH, MAP_PATH and SUMMARY_PATH,
in a .env file, in a YAML file named by --config or CDICORR_CONFIG, or with flags.

Example: cdicorr run --health ./cdi.csv --map-selection highest --summary run.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg)
		},
	}
	o.register(cmd)
	return cmd
}

func runPipeline(ctx context.Context, cfg *config.Config) error {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

	c, err := container.New(cfg, logger)
	if err != nil {
		return err
	}

	result, err := c.Service.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("Report: %s (%d questions)", cfg.Output.ReportPath, len(result.Ranked))
	if result.Mapped != nil {
		logger.Info("Map: %s (%s)", cfg.Output.MapPath, result.Mapped.Label())
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	var o overrides

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
	o.register(cmd)
	return cmd
}
