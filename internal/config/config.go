package config

import (
	"os"
	"strconv"
	"strings"

	"cdicorr/domain/analysis"
	"cdicorr/internal/errors"

	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Paths    PathConfig     `yaml:"paths"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	LogLevel string         `yaml:"log_level"`
}

// PathConfig holds the three input datasets
type PathConfig struct {
	ElectionCSV     string `yaml:"election_csv"`
	HealthCSV       string `yaml:"health_csv"`
	HealthEncoding  string `yaml:"health_encoding"`
	StatesShapefile string `yaml:"states_shapefile"`
}

// AnalysisConfig holds cleaning and ranking settings
type AnalysisConfig struct {
	Stratification     string                      `yaml:"stratification"`
	MinDistinctValues  int                         `yaml:"min_distinct_values"`
	UndefinedPlacement analysis.UndefinedPlacement `yaml:"undefined_placement"`
	MapSelection       analysis.MapSelection       `yaml:"map_selection"`
}

// OutputConfig holds report and map destinations
type OutputConfig struct {
	ReportPath  string `yaml:"report_path"`
	MapPath     string `yaml:"map_path"`
	SummaryPath string `yaml:"summary_path"`
	RenderMap   bool   `yaml:"render_map"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Paths: PathConfig{
			ElectionCSV:     "./Datasets/2016_US_County_Level_Presidential_Results.csv",
			HealthCSV:       "./Datasets/U.S._Chronic_Disease_Indicators__CDI_.csv",
			HealthEncoding:  "latin-1",
			StatesShapefile: "./Datasets/tl_2017_us_state/tl_2017_us_state.shp",
		},
		Analysis: AnalysisConfig{
			Stratification:     "Overall",
			MinDistinctValues:  3,
			UndefinedPlacement: analysis.UndefinedLast,
			MapSelection:       analysis.SelectLowest,
		},
		Output: OutputConfig{
			ReportPath: "./correlations_output",
			MapPath:    "./correlation_map.png",
			RenderMap:  true,
		},
		LogLevel: "INFO",
	}
}

// Load builds configuration from defaults, then the YAML file named by
// CDICORR_CONFIG (or configPath when non-empty), then environment variables.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath == "" {
		configPath = os.Getenv("CDICORR_CONFIG")
	}
	if configPath != "" {
		if err := loadYAML(configPath, config); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", configPath)
		}
	}

	applyEnv(config)

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadYAML(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

func applyEnv(config *Config) {
	config.Paths.ElectionCSV = getEnvOrDefault("ELECTION_CSV", config.Paths.ElectionCSV)
	config.Paths.HealthCSV = getEnvOrDefault("HEALTH_CSV", config.Paths.HealthCSV)
	config.Paths.HealthEncoding = getEnvOrDefault("HEALTH_ENCODING", config.Paths.HealthEncoding)
	config.Paths.StatesShapefile = getEnvOrDefault("STATES_SHAPEFILE", config.Paths.StatesShapefile)

	config.Analysis.Stratification = getEnvOrDefault("STRATIFICATION", config.Analysis.Stratification)
	config.Analysis.MinDistinctValues = getEnvIntOrDefault("MIN_DISTINCT_VALUES", config.Analysis.MinDistinctValues)
	config.Analysis.UndefinedPlacement = analysis.UndefinedPlacement(
		getEnvOrDefault("UNDEFINED_PLACEMENT", string(config.Analysis.UndefinedPlacement)))
	config.Analysis.MapSelection = analysis.MapSelection(
		getEnvOrDefault("MAP_SELECTION", string(config.Analysis.MapSelection)))

	config.Output.ReportPath = getEnvOrDefault("REPORT_PATH", config.Output.ReportPath)
	config.Output.MapPath = getEnvOrDefault("MAP_PATH", config.Output.MapPath)
	config.Output.SummaryPath = getEnvOrDefault("SUMMARY_PATH", config.Output.SummaryPath)
	config.Output.RenderMap = getEnvBoolOrDefault("RENDER_MAP", config.Output.RenderMap)

	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)
}

// Validate checks required fields and normalizes enum values in place
func Validate(config *Config) error {
	if strings.TrimSpace(config.Paths.ElectionCSV) == "" {
		return errors.ConfigInvalid("election CSV path is required")
	}
	if strings.TrimSpace(config.Paths.HealthCSV) == "" {
		return errors.ConfigInvalid("health CSV path is required")
	}
	if strings.TrimSpace(config.Paths.StatesShapefile) == "" {
		return errors.ConfigInvalid("states boundary path is required")
	}
	if config.Output.ReportPath == "" {
		return errors.ConfigInvalid("report path is required")
	}
	if config.Output.RenderMap && config.Output.MapPath == "" {
		return errors.ConfigInvalid("map path is required when map rendering is enabled")
	}
	if config.Analysis.MinDistinctValues < 1 {
		return errors.ConfigInvalid("min distinct values must be at least 1")
	}

	placement, err := analysis.ParseUndefinedPlacement(string(config.Analysis.UndefinedPlacement))
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	config.Analysis.UndefinedPlacement = placement

	selection, err := analysis.ParseMapSelection(string(config.Analysis.MapSelection))
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	config.Analysis.MapSelection = selection

	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
