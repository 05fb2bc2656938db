package main

import (
	"bytes"
	"testing"

	"cdicorr/domain/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOverrides_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("REPORT_PATH", "from-env.txt")
	t.Setenv("MAP_SELECTION", "lowest")

	o := overrides{reportPath: "from-flag.txt", mapSelection: "HIGHEST", noMap: true}

	cfg, err := o.load()
	require.NoError(t, err)
	assert.Equal(t, "from-flag.txt", cfg.Output.ReportPath)
	assert.Equal(t, analysis.SelectHighest, cfg.Analysis.MapSelection)
	assert.False(t, cfg.Output.RenderMap)
}

func TestRunCmd_Flags(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--states", "states.geojson", "--no-map"}))

	states, err := cmd.Flags().GetString("states")
	require.NoError(t, err)
	assert.Equal(t, "states.geojson", states)
	noMap, err := cmd.Flags().GetBool("no-map")
	require.NoError(t, err)
	assert.True(t, noMap)
}

func TestOverrides_InvalidSelection(t *testing.T) {
	o := overrides{mapSelection: "median"}
	_, err := o.load()
	assert.Error(t, err)
}

func TestConfigCmd_PrintsYAML(t *testing.T) {
	t.Setenv("STRATIFICATION", "Female")

	cmd := newConfigCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--summary", "run.json"})
	require.NoError(t, cmd.Execute())

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "Female", doc["analysis"].(map[string]interface{})["stratification"])
	assert.Equal(t, "run.json", doc["output"].(map[string]interface{})["summary_path"])
}
