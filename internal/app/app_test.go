package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/hcl"
	"github.com/specialistvlad/graphview/internal/nodeid"
	"github.com/specialistvlad/graphview/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Phases:    4,
		NodeCount: 5,
		Seed:      7,
		Diff:      NoDiff,
		LogFormat: "text",
		LogLevel:  "debug",
	}
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "diff in range", mutate: func(c *Config) { c.Diff = 3 }},
		{name: "no phases", mutate: func(c *Config) { c.Phases = 0 }, wantErr: "phases must be at least 1"},
		{name: "no nodes", mutate: func(c *Config) { c.NodeCount = 0 }, wantErr: "nodes must be at least 1"},
		{name: "negative rate", mutate: func(c *Config) { c.DuplicateRate = -0.1 }, wantErr: "duplicate-rate"},
		{name: "rate above one", mutate: func(c *Config) { c.DuplicateRate = 1.5 }, wantErr: "duplicate-rate"},
		{name: "select past end", mutate: func(c *Config) { c.Select = 4 }, wantErr: "select 4 is out of range"},
		{name: "negative select", mutate: func(c *Config) { c.Select = -1 }, wantErr: "select -1 is out of range"},
		{name: "diff past end", mutate: func(c *Config) { c.Diff = 9 }, wantErr: "diff 9 is out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			got, err := NewConfig(cfg)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got.Selection, "selection should default to an empty set")
		})
	}
}

func TestBuildChains(t *testing.T) {
	primary, sequence, err := buildChains([]*config.FilterDefinition{
		{Name: "a", Chain: config.ChainPrimary, Rules: []*config.RuleDefinition{{Property: "name", Pattern: "Phi", Color: "#FFA500"}}},
		{Name: "b", Chain: config.ChainSequence},
		{Name: "c", Chain: config.ChainPrimary},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, primary.Len())
	assert.Equal(t, 1, sequence.Len())

	_, _, err = buildChains([]*config.FilterDefinition{
		{Name: "bad", Rules: []*config.RuleDefinition{{Property: "name", Pattern: "("}}},
	})
	assert.ErrorContains(t, err, `filter "bad"`)
}

// newTestApp builds an App writing its report to out and its logs to logs.
func newTestApp(t *testing.T, cfg Config, hclSource string) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	if hclSource != "" {
		path := filepath.Join(t.TempDir(), "viewer.hcl")
		require.NoError(t, os.WriteFile(path, []byte(hclSource), 0o600))
		cfg.ConfigPath = path
	}
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	return NewApp(out, logs, appConfig, hcl.NewLoader()), out, logs
}

func TestRun_Report(t *testing.T) {
	cfg := validConfig()
	cfg.Select = 1
	cfg.Selection = nodeid.NewSet(1) // the start node survives every phase unchanged

	a, out, logs := newTestApp(t, cfg, `
settings {
  node_text = "[idx] [name]"
}

filter "start" {
  rule {
    property = "name"
    pattern  = "Start"
    color    = colors.red
  }
}
`)
	require.NoError(t, a.Run(context.Background()))

	report := out.String()
	assert.Contains(t, report, "Group: sample-7 ")
	assert.Contains(t, report, "Phases\n")
	assert.NotContains(t, report, "comparing")
	assert.Contains(t, report, "0: After parsing (green)")
	assert.Contains(t, report, "> ■ 1: Canonicalize (white)")
	assert.Contains(t, report, "Graph: 1: Canonicalize")
	assert.Contains(t, report, "1 Start [0]")
	assert.Contains(t, report, "sea of nodes")

	assert.Contains(t, logs.String(), "App.Run method finished.")
	assert.Equal(t, 1.0, a.Metrics().Snapshot()[telemetry.RebuildsTotal])
	assert.Equal(t, 1.0, a.Metrics().Snapshot()[telemetry.SchedulerCallsTotal])
}

func TestRun_DiffAndHideDuplicates(t *testing.T) {
	cfg := validConfig()
	cfg.Diff = 3
	cfg.HideDuplicates = true

	a, out, _ := newTestApp(t, cfg, "")
	require.NoError(t, a.Run(context.Background()))

	assert.Contains(t, out.String(), "Phases (comparing 0..3)")
	assert.Contains(t, out.String(), "Graph: diff(0: After parsing, 3: Iter GVN)")
	assert.Equal(t, 4, strings.Count(out.String(), "> "), "every phase lies inside the comparison window")
	assert.Equal(t, 1.0, a.Metrics().Snapshot()[telemetry.DiffGraphsTotal])
}

func TestNewApp_PanicsOnBadConfig(t *testing.T) {
	cfg := validConfig()
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`settings {`), 0o600))
	cfg.ConfigPath = path
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		assert.ErrorContains(t, r.(error), "failed to load configuration")
	}()
	NewApp(&bytes.Buffer{}, &bytes.Buffer{}, appConfig, hcl.NewLoader())
}
