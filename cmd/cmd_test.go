package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/store"

	_ "modernc.org/sqlite"
)

// resetFlags restores flag variables, since cobra keeps parsed values
// between Execute calls.
func resetFlags() {
	flagConfig, flagScenario, flagStart = "", "", ""
	flagPeriods = 0
	flagQuiet, flagVerbose = true, false
	flagNoDiagnostics, flagStrict = false, false
	flagBudget, flagGoal, flagDryRun = 0, "", false
	flagRecGoal, flagLocal, flagHistory, flagNoRecord = "", false, 0, false
	flagFormat, flagOutput = "csv", ""
}

// testWorkspace writes a config whose store lives in a temp dir and
// returns the config and database paths.
func testWorkspace(t *testing.T, mutate func(*config.Config)) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"ADSIM_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := config.DefaultConfig()
	cfg.Simulation.Start = "2025-01"
	cfg.Schedule.DBPath = filepath.Join(dir, "scenarios.db")
	if mutate != nil {
		mutate(&cfg)
	}
	path := filepath.Join(dir, "adsim.toml")
	require.NoError(t, config.SaveFile(path, cfg))
	return path, cfg.Schedule.DBPath
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func loadOverrides(t *testing.T, dbPath, scenario string) model.CostOverrides {
	t.Helper()
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	o, err := st.LoadOverrides(context.Background(), scenario)
	require.NoError(t, err)
	return o
}

func TestParsePeriod(t *testing.T) {
	sim := model.Config{Periods: 12, Start: time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 0},
		{in: "12", want: 11},
		{in: "2025-11", want: 0},
		{in: "2026-02", want: 3},
		{in: "2026-10", want: 11},
		{in: "0", wantErr: true},
		{in: "13", wantErr: true},
		{in: "2025-10", wantErr: true},
		{in: "2026-11", wantErr: true},
		{in: "march", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePeriod(tt.in, sim)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1,500.5")
	require.NoError(t, err)
	assert.InDelta(t, 1500.5, v, 1e-9)

	_, err = parseAmount("-3")
	assert.Error(t, err)
	_, err = parseAmount("lots")
	assert.Error(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "sk-abcde...wxyz", maskAPIKey("sk-abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "sk-a...", maskAPIKey("sk-abcdef"))
	assert.Equal(t, "****", maskAPIKey("abc"))
}

func TestResolveGoal(t *testing.T) {
	g, err := resolveGoal("", "")
	require.NoError(t, err)
	assert.Equal(t, model.GoalProfit, g)

	g, err = resolveGoal("", "risk-min")
	require.NoError(t, err)
	assert.Equal(t, model.GoalRisk, g)

	g, err = resolveGoal("growth", "risk-min")
	require.NoError(t, err)
	assert.Equal(t, model.GoalGrowth, g)

	_, err = resolveGoal("fastest", "")
	assert.Error(t, err)
}

func TestScheduleCommandsPersist(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set-period", "consulting", "3", "100"))
	o := loadOverrides(t, dbPath, "default")
	v, ok := o.Get(model.Consulting, 2)
	require.True(t, ok)
	assert.Equal(t, 100.0, v)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set", "prod", "10"))
	o = loadOverrides(t, dbPath, "default")
	assert.Len(t, o, 13)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "unset", "consulting", "2025-03"))
	o = loadOverrides(t, dbPath, "default")
	_, ok = o.Get(model.Consulting, 2)
	assert.False(t, ok)
	assert.Len(t, o, 12)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "clear"))
	assert.Empty(t, loadOverrides(t, dbPath, "default"))
}

func TestScheduleScenarioFlag(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "--scenario", "launch", "schedule", "set", "ads", "400"))
	assert.Len(t, loadOverrides(t, dbPath, "launch"), 12)
	assert.Empty(t, loadOverrides(t, dbPath, "default"))

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "delete", "launch"))
	assert.Empty(t, loadOverrides(t, dbPath, "launch"))
}

func TestScheduleApplyRecordsPreset(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "apply", "retail"))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	preset, err := st.Preset(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "retail", preset)

	o, err := st.LoadOverrides(context.Background(), "default")
	require.NoError(t, err)
	assert.NotEmpty(t, o)
}

func TestScheduleRejectsBadInput(t *testing.T) {
	cfgPath, _ := testWorkspace(t, nil)

	assert.Error(t, run(t, "--config", cfgPath, "schedule", "set", "travel", "10"))
	assert.Error(t, run(t, "--config", cfgPath, "schedule", "set", "consulting", "-10"))
	assert.Error(t, run(t, "--config", cfgPath, "schedule", "set-period", "consulting", "13", "10"))
	assert.Error(t, run(t, "--config", cfgPath, "schedule", "apply", "nope"))
}

func TestUnreadableScheduleIsNotOverwritten(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set", "prod", "10"))
	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set", "ads", "20"))
	require.Len(t, loadOverrides(t, dbPath, "default"), 24)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("UPDATE overrides SET amount = 'abc' WHERE category = 'production' AND period = 0")
	require.NoError(t, err)

	// Reads degrade to the base schedule.
	require.NoError(t, run(t, "--config", cfgPath, "project"))

	err = run(t, "--config", cfgPath, "schedule", "set", "consulting", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")
	assert.Error(t, run(t, "--config", cfgPath, "allocate", "--budget", "200"))
	assert.Error(t, run(t, "--config", cfgPath, "schedule", "clear"))

	var kept, consulting int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM overrides WHERE scenario = 'default' AND category != 'consulting'").Scan(&kept))
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM overrides WHERE scenario = 'default' AND category = 'consulting'").Scan(&consulting))
	assert.Equal(t, 24, kept)
	assert.Zero(t, consulting)
}

func TestAllocate(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "allocate", "--budget", "200", "--goal", "profit", "--dry-run"))
	assert.Empty(t, loadOverrides(t, dbPath, "default"))

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set-period", "ads", "1", "900"))
	require.NoError(t, run(t, "--config", cfgPath, "allocate", "--budget", "200", "--goal", "profit"))

	o := loadOverrides(t, dbPath, "default")
	for i := 0; i < 12; i++ {
		c, _ := o.Get(model.Consulting, i)
		p, _ := o.Get(model.Production, i)
		assert.Equal(t, 72.0, c, "consulting period %d", i)
		assert.Equal(t, 33.0, p, "production period %d", i)
	}
	ad, ok := o.Get(model.Advertising, 0)
	require.True(t, ok, "advertising override kept")
	assert.Equal(t, 900.0, ad)
}

func TestExportJSON(t *testing.T) {
	cfgPath, _ := testWorkspace(t, nil)
	out := filepath.Join(t.TempDir(), "plan.json")

	require.NoError(t, run(t, "--config", cfgPath, "schedule", "set-period", "consulting", "1", "100"))
	require.NoError(t, run(t, "--config", cfgPath, "--periods", "6", "export", "--format", "json", "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var doc struct {
		Records []struct {
			Period     string `json:"period"`
			Revenue    int64  `json:"revenue"`
			Consulting int64  `json:"consulting"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Records, 6)
	assert.Equal(t, "2025-01", doc.Records[0].Period)
	assert.Equal(t, int64(500), doc.Records[0].Revenue)
	assert.Equal(t, int64(100), doc.Records[0].Consulting)
	assert.Equal(t, int64(60), doc.Records[1].Consulting)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	cfgPath, _ := testWorkspace(t, nil)
	assert.Error(t, run(t, "--config", cfgPath, "export", "--format", "xlsx"))
}

func TestInvalidConfigRejected(t *testing.T) {
	cfgPath, _ := testWorkspace(t, func(c *config.Config) {
		c.Costs.AdCostRatio = 150
	})
	err := run(t, "--config", cfgPath, "project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ad_cost_ratio")
}

func TestDiagnoseStrict(t *testing.T) {
	cfgPath, _ := testWorkspace(t, func(c *config.Config) {
		c.Costs.ConsultingFee = 5000
	})
	require.NoError(t, run(t, "--config", cfgPath, "diagnose"))
	assert.ErrorIs(t, run(t, "--config", cfgPath, "diagnose", "--strict"), errWarnings)
}

func TestRecommendLocalRecordsRun(t *testing.T) {
	cfgPath, dbPath := testWorkspace(t, nil)

	require.NoError(t, run(t, "--config", cfgPath, "recommend", "--goal", "risk"))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.RecentRuns(context.Background(), "default", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.GoalRisk, runs[0].Goal)
	assert.Equal(t, "local", runs[0].Source)
	assert.Empty(t, runs[0].FallbackReason)
}

func TestReadOnlyCommands(t *testing.T) {
	cfgPath, _ := testWorkspace(t, func(c *config.Config) {
		c.Revenue.Seasonal = true
		c.Rules = []config.RuleConfig{{Name: "thin margin", Condition: "margin < 50.0", Kind: "caution"}}
	})

	for _, args := range [][]string{
		{"project"},
		{"project", "--no-diagnostics"},
		{"presets"},
		{"presets", "show", "travel"},
		{"presets", "b2b"},
		{"schedule", "show"},
		{"schedule", "list"},
		{"recommend", "--history", "5"},
		{"config"},
	} {
		t.Run(args[0], func(t *testing.T) {
			assert.NoError(t, run(t, append([]string{"--config", cfgPath}, args...)...))
		})
	}
}

func TestUnknownPresetFails(t *testing.T) {
	cfgPath, _ := testWorkspace(t, nil)
	err := run(t, "--config", cfgPath, "presets", "show", "nope")
	assert.ErrorIs(t, err, config.ErrUnknownPreset)
}
