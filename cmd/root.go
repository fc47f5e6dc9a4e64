// Package cmd implements the adsim CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/model"
	"github.com/theirongolddev/adsim/internal/pipeline"
	"github.com/theirongolddev/adsim/internal/rules"
	"github.com/theirongolddev/adsim/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	flagConfig   string
	flagScenario string
	flagPeriods  int
	flagStart    string
	flagQuiet    bool
	flagVerbose  bool
)

// logger is replaced in PersistentPreRunE once flags are parsed.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:               "adsim",
	Short:             "Marketing budget projection CLI",
	Long:              "Project monthly revenue, advertising and fixed costs, diagnose the plan, and get budget recommendations.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runProject,
}

// Execute is the main entry point called from main.go.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVarP(&flagScenario, "scenario", "s", "", "Named cost schedule to use")
	rootCmd.PersistentFlags().IntVarP(&flagPeriods, "periods", "n", 0, "Override the number of projected months")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Override the first projected month (YYYY-MM)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
}

func initRuntime(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	l, err := newLogger(flagVerbose, flagQuiet)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	logger = l
	return nil
}

func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.ErrorLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFile(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if flagPeriods != 0 {
		cfg.Simulation.Periods = flagPeriods
	}
	if flagStart != "" {
		cfg.Simulation.Start = flagStart
	}
	if flagScenario != "" {
		cfg.Schedule.Scenario = flagScenario
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return cfg, nil
}

// saveConfig writes cfg back to whichever file it was loaded from.
func saveConfig(cfg config.Config) error {
	if flagConfig != "" {
		return config.SaveFile(flagConfig, cfg)
	}
	return config.Save(cfg)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// session is the shared state every projection command starts from.
type session struct {
	cfg       config.Config
	sim       model.Config
	presets   *config.PresetTable
	scenario  string
	store     *store.Store // nil when the database could not be opened
	overrides model.CostOverrides
	preset    string
	loadErr   error // set when the stored schedule could not be read
}

// openSession loads config and the scenario's saved schedule.
// A broken store degrades to an empty in-memory schedule; an unreadable
// schedule does too, but the session then refuses to save over it.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sim, err := cfg.ModelConfig(time.Now())
	if err != nil {
		return nil, err
	}
	presets, err := config.NewPresetTable(cfg.Presets)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:       cfg,
		sim:       sim,
		presets:   presets,
		scenario:  cfg.Schedule.Scenario,
		overrides: model.CostOverrides{},
	}

	st, err := store.Open(config.StorePath(cfg))
	if err != nil {
		logger.Warn("scenario store unavailable, using an empty schedule",
			zap.String("path", config.StorePath(cfg)), zap.Error(err))
		return s, nil
	}
	s.store = st

	o, err := st.LoadOverrides(ctx, s.scenario)
	if err != nil {
		logger.Warn("schedule unreadable, projecting without overrides",
			zap.String("scenario", s.scenario), zap.Error(err))
		s.loadErr = err
		return s, nil
	}
	s.overrides = o
	if p, err := st.Preset(ctx, s.scenario); err == nil {
		s.preset = p
	}
	logger.Debug("session ready",
		zap.String("scenario", s.scenario),
		zap.Int("overrides", len(o)),
		zap.Int("periods", sim.Periods))
	return s, nil
}

func (s *session) close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// saveSchedule persists o as the scenario's schedule.
func (s *session) saveSchedule(ctx context.Context, preset string, o model.CostOverrides) error {
	if s.store == nil {
		return fmt.Errorf("scenario store unavailable at %s", config.StorePath(s.cfg))
	}
	if s.loadErr != nil {
		return fmt.Errorf("schedule of %s could not be loaded, refusing to overwrite it: %w", s.scenario, s.loadErr)
	}
	// An empty schedule also forgets the preset it came from.
	if len(o) == 0 {
		if err := s.store.ClearOverrides(ctx, s.scenario); err != nil {
			return fmt.Errorf("clearing schedule: %w", err)
		}
		s.overrides, s.preset = o, ""
		return nil
	}
	if err := s.store.SaveOverrides(ctx, s.scenario, preset, o); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	s.overrides = o
	s.preset = preset
	return nil
}

// projection is one evaluated run of the model.
type projection struct {
	records  []model.ProjectionRecord
	totals   model.Totals
	findings []model.Finding
}

// project runs the projection over the session's schedule, with built-in
// diagnostics followed by any configured rules.
func (s *session) project() (projection, error) {
	return s.projectWith(s.overrides)
}

func (s *session) projectWith(o model.CostOverrides) (projection, error) {
	eng, err := rules.New(s.cfg.Rules, logger)
	if err != nil {
		return projection{}, fmt.Errorf("compiling rules: %w", err)
	}

	records := pipeline.Run(s.sim, o)
	findings := pipeline.Diagnose(records)
	findings = append(findings, eng.Evaluate(records)...)
	return projection{
		records:  records,
		totals:   pipeline.Summarize(records),
		findings: findings,
	}, nil
}
