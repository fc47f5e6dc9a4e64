package cmd

import (
	"fmt"

	"github.com/theirongolddev/adsim/internal/advisor"
	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/rules"
	"github.com/theirongolddev/adsim/internal/tui"
	"github.com/theirongolddev/adsim/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	theme.SetActive(s.cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	eng, err := rules.New(s.cfg.Rules, logger)
	if err != nil {
		return fmt.Errorf("compiling rules: %w", err)
	}

	// Edits to a schedule that failed to load stay in memory.
	st := s.store
	if s.loadErr != nil {
		st = nil
	}

	app, err := tui.NewApp(tui.Options{
		Config:     s.cfg,
		Scenario:   s.scenario,
		Overrides:  s.overrides,
		Preset:     s.preset,
		Store:      st,
		SaveConfig: saveConfig,
		Provider:   advisor.NewProvider(s.cfg),
		Rules:      eng,
		Logger:     logger,
		NeedSetup:  flagConfig == "" && !config.Exists(),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
