package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/adsim/internal/config"
	"github.com/theirongolddev/adsim/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Setup is the way out of a broken config, so it skips validation.
	cfg, err := config.LoadFile(configPath())
	if err != nil {
		cfg = config.DefaultConfig()
	}

	fmt.Println()
	fmt.Println("  Welcome to adsim!")
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("  Current API key: %s (leave the key empty to keep it)\n", maskAPIKey(key))
	}
	fmt.Println()

	vals := tui.SetupValuesFrom(cfg)
	if err := tui.NewSetupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	cfg = tui.ApplySetup(cfg, vals)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", configPath())
	fmt.Println("  Run `adsim setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
