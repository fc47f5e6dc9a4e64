package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/adsim/internal/cli"
	"github.com/theirongolddev/adsim/internal/model"

	"github.com/spf13/cobra"
)

var flagStrict bool

// errWarnings makes --strict exit non-zero without cobra printing usage.
var errWarnings = errors.New("projection has warnings")

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check the projection for loss months, weak ROAS and volatile margins",
	RunE:  runDiagnose,
}

func init() {
	diagnoseCmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit with an error when any warning is found")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	p, err := s.project()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DIAGNOSTICS  %s", s.scenario)))
	fmt.Println()
	fmt.Print(cli.RenderFindings(p.findings))
	fmt.Println()

	counts := make(map[model.FindingKind]int)
	for _, f := range p.findings {
		counts[f.Kind]++
	}
	fmt.Printf("  %d warnings, %d cautions, %d suggestions\n\n",
		counts[model.KindWarning], counts[model.KindCaution], counts[model.KindSuggestion])

	if flagStrict && counts[model.KindWarning] > 0 {
		return errWarnings
	}
	return nil
}
