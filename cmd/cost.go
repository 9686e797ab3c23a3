package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/clil-studio/internal/config"
	"github.com/ziadkadry99/clil-studio/internal/llm"
	"github.com/ziadkadry99/clil-studio/internal/prompts"
)

// Typical output sizes of a full activity and of a helper card, in tokens.
const (
	activityOutputTokens = 2500
	helperOutputTokens   = 600
)

var costCmd = &cobra.Command{
	Use:   "cost [prompt]",
	Short: "Estimate the API cost of generating a lesson",
	Long:  `Estimates tokens and cost of a full generation (activity plus helper card) for each quality tier without making any API calls.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCost,
}

func init() {
	costCmd.Flags().StringSlice("modifier", nil, "activity modifier key (repeatable)")
	rootCmd.AddCommand(costCmd)
}

type costEstimate struct {
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// estimateGeneration prices the two requests GenerateAll makes.
func estimateGeneration(model, prompt string, modifiers []string) costEstimate {
	var in int
	for _, msgs := range [][]llm.Message{prompts.Activity(prompt, modifiers, ""), prompts.Helper(prompt)} {
		for _, m := range msgs {
			in += llm.EstimateTokens(m.Content)
		}
	}
	out := activityOutputTokens + helperOutputTokens
	return costEstimate{InputTokens: in, OutputTokens: out, Cost: llm.EstimateCost(model, in, out)}
}

func runCost(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	modifiers, _ := cmd.Flags().GetStringSlice("modifier")

	est := estimateGeneration(cfg.Model, args[0], modifiers)

	fmt.Println("Cost Estimate")
	fmt.Println("=============")
	fmt.Printf("  Input tokens:        ~%d\n", est.InputTokens)
	fmt.Printf("  Output tokens:       ~%d\n", est.OutputTokens)
	fmt.Printf("  Estimated cost:      $%.4f per lesson\n", est.Cost)
	if cfg.MaxCostUSD > 0 && est.Cost > 0 {
		fmt.Printf("  Budget allows:       ~%d lessons\n", int(cfg.MaxCostUSD/est.Cost))
	}
	fmt.Println()

	fmt.Println("  Tier Comparison:")
	fmt.Println("  ----------------------------------------")
	for _, tier := range []config.QualityTier{config.QualityLite, config.QualityNormal, config.QualityMax} {
		preset := config.GetPreset(cfg.Provider, tier)
		tierEst := estimateGeneration(preset.Model, args[0], modifiers)

		marker := " "
		if tier == cfg.Quality {
			marker = "*"
		}
		fmt.Printf("  %s %-8s  ~$%.4f  (model: %s)\n", marker, tier, tierEst.Cost, preset.Model)
	}
	fmt.Println()
	fmt.Println("  * = current configuration")
	fmt.Println()
	fmt.Printf("  Provider: %s\n", cfg.Provider)
	fmt.Printf("  Model:    %s\n", cfg.Model)
	fmt.Printf("  Quality:  %s\n", cfg.Quality)
	return nil
}
