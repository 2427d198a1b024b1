package cmd

import (
	"fmt"

	"github.com/leafscan/leafscan/internal/classifier"
	"github.com/spf13/cobra"
)

var generateModelCmdFlags struct {
	Output string
	Seed   int64
}

var generateModelCmd = &cobra.Command{
	Use:   "generate-model",
	Short: "Generate a development classifier model artifact",
	Long: `Generate a classifier model artifact with pseudo-random frozen weights.

The artifact is only useful for development and testing: it produces
deterministic but meaningless predictions. A real deployment replaces it
with an exported, trained model in the same format.`,
	RunE: generateModel,
}

func init() {
	generateModelCmd.Flags().StringVarP(&generateModelCmdFlags.Output, "output", "o", "model/model.gob", "Path to write the model artifact to")
	generateModelCmd.Flags().Int64Var(&generateModelCmdFlags.Seed, "seed", 1, "Seed for the pseudo-random weights")
	rootCmd.AddCommand(generateModelCmd)
}

func generateModel(_ *cobra.Command, _ []string) error {
	model := classifier.GenerateModel(generateModelCmdFlags.Seed)
	if err := classifier.SaveModel(generateModelCmdFlags.Output, model); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}

	fmt.Println("Generated development model artifact:")
	fmt.Println()
	fmt.Printf("Path:     %s\n", generateModelCmdFlags.Output)
	fmt.Printf("Model ID: %s\n", model.ID)
	fmt.Println()
	fmt.Println("Point LEAFSCAN_MODEL_PATH at this file to serve with it.")

	return nil
}
