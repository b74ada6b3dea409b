package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/internal/seed"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the built-in sample documents",
		Long: `Add fifteen sample documents about airports and cities in Korean,
Japanese and Chinese. Running it twice adds them twice.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				if _, err := e.IndexSeedDocuments(cmd.Context()); err != nil {
					return err
				}
				output.New(cmd.OutOrStdout()).Successf("Indexed %s into %s",
					seed.Summary(seed.Documents()), a.resolvedIndexPath())
				return nil
			})
		},
	}
}
