package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/internal/profiling"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

func newDictsCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "dicts [profile...]",
		Short: "Load and verify segmentation dictionaries",
		Long: `Load the dictionaries of the given profiles (default: the configured
profile, or every profile with --all) and report how long it took.

Dictionaries are embedded in the binary; a failure here means the build is
broken rather than anything on disk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles := []engine.Profile{a.cfg.Index.Profile}
			switch {
			case all:
				profiles = engine.Profiles()
			case len(args) > 0:
				profiles = profiles[:0]
				for _, arg := range args {
					p, err := engine.ParseProfile(arg)
					if err != nil {
						return err
					}
					profiles = append(profiles, p)
				}
			}

			start := time.Now()
			if err := engine.PreloadDictionaries(cmd.Context(), profiles...); err != nil {
				return err
			}

			rows := make([]output.KV, 0, len(profiles)+2)
			for _, p := range profiles {
				rows = append(rows, output.KV{Key: p.String(), Value: p.DictionaryName()})
			}
			rows = append(rows,
				output.KV{Key: "took", Value: time.Since(start).Round(time.Millisecond).String()},
				output.KV{Key: "heap in use", Value: profiling.FormatBytes(profiling.HeapInUse())})

			output.New(cmd.OutOrStdout()).Table("Dictionaries", rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Load every profile's dictionary")

	return cmd
}
