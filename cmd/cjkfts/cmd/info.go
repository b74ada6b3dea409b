package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/cjkfts/internal/output"
	"github.com/Aman-CERP/cjkfts/internal/profiling"
	"github.com/Aman-CERP/cjkfts/pkg/engine"
)

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				n, err := e.Count(cmd.Context())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
				return err
			})
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show index information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(e *engine.Engine) error {
				info, err := e.Info(cmd.Context())
				if err != nil {
					return err
				}
				out := output.New(cmd.OutOrStdout())
				if f == output.FormatJSON {
					return out.JSON(info)
				}
				out.Table("Index", infoRows(info))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func infoRows(info engine.Info) []output.KV {
	return []output.KV{
		{Key: "path", Value: info.Path},
		{Key: "profile", Value: info.Profile.String()},
		{Key: "dictionary", Value: info.Profile.DictionaryName()},
		{Key: "documents", Value: strconv.FormatUint(info.Documents, 10)},
		{Key: "commits", Value: strconv.FormatInt(info.Commits, 10)},
		{Key: "created", Value: formatTime(info.CreatedAt)},
		{Key: "last commit", Value: formatTime(info.LastCommitAt)},
		{Key: "heap in use", Value: profiling.FormatBytes(profiling.HeapInUse())},
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}
