package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brewkit/brewcat/internal/export"
)

var importFormat string

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a catalog snapshot",
	Long:  "Replays a JSON or YAML snapshot through the merge-on-upsert path. Importing the same snapshot twice is a no-op.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close()

		format := importFormat
		if format == "" {
			format = export.DetectFormat(args[0])
		}
		snap, err := export.Read(f, format)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate")
		}

		report, err := st.Import(ctx, snap)
		if err != nil {
			return err
		}

		zap.L().Info("import complete",
			zap.Int("inserted", report.Inserted),
			zap.Int("updated", report.Updated),
			zap.Int("noops", report.Noops),
			zap.Int("conflicts", report.Conflicts),
		)
		return printJSON(report)
	},
}

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "", "json or yaml (default from file extension)")
	rootCmd.AddCommand(importCmd)
}
