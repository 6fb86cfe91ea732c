package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brewkit/brewcat/internal/export"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the full catalog",
	Long:  "Writes every record with every field. JSON and YAML exports round-trip through import; XLSX is a spreadsheet view.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.Export(ctx)
		if err != nil {
			return err
		}

		format := exportFormat
		if format == "" {
			format = export.DetectFormat(exportOutput)
		}

		if format == "xlsx" {
			if exportOutput == "" {
				return eris.New("xlsx export requires --output")
			}
			if err := export.WriteXLSX(exportOutput, snap); err != nil {
				return err
			}
		} else if exportOutput == "" {
			return export.Write(os.Stdout, snap, format)
		} else {
			f, err := os.Create(exportOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", exportOutput)
			}
			defer f.Close()
			if err := export.Write(f, snap, format); err != nil {
				return err
			}
		}

		zap.L().Info("export complete",
			zap.Int("records", snap.Len()),
			zap.String("format", format),
			zap.String("output", exportOutput),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json, yaml or xlsx (default from file extension)")
	rootCmd.AddCommand(exportCmd)
}
