package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brewkit/brewcat/internal/store"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the table layout for the configured driver",
	RunE: func(_ *cobra.Command, _ []string) error {
		ddl, err := store.Schema(cfg.Store.Driver)
		if err != nil {
			return err
		}
		fmt.Println(strings.TrimSpace(ddl))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
