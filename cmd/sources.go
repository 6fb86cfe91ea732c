package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brewkit/brewcat/internal/store"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Track source link verification",
	Long: "Source links carry a reachability state apart from the values they back.\n" +
		"A broken link is queued for re-verification; the records citing it keep\n" +
		"their parameters either way.",
}

var sourcesPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List links awaiting verification",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		links, err := st.PendingSources(ctx)
		if err != nil {
			return err
		}
		return printJSON(links)
	},
}

var sourcesMarkCmd = &cobra.Command{
	Use:   "mark <url> <reachable|broken|unverified>",
	Short: "Record a verification verdict for one link",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		status, err := store.ParseLinkStatus(args[1])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.MarkSource(ctx, args[0], status); err != nil {
			return err
		}
		zap.L().Info("source marked",
			zap.String("url", args[0]),
			zap.String("status", string(status)))
		return nil
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesPendingCmd, sourcesMarkCmd)
	rootCmd.AddCommand(sourcesCmd)
}
