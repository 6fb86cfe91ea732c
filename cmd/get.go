package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/brewkit/brewcat/internal/model"
)

var getProducer string

var getCmd = &cobra.Command{
	Use:   "get <hop|malt|yeast> <name>",
	Short: "Look up one ingredient by name",
	Long:  "Exact, case-insensitive lookup. Without --producer, the canonical record wins when several producers share a name.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		kind, err := model.ParseKind(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		var rec any
		switch kind {
		case model.KindHop:
			rec, err = st.GetHop(ctx, args[1], getProducer)
		case model.KindMalt:
			rec, err = st.GetMalt(ctx, args[1], getProducer)
		case model.KindYeast:
			rec, err = st.GetYeast(ctx, args[1], getProducer)
		}
		if err != nil {
			return eris.Wrapf(err, "get %s %q", kind, args[1])
		}
		return printJSON(rec)
	},
}

func init() {
	getCmd.Flags().StringVar(&getProducer, "producer", "", "disambiguate by producer")
	rootCmd.AddCommand(getCmd)
}
