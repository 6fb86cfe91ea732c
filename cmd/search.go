package main

import (
	"github.com/spf13/cobra"

	"github.com/brewkit/brewcat/internal/model"
	"github.com/brewkit/brewcat/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalog",
}

// floatFlag reads a float flag only when the user set it: zero is a
// legitimate bound, so presence matters.
func floatFlag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

var searchHopsCmd = &cobra.Command{
	Use:   "hops",
	Short: "Search hops by name, profile, purpose or alpha acid range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		query, _ := cmd.Flags().GetString("query")
		origin, _ := cmd.Flags().GetString("origin")
		purpose, _ := cmd.Flags().GetString("purpose")
		limit, _ := cmd.Flags().GetInt("limit")

		hops, err := st.SearchHops(ctx, store.HopFilter{
			Query:    query,
			Origin:   origin,
			Purpose:  model.HopPurpose(purpose),
			AlphaMin: floatFlag(cmd, "alpha-min"),
			AlphaMax: floatFlag(cmd, "alpha-max"),
			Limit:    limit,
		})
		if err != nil {
			return err
		}
		return printJSON(hops)
	},
}

var searchMaltsCmd = &cobra.Command{
	Use:   "malts",
	Short: "Search malts by name, category, producer or color range (EBC)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		query, _ := cmd.Flags().GetString("query")
		producer, _ := cmd.Flags().GetString("producer")
		category, _ := cmd.Flags().GetString("category")
		limit, _ := cmd.Flags().GetInt("limit")

		malts, err := st.SearchMalts(ctx, store.MaltFilter{
			Query:    query,
			Producer: producer,
			Category: model.MaltCategory(category),
			ColorMin: floatFlag(cmd, "color-min"),
			ColorMax: floatFlag(cmd, "color-max"),
			Limit:    limit,
		})
		if err != nil {
			return err
		}
		return printJSON(malts)
	},
}

var searchYeastsCmd = &cobra.Command{
	Use:   "yeasts",
	Short: "Search yeasts by name, type, form, flocculation or attenuation range",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		query, _ := cmd.Flags().GetString("query")
		producer, _ := cmd.Flags().GetString("producer")
		yType, _ := cmd.Flags().GetString("type")
		form, _ := cmd.Flags().GetString("form")
		floc, _ := cmd.Flags().GetString("flocculation")
		limit, _ := cmd.Flags().GetInt("limit")

		yeasts, err := st.SearchYeasts(ctx, store.YeastFilter{
			Query:          query,
			Producer:       producer,
			Type:           model.YeastType(yType),
			Form:           model.YeastForm(form),
			Flocculation:   model.Flocculation(floc),
			AttenuationMin: floatFlag(cmd, "attenuation-min"),
			AttenuationMax: floatFlag(cmd, "attenuation-max"),
			Limit:          limit,
		})
		if err != nil {
			return err
		}
		return printJSON(yeasts)
	},
}

func init() {
	searchHopsCmd.Flags().String("query", "", "text query over name and profiles")
	searchHopsCmd.Flags().String("origin", "", "filter by origin substring")
	searchHopsCmd.Flags().String("purpose", "", "aroma, bittering or dual")
	searchHopsCmd.Flags().Float64("alpha-min", 0, "alpha acid range lower bound (%)")
	searchHopsCmd.Flags().Float64("alpha-max", 0, "alpha acid range upper bound (%)")
	searchHopsCmd.Flags().Int("limit", 0, "max results (0 = all)")

	searchMaltsCmd.Flags().String("query", "", "text query over name and profiles")
	searchMaltsCmd.Flags().String("producer", "", "filter by producer substring")
	searchMaltsCmd.Flags().String("category", "", "malt category")
	searchMaltsCmd.Flags().Float64("color-min", 0, "color range lower bound (EBC)")
	searchMaltsCmd.Flags().Float64("color-max", 0, "color range upper bound (EBC)")
	searchMaltsCmd.Flags().Int("limit", 0, "max results (0 = all)")

	searchYeastsCmd.Flags().String("query", "", "text query over name, styles, profiles")
	searchYeastsCmd.Flags().String("producer", "", "filter by producer substring")
	searchYeastsCmd.Flags().String("type", "", "yeast type")
	searchYeastsCmd.Flags().String("form", "", "dry or liquid")
	searchYeastsCmd.Flags().String("flocculation", "", "flocculation level")
	searchYeastsCmd.Flags().Float64("attenuation-min", 0, "attenuation range lower bound (%)")
	searchYeastsCmd.Flags().Float64("attenuation-max", 0, "attenuation range upper bound (%)")
	searchYeastsCmd.Flags().Int("limit", 0, "max results (0 = all)")

	searchCmd.AddCommand(searchHopsCmd, searchMaltsCmd, searchYeastsCmd)
	rootCmd.AddCommand(searchCmd)
}
