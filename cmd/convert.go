package main

import (
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/brewkit/brewcat/internal/units"
)

// conversions maps "<from>:<to>" pairs to their formula. Kept flat so the
// help output doubles as the supported list.
var conversions = map[string]func(float64) float64{
	"lovibond:ebc": units.EBCFromLovibond,
	"ebc:lovibond": units.LovibondFromEBC,
	"srm:ebc":      units.EBCFromSRM,
	"ebc:srm":      units.SRMFromEBC,
	"f:c":          units.CelsiusFromFahrenheit,
	"c:f":          units.FahrenheitFromCelsius,
	"wk:lintner":   units.LintnerFromWK,
	"lintner:wk":   units.WKFromLintner,
	"oz:g":         units.GramsFromOunces,
	"lb:g":         units.GramsFromPounds,
	"gal:l":        units.LitersFromUSGallons,
	"qt:l":         units.LitersFromUSQuarts,
	"impgal:l":     units.LitersFromImperialGallons,
	"ppg:pkl":      units.PKLFromPPG,
	"pkl:ppg":      units.PPGFromPKL,
}

var convertCmd = &cobra.Command{
	Use:   "convert <value> <from> <to>",
	Short: "Convert between brewing measurement scales",
	Long: `Converts a value between the scales the catalog normalizes:
color (lovibond, srm, ebc), temperature (f, c), diastatic power
(wk, lintner), mass (oz, lb, g), volume (gal, qt, impgal, l) and
extract potential (ppg, pkl).`,
	Args: cobra.ExactArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "parse value %q", args[0])
		}
		fn, ok := conversions[args[1]+":"+args[2]]
		if !ok {
			return eris.Errorf("no conversion from %q to %q", args[1], args[2])
		}
		fmt.Printf("%g %s = %g %s\n", value, args[1], fn(value), args[2])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
