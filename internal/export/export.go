// Package export renders catalog snapshots for interchange. JSON and
// YAML are lossless and round-trip through import; XLSX is a one-way
// spreadsheet view for people comparing malt bills by hand.
package export

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/brewkit/brewcat/internal/model"
)

// Formats lists the supported export formats.
var Formats = []string{"json", "yaml", "xlsx"}

// Write renders a snapshot as JSON or YAML. XLSX needs a file path, use
// WriteXLSX for that.
func Write(w io.Writer, snap *model.Snapshot, format string) error {
	switch strings.ToLower(format) {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(snap), "export: encode json")
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return eris.Wrap(enc.Encode(snap), "export: encode yaml")
	}
	return eris.Errorf("export: unsupported format %q", format)
}

// Read parses a snapshot previously produced by Write.
func Read(r io.Reader, format string) (*model.Snapshot, error) {
	var snap model.Snapshot
	switch strings.ToLower(format) {
	case "json", "":
		if err := json.NewDecoder(r).Decode(&snap); err != nil {
			return nil, eris.Wrap(err, "import: decode json")
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
			return nil, eris.Wrap(err, "import: decode yaml")
		}
	default:
		return nil, eris.Errorf("import: unsupported format %q", format)
	}
	return &snap, nil
}

// DetectFormat guesses a snapshot format from a file name, defaulting
// to JSON.
func DetectFormat(path string) string {
	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		return "yaml"
	case strings.HasSuffix(path, ".xlsx"):
		return "xlsx"
	default:
		return "json"
	}
}

// WriteXLSX writes a three-sheet workbook with the fields brewers
// actually compare. Unknown numeric values render as empty cells.
func WriteXLSX(path string, snap *model.Snapshot) error {
	f := xlsx.NewFile()

	hops, err := f.AddSheet("Hops")
	if err != nil {
		return eris.Wrap(err, "export: add hops sheet")
	}
	addRow(hops, "Name", "Producer", "Origin", "Purpose",
		"Alpha Min %", "Alpha Max %", "Beta Min %", "Beta Max %",
		"Total Oil Min", "Total Oil Max", "Flavor", "Source Type")
	for i := range snap.Hops {
		h := &snap.Hops[i]
		addRow(hops, h.Name, h.Producer, h.Origin, string(h.Purpose),
			cell(h.AlphaAcidMin), cell(h.AlphaAcidMax),
			cell(h.BetaAcidMin), cell(h.BetaAcidMax),
			cell(h.TotalOilMin), cell(h.TotalOilMax),
			strings.Join(h.FlavorProfile, ", "), string(h.SourceType))
	}

	malts, err := f.AddSheet("Malts")
	if err != nil {
		return eris.Wrap(err, "export: add malts sheet")
	}
	addRow(malts, "Name", "Producer", "Category",
		"Color Min EBC", "Color Max EBC", "Color Certain",
		"Extract Min %", "Extract Max %",
		"DP Min °L", "DP Max °L", "DP Certain",
		"Requires Mashing", "Source Type")
	for i := range snap.Malts {
		m := &snap.Malts[i]
		addRow(malts, m.Name, m.Producer, string(m.Category),
			cell(m.ColorEBCMin), cell(m.ColorEBCMax), boolCell(&m.ColorUnitCertain),
			cell(m.ExtractMin), cell(m.ExtractMax),
			cell(m.DiastaticPowerMin), cell(m.DiastaticPowerMax),
			boolCell(&m.DiastaticPowerUnitCertain),
			boolCell(m.RequiresMashing), string(m.SourceType))
	}

	yeasts, err := f.AddSheet("Yeasts")
	if err != nil {
		return eris.Wrap(err, "export: add yeasts sheet")
	}
	addRow(yeasts, "Name", "Producer", "Code", "Type", "Form",
		"Attenuation Min %", "Attenuation Max %",
		"Temp Min °C", "Temp Max °C", "Temp Certain",
		"Flocculation", "Source Type")
	for i := range snap.Yeasts {
		y := &snap.Yeasts[i]
		addRow(yeasts, y.Name, y.Producer, y.ProductCode, string(y.Type), string(y.Form),
			cell(y.AttenuationMin), cell(y.AttenuationMax),
			cell(y.TempMin), cell(y.TempMax), boolCell(&y.TempUnitCertain),
			string(y.Flocculation), string(y.SourceType))
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func boolCell(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "yes"
	}
	return "no"
}
