package main

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/brewkit/brewcat/internal/ingest"
	"github.com/brewkit/brewcat/internal/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <facts-file>",
	Short: "Ingest extracted facts into the catalog",
	Long:  "Reads facts as NDJSON (one fact per line) or a JSON array, normalizes units and merges them into the catalog. Invalid facts are dropped and counted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		facts, err := readFacts(args[0])
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

		runner := ingest.NewRunner(st, zap.L(), cfg.Ingest.DriftWarnRatio)
		report, err := runner.Run(ctx, facts)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

// readFacts accepts both NDJSON and a plain JSON array, since both show
// up in extraction pipelines.
func readFacts(path string) ([]model.Fact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var facts []model.Fact
		if err := json.Unmarshal(data, &facts); err != nil {
			return nil, eris.Wrapf(err, "parse %s", path)
		}
		return facts, nil
	}

	var facts []model.Fact
	sc := bufio.NewScanner(strings.NewReader(trimmed))
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var f model.Fact
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return nil, eris.Wrapf(err, "parse %s line %d", path, line)
		}
		facts = append(facts, f)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "scan %s", path)
	}
	return facts, nil
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
