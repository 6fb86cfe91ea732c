package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record from the catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if !clearYes {
			fmt.Print("This deletes every hop, malt and yeast record. Type 'yes' to continue: ")
			reader := bufio.NewReader(os.Stdin)
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(answer) != "yes" {
				fmt.Println("aborted")
				return nil
			}
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := st.Clear(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("catalog cleared",
			zap.Int("hops", result.Hops),
			zap.Int("malts", result.Malts),
			zap.Int("yeasts", result.Yeasts),
		)
		fmt.Printf("deleted %d records\n", result.Total())
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}
