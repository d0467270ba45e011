package cli

import (
	"encoding/json"
	"fmt"

	"github.com/costwise/costwise/internal/config"
	"github.com/costwise/costwise/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past analyses",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, closeHistory, err := openConfiguredHistory()
			if err != nil {
				return err
			}
			defer closeHistory()

			summaries, err := history.List(limit)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No analyses recorded.")
				return nil
			}

			for _, s := range summaries {
				savings := ""
				if s.SavingsPercent != 0 {
					savings = fmt.Sprintf(" savings=%.1f%%", s.SavingsPercent)
				}
				fmt.Printf("%s  %-13s %-9s %s%s  %s\n",
					s.ID, s.Type, s.Status, s.Recommendation, savings,
					s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of analyses to list")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one analysis by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, closeHistory, err := openConfiguredHistory()
			if err != nil {
				return err
			}
			defer closeHistory()

			analysis, err := history.Get(args[0])
			if err != nil {
				return err
			}

			if asJSON || analysis.Result == nil {
				data, err := json.MarshalIndent(analysis, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			fmt.Println(analysis.Result.Report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	return cmd
}

func openConfiguredHistory() (store.AnalysisStore, func(), error) {
	cfg, err := config.Load(paths.Config)
	if err != nil {
		cfg = config.Defaults()
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, err
	}
	return openHistory(cfg)
}
