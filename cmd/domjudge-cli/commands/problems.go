package commands

import (
	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "Lists contest problems.",
}

var problemsListCid string
var problemsListFormat string
var problemsListOut string

var problemsScrapeExclude []string
var problemsScrapeOnly []string
var problemsScrapeFormat string
var problemsScrapeOut string

func init() {
	rootCmd.AddCommand(problemsCmd)
	problemsCmd.AddCommand(problemsListCmd)
	problemsCmd.AddCommand(problemsScrapeCmd)

	problemsListCmd.Flags().StringVar(&problemsListCid, "cid", "", "Contest id to list problems for.")
	problemsListCmd.Flags().StringVar(&problemsListFormat, "format", "", "Export format (csv or json) instead of a table.")
	problemsListCmd.Flags().StringVar(&problemsListOut, "out", "", "Export file path.")
	problemsListCmd.MarkFlagRequired("cid")

	problemsScrapeCmd.Flags().StringSliceVar(&problemsScrapeExclude, "exclude", nil, "Problem ids to skip.")
	problemsScrapeCmd.Flags().StringSliceVar(&problemsScrapeOnly, "only", nil, "Only these problem ids.")
	problemsScrapeCmd.Flags().StringVar(&problemsScrapeFormat, "format", "", "Export format (csv or json) instead of a table.")
	problemsScrapeCmd.Flags().StringVar(&problemsScrapeOut, "out", "", "Export file path.")
}

var problemsListCmd = &cobra.Command{
	Use:   "list --cid <contest>",
	Short: "Lists a contest's problems through the REST API.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		problems, err := client.Problems(cmd.Context(), problemsListCid)
		if err != nil {
			serviceutil.Fatal("failed to list problems", err)
		}
		writeDataset(exportutil.FromRecords(problems), problemsListFormat, problemsListOut, "export_problems")
	},
}

var problemsScrapeCmd = &cobra.Command{
	Use:   "scrape [--exclude ids] [--only ids]",
	Short: "Lists problems from the jury web UI, contest or not.",
	Long: `Lists problems from the jury web UI. Unlike the REST endpoint this
works outside an active contest, which is when problem archives are
usually being set up.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := newWebClient(cmd.Context(), loadConfig())
		problems, err := client.Problems(cmd.Context(), problemsScrapeExclude, problemsScrapeOnly)
		if err != nil {
			serviceutil.Fatal("failed to scrape problems", err)
		}
		writeDataset(exportutil.FromRecords(problems), problemsScrapeFormat, problemsScrapeOut, "export_problems")
	},
}
