package commands

import (
	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/scrapers/domjudge/web"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Lists, updates and deletes teams.",
}

var teamsListCid string
var teamsListFormat string
var teamsListOut string

var teamsUpdateUsername string
var teamsUpdateName string
var teamsUpdateCategoryId string
var teamsUpdateAffiliationId string
var teamsUpdateDisabled bool

var teamsDeleteInclude []string
var teamsDeleteExclude []string

func init() {
	rootCmd.AddCommand(teamsCmd)
	teamsCmd.AddCommand(teamsListCmd)
	teamsCmd.AddCommand(teamsUpdateCmd)
	teamsCmd.AddCommand(teamsDeleteCmd)

	teamsListCmd.Flags().StringVar(&teamsListCid, "cid", "", "Contest id to list teams for.")
	teamsListCmd.Flags().StringVar(&teamsListFormat, "format", "", "Export format (csv or json) instead of a table.")
	teamsListCmd.Flags().StringVar(&teamsListOut, "out", "", "Export file path.")
	teamsListCmd.MarkFlagRequired("cid")

	teamsUpdateCmd.Flags().StringVar(&teamsUpdateUsername, "username", "", "New team name.")
	teamsUpdateCmd.Flags().StringVar(&teamsUpdateName, "name", "", "New team display name.")
	teamsUpdateCmd.Flags().StringVar(&teamsUpdateCategoryId, "category-id", "", "Team category id, defaults to the config value.")
	teamsUpdateCmd.Flags().StringVar(&teamsUpdateAffiliationId, "affiliation-id", "", "Team affiliation id, defaults to the config value.")
	teamsUpdateCmd.Flags().BoolVar(&teamsUpdateDisabled, "disabled", false, "Disable the team.")
	teamsUpdateCmd.MarkFlagRequired("username")
	teamsUpdateCmd.MarkFlagRequired("name")

	teamsDeleteCmd.Flags().StringSliceVar(&teamsDeleteInclude, "include", nil, "Only delete teams with these names.")
	teamsDeleteCmd.Flags().StringSliceVar(&teamsDeleteExclude, "exclude", nil, "Never delete teams with these names.")
}

var teamsListCmd = &cobra.Command{
	Use:   "list --cid <contest>",
	Short: "Lists a contest's teams through the REST API.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		teams, err := client.Teams(cmd.Context(), teamsListCid)
		if err != nil {
			serviceutil.Fatal("failed to list teams", err)
		}
		writeDataset(exportutil.FromRecords(teams), teamsListFormat, teamsListOut, "export_teams")
	},
}

var teamsUpdateCmd = &cobra.Command{
	Use:   "update <team-id> --username <user> --name <display name>",
	Short: "Edits a team through the jury web UI.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()

		categoryId := teamsUpdateCategoryId
		if categoryId == "" {
			categoryId = config.CategoryId
		}
		affiliationId := teamsUpdateAffiliationId
		if affiliationId == "" {
			affiliationId = config.AffiliationId
		}

		client := newWebClient(cmd.Context(), config)
		err := client.UpdateTeam(cmd.Context(), args[0], web.UserSeed{
			Username: teamsUpdateUsername,
			Name:     teamsUpdateName,
		}, categoryId, affiliationId, !teamsUpdateDisabled)
		if err != nil {
			serviceutil.Fatal("failed to update team", err)
		}
	},
}

var teamsDeleteCmd = &cobra.Command{
	Use:   "delete [--include names] [--exclude names]",
	Short: "Bulk-deletes teams through the jury web UI.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newWebClient(cmd.Context(), loadConfig())
		err := client.DeleteTeams(cmd.Context(), teamsDeleteInclude, teamsDeleteExclude)
		if err != nil {
			serviceutil.Fatal("failed to delete teams", err)
		}
	},
}
