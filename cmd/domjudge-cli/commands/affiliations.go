package commands

import (
	"fmt"

	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var affiliationsCmd = &cobra.Command{
	Use:   "affiliations",
	Short: "Lists and creates team affiliations.",
}

var affiliationsListFormat string
var affiliationsListOut string

var affiliationsCreateShortname string
var affiliationsCreateName string
var affiliationsCreateCountry string

func init() {
	rootCmd.AddCommand(affiliationsCmd)
	affiliationsCmd.AddCommand(affiliationsListCmd)
	affiliationsCmd.AddCommand(affiliationsCreateCmd)

	affiliationsListCmd.Flags().StringVar(&affiliationsListFormat, "format", "", "Export format (csv or json) instead of a table.")
	affiliationsListCmd.Flags().StringVar(&affiliationsListOut, "out", "", "Export file path.")

	affiliationsCreateCmd.Flags().StringVar(&affiliationsCreateShortname, "shortname", "", "Affiliation short name.")
	affiliationsCreateCmd.Flags().StringVar(&affiliationsCreateName, "name", "", "Affiliation full name.")
	affiliationsCreateCmd.Flags().StringVar(&affiliationsCreateCountry, "country", "", "ISO 3166-1 alpha-3 country code.")
	affiliationsCreateCmd.MarkFlagRequired("shortname")
	affiliationsCreateCmd.MarkFlagRequired("name")
}

var affiliationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists affiliations from the jury web UI.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newWebClient(cmd.Context(), loadConfig())
		affiliations, err := client.Affiliations(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list affiliations", err)
		}
		writeDataset(exportutil.FromRecords(affiliations), affiliationsListFormat, affiliationsListOut, "export_affiliations")
	},
}

var affiliationsCreateCmd = &cobra.Command{
	Use:   "create --shortname <short> --name <full>",
	Short: "Creates an affiliation through the jury web UI.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newWebClient(cmd.Context(), loadConfig())
		affiliation, err := client.CreateAffiliation(
			cmd.Context(),
			affiliationsCreateShortname,
			affiliationsCreateName,
			affiliationsCreateCountry,
		)
		if err != nil {
			serviceutil.Fatal("failed to create affiliation", err)
		}
		fmt.Printf("Created affiliation %s (id %s).\n", affiliation.Shortname, affiliation.Id)
	},
}
