package commands

import (
	"fmt"

	"domjudge-tool/lib/scrapers/domjudge/scoreboard"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var scoreboardCmd = &cobra.Command{
	Use:   "scoreboard",
	Short: "Works with public scoreboard pages.",
}

var scoreboardExportFilename string
var scoreboardExportPathPrefix string

func init() {
	rootCmd.AddCommand(scoreboardCmd)
	scoreboardCmd.AddCommand(scoreboardExportCmd)

	scoreboardExportCmd.Flags().StringVar(&scoreboardExportFilename, "filename", "scoreboard", "Output file name, without extension.")
	scoreboardExportCmd.Flags().StringVar(&scoreboardExportPathPrefix, "path-prefix", "", "Directory to write the export into.")
}

var scoreboardExportCmd = &cobra.Command{
	Use:   "export <url>",
	Short: "Exports a public scoreboard page to CSV.",
	Long: `Exports a public scoreboard page to CSV. The URL is the public
scoreboard itself, so this works without any credentials and against
servers the config does not point at.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dest, err := scoreboard.ExportCSV(cmd.Context(), args[0], scoreboardExportFilename, scoreboardExportPathPrefix)
		if err != nil {
			serviceutil.Fatal("failed to export scoreboard", err)
		}
		fmt.Println(dest)
	},
}
