package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/scrapers/domjudge/api"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Lists and downloads contest submissions.",
}

var submissionsListCid string
var submissionsListLanguageId string
var submissionsListIds []string
var submissionsListStrict bool
var submissionsListFormat string
var submissionsListOut string

var submissionsDownloadCid string
var submissionsDownloadIds []string
var submissionsDownloadLanguageId string
var submissionsDownloadMode int
var submissionsDownloadPath string

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsDownloadCmd)

	submissionsListCmd.Flags().StringVar(&submissionsListCid, "cid", "", "Contest id to list submissions for.")
	submissionsListCmd.Flags().StringVar(&submissionsListLanguageId, "language-id", "", "Only submissions in this language.")
	submissionsListCmd.Flags().StringSliceVar(&submissionsListIds, "ids", nil, "Only these submission ids.")
	submissionsListCmd.Flags().BoolVar(&submissionsListStrict, "strict", false, "Ask the server for strict contest API output.")
	submissionsListCmd.Flags().StringVar(&submissionsListFormat, "format", "", "Export format (csv or json) instead of a table.")
	submissionsListCmd.Flags().StringVar(&submissionsListOut, "out", "", "Export file path.")
	submissionsListCmd.MarkFlagRequired("cid")

	submissionsDownloadCmd.Flags().StringVar(&submissionsDownloadCid, "cid", "", "Contest id to download submissions from.")
	submissionsDownloadCmd.Flags().StringSliceVar(&submissionsDownloadIds, "ids", nil, "Only these submission ids.")
	submissionsDownloadCmd.Flags().StringVar(&submissionsDownloadLanguageId, "language-id", "", "Only submissions in this language.")
	submissionsDownloadCmd.Flags().IntVar(&submissionsDownloadMode, "mode", 0,
		"Directory layout: 1 groups by team then problem, 2 by problem then team, 0 one flat directory.")
	submissionsDownloadCmd.Flags().StringVar(&submissionsDownloadPath, "path", "", "Directory to download into.")
	submissionsDownloadCmd.MarkFlagRequired("cid")
}

var submissionsListCmd = &cobra.Command{
	Use:   "list --cid <contest>",
	Short: "Lists a contest's submissions through the REST API.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		submissions, err := client.Submissions(cmd.Context(), submissionsListCid, api.SubmissionFilter{
			LanguageId: submissionsListLanguageId,
			Ids:        submissionsListIds,
			Strict:     submissionsListStrict,
		})
		if err != nil {
			serviceutil.Fatal("failed to list submissions", err)
		}
		writeDataset(exportutil.FromRecords(submissions), submissionsListFormat, submissionsListOut, "export_submissions")
	},
}

var submissionsDownloadCmd = &cobra.Command{
	Use:   "download --cid <contest> [--mode 0|1|2]",
	Short: "Downloads submission source archives.",
	Long: `Downloads submission source archives as {id}-{source name}.zip. Mode 1
lays files out as Teams/{team}/Problems/{problem}/Submissions, mode 2
as Problems/{problem}/Teams/{team}/Submissions; mode 0 puts everything
in one directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		ctx := cmd.Context()
		cid := submissionsDownloadCid

		submissions, err := client.Submissions(ctx, cid, api.SubmissionFilter{
			LanguageId: submissionsDownloadLanguageId,
			Ids:        submissionsDownloadIds,
		})
		if err != nil {
			serviceutil.Fatal("failed to list submissions", err)
		}
		if len(submissions) == 0 {
			serviceutil.Fatal("nothing to download", fmt.Errorf("contest %s has no matching submissions", cid))
		}

		dirFor, err := layoutFunc(ctx, client, cid, submissionsDownloadMode, submissionsDownloadPath)
		if err != nil {
			serviceutil.Fatal("failed to prepare download layout", err)
		}

		downloadSubmissions(ctx, client, cid, submissions, dirFor)
	},
}

// layoutFunc maps a submission to its download directory. Modes 1 and 2
// need team and problem names, which cost two extra API calls up front.
func layoutFunc(ctx context.Context, client *api.Client, cid string, mode int, prefix string) (func(api.Submission) string, error) {
	if mode != 1 && mode != 2 {
		dir := filepath.Join(prefix, "contests", cid, "submissions")
		return func(api.Submission) string { return dir }, nil
	}

	teams, err := client.Teams(ctx, cid)
	if err != nil {
		return nil, err
	}
	teamName := map[string]string{}
	for _, team := range teams {
		teamName[team.Id] = team.Name
	}

	problems, err := client.Problems(ctx, cid)
	if err != nil {
		return nil, err
	}
	problemName := map[string]string{}
	for _, problem := range problems {
		problemName[problem.Id] = problem.ShortName
	}

	return func(s api.Submission) string {
		team, ok := teamName[s.TeamId]
		if !ok {
			team = s.TeamId
		}
		problem, ok := problemName[s.ProblemId]
		if !ok {
			problem = s.ProblemId
		}
		if mode == 1 {
			return filepath.Join(prefix, "Teams", team, "Problems", problem, "Submissions")
		}
		return filepath.Join(prefix, "Problems", problem, "Teams", team, "Submissions")
	}, nil
}

func downloadSubmissions(ctx context.Context, client *api.Client, cid string, submissions []api.Submission, dirFor func(api.Submission) string) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, 4)

	for _, submission := range submissions {
		wg.Add(1)
		go func(submission api.Submission) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			source, err := client.SubmissionSourceName(ctx, cid, submission.Id)
			if err != nil {
				slog.ErrorContext(ctx, "failed to resolve source name", "submission", submission.Id, "err", err)
				return
			}
			dest, err := client.DownloadSubmissionFiles(ctx, cid, submission.Id, source.Filename, dirFor(submission))
			if err != nil {
				slog.ErrorContext(ctx, "failed to download submission", "submission", submission.Id, "err", err)
				return
			}
			slog.InfoContext(ctx, "downloaded submission", "submission", submission.Id, "path", dest)
		}(submission)
	}
	wg.Wait()
}
