package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"domjudge-tool/lib/exportutil"
	"domjudge-tool/lib/mailutil"
	"domjudge-tool/lib/passwordutil"
	"domjudge-tool/lib/scrapers/domjudge/api"
	"domjudge-tool/lib/scrapers/domjudge/web"
	"domjudge-tool/lib/serviceutil"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Lists, creates and deletes user accounts.",
}

var usersListIds []string
var usersListTeamId string
var usersListFormat string
var usersListOut string

var usersCreateFile string
var usersCreateCategoryId string
var usersCreateAffiliationId string
var usersCreateRoles []string
var usersCreateDisabled bool
var usersCreatePasswordLength int
var usersCreateNotify bool

var usersDeleteInclude []string
var usersDeleteExclude []string

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersCreateTeamsCmd)
	usersCmd.AddCommand(usersDeleteCmd)

	usersListCmd.Flags().StringSliceVar(&usersListIds, "ids", nil, "Only list these user ids.")
	usersListCmd.Flags().StringVar(&usersListTeamId, "team-id", "", "Only list users on this team.")
	usersListCmd.Flags().StringVar(&usersListFormat, "format", "", "Export format (csv or json) instead of a table.")
	usersListCmd.Flags().StringVar(&usersListOut, "out", "", "Export file path.")

	usersCreateTeamsCmd.Flags().StringVar(&usersCreateFile, "file", "", "CSV or JSON file of accounts to create.")
	usersCreateTeamsCmd.Flags().StringVar(&usersCreateCategoryId, "category-id", "", "Team category id, defaults to the config value.")
	usersCreateTeamsCmd.Flags().StringVar(&usersCreateAffiliationId, "affiliation-id", "", "Team affiliation id, defaults to the config value.")
	usersCreateTeamsCmd.Flags().StringSliceVar(&usersCreateRoles, "roles", nil, "Role ids for the new users, defaults to the config value.")
	usersCreateTeamsCmd.Flags().BoolVar(&usersCreateDisabled, "disabled", false, "Create the teams and users disabled.")
	usersCreateTeamsCmd.Flags().IntVar(&usersCreatePasswordLength, "password-length", 0, "Length of generated passwords.")
	usersCreateTeamsCmd.Flags().BoolVar(&usersCreateNotify, "notify", false, "Email each created account its credentials (needs smtp config).")
	usersCreateTeamsCmd.MarkFlagRequired("file")

	usersDeleteCmd.Flags().StringSliceVar(&usersDeleteInclude, "include", nil, "Only delete users with these names.")
	usersDeleteCmd.Flags().StringSliceVar(&usersDeleteExclude, "exclude", nil, "Never delete users with these names.")
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists user accounts through the REST API.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		users, err := client.Users(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to list users", err)
		}

		if len(usersListIds) > 0 {
			users = slices.DeleteFunc(users, func(u api.User) bool {
				return !slices.Contains(usersListIds, u.Id)
			})
		}
		if usersListTeamId != "" {
			users = slices.DeleteFunc(users, func(u api.User) bool {
				return u.TeamId != usersListTeamId
			})
		}

		dataset := exportutil.FromRecords(users)
		if usersListFormat == "" {
			// the wide columns make terminal tables unreadable
			dataset = dataset.Drop("last_login_time", "first_login_time", "roles", "last_ip", "ip")
		}
		writeDataset(dataset, usersListFormat, usersListOut, "export_users")
	},
}

// userSeed is one row of the accounts file.
type userSeed struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func loadUserSeeds(path string) ([]userSeed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var seeds []userSeed
		err = json.NewDecoder(f).Decode(&seeds)
		return seeds, err
	}

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: missing header row: %w", path, err)
	}
	column := map[string]int{}
	for i, h := range header {
		column[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := column["username"]; !ok {
		return nil, fmt.Errorf("%s: header row has no username column", path)
	}

	cell := func(row []string, name string) string {
		idx, ok := column[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var seeds []userSeed
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, userSeed{
			Username: cell(row, "username"),
			Name:     cell(row, "name"),
			Email:    cell(row, "email"),
			Password: cell(row, "password"),
		})
	}
	return seeds, nil
}

// createdAccount is one row of the import-users-teams-out report.
type createdAccount struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamId   string `json:"team_id"`
	UserId   string `json:"user_id"`
}

var usersCreateTeamsCmd = &cobra.Command{
	Use:   "create-teams --file <accounts.csv>",
	Short: "Bulk-creates team+user pairs through the jury web UI.",
	Long: `Bulk-creates team+user pairs through the jury web UI, which is the
only write path DOMjudge exposes for these. Passwords are generated for
rows without one and the full credential list is written to
import-users-teams-out.csv when done.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()

		seeds, err := loadUserSeeds(usersCreateFile)
		if err != nil {
			serviceutil.Fatal("failed to load accounts file", err)
		}
		if len(seeds) == 0 {
			serviceutil.Fatal("accounts file is empty", fmt.Errorf("%s has no rows", usersCreateFile))
		}

		categoryId := usersCreateCategoryId
		if categoryId == "" {
			categoryId = config.CategoryId
		}
		affiliationId := usersCreateAffiliationId
		if affiliationId == "" {
			affiliationId = config.AffiliationId
		}
		roles := usersCreateRoles
		if len(roles) == 0 {
			roles = config.UserRoles
		}
		enabled := !usersCreateDisabled

		client := newWebClient(cmd.Context(), config)

		created := createAccounts(cmd.Context(), client, seeds, categoryId, affiliationId, roles, enabled)
		if len(created) == 0 {
			serviceutil.Fatal("no accounts were created", errors.New("every row failed, see the log above"))
		}

		out, err := os.Create("import-users-teams-out.csv")
		if err != nil {
			serviceutil.Fatal("failed to create report file", err)
		}
		defer out.Close()
		err = exportutil.FromRecords(created).WriteCSV(out)
		if err != nil {
			serviceutil.Fatal("failed to write report file", err)
		}
		fmt.Println(out.Name())

		if usersCreateNotify {
			notifyAccounts(config, created)
		}
	},
}

func createAccounts(ctx context.Context, client *web.Client, seeds []userSeed, categoryId, affiliationId string, roles []string, enabled bool) []createdAccount {
	var created []createdAccount
	var lock sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, 4)

	for _, seed := range seeds {
		wg.Add(1)
		go func(seed userSeed) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			password := seed.Password
			if password == "" {
				var err error
				password, err = passwordutil.Generate(usersCreatePasswordLength)
				if err != nil {
					slog.ErrorContext(ctx, "failed to generate password", "username", seed.Username, "err", err)
					return
				}
			}

			teamId, userId, err := client.CreateTeamAndUser(ctx, web.UserSeed{
				Username: seed.Username,
				Name:     seed.Name,
				Email:    seed.Email,
				Password: password,
			}, categoryId, affiliationId, enabled)
			if err != nil {
				slog.ErrorContext(ctx, "failed to create team and user", "username", seed.Username, "err", err)
				return
			}

			err = client.SetUserPassword(ctx, userId, password, roles, enabled)
			if err != nil {
				// the team and user exist, the operator has to finish by hand
				slog.ErrorContext(ctx, "created but failed to set password",
					"username", seed.Username, "team_id", teamId, "user_id", userId, "err", err)
				return
			}

			slog.InfoContext(ctx, "created account",
				"username", seed.Username, "team_id", teamId, "user_id", userId)

			lock.Lock()
			created = append(created, createdAccount{
				Username: seed.Username,
				Name:     seed.Name,
				Email:    seed.Email,
				Password: password,
				TeamId:   teamId,
				UserId:   userId,
			})
			lock.Unlock()
		}(seed)
	}
	wg.Wait()

	return created
}

func notifyAccounts(config DomServerConfig, created []createdAccount) {
	if config.Smtp == nil {
		serviceutil.Fatal("cannot notify accounts", errors.New("no smtp section in the config"))
	}
	for _, account := range created {
		if account.Email == "" {
			slog.Warn("account has no email address, skipping", "username", account.Username)
			continue
		}
		err := mailutil.SendCredentials(*config.Smtp, account.Email, mailutil.Credentials{
			Name:     account.Name,
			Username: account.Username,
			Password: account.Password,
			Host:     config.Host,
		})
		if err != nil {
			slog.Error("failed to send credentials", "username", account.Username, "err", err)
			continue
		}
		slog.Info("sent credentials", "username", account.Username, "email", account.Email)
	}
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete [--include names] [--exclude names]",
	Short: "Bulk-deletes users through the jury web UI.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newWebClient(cmd.Context(), loadConfig())
		err := client.DeleteUsers(cmd.Context(), usersDeleteInclude, usersDeleteExclude)
		if err != nil {
			serviceutil.Fatal("failed to delete users", err)
		}
	},
}
