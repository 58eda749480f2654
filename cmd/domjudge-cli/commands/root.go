package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"domjudge-tool/lib/configutil"
	"domjudge-tool/lib/mailutil"
	"domjudge-tool/lib/scrapers/domjudge/api"
	"domjudge-tool/lib/scrapers/domjudge/web"
	"domjudge-tool/lib/serviceutil"
	"domjudge-tool/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath string
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "domjudge-cli",
	Short: "domjudge-cli manages users, teams and exports on a DOMjudge server.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "domserver.json5",
		"Path to the server config file.",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable debug logging, including per-request logs.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// DomServerConfig is the on-disk shape of domserver.json5.
type DomServerConfig struct {
	Host       string `json:"host"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	DisableSSL bool   `json:"disable_ssl"`
	// seconds, 0 means no timeout
	Timeout                 float64 `json:"timeout"`
	MaxConnections          int     `json:"max_connections"`
	MaxKeepaliveConnections int     `json:"max_keepalive_connections"`

	// defaults applied to team/user creation
	CategoryId    string   `json:"category_id"`
	AffiliationId string   `json:"affiliation_id"`
	UserRoles     []string `json:"user_roles"`

	Smtp *mailutil.SmtpConfig `json:"smtp"`
}

func loadConfig() DomServerConfig {
	config, err := configutil.ReadConfig[DomServerConfig](configPath)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("failed to read config %q, run `domjudge-cli config` first", configPath), err)
	}
	return config
}

func writeConfig(config DomServerConfig) error {
	return configutil.WriteConfig(configPath, config)
}

func (c DomServerConfig) timeout() time.Duration {
	return time.Duration(c.Timeout * float64(time.Second))
}

func newApiClient(config DomServerConfig) *api.Client {
	client, err := api.NewClient(api.ClientOptions{
		Host:                    config.Host,
		Username:                config.Username,
		Password:                config.Password,
		DisableSSL:              config.DisableSSL,
		Timeout:                 config.timeout(),
		MaxConnections:          config.MaxConnections,
		MaxKeepaliveConnections: config.MaxKeepaliveConnections,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize api client", err)
	}
	return client
}

// newWebClient returns a jury web session, already logged in.
func newWebClient(ctx context.Context, config DomServerConfig) *web.Client {
	client, err := web.NewClient(web.ClientOptions{
		Host:       config.Host,
		Username:   config.Username,
		Password:   config.Password,
		DisableSSL: config.DisableSSL,
		Timeout:    config.timeout(),
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize web client", err)
	}
	err = client.Login(ctx)
	if err != nil {
		serviceutil.Fatal("failed to login to the jury interface", err)
	}
	return client
}
