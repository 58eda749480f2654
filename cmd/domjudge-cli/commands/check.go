package commands

import (
	"fmt"
	"strings"

	"domjudge-tool/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&configHost, "host", "", "Base URL of the DOMjudge server.")
	configCmd.Flags().StringVar(&configUsername, "username", "", "Admin username.")
	configCmd.Flags().StringVar(&configPassword, "password", "", "Admin password.")
	configCmd.Flags().BoolVar(&configDisableSSL, "disable-ssl", false, "Skip TLS certificate verification.")
	configCmd.Flags().Float64Var(&configTimeout, "timeout", 0, "Per-request timeout in seconds.")
	configCmd.Flags().IntVar(&configMaxConns, "max-connections", 0, "Connection pool size.")
	configCmd.Flags().IntVar(&configMaxKeepalive, "max-keepalive-connections", 0, "Keep-alive connection pool size.")
	configCmd.MarkFlagRequired("host")
	configCmd.MarkFlagRequired("username")
	configCmd.MarkFlagRequired("password")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verifies connectivity and prints the server's API version.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newApiClient(loadConfig())
		version, err := client.Version(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to reach the api", err)
		}
		fmt.Println(text.FgGreen.Sprintf("Success connect API v%s.", version.ApiVersion.String()))
	},
}

var configHost string
var configUsername string
var configPassword string
var configDisableSSL bool
var configTimeout float64
var configMaxConns int
var configMaxKeepalive int

var configCmd = &cobra.Command{
	Use:   "config --host <url> --username <user> --password <pass>",
	Short: "Writes the server config file used by every other command.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(strings.Repeat("*", len(configPassword)))

		err := writeConfig(DomServerConfig{
			Host:                    strings.TrimRight(configHost, "/"),
			Username:                configUsername,
			Password:                configPassword,
			DisableSSL:              configDisableSSL,
			Timeout:                 configTimeout,
			MaxConnections:          configMaxConns,
			MaxKeepaliveConnections: configMaxKeepalive,
		})
		if err != nil {
			serviceutil.Fatal("failed to write config", err)
		}
		fmt.Println("Success config Dom Server.")
	},
}
