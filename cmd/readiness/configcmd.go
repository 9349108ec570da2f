package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"brightdesk-hq/readiness/pkg/cli"
	"brightdesk-hq/readiness/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the service configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and environment overrides",
	Long: `Load the configuration file, apply READINESS_ environment overrides and
report every validation error.

Examples:
  readiness config validate --config /etc/readiness/config.yaml`,
	Args: cobra.NoArgs,
	RunE: validateConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the effective configuration after defaults and environment
overrides. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: showConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd, configShowCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := configPath
	if source == "" {
		source = "defaults"
	}
	fmt.Fprintf(out, "✓ Configuration valid (%s)\n", source)
	fmt.Fprintf(out, "  storage:   %s\n", cfg.Storage.Backend)
	fmt.Fprintf(out, "  retention: %d days", cfg.Retention.Days)
	if cfg.Retention.Enabled {
		fmt.Fprintf(out, ", schedule %q", cfg.Retention.Schedule)
	} else {
		fmt.Fprint(out, ", scheduler disabled")
	}
	fmt.Fprintln(out)
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	masked := maskSecrets(cfg)
	data, err := yaml.Marshal(masked)
	if err != nil {
		return cli.NewCommandError("config show", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// maskSecrets returns a copy of cfg with credentials replaced.
func maskSecrets(cfg *config.Config) *config.Config {
	c := *cfg
	if c.Server.AdminToken != "" {
		c.Server.AdminToken = "***"
	}
	if c.Storage.Postgres.DSN != "" {
		c.Storage.Postgres.DSN = "***"
	}
	return &c
}
