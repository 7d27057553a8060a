package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/payments-engine/internal/common"
	"github.com/Veraticus/payments-engine/internal/config"
)

var version = "dev"

// app carries the configuration and output streams shared by all commands.
type app struct {
	v       *viper.Viper
	stdout  io.Writer
	stderr  io.Writer
	cfgFile string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		v:      viper.New(),
		stdout: stdout,
		stderr: stderr,
	}
	config.SetDefaults(a.v)

	rootCmd := &cobra.Command{
		Use:   "payments <transactions.csv>",
		Short: "Replay a transaction log and report client balances",
		Long: `payments reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file, applies them in order, and prints the final state of every
client account as CSV on stdout.

Rows that cannot be parsed are skipped. Transactions that break an account rule
(insufficient funds, frozen account, invalid dispute, ...) are rejected without
touching any balance.`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.initConfig,
		RunE:              a.runProcess,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/payments/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	rootCmd.Flags().Bool("sort", true, "order the report by client id")
	rootCmd.Flags().String("export-db", "", "also write the final accounts to this SQLite database")
	rootCmd.Flags().Bool("progress", false, "show a progress bar on stderr")
	rootCmd.Flags().Bool("summary", false, "print a run summary on stderr")

	// Bind flags to viper
	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeySort, rootCmd.Flags().Lookup("sort"))
	_ = a.v.BindPFlag(config.KeyExportDB, rootCmd.Flags().Lookup("export-db"))
	_ = a.v.BindPFlag(config.KeyProgress, rootCmd.Flags().Lookup("progress"))
	_ = a.v.BindPFlag(config.KeySummary, rootCmd.Flags().Lookup("summary"))

	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(config.ExpandPath(a.cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		a.v.AddConfigPath(fmt.Sprintf("%s/.config/payments", home))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// Environment variables
	a.v.SetEnvPrefix("PAYMENTS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	return a.setupLogging()
}

func (a *app) setupLogging() error {
	level, err := common.ParseLevel(a.v.GetString(config.KeyLogLevel))
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	if err := common.SetupLogger(a.stderr, level, a.v.GetString(config.KeyLogFormat)); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "payments version %s\n", version)
		},
	}
}
