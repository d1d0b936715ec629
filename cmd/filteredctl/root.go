package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"filtered/internal/config"
	"filtered/internal/logging"
	"filtered/pkg/filtered"
)

// cli carries the state shared by every subcommand.
type cli struct {
	configPath string
	storeKind  string
	dbPath     string
	logLevel   string
	jsonLogs   bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "filteredctl",
		Short:         "Run filtered functor particle simulations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "YAML config file")
	flags.StringVar(&c.storeKind, "store", "", "store backend: memory|sqlite")
	flags.StringVar(&c.dbPath, "db-path", "", "sqlite database path")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.BoolVar(&c.jsonLogs, "log-json", false, "emit JSON logs")

	root.AddCommand(
		newInitCmd(c),
		newResetCmd(c),
		newRunCmd(c),
		newRunsCmd(c),
		newReportsCmd(c),
		newDescribeCmd(c),
		newPipelinesCmd(c),
	)
	return root
}

// setup loads the config file and environment, then applies persistent flag
// overrides and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.Store.Kind = c.storeKind
	}
	if flags.Changed("db-path") {
		cfg.Store.Path = c.dbPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}
	if flags.Changed("log-json") {
		cfg.Logging.JSON = c.jsonLogs
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) client() (*filtered.Client, error) {
	return filtered.New(filtered.Options{
		StoreKind: c.cfg.Store.Kind,
		DBPath:    c.cfg.Store.Path,
		Logger:    c.logger,
	})
}

// withClient opens a client for the duration of fn.
func (c *cli) withClient(cmd *cobra.Command, fn func(*filtered.Client) error) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(cmd.Context()); err != nil {
		return err
	}
	return fn(client)
}
