package cli

import (
	"fmt"

	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/shenikar/fire_calls_analysis/pkg/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app - состояние, общее для всех подкоманд
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

// NewRootCmd собирает дерево команд firecalls
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "firecalls",
		Short: "Analysis of San Francisco Fire Department calls for service",
		Long: `firecalls loads the SF Fire Department calls-for-service table from a CSV file
or a PostgreSQL table, normalizes column names and runs a fixed set of queries
over it: call types, response delays, busiest zip codes, weekly call volume and
per-neighborhood response times.

Configuration comes from environment variables and an optional .env file.
Command-line flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().String("file", "", "Path to the calls CSV file (DATA_PATH)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (LOG_LEVEL)")
	root.PersistentFlags().Int("year", 0, "Calendar year for weekly and neighborhood queries (FILTER_YEAR)")
	root.PersistentFlags().Float64("threshold", 0, "Delay threshold in minutes (DELAY_THRESHOLD)")
	root.PersistentFlags().IntSlice("zip", nil, "Zip codes for the zip-neighborhoods query (ZIP_CODES)")

	root.AddCommand(newRunCmd(a), newQueriesCmd(a), newServeCmd(a))
	return root
}

// Execute запускает корневую команду
func Execute() error {
	return NewRootCmd().Execute()
}

// load читает конфигурацию, накладывает на нее флаги и создает логгер
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.DataPath, _ = flags.GetString("file")
		cfg.DataSource = config.SourceCSV
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("year") {
		cfg.FilterYear, _ = flags.GetInt("year")
	}
	if flags.Changed("threshold") {
		cfg.DelayThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("zip") {
		cfg.ZipCodes, _ = flags.GetIntSlice("zip")
	}
	if flags.Lookup("format") != nil && flags.Changed("format") {
		cfg.OutputFormat, _ = flags.GetString("format")
	}
	if flags.Lookup("limit") != nil && flags.Changed("limit") {
		cfg.RowLimit, _ = flags.GetInt("limit")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.HTTPPort, _ = flags.GetString("port")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	a.cfg = cfg
	a.log = logger.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	return nil
}
