package main

import (
	"io"
	"os"

	"nmcatalog/internal/config"
	"nmcatalog/internal/database"
	"nmcatalog/internal/logging"
	"nmcatalog/internal/pipeline"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "nmcatalog",
	Short: "Generate the Neural Music track catalog",
	Long: `Generate the Neural Music track catalog.
Samples a theme and color for every new index, renders the prompt, title and
captions for each track, appends them after the existing catalog and writes
the combined CSV.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return generate(configPath, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path to the configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// generate runs one catalog generation. Errors are logged before they are
// returned; the log file is closed on every path.
func generate(configPath string, stdout io.Writer) error {
	// Initialize basic logger for startup
	startup := logrus.New()
	startup.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		startup.WithError(err).Error("Error loading configuration")
		return err
	}

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		startup.WithError(err).Error("Error configuring logging")
		return err
	}
	defer closeLog()

	generator := pipeline.New(cfg, logger)
	result, err := generator.Run()
	if err != nil {
		logger.WithError(err).Error("Catalog generation failed")
		return err
	}

	// The CSV is already written; database problems only warn
	if cfg.Database.Enabled {
		mirror(generator, cfg.Database.Path, result, logger)
	}

	if err := pipeline.PrintSummary(stdout, result); err != nil {
		logger.WithError(err).Warn("Could not print summary")
	}
	return nil
}

func mirror(generator *pipeline.Generator, dbPath string, result *pipeline.Result, logger logrus.FieldLogger) {
	db, err := database.NewDatabase(dbPath, logger)
	if err != nil {
		logger.WithError(err).WithField("db_path", dbPath).Warn("Could not open database, skipping mirror")
		return
	}
	defer db.Close()

	if err := generator.Mirror(db, result); err != nil {
		logger.WithError(err).WithField("db_path", dbPath).Warn("Could not mirror catalog to database")
	}
}
