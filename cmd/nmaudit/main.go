package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nmcatalog/internal/audit"
	"nmcatalog/internal/catalog"
	"nmcatalog/internal/config"
	"nmcatalog/internal/database"
	"nmcatalog/internal/logging"
	"nmcatalog/internal/metadata"
	"nmcatalog/pkg/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	watch      bool
)

var rootCmd = &cobra.Command{
	Use:   "nmaudit",
	Short: "Check that every catalog track has rendered audio",
	Long: `Check that every catalog track has rendered audio.
Looks for <audio dir>/<track id>.<ext> for each record of the generated
catalog and reports tracks whose audio is missing or shorter than the
configured minimum. With --watch it keeps re-checking tracks as files land.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd.Context(), configPath, watch, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.toml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&watch, "watch", false, "keep running and re-check tracks as audio files change")
}

func main() {
	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// runAudit audits the generated catalog once and, when watch is set, keeps
// watching the audio directory until ctx is cancelled.
func runAudit(ctx context.Context, configPath string, watch bool, stdout io.Writer) error {
	startup := logrus.New()
	startup.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

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

	if _, err := os.Stat(cfg.Audio.LibraryPath); err != nil {
		logger.WithError(err).WithField("library_path", cfg.Audio.LibraryPath).
			Error("Audio directory does not exist. Please create it and add the rendered tracks.")
		return err
	}

	tracks, err := catalog.Load(cfg.Catalog.OutputPath)
	if err != nil {
		logger.WithError(err).Error("Error loading catalog")
		return err
	}

	extractor := metadata.NewExtractor(cfg.Audio.SupportedFormats, logger)
	auditor := audit.NewAuditor(extractor, cfg.Audio.LibraryPath, cfg.Audio.MinDurationSeconds, logger)
	report := auditor.Run(tracks)
	printReport(stdout, report)

	var db *database.Database
	if cfg.Database.Enabled {
		db, err = database.NewDatabase(cfg.Database.Path, logger)
		if err != nil {
			logger.WithError(err).WithField("db_path", cfg.Database.Path).Warn("Could not open database, results not stored")
		} else {
			defer db.Close()
			if err := db.SaveAudioFiles(report.Files, time.Now()); err != nil {
				logger.WithError(err).Warn("Could not store audit results")
			}
		}
	}

	if !watch {
		return nil
	}

	watcher := auditor.NewWatcher(report, func(f models.AudioFile) {
		fmt.Fprintf(stdout, "%s  %s\n", f.TrackID, f.Status)
		if db != nil {
			if err := db.SaveAudioFiles([]models.AudioFile{f}, time.Now()); err != nil {
				logger.WithError(err).WithField("track_id", f.TrackID).Warn("Could not store audit result")
			}
		}
	})
	if err := watcher.Run(ctx); err != nil {
		logger.WithError(err).Error("Audio watcher stopped")
		return err
	}
	logger.Info("Received shutdown signal")
	return nil
}

func printReport(w io.Writer, report audit.Report) {
	for _, f := range report.Files {
		switch f.Status {
		case models.AudioMissing:
			fmt.Fprintf(w, "%s  missing\n", f.TrackID)
		case models.AudioShort:
			fmt.Fprintf(w, "%s  short (%ds)  %s\n", f.TrackID, f.Duration, f.FilePath)
		}
	}
	fmt.Fprintf(w, "Audit: %d tracks\n   - Ready: %d\n   - Missing: %d\n   - Short: %d\n",
		len(report.Files), report.Ready, report.Missing, report.Short)
}
