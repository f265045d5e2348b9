package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archmeta/archmeta-go/internal/config"
	"github.com/archmeta/archmeta-go/internal/feedback"
	"github.com/archmeta/archmeta-go/internal/logging"
	"github.com/archmeta/archmeta-go/internal/storage"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "archmeta",
	Short: "ArchMeta - review and merge workflow for architecture metadata",
	Long: `ArchMeta manages proposed changes to architecture metadata (coding rules,
class templates, rule examples) through a risk-gated review workflow:
LLM review, human review where the risk level demands it, and merge.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		if err := config.NewEnvLoader().Load(); err != nil {
			logger.WithError(err).Warn("Failed to load .env")
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		logLevel := cfg.Log.Level
		if verbose {
			logLevel = "debug"
		}
		if _, err := logging.Setup(logging.Config{
			Level:      logLevel,
			OutputFile: cfg.Log.File,
			JSONFormat: cfg.Log.JSONFormat,
			AddSource:  verbose,
		}); err != nil {
			logger.WithError(err).Warn("Failed to set up structured logging")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .archmeta/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`ArchMeta {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(seedCmd)
}

// openStore opens the configured storage backend.
func openStore(ctx context.Context) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "postgres":
		store, err := storage.NewPostgresStore(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, err
		}
		return store, nil
	default:
		return storage.NewSQLiteStore(cfg.Storage.LocalPath, logger)
	}
}

// newService wires the processing service against the configured store.
func newService(store storage.Store) (*feedback.Service, error) {
	clock := feedback.SystemClock{}
	registry, err := feedback.NewDefaultRegistry(store, clock)
	if err != nil {
		return nil, err
	}
	return feedback.NewService(store, registry, clock, nil), nil
}

func printSnapshot(snap feedback.Snapshot) {
	fmt.Printf("Feedback #%d\n", snap.ID)
	fmt.Printf("  Target:   %s", snap.TargetType)
	if snap.TargetID != nil {
		fmt.Printf(" (id %d)", *snap.TargetID)
	}
	fmt.Println()
	fmt.Printf("  Type:     %s\n", snap.FeedbackType)
	fmt.Printf("  Risk:     %s\n", snap.RiskLevel)
	fmt.Printf("  Status:   %s\n", snap.Status)
	if snap.ReviewNotes != "" {
		fmt.Printf("  Notes:    %s\n", snap.ReviewNotes)
	}
	fmt.Printf("  Updated:  %s\n", snap.UpdatedAt.Format("2006-01-02 15:04:05"))
}
