package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"classmap-server-go/config"
	"classmap-server-go/db"
	"classmap-server-go/models"
	"classmap-server-go/web"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.SugaredLogger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "classmap",
	Short: "Map of where the graduating class is going to college",
	Long: `classmap serves, or builds as a static file, an interactive map of where members of a
graduating class attend college: one marker per school with a popup listing its students, and
a roster sidebar grouped by school with a Gap Year section.

Data is read from students.json and schools.json in the data directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("invalid logging level: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		base, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = base.Sugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "classmap.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().String("data", "", "Data directory (overrides data.dir)")

	rootCmd.AddCommand(serveCmd, buildCmd, importStudentsCmd, exportRosterCmd, publishCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// dataDir honours --data over the config file.
func dataDir(cmd *cobra.Command) string {
	if d, _ := cmd.Flags().GetString("data"); d != "" {
		return d
	}
	return cfg.Data.Dir
}

// loadDataset reads the roster from the configured source. Any failure is fatal to the command.
func loadDataset(ctx context.Context, cmd *cobra.Command) (*models.Dataset, error) {
	if cfg.Data.Source == config.SourceRedis {
		client, err := db.InitializeRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		defer client.Close()
		ds, err := db.NewRedisService(client, logger).LoadDataset(ctx)
		if err != nil {
			return nil, err
		}
		db.ReportOrphans(ds, logger)
		return ds, nil
	}
	return db.LoadAndReport(ctx, dataDir(cmd), logger)
}

func pageMeta() web.Meta {
	return web.Meta{
		Title:       cfg.Page.Title,
		Description: cfg.Page.Description,
		Token:       cfg.Map.Token,
		StyleURL:    cfg.Map.StyleURL,
	}
}

func newBuildID() string {
	return uuid.New().String()
}
