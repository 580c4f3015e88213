package cmd

import (
	"fmt"
	"os"

	"clothing-importer/core/assetstore"
	"clothing-importer/core/config"
	"clothing-importer/core/logger"
	"clothing-importer/core/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "clothing-importer",
	Short: "Saints Row clothing migration tool",
	Long: `Clothing Importer migrates customization items from a Saints Row: The Third
or Gat out of Hell install into a Saints Row IV install.
It clones the item archives, fixes their container metadata and merges the
display texts into new string files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level gives readable timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: logger.FormatConsole,
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
}

// loadRuntime loads and validates the configuration and builds the logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logg, nil
}

// needsStorage reports whether any configured component reaches the bucket.
func needsStorage(cfg *config.Config) bool {
	return cfg.Migration.Publish ||
		cfg.Source.Backend == assetstore.BackendBucket ||
		cfg.Destination.Backend == assetstore.BackendBucket
}

// newStores builds the source and destination stores. client is only needed
// for bucket backends.
func newStores(cfg *config.Config, client storage.Client, logg *zap.Logger) (source, destination *assetstore.Store, err error) {
	source, err = assetstore.NewFromConfig(cfg.Source, client, logg.Named("source"))
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}
	destination, err = assetstore.NewFromConfig(cfg.Destination, client, logg.Named("destination"))
	if err != nil {
		return nil, nil, fmt.Errorf("destination: %w", err)
	}
	return source, destination, nil
}
