package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"clothing-importer/core/database"
	"clothing-importer/core/storage"
	"clothing-importer/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	integrityOutput string
	integrityJSON   bool
)

// integrityCmd verifies the output of a migration.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Verify the output of a migration",
	Long: `Reads the output root back and checks the required files, the string files,
the cloned archives against their container metadata, the ledger schema and,
when a bucket is configured, the published objects.`,
	RunE: runIntegrity,
}

func init() {
	integrityCmd.Flags().StringVar(&integrityOutput, "output", "", "Output root to verify")
	integrityCmd.Flags().BoolVar(&integrityJSON, "json", false, "Save the detailed report as JSON")
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	startTime := time.Now()

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer l.Sync()

	if cmd.Flags().Changed("output") {
		cfg.Migration.OutputRoot = integrityOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		l.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	var client storage.Client
	if cfg.Migration.Publish {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	svc := integrity.NewService(cfg.Migration, client, cfg.Storage.Bucket, db, l)
	report := svc.CheckAll(ctx)

	names := make([]string, 0, len(report))
	for name := range report {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, report[name].Status, report[name].Error})
	}
	fmt.Println(renderTable([]string{"Check", "Status", "Error"}, rows, nil))

	if integrityJSON {
		filename := fmt.Sprintf("integrity_%s_%d.json", cfg.Migration.Profile, time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0o644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		l.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	l.Info("Integrity check completed",
		zap.Bool("ok", report.OK()),
		zap.Duration("execution_time", time.Since(startTime)))

	if !report.OK() {
		return fmt.Errorf("integrity check found problems")
	}
	return nil
}
