package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"clothing-importer/core/database"
	"clothing-importer/core/reconcile"
	"clothing-importer/core/storage"
	"clothing-importer/feature/clothing"
	"clothing-importer/feature/clothing/ledger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateProfile   string
	migrateOutput    string
	migrateKeyPolicy string
	migratePublish   bool
	migrateDLC       bool
	migrateNoLedger  bool
	migrateAllItems  bool
)

// migrateCmd runs one migration into the output root.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate clothing items from the source install",
	Long: `Migrate every customization item the destination install does not have yet.

The output root is deleted and recreated. It receives the cloned archives, the
merged catalog, the container table and one string file per destination
language.

Examples:
  # Migrate Saints Row: The Third clothing
  migrate --profile srtt

  # Migrate Gat out of Hell clothing without DLC items and publish the result
  migrate --profile srg --include-dlc=false --publish`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateProfile, "profile", "", "Source profile (srtt, srg)")
	migrateCmd.Flags().StringVar(&migrateOutput, "output", "", "Output root, deleted and recreated")
	migrateCmd.Flags().StringVar(&migrateKeyPolicy, "key-policy", "", "Item name comparison override (exact, lowercase)")
	migrateCmd.Flags().BoolVar(&migratePublish, "publish", false, "Upload the output to the storage bucket")
	migrateCmd.Flags().BoolVar(&migrateDLC, "include-dlc", true, "Migrate items flagged as DLC")
	migrateCmd.Flags().BoolVar(&migrateNoLedger, "no-ledger", false, "Do not record outcomes in the database")
	migrateCmd.Flags().BoolVar(&migrateAllItems, "all", false, "List skipped items in the report too")

	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer l.Sync()

	flags := cmd.Flags()
	if flags.Changed("profile") {
		cfg.Migration.Profile = strings.ToLower(migrateProfile)
	}
	if flags.Changed("output") {
		cfg.Migration.OutputRoot = migrateOutput
	}
	if flags.Changed("key-policy") {
		cfg.Migration.KeyPolicy = migrateKeyPolicy
	}
	if flags.Changed("publish") {
		cfg.Migration.Publish = migratePublish
	}
	if flags.Changed("include-dlc") {
		cfg.Migration.IncludeDLC = migrateDLC
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var client storage.Client
	if needsStorage(cfg) {
		client, err = storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}
	if cfg.Migration.Publish {
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return fmt.Errorf("failed to prepare bucket: %w", err)
		}
	}

	source, destination, err := newStores(cfg, client, l)
	if err != nil {
		return err
	}

	// Connect to Database (Optional)
	var recorder ledger.Recorder = ledger.NopRecorder{}
	if !migrateNoLedger {
		if db, err := database.Connect(cfg.Database); err != nil {
			l.Warn("Optional database connection failed, outcomes will not be recorded", zap.Error(err))
		} else {
			r := ledger.NewRecorder(db)
			if err := r.Migrate(ctx); err != nil {
				l.Warn("Failed to migrate ledger schema, outcomes will not be recorded", zap.Error(err))
			} else {
				recorder = r
			}
		}
	}

	svc := clothing.NewService(cfg.Migration, source, destination, recorder, l).
		WithPublisher(client, cfg.Storage.Bucket)

	report, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	printMigrationReport(report, migrateAllItems)
	return nil
}

func printMigrationReport(report *clothing.RunReport, all bool) {
	var rows [][]string
	for _, r := range report.Results {
		if r.State == reconcile.StateSkipped && !all {
			continue
		}
		state := string(r.State)
		if r.Reason != "" {
			state += " (" + string(r.Reason) + ")"
		}
		rows = append(rows, []string{
			r.Catalog,
			strconv.Itoa(r.Position),
			r.Key,
			state,
			r.Metadata["display_key"],
			strconv.Itoa(len(r.Archives)),
		})
	}
	if len(rows) > 0 {
		fmt.Println(renderTable(
			[]string{"Catalog", "#", "Item", "State", "Display Key", "Archives"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	s := report.Summary
	summary := [][]string{
		{"Run", report.RunID},
		{"Profile", report.Profile},
		{"Output", report.OutputRoot},
		{"Source items", strconv.Itoa(s.TotalItems)},
		{"Included", strconv.Itoa(s.Included)},
		{"Unresolved", strconv.Itoa(s.Unresolved)},
		{"Skipped (existing)", strconv.Itoa(s.SkippedExisting)},
		{"Skipped (dlc)", strconv.Itoa(s.SkippedDLC)},
		{"Archives", strconv.Itoa(len(report.Archives))},
		{"String files", strconv.Itoa(len(report.Languages))},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
	}
	if report.Published != nil {
		summary = append(summary, []string{"Published", fmt.Sprintf("%d files, %s (%d removed)",
			report.Published.Uploaded, humanize.Bytes(uint64(report.Published.Bytes)), report.Published.Removed)})
	}
	fmt.Println(renderTable([]string{"Migration", ""}, summary, []columnAlignment{alignLeft, alignRight}))
}
