package cmd

import (
	"fmt"
	"strconv"

	"clothing-importer/core/database"
	"clothing-importer/feature/clothing/ledger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ledgerCmd is the parent command for the outcome ledger.
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect recorded migration outcomes",
}

var ledgerMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the outcome table",
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, l, err := openLedger()
		if err != nil {
			return err
		}
		if err := recorder.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("failed to migrate ledger: %w", err)
		}
		l.Info("Ledger schema is up to date")
		return nil
	},
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "List the outcomes of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recorder, l, err := openLedger()
		if err != nil {
			return err
		}

		outcomes, err := recorder.List(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to list outcomes: %w", err)
		}
		if len(outcomes) == 0 {
			l.Warn("No outcomes recorded for run", zap.String("run_id", args[0]))
			return nil
		}

		rows := make([][]string, 0, len(outcomes))
		for _, o := range outcomes {
			rows = append(rows, []string{
				o.Catalog,
				strconv.Itoa(o.Position),
				o.ItemName,
				o.State,
				o.Reason,
				o.DisplayKey,
				strconv.Itoa(len(o.ArchiveList())),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"Catalog", "#", "Item", "State", "Reason", "Display Key", "Archives"},
			rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
		))
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerMigrateCmd, ledgerShowCmd)
	RootCmd.AddCommand(ledgerCmd)
}

func openLedger() (*ledger.GormRecorder, *zap.Logger, error) {
	cfg, l, err := loadRuntime()
	if err != nil {
		return nil, nil, err
	}

	// Connect to database (required)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection required: %w", err)
	}
	return ledger.NewRecorder(db), l, nil
}
