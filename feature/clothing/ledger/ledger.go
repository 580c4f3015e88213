package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

const batchSize = 100

// Outcome is the recorded final state of one source item in one run.
type Outcome struct {
	ID         uint      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID      string    `gorm:"column:run_id;type:varchar(36);index;not null"`
	Profile    string    `gorm:"column:profile;type:varchar(16);not null"`
	Catalog    string    `gorm:"column:catalog;type:varchar(128);not null"`
	Position   int       `gorm:"column:position;not null"`
	ItemName   string    `gorm:"column:item_name;type:varchar(128);not null"`
	State      string    `gorm:"column:state;type:varchar(16);not null"`
	Reason     string    `gorm:"column:reason;type:varchar(32)"`
	DisplayKey string    `gorm:"column:display_key;type:varchar(160)"`
	Archives   string    `gorm:"column:archives;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name for outcomes.
func (Outcome) TableName() string {
	return "migration_outcomes"
}

// ArchiveList splits the stored archive names.
func (o Outcome) ArchiveList() []string {
	if o.Archives == "" {
		return nil
	}
	return strings.Split(o.Archives, ",")
}

// JoinArchives encodes archive names for the Archives column.
func JoinArchives(archives []string) string {
	return strings.Join(archives, ",")
}

// Recorder stores and lists outcomes.
type Recorder interface {
	Record(ctx context.Context, outcomes []Outcome) error
	List(ctx context.Context, runID string) ([]Outcome, error)
}

// GormRecorder stores outcomes with gorm.
type GormRecorder struct {
	db *gorm.DB
}

// NewRecorder creates a recorder on db.
func NewRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

// Migrate creates or updates the outcomes table.
func (r *GormRecorder) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Outcome{}); err != nil {
		return fmt.Errorf("migrate %s: %w", Outcome{}.TableName(), err)
	}
	return nil
}

// Record inserts outcomes in batches.
func (r *GormRecorder) Record(ctx context.Context, outcomes []Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(outcomes, batchSize).Error; err != nil {
		return fmt.Errorf("record outcomes: %w", err)
	}
	return nil
}

// List returns the outcomes of a run in recording order.
func (r *GormRecorder) List(ctx context.Context, runID string) ([]Outcome, error) {
	var out []Outcome
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list outcomes for run %s: %w", runID, err)
	}
	return out, nil
}

// NopRecorder discards outcomes.
type NopRecorder struct{}

// Record drops outcomes.
func (NopRecorder) Record(context.Context, []Outcome) error { return nil }

// List always reports an empty run.
func (NopRecorder) List(context.Context, string) ([]Outcome, error) { return nil, nil }
