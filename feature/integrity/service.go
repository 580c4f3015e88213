package integrity

import (
	"context"
	"fmt"

	"clothing-importer/core/migration"
	"clothing-importer/core/storage"
	"clothing-importer/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks of one output root.
type Service struct {
	cfg    migration.Config
	client storage.Client
	bucket string
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new integrity service. client and db may be nil, in
// which case the checks needing them report an error.
func NewService(cfg migration.Config, client storage.Client, bucket string, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:    cfg,
		client: client,
		bucket: bucket,
		db:     db,
		logger: logger,
	}
}

// CheckOutput returns the required output files that are missing.
func (s *Service) CheckOutput() ([]string, error) {
	return checks.CheckOutput(s.cfg.OutputRoot)
}

// CheckStrings decodes the string files of the configured profile.
func (s *Service) CheckStrings() ([]checks.StringsReport, error) {
	return checks.CheckStrings(s.cfg.OutputRoot, s.cfg.Profile)
}

// CheckArchives compares the cloned archives with the container table.
func (s *Service) CheckArchives() (*checks.ArchiveReport, error) {
	return checks.CheckArchives(s.cfg.OutputRoot)
}

// CheckLedger checks the outcome table schema.
func (s *Service) CheckLedger() (*checks.SchemaReport, error) {
	return checks.CheckLedgerSchema(s.db)
}

// CheckPublished returns the output files missing from the bucket.
func (s *Service) CheckPublished(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, fmt.Errorf("storage client is nil")
	}
	return checks.CheckPublished(ctx, s.client, s.bucket, s.cfg.Prefix(), s.cfg.OutputRoot)
}

// Result is the outcome of one check in a combined report.
type Result struct {
	Status string `json:"status"` // "ok", "failed", "error"
	Error  string `json:"error,omitempty"`
	Detail any    `json:"detail,omitempty"`
}

// Report combines the results of every check, keyed by check name.
type Report map[string]Result

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, res := range r {
		if res.Status != "ok" {
			return false
		}
	}
	return true
}

// CheckAll runs every check. The ledger and published checks only run when
// their dependency is configured.
func (s *Service) CheckAll(ctx context.Context) Report {
	report := make(Report)

	record := func(name string, passed bool, detail any, err error) {
		switch {
		case err != nil:
			s.logger.Error("Integrity check failed", zap.String("check", name), zap.Error(err))
			report[name] = Result{Status: "error", Error: err.Error()}
		case !passed:
			s.logger.Warn("Integrity check found problems", zap.String("check", name))
			report[name] = Result{Status: "failed", Detail: detail}
		default:
			s.logger.Info("Integrity check passed", zap.String("check", name))
			report[name] = Result{Status: "ok", Detail: detail}
		}
	}

	missing, err := s.CheckOutput()
	record("output", len(missing) == 0, missing, err)

	stringsReports, err := s.CheckStrings()
	stringsOK := len(stringsReports) > 0
	for _, r := range stringsReports {
		stringsOK = stringsOK && r.Status == "ok"
	}
	record("strings", stringsOK, stringsReports, err)

	archives, err := s.CheckArchives()
	record("archives", archives != nil && archives.Matched, archives, err)

	if s.db != nil {
		schema, err := s.CheckLedger()
		record("ledger", schema != nil && schema.Matched, schema, err)
	}

	if s.client != nil && s.bucket != "" {
		unpublished, err := s.CheckPublished(ctx)
		record("published", len(unpublished) == 0, unpublished, err)
	}

	return report
}
