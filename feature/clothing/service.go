package clothing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"clothing-importer/core/asm"
	"clothing-importer/core/assetstore"
	"clothing-importer/core/logger"
	"clothing-importer/core/migration"
	"clothing-importer/core/reconcile"
	"clothing-importer/core/storage"
	"clothing-importer/core/xtbl"
	"clothing-importer/feature/clothing/clone"
	"clothing-importer/feature/clothing/ledger"
	"clothing-importer/feature/clothing/localize"
	"clothing-importer/feature/clothing/models"
	clothingreconcile "clothing-importer/feature/clothing/reconcile"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// CatalogFilename is the output catalog.
	CatalogFilename = "customization_items.xtbl"
	// ContainersFilename is the output container table.
	ContainersFilename = "customize_item.asm_pc"
)

// ErrOutputLocked is returned when another run holds the output root.
var ErrOutputLocked = errors.New("output root is locked by another run")

// ItemResult is the final state of one source item.
type ItemResult struct {
	Catalog string
	reconcile.ReconcileResult
}

// RunReport summarizes a migration run.
type RunReport struct {
	RunID      string
	Profile    string
	OutputRoot string
	Summary    reconcile.PlanSummary
	Results    []ItemResult
	Archives   []string
	Languages  []localize.Language
	Outputs    []string
	Published  *storage.PublishReport
	Duration   time.Duration
}

// Service runs clothing migrations.
type Service struct {
	cfg         migration.Config
	source      *assetstore.Store
	destination *assetstore.Store
	recorder    ledger.Recorder
	logger      *zap.Logger

	client storage.Client
	bucket string
}

// NewService creates a migration service. recorder may be nil.
func NewService(cfg migration.Config, source, destination *assetstore.Store, recorder ledger.Recorder, logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = ledger.NopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		cfg:         cfg,
		source:      source,
		destination: destination,
		recorder:    recorder,
		logger:      logger,
	}
}

// WithPublisher sets the bucket the output is published to when publishing is enabled.
func (s *Service) WithPublisher(client storage.Client, bucket string) *Service {
	s.client = client
	s.bucket = bucket
	return s
}

// Profile returns the profile the service migrates with, including the
// configured key policy override.
func (s *Service) Profile() clothingreconcile.Profile {
	profile := clothingreconcile.GetProfileByName(s.cfg.Profile)
	if s.cfg.KeyPolicy != "" {
		profile.KeyPolicy = reconcile.KeyPolicy(s.cfg.KeyPolicy)
	}
	return profile
}

// Run performs a full migration into the output root.
func (s *Service) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := logger.WithRunID(s.logger, runID)
	profile := s.Profile()

	unlock, err := s.lockOutput()
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.resetOutput(profile); err != nil {
		return nil, err
	}

	containers, catalog, err := s.loadTemplates(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.loadDestinationIndex(ctx, profile, catalog, log)
	if err != nil {
		return nil, err
	}

	languages, err := localize.Languages(ctx, s.destination, profile.StringPattern, log)
	if err != nil {
		return nil, fmt.Errorf("destination languages: %w", err)
	}
	if len(languages) == 0 {
		log.Warn("Destination has no string files, no display texts will be written")
	}

	sourceStrings, err := localize.LoadLanguageFiles(ctx, s.source, profile.StringPattern, log)
	if err != nil {
		return nil, fmt.Errorf("source strings: %w", err)
	}

	var hook clone.EntryHook
	if profile.MorphExtension != "" {
		hook = clone.MorphExtractor(s.cfg.Staging(), profile.MorphExtension)
	}

	mctx := &clothingreconcile.MigrationContext{
		Containers: containers,
		Catalog:    catalog,
		Strings:    localize.NewMergeSet(languages...),
		Languages:  languages,
		Existing:   existing,
		Cloner:     clone.New(s.source, s.cfg.OutputRoot, hook, log),
	}
	resolver := profile.Resolver(sourceStrings)

	report := &RunReport{
		RunID:      runID,
		Profile:    profile.Name,
		OutputRoot: s.cfg.OutputRoot,
		Languages:  languages,
	}

	log.Info("Starting migration",
		zap.String("profile", profile.Name),
		zap.String("key_policy", string(profile.KeyPolicy)),
		zap.Bool("include_dlc", s.cfg.IncludeDLC),
		zap.Int("existing_items", existing.Len()),
		zap.Int("languages", len(languages)))

	for _, src := range profile.Sources {
		if err := s.migrateSource(ctx, profile, src, resolver, mctx, report, log); err != nil {
			return nil, err
		}
	}

	outputs, err := s.writeOutputs(profile, mctx)
	if err != nil {
		return nil, err
	}
	report.Outputs = outputs
	report.Archives = mctx.Cloner.Cloned()

	if err := s.recorder.Record(ctx, s.outcomes(report)); err != nil {
		log.Warn("Failed to record outcomes", zap.Error(err))
	}

	if s.cfg.Publish {
		published, err := s.publish(ctx)
		if err != nil {
			return nil, err
		}
		report.Published = &published
	}

	report.Duration = time.Since(start)
	log.Info("Migration finished",
		zap.Int("included", report.Summary.Included),
		zap.Int("unresolved", report.Summary.Unresolved),
		zap.Int("skipped", report.Summary.SkippedExisting+report.Summary.SkippedDLC),
		zap.Int("archives", len(report.Archives)),
		zap.Duration("duration", report.Duration))

	return report, nil
}

func (s *Service) migrateSource(ctx context.Context, profile clothingreconcile.Profile, src clothingreconcile.CatalogSource,
	resolver *localize.Resolver, mctx *clothingreconcile.MigrationContext, report *RunReport, log *zap.Logger) error {

	adapter := clothingreconcile.NewAdapter(profile, src, s.source, resolver, mctx, log)
	spec := &reconcile.Spec{
		Adapter:    adapter,
		IncludeDLC: s.cfg.IncludeDLC,
		OnResult: func(r reconcile.ReconcileResult) {
			log.Info("Item processed",
				zap.String("catalog", src.Catalog),
				zap.Int("position", r.Position),
				zap.String("name", r.Key),
				zap.String("state", string(r.State)),
				zap.String("reason", string(r.Reason)))
			report.Results = append(report.Results, ItemResult{Catalog: src.Catalog, ReconcileResult: r})
		},
	}

	plan, _, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{})
	if err != nil {
		if plan == nil && src.Optional && errors.Is(err, assetstore.ErrNotFound) {
			log.Warn("Optional source catalog not found, skipping", zap.String("catalog", src.Catalog), zap.Error(err))
			return nil
		}
		return err
	}

	log.Info("Source catalog migrated",
		zap.String("catalog", src.Catalog),
		zap.Int("items", plan.Summary.TotalItems),
		zap.Int("included", plan.Summary.Included))
	report.Summary.Add(plan.Summary)
	return nil
}

// lockOutput takes the lock beside the output root. The returned func releases it.
func (s *Service) lockOutput() (func(), error) {
	path := s.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrOutputLocked, s.cfg.OutputRoot)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("Failed to release output lock", zap.String("path", path), zap.Error(err))
		}
	}, nil
}

func (s *Service) resetOutput(profile clothingreconcile.Profile) error {
	if err := os.RemoveAll(s.cfg.OutputRoot); err != nil {
		return fmt.Errorf("remove output root: %w", err)
	}
	if err := os.MkdirAll(s.cfg.OutputRoot, 0o755); err != nil {
		return fmt.Errorf("create output root: %w", err)
	}
	if profile.MorphExtension != "" {
		if err := os.MkdirAll(s.cfg.Staging(), 0o755); err != nil {
			return fmt.Errorf("create staging directory: %w", err)
		}
	}
	return nil
}

// openTemplate reads a local template file, falling back to the file of the
// same name in the destination install.
func (s *Service) openTemplate(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}

	data, err = s.destination.Open(ctx, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return data, nil
}

func (s *Service) loadTemplates(ctx context.Context) (*asm.File, *models.Catalog, error) {
	data, err := s.openTemplate(ctx, s.cfg.TemplateContainers)
	if err != nil {
		return nil, nil, err
	}
	containers, err := asm.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("template %s: %w", s.cfg.TemplateContainers, err)
	}

	data, err = s.openTemplate(ctx, s.cfg.TemplateCatalog)
	if err != nil {
		return nil, nil, err
	}
	doc, err := xtbl.Read(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("template %s: %w", s.cfg.TemplateCatalog, err)
	}
	catalog, err := models.NewCatalog(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("template %s: %w", s.cfg.TemplateCatalog, err)
	}
	return containers, catalog, nil
}

// loadDestinationIndex collects the item names of the destination catalogs
// and of the template. Only the first destination catalog is required.
func (s *Service) loadDestinationIndex(ctx context.Context, profile clothingreconcile.Profile, template *models.Catalog, log *zap.Logger) (*reconcile.Index, error) {
	index := reconcile.NewIndex(profile.KeyPolicy, template.Names()...)

	for i, name := range profile.DestinationCatalogs {
		data, err := s.destination.Open(ctx, name)
		if errors.Is(err, assetstore.ErrNotFound) && i > 0 {
			log.Warn("Destination catalog not found, skipping", zap.String("catalog", name))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("destination catalog %s: %w", name, err)
		}

		doc, err := xtbl.Read(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("destination catalog %s: %w", name, err)
		}
		for _, n := range models.ItemNames(doc) {
			index.Add(n)
		}
	}
	return index, nil
}

func (s *Service) writeOutputs(profile clothingreconcile.Profile, mctx *clothingreconcile.MigrationContext) ([]string, error) {
	var outputs []string

	write := func(name string, w io.WriterTo) error {
		path := filepath.Join(s.cfg.OutputRoot, name)
		if err := writeFile(path, w); err != nil {
			return err
		}
		outputs = append(outputs, name)
		return nil
	}

	if err := write(CatalogFilename, mctx.Catalog); err != nil {
		return nil, err
	}
	if err := write(ContainersFilename, mctx.Containers); err != nil {
		return nil, err
	}

	for _, lang := range mctx.Languages {
		table, ok := mctx.Strings.Table(lang)
		if !ok {
			table = localize.NewTable()
		}
		file, err := localize.BuildTable(lang, localize.ChooseBucketCount(table.Len()), table)
		if err != nil {
			return nil, fmt.Errorf("build strings for %s: %w", lang, err)
		}
		if err := write(profile.StringsFilename(lang), file); err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

func writeFile(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func (s *Service) outcomes(report *RunReport) []ledger.Outcome {
	out := make([]ledger.Outcome, 0, len(report.Results))
	for _, r := range report.Results {
		out = append(out, ledger.Outcome{
			RunID:      report.RunID,
			Profile:    report.Profile,
			Catalog:    r.Catalog,
			Position:   r.Position,
			ItemName:   r.Key,
			State:      string(r.State),
			Reason:     string(r.Reason),
			DisplayKey: r.Metadata["display_key"],
			Archives:   ledger.JoinArchives(r.Archives),
		})
	}
	return out
}

func (s *Service) publish(ctx context.Context) (storage.PublishReport, error) {
	if s.client == nil || s.bucket == "" {
		return storage.PublishReport{}, fmt.Errorf("publishing requires a storage client and bucket")
	}
	report, err := storage.Publish(ctx, s.client, s.bucket, s.cfg.Prefix(), s.cfg.OutputRoot)
	if err != nil {
		return report, fmt.Errorf("publish output: %w", err)
	}
	s.logger.Info("Output published",
		zap.String("bucket", s.bucket),
		zap.String("prefix", s.cfg.Prefix()),
		zap.Int("uploaded", report.Uploaded),
		zap.Int("removed", report.Removed))
	return report, nil
}
