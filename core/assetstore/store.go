package assetstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"clothing-importer/core/packfile"
	"clothing-importer/core/storage"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no loose file or archive entry has the requested name.
	ErrNotFound = errors.New("assetstore: file not found")

	// ErrUnknownBackend is returned for a Config with an unsupported backend.
	ErrUnknownBackend = errors.New("assetstore: unknown backend")
)

// Location identifies one file of an install. Archive is empty for loose files.
type Location struct {
	Filename string
	Archive  string
}

func (l Location) String() string {
	if l.Archive == "" {
		return l.Filename
	}
	return l.Archive + ":" + l.Filename
}

// Store resolves file names across the loose files of an install and the
// entries of its archives. Names are matched case-insensitively on their base
// name. Loose files win over archive entries; otherwise the first archive in
// listing order wins.
type Store struct {
	src        Source
	archiveExt string
	logger     *zap.Logger

	mu        sync.Mutex
	indexed   bool
	locations []Location
	loose     map[string]string
	packed    map[string][]Location
	archives  map[string]*packfile.Archive
}

// New returns a store over src. Archives are recognized by archiveExt.
func New(src Source, archiveExt string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		src:        src,
		archiveExt: strings.ToLower(archiveExt),
		logger:     logger,
	}
}

// NewFromConfig builds a store for cfg. client is only used by the bucket backend.
func NewFromConfig(cfg Config, client storage.Client, logger *zap.Logger) (*Store, error) {
	switch cfg.Backend {
	case BackendDir:
		if cfg.Root == "" {
			return nil, fmt.Errorf("assetstore: dir backend requires a root")
		}
		return New(NewDirSource(cfg.Root), cfg.ArchiveExtension, logger), nil
	case BackendBucket:
		if client == nil || cfg.Bucket == "" {
			return nil, fmt.Errorf("assetstore: bucket backend requires a storage client and bucket")
		}
		return New(NewBucketSource(client, cfg.Bucket, cfg.Root), cfg.ArchiveExtension, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func key(name string) string {
	return strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
}

// Open returns the content of the named file.
func (s *Store) Open(ctx context.Context, name string) ([]byte, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	k := key(name)
	if p, ok := s.loose[k]; ok {
		return s.readLoose(ctx, p)
	}
	if locs := s.packed[k]; len(locs) > 0 {
		return s.readEntry(locs[0])
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// OpenIn returns the content of the named file inside a specific archive.
// An empty archive selects the loose file.
func (s *Store) OpenIn(ctx context.Context, name, archive string) ([]byte, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	k := key(name)
	if archive == "" {
		if p, ok := s.loose[k]; ok {
			return s.readLoose(ctx, p)
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, loc := range s.packed[k] {
		if strings.EqualFold(loc.Archive, archive) {
			return s.readEntry(loc)
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, archive)
}

// Exists reports whether Open would find name.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return false, err
	}
	k := key(name)
	_, loose := s.loose[k]
	return loose || len(s.packed[k]) > 0, nil
}

// Search returns every location whose base name matches the glob pattern,
// in index order. Matching is case-insensitive.
func (s *Store) Search(ctx context.Context, pattern string) ([]Location, error) {
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("assetstore: invalid pattern %q", pattern)
	}

	var out []Location
	for _, loc := range s.locations {
		ok, err := doublestar.Match(pattern, key(loc.Filename))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

func (s *Store) readLoose(ctx context.Context, p string) ([]byte, error) {
	rc, err := s.src.Open(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("assetstore: open %s: %w", p, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("assetstore: read %s: %w", p, err)
	}
	return data, nil
}

func (s *Store) readEntry(loc Location) ([]byte, error) {
	a := s.archives[loc.Archive]
	e, ok := a.Get(loc.Filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	return e.Data, nil
}

// ensureIndex lists the source once and decodes every archive it contains.
func (s *Store) ensureIndex(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexed {
		return nil
	}

	paths, err := s.src.List(ctx)
	if err != nil {
		return fmt.Errorf("assetstore: %w", err)
	}

	s.loose = make(map[string]string)
	s.packed = make(map[string][]Location)
	s.archives = make(map[string]*packfile.Archive)
	s.locations = s.locations[:0]

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		k := key(p)
		if _, dup := s.loose[k]; !dup {
			s.loose[k] = p
		}
		s.locations = append(s.locations, Location{Filename: p})

		if s.archiveExt == "" || !strings.HasSuffix(k, s.archiveExt) {
			continue
		}
		if err := s.indexArchive(ctx, p); err != nil {
			return err
		}
	}

	s.indexed = true
	s.logger.Debug("Asset index built",
		zap.Int("files", len(s.loose)),
		zap.Int("archives", len(s.archives)),
		zap.Int("locations", len(s.locations)))
	return nil
}

func (s *Store) indexArchive(ctx context.Context, p string) error {
	data, err := s.readLoose(ctx, p)
	if err != nil {
		return err
	}

	a, err := packfile.Read(bytes.NewReader(data))
	if err != nil {
		// Archives of other versions are not ours to read.
		s.logger.Warn("Skipping unreadable archive", zap.String("archive", p), zap.Error(err))
		return nil
	}

	s.archives[p] = a
	for _, e := range a.Entries() {
		loc := Location{Filename: e.Name, Archive: p}
		k := key(e.Name)
		s.packed[k] = append(s.packed[k], loc)
		s.locations = append(s.locations, loc)
	}

	s.logger.Debug("Indexed archive",
		zap.String("archive", p),
		zap.Int("entries", a.Len()),
		zap.String("size", humanize.Bytes(uint64(len(data)))))
	return nil
}
