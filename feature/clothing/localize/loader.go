package localize

import (
	"bytes"
	"context"
	"fmt"

	"clothing-importer/core/assetstore"
	"clothing-importer/core/strtable"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPattern matches the string files of an install.
const DefaultPattern = "*.le_strings"

const loadConcurrency = 8

// Finder is the part of an asset store string loading needs.
type Finder interface {
	Search(ctx context.Context, pattern string) ([]assetstore.Location, error)
	OpenIn(ctx context.Context, name, archive string) ([]byte, error)
}

type stringFile struct {
	loc  assetstore.Location
	lang Language
}

func findStringFiles(ctx context.Context, store Finder, pattern string, logger *zap.Logger) ([]stringFile, error) {
	locs, err := store.Search(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("search string files: %w", err)
	}

	files := make([]stringFile, 0, len(locs))
	for _, loc := range locs {
		lang, ok := LanguageFromFilename(loc.Filename)
		if !ok {
			logger.Warn("Skipping string file with unknown language", zap.Stringer("file", loc))
			continue
		}
		files = append(files, stringFile{loc: loc, lang: lang})
	}
	return files, nil
}

// Languages returns the languages of the install's string files in search order.
func Languages(ctx context.Context, store Finder, pattern string, logger *zap.Logger) ([]Language, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := findStringFiles(ctx, store, pattern, logger)
	if err != nil {
		return nil, err
	}

	seen := make(map[Language]bool)
	var out []Language
	for _, f := range files {
		if !seen[f.lang] {
			seen[f.lang] = true
			out = append(out, f.lang)
		}
	}
	return out, nil
}

// LoadLanguageFiles reads every string file of the install into a MergeSet.
//
// Files are fetched and decoded concurrently, then merged in search order so
// that the first file providing a key wins.
func LoadLanguageFiles(ctx context.Context, store Finder, pattern string, logger *zap.Logger) (*MergeSet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	files, err := findStringFiles(ctx, store, pattern, logger)
	if err != nil {
		return nil, err
	}

	decoded := make([]*strtable.File, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, f := range files {
		g.Go(func() error {
			data, err := store.OpenIn(gctx, f.loc.Filename, f.loc.Archive)
			if err != nil {
				return fmt.Errorf("open %s: %w", f.loc, err)
			}
			sf, err := strtable.Read(bytes.NewReader(data), string(f.lang))
			if err != nil {
				return fmt.Errorf("decode %s: %w", f.loc, err)
			}
			decoded[i] = sf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	set := NewMergeSet()
	for i, f := range files {
		added := set.MergeFile(f.lang, decoded[i])
		logger.Debug("Loaded string file",
			zap.Stringer("file", f.loc),
			zap.String("language", string(f.lang)),
			zap.Int("strings", decoded[i].Len()),
			zap.Int("added", added))
	}
	return set, nil
}
