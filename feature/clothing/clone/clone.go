package clone

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"clothing-importer/core/asm"
	"clothing-importer/core/assetstore"
	"clothing-importer/core/packfile"
	"clothing-importer/feature/clothing/container"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Source is where archives and side files are read from.
type Source interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// EntryHook is called with the entries of each cloned source archive.
type EntryHook func(archive string, entries []*packfile.Entry) error

// Request describes one archive to clone.
type Request struct {
	// Archive is the archive file name, also used for the output file.
	Archive string
	// ClothSim is the cloth simulation file to add, if any.
	ClothSim string
	// Source is the source install's container table.
	Source *asm.File
	// Destination receives the converted container.
	Destination *asm.File
}

// Cloner clones archives into an output directory.
type Cloner struct {
	src       Source
	outputDir string
	hook      EntryHook
	logger    *zap.Logger

	mu     sync.Mutex
	cloned map[string]bool
	order  []string
}

// New returns a cloner reading from src and writing to outputDir.
// hook may be nil.
func New(src Source, outputDir string, hook EntryHook, logger *zap.Logger) *Cloner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cloner{
		src:       src,
		outputDir: outputDir,
		hook:      hook,
		logger:    logger,
		cloned:    make(map[string]bool),
	}
}

// Cloned returns the archives written so far, in order.
func (c *Cloner) Cloned() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.order...)
}

func (c *Cloner) done(archive string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cloned[archive]
}

func (c *Cloner) markDone(archive string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cloned[archive] = true
	c.order = append(c.order, archive)
}

// Clone rebuilds req.Archive and reports whether it resolved.
//
// A missing archive or a missing container record is not an error; Clone
// returns false. An archive cloned earlier by this Cloner returns true without
// being written again.
func (c *Cloner) Clone(ctx context.Context, req Request) (bool, error) {
	if c.done(req.Archive) {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := c.src.Open(ctx, req.Archive)
	if errors.Is(err, assetstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("clone %s: %w", req.Archive, err)
	}

	srcContainer := req.Source.FindContainer(req.Archive)
	if srcContainer == nil {
		c.logger.Warn("Archive has no container metadata", zap.String("archive", req.Archive))
		return false, nil
	}

	srcArchive, err := packfile.Read(bytes.NewReader(data))
	if err != nil {
		return false, fmt.Errorf("clone %s: %w", req.Archive, err)
	}

	clothSim := req.ClothSim
	var simData []byte
	if clothSim != "" && !srcArchive.Contains(clothSim) {
		simData, err = c.src.Open(ctx, clothSim)
		switch {
		case errors.Is(err, assetstore.ErrNotFound):
			c.logger.Warn("Cloth simulation file not found, dropping it",
				zap.String("archive", req.Archive),
				zap.String("cloth_sim", clothSim))
			clothSim = ""
		case err != nil:
			return false, fmt.Errorf("clone %s: cloth sim %s: %w", req.Archive, clothSim, err)
		}
	}

	dst := container.Convert(srcContainer, clothSim)

	out := packfile.New(packfile.Version10, packfile.Options{Compressed: true, Condensed: true})
	for _, e := range srcArchive.Entries() {
		if err := out.Add(e.Name, e.Data); err != nil {
			return false, fmt.Errorf("clone %s: %w", req.Archive, err)
		}
	}
	if c.hook != nil {
		if err := c.hook(req.Archive, srcArchive.Entries()); err != nil {
			return false, fmt.Errorf("clone %s: %w", req.Archive, err)
		}
	}
	if clothSim != "" && !out.Contains(clothSim) {
		if err := out.Add(clothSim, simData); err != nil {
			return false, fmt.Errorf("clone %s: %w", req.Archive, err)
		}
	}

	var buf bytes.Buffer
	layout, err := out.Save(&buf)
	if err != nil {
		return false, fmt.Errorf("clone %s: %w", req.Archive, err)
	}
	if err := os.WriteFile(filepath.Join(c.outputDir, req.Archive), buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("clone %s: %w", req.Archive, err)
	}

	layout.Update(dst)
	req.Destination.AddContainer(dst)
	c.markDone(req.Archive)

	c.logger.Debug("Cloned archive",
		zap.String("archive", req.Archive),
		zap.Int("entries", out.Len()),
		zap.Uint16("primitives", dst.PrimitiveCount),
		zap.String("size", humanize.Bytes(uint64(layout.FileSize))))
	return true, nil
}

// MorphExtractor returns a hook writing every entry with extension ext to dir.
// The extension is compared case-insensitively.
func MorphExtractor(dir, ext string) EntryHook {
	ext = strings.ToLower(ext)
	return func(archive string, entries []*packfile.Entry) error {
		for _, e := range entries {
			if strings.ToLower(path.Ext(e.Name)) != ext {
				continue
			}
			target := filepath.Join(dir, path.Base(strings.ReplaceAll(e.Name, "\\", "/")))
			if err := os.WriteFile(target, e.Data, 0o644); err != nil {
				return fmt.Errorf("extract %s from %s: %w", e.Name, archive, err)
			}
		}
		return nil
	}
}
