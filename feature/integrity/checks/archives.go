package checks

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"clothing-importer/core/asm"
	"clothing-importer/core/packfile"
	"clothing-importer/feature/clothing"
	"clothing-importer/feature/clothing/naming"
)

// ArchiveReport lists the cloned archives whose container metadata does not
// describe them.
type ArchiveReport struct {
	Checked         int      `json:"checked"`
	MissingMetadata []string `json:"missing_metadata"`
	SizeMismatches  []string `json:"size_mismatches"`
	MissingEntries  []string `json:"missing_entries"`
	Unreadable      []string `json:"unreadable"`
	Matched         bool     `json:"matched"`
}

// CheckArchives compares every archive in root with the output container table.
// Containers without an archive in root belong to the destination install and
// are not checked.
func CheckArchives(root string) (*ArchiveReport, error) {
	data, err := os.ReadFile(filepath.Join(root, clothing.ContainersFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to read container table: %w", err)
	}
	table, err := asm.Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse container table: %w", err)
	}

	archives, err := filepath.Glob(filepath.Join(root, naming.ArchivePrefix+"*"+naming.ArchiveExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list archives: %w", err)
	}
	sort.Strings(archives)

	report := &ArchiveReport{
		MissingMetadata: []string{},
		SizeMismatches:  []string{},
		MissingEntries:  []string{},
		Unreadable:      []string{},
	}

	for _, p := range archives {
		name := filepath.Base(p)
		report.Checked++

		c := table.FindContainer(name)
		if c == nil {
			report.MissingMetadata = append(report.MissingMetadata, name)
			continue
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		if want := uint64(c.BaseOffset) + uint64(c.TotalCompressedReadSize); want != uint64(len(raw)) {
			report.SizeMismatches = append(report.SizeMismatches,
				fmt.Sprintf("%s: metadata covers %d bytes, file has %d", name, want, len(raw)))
		}

		archive, err := packfile.Read(bytes.NewReader(raw))
		if err != nil {
			report.Unreadable = append(report.Unreadable, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		for _, prim := range c.Primitives {
			if !archive.Contains(prim.Name) {
				report.MissingEntries = append(report.MissingEntries, name+": "+prim.Name)
			}
		}
	}

	report.Matched = len(report.MissingMetadata) == 0 &&
		len(report.SizeMismatches) == 0 &&
		len(report.MissingEntries) == 0 &&
		len(report.Unreadable) == 0
	return report, nil
}
