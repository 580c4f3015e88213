package checks

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"clothing-importer/core/strtable"
	"clothing-importer/feature/clothing"
	"clothing-importer/feature/clothing/localize"

	"github.com/bmatcuk/doublestar/v4"
)

// RequiredFiles lists the files every output root must hold.
var RequiredFiles = []string{
	clothing.CatalogFilename,
	clothing.ContainersFilename,
}

// StringsReport describes one output string file.
type StringsReport struct {
	File        string `json:"file"`
	Language    string `json:"language"`
	Entries     int    `json:"entries"`
	BucketCount uint16 `json:"bucket_count"`
	Status      string `json:"status"` // "ok", "error"
	Error       string `json:"error,omitempty"`
}

// CheckOutput returns the required files missing from root.
// A missing root is an error.
func CheckOutput(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output root %s is not a directory", root)
	}

	var missing []string
	for _, name := range RequiredFiles {
		_, err := os.Stat(filepath.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
	}
	return missing, nil
}

// CheckStrings decodes every string file of profile below root.
// A file that does not decode, or whose bucket count differs from the one its
// entry count calls for, is reported with status "error".
func CheckStrings(root, profile string) ([]StringsReport, error) {
	pattern := profile + "_clothing_*.le_strings"
	names, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list string files: %w", err)
	}

	reports := make([]StringsReport, 0, len(names))
	for _, name := range names {
		reports = append(reports, checkStringsFile(root, name))
	}
	return reports, nil
}

func checkStringsFile(root, name string) StringsReport {
	report := StringsReport{File: name, Status: "ok"}
	fail := func(err error) StringsReport {
		report.Status = "error"
		report.Error = err.Error()
		return report
	}

	lang, ok := localize.LanguageFromFilename(name)
	if !ok {
		return fail(fmt.Errorf("unknown language"))
	}
	report.Language = string(lang)

	data, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		return fail(err)
	}
	file, err := strtable.Read(bytes.NewReader(data), report.Language)
	if err != nil {
		return fail(err)
	}

	report.Entries = file.Len()
	report.BucketCount = file.BucketCount
	if want := localize.ChooseBucketCount(file.Len()); want != file.BucketCount {
		return fail(fmt.Errorf("bucket count %d, expected %d for %d entries", file.BucketCount, want, file.Len()))
	}
	return report
}
