package core

// importer.go normalizes parsed records, validates them against the license
// catalog, and bulk-loads them into a scan.
//
// Importing is two-phase. CheckRecords applies conversions and optional
// path-prefix stripping, then collects every duplicate path and every
// unresolved license; it writes nothing. ImportRecords may only run after a
// successful check on the same Importer and performs exactly one bulk write.

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/spdx"
)

// ConfigStripPaths is the config key that enables common path prefix stripping.
const ConfigStripPaths = "import-strip-paths"

// ErrNotChecked is returned by ImportRecords when no successful CheckRecords
// call preceded it for the same records. It indicates a programming error.
var ErrNotChecked = errors.New("import attempted on records that were not validated")

// Importer validates and imports one batch of records.
// An Importer is not safe for concurrent use.
type Importer struct {
	checked      bool
	checkedCount int
	licenseIDs   map[string]int64

	unknownLicenses []string
	duplicatePaths  []string

	imported int
	scanID   int64
}

// NewImporter returns an Importer with no checked records.
func NewImporter() *Importer {
	return &Importer{}
}

// CheckRecords normalizes records in place and validates them.
//
// It returns true only if no path is duplicated and every final license is
// in the catalog. On false, UnknownLicenses and DuplicatePaths report all
// problems. The error is reserved for storage failures.
func (im *Importer) CheckRecords(ctx context.Context, records []*spdx.Record, store ImportStore) (bool, error) {
	im.reset()

	conversions, err := store.ListConversions(ctx)
	if err != nil {
		return false, fmt.Errorf("load conversions: %w", err)
	}
	applyConversions(records, conversions)

	strip, err := store.GetConfig(ctx, ConfigStripPaths)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", ConfigStripPaths, err)
	}
	if configEnabled(strip) {
		applyPathPrefixStrip(records)
	} else {
		for _, rec := range records {
			rec.FinalPath = rec.Path
		}
	}

	im.duplicatePaths = findDuplicatePaths(records)

	names := distinctLicenses(records)
	ids, err := store.ResolveLicenseIDs(ctx, names)
	if err != nil {
		return false, fmt.Errorf("resolve licenses: %w", err)
	}
	im.licenseIDs = make(map[string]int64, len(ids))
	for _, name := range names {
		if id, ok := ids[name]; ok {
			im.licenseIDs[name] = id
		} else {
			im.unknownLicenses = append(im.unknownLicenses, name)
		}
	}

	im.checked = len(im.duplicatePaths) == 0 && len(im.unknownLicenses) == 0
	if im.checked {
		im.checkedCount = len(records)
	}
	return im.checked, nil
}

// ImportRecords writes records under scanID with a single bulk insert.
// The records must be the ones passed to the last successful CheckRecords.
// On success the Importer must be checked again before another import.
func (im *Importer) ImportRecords(ctx context.Context, records []*spdx.Record, store ImportStore, scanID int64) error {
	if !im.checked {
		return ErrNotChecked
	}
	if len(records) != im.checkedCount {
		return fmt.Errorf("%w: checked %d records, got %d", ErrNotChecked, im.checkedCount, len(records))
	}

	rows := make([]database.FileRow, 0, len(records))
	for _, rec := range records {
		id, ok := im.licenseIDs[rec.FinalLicense]
		if !ok {
			return fmt.Errorf("%w: license %q for %s was not resolved", ErrNotChecked, rec.FinalLicense, rec.Path)
		}
		rows = append(rows, database.FileRow{
			Path:      rec.FinalPath,
			LicenseID: id,
			SHA1:      ToPgText(rec.SHA1),
			MD5:       ToPgText(rec.MD5),
			SHA256:    ToPgText(rec.SHA256),
		})
	}

	n, err := store.BulkInsertFiles(ctx, scanID, rows)
	if err != nil {
		return fmt.Errorf("insert files: %w", err)
	}

	im.checked = false
	im.imported = int(n)
	im.scanID = scanID
	return nil
}

// UnknownLicenses returns the final licenses missing from the catalog,
// sorted and de-duplicated.
func (im *Importer) UnknownLicenses() []string {
	return im.unknownLicenses
}

// DuplicatePaths returns every path that appears more than once,
// sorted and de-duplicated.
func (im *Importer) DuplicatePaths() []string {
	return im.duplicatePaths
}

// Imported returns the number of rows written by the last import.
func (im *Importer) Imported() int {
	return im.imported
}

// ScanID returns the scan the last import wrote to.
func (im *Importer) ScanID() int64 {
	return im.scanID
}

func (im *Importer) reset() {
	im.checked = false
	im.checkedCount = 0
	im.licenseIDs = nil
	im.unknownLicenses = nil
	im.duplicatePaths = nil
}

// applyConversions sets each record's final license from the conversion
// table, falling back to the declared license.
func applyConversions(records []*spdx.Record, conversions []database.Conversion) {
	table := make(map[string]string, len(conversions))
	for _, c := range conversions {
		table[c.OldText] = c.NewLicense
	}

	for _, rec := range records {
		if converted, ok := table[rec.License]; ok {
			rec.FinalLicense = converted
		} else {
			rec.FinalLicense = rec.License
		}
	}
}

// applyPathPrefixStrip removes the longest common directory prefix from
// every final path. Duplicate detection always uses the original path.
func applyPathPrefixStrip(records []*spdx.Record) {
	paths := make([]string, len(records))
	for i, rec := range records {
		paths[i] = rec.Path
	}

	prefix := commonPathPrefix(paths)
	for _, rec := range records {
		if prefix == "" {
			rec.FinalPath = rec.Path
		} else {
			rec.FinalPath = strings.TrimPrefix(rec.Path, prefix+"/")
		}
	}
}

// commonPathPrefix returns the longest directory shared by every path, or ""
// when there is none, when it is the filesystem root, or when absolute and
// relative paths are mixed.
func commonPathPrefix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	absolute := strings.HasPrefix(paths[0], "/")
	var common []string
	for i, p := range paths {
		if strings.HasPrefix(p, "/") != absolute {
			return ""
		}

		dirs := dirComponents(p)
		if i == 0 {
			common = dirs
			continue
		}

		n := 0
		for n < len(common) && n < len(dirs) && common[n] == dirs[n] {
			n++
		}
		common = common[:n]
		if len(common) == 0 {
			return ""
		}
	}

	prefix := strings.Join(common, "/")
	if prefix == "" || prefix == "/" {
		return ""
	}
	return prefix
}

// dirComponents splits the directory part of p on '/'. An absolute path
// yields a leading "" component.
func dirComponents(p string) []string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return nil
	}
	if idx == 0 {
		return []string{""}
	}
	return strings.Split(p[:idx], "/")
}

// findDuplicatePaths returns every original path that occurs more than once,
// sorted and de-duplicated.
func findDuplicatePaths(records []*spdx.Record) []string {
	paths := make([]string, len(records))
	for i, rec := range records {
		paths[i] = rec.Path
	}
	sort.Strings(paths)

	var dups []string
	for i := 1; i < len(paths); i++ {
		if paths[i] != paths[i-1] {
			continue
		}
		if len(dups) == 0 || dups[len(dups)-1] != paths[i] {
			dups = append(dups, paths[i])
		}
	}
	return dups
}

// distinctLicenses returns the sorted set of final licenses.
func distinctLicenses(records []*spdx.Record) []string {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		seen[rec.FinalLicense] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// configEnabled interprets a config value as a boolean flag.
// "yes" and "on" are accepted alongside strconv.ParseBool's forms.
func configEnabled(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "on":
		return true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
