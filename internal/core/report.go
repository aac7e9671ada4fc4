package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/JonMunkholm/licscan/internal/database"
)

// ScanReport lists a scan's files grouped by license category, then license.
type ScanReport struct {
	Scan       database.Scan    `json:"scan"`
	TotalFiles int              `json:"totalFiles"`
	Categories []CategoryReport `json:"categories"`
}

// CategoryReport is one category section of a ScanReport.
type CategoryReport struct {
	Name     string          `json:"name"`
	Files    int             `json:"files"`
	Licenses []LicenseReport `json:"licenses"`
}

// LicenseReport holds the files concluded under one license.
type LicenseReport struct {
	Name  string              `json:"name"`
	Files []database.ScanFile `json:"files"`
}

// ScanReport builds the report for scanID. Categories follow their sort
// order; a category with no files in the scan is omitted.
func (s *Service) ScanReport(ctx context.Context, scanID int64) (*ScanReport, error) {
	scan, err := s.store.GetScan(ctx, scanID)
	if err != nil {
		return nil, fmt.Errorf("scan %d: %w", scanID, err)
	}

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	files, err := s.store.ListScanFiles(ctx, scanID)
	if err != nil {
		return nil, err
	}

	return buildReport(scan, categories, files), nil
}

func buildReport(scan database.Scan, categories []database.Category, files []database.ScanFile) *ScanReport {
	byCategory := make(map[string]map[string][]database.ScanFile)
	for _, f := range files {
		licenses, ok := byCategory[f.Category]
		if !ok {
			licenses = make(map[string][]database.ScanFile)
			byCategory[f.Category] = licenses
		}
		licenses[f.License] = append(licenses[f.License], f)
	}

	order := make([]string, 0, len(byCategory))
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
		if _, ok := byCategory[c.Name]; ok {
			order = append(order, c.Name)
		}
	}
	var rest []string
	for name := range byCategory {
		if !known[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	order = append(order, rest...)

	report := &ScanReport{
		Scan:       scan,
		TotalFiles: len(files),
		Categories: make([]CategoryReport, 0, len(order)),
	}
	for _, name := range order {
		licenses := byCategory[name]
		section := CategoryReport{Name: name}

		names := make([]string, 0, len(licenses))
		for lic := range licenses {
			names = append(names, lic)
		}
		sort.Strings(names)

		for _, lic := range names {
			section.Files += len(licenses[lic])
			section.Licenses = append(section.Licenses, LicenseReport{Name: lic, Files: licenses[lic]})
		}
		report.Categories = append(report.Categories, section)
	}
	return report
}
