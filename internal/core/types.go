package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/licscan/internal/database"
)

// ImportStore is the storage the importer reads lookup tables from and
// writes file rows to. Satisfied by *database.Store.
type ImportStore interface {
	ListConversions(ctx context.Context) ([]database.Conversion, error)
	ResolveLicenseIDs(ctx context.Context, names []string) (map[string]int64, error)
	GetConfig(ctx context.Context, key string) (string, error)
	BulkInsertFiles(ctx context.Context, scanID int64, rows []database.FileRow) (int64, error)
}

// Repository is everything the Service needs from storage.
// Satisfied by *database.Store.
type Repository interface {
	ImportStore
	GetScan(ctx context.Context, scanID int64) (database.Scan, error)
	CountScanFiles(ctx context.Context, scanID int64) (int64, error)
	SetScanDocumentHash(ctx context.Context, scanID int64, hash string) error
	FindScanByDocumentHash(ctx context.Context, hash string) (int64, bool, error)
	ListScanFiles(ctx context.Context, scanID int64) ([]database.ScanFile, error)
	Catalog
}

// Catalog is the license catalog and project hierarchy maintained through
// the API. Satisfied by *database.Store.
type Catalog interface {
	AddCategory(ctx context.Context, name string, sortOrder int) (int64, error)
	ListCategories(ctx context.Context) ([]database.Category, error)
	AddLicense(ctx context.Context, name string, categoryID int64) (int64, error)
	ListLicenses(ctx context.Context) ([]database.License, error)
	AddConversion(ctx context.Context, oldText, newLicense string) (int64, error)
	ListConversions(ctx context.Context) ([]database.Conversion, error)
	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
	AddProject(ctx context.Context, name, fullName string) (int64, error)
	AddSubproject(ctx context.Context, projectID int64, name, fullName string) (int64, error)
	AddScan(ctx context.Context, scan database.Scan) (int64, error)
}

var _ Repository = (*database.Store)(nil)

// ImportPhase indicates the stage an import reached.
type ImportPhase string

const (
	PhaseReading    ImportPhase = "reading"
	PhaseParsing    ImportPhase = "parsing"
	PhaseValidating ImportPhase = "validating"
	PhaseInserting  ImportPhase = "inserting"
	PhaseComplete   ImportPhase = "complete"
	PhaseFailed     ImportPhase = "failed"
)

// ImportResult is the outcome of one document import.
//
// On success Imported holds the number of stored rows. When validation
// fails UnknownLicenses and DuplicatePaths list every problem found, sorted
// and de-duplicated, and nothing has been written.
type ImportResult struct {
	ImportID        string        `json:"importId"`
	ScanID          int64         `json:"scanId"`
	FileName        string        `json:"fileName,omitempty"`
	Phase           ImportPhase   `json:"phase"`
	Records         int           `json:"records"`
	Imported        int           `json:"imported"`
	DocumentHash    string        `json:"documentHash,omitempty"`
	UnknownLicenses []string      `json:"unknownLicenses,omitempty"`
	DuplicatePaths  []string      `json:"duplicatePaths,omitempty"`
	Duration        time.Duration `json:"duration"`
	Error           string        `json:"error,omitempty"`
}

// OK reports whether the import completed.
func (r *ImportResult) OK() bool {
	return r.Phase == PhaseComplete
}
