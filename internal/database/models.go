package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Category groups licenses for reporting ("Permissive", "Copyleft", ...).
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sortOrder"`
}

// License is a catalog entry.
type License struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
	Category   string `json:"category"`
}

// Conversion maps a raw license string found in scans to a catalog license name.
type Conversion struct {
	ID         int64  `json:"id"`
	OldText    string `json:"oldText"`
	NewLicense string `json:"newLicense"`
}

// Project is the top-level grouping of subprojects.
type Project struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
}

// Subproject is one scanned codebase within a project.
type Subproject struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"projectId"`
	Name      string `json:"name"`
	FullName  string `json:"fullName"`
}

// Scan is one import batch; every file row belongs to exactly one scan.
type Scan struct {
	ID           int64     `json:"id"`
	SubprojectID int64     `json:"subprojectId"`
	ScanDate     time.Time `json:"scanDate"`
	Description  string    `json:"description"`
	DocumentHash string    `json:"documentHash,omitempty"`
}

// FileRow is one row of a bulk file insert.
// Invalid (NULL) checksums are stored as NULL.
type FileRow struct {
	Path      string
	LicenseID int64
	SHA1      pgtype.Text
	MD5       pgtype.Text
	SHA256    pgtype.Text
}

// ScanFile is a stored file joined with its license and category.
type ScanFile struct {
	ID       int64  `json:"id"`
	Path     string `json:"path"`
	License  string `json:"license"`
	Category string `json:"category"`
	SHA1     string `json:"sha1,omitempty"`
	MD5      string `json:"md5,omitempty"`
	SHA256   string `json:"sha256,omitempty"`
}
