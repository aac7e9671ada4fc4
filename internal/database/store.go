// Package database is the PostgreSQL storage layer: the license catalog,
// conversions, configuration, projects, scans and per-file results.
package database

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultLicenseCacheSize is used when NewStore is given a non-positive cache size.
const DefaultLicenseCacheSize = 1024

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnknownLicense is returned when an operation references a license
// name that is not in the catalog.
var ErrUnknownLicense = errors.New("unknown license")

// DBTX is the interface for database operations.
// Satisfied by *pgxpool.Pool.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

var _ DBTX = (*pgxpool.Pool)(nil)

// Store provides every query the application runs.
type Store struct {
	db DBTX

	// licenseIDs caches catalog hits (name -> id). Misses are never cached,
	// so a license added to the catalog is visible to the next lookup.
	licenseIDs *lru.Cache[string, int64]
}

// NewStore wraps db. cacheSize bounds the license ID cache.
func NewStore(db DBTX, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultLicenseCacheSize
	}
	cache, err := lru.New[string, int64](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create license cache: %w", err)
	}
	return &Store{db: db, licenseIDs: cache}, nil
}

// ============================================================================
// Configuration
// ============================================================================

// GetConfig returns the value stored for key, or "" if the key is unset.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

// SetConfig stores value under key, replacing any existing value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO config (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// ============================================================================
// Projects and scans
// ============================================================================

// AddProject creates a project and returns its ID.
func (s *Store) AddProject(ctx context.Context, name, fullName string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO projects (name, full_name) VALUES ($1, $2) RETURNING id`,
		name, fullName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add project %s: %w", name, err)
	}
	return id, nil
}

// AddSubproject creates a subproject under projectID and returns its ID.
func (s *Store) AddSubproject(ctx context.Context, projectID int64, name, fullName string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO subprojects (project_id, name, full_name) VALUES ($1, $2, $3) RETURNING id`,
		projectID, name, fullName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add subproject %s: %w", name, err)
	}
	return id, nil
}

// AddScan creates an empty scan and returns its ID.
func (s *Store) AddScan(ctx context.Context, scan Scan) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO scans (subproject_id, scan_date, description) VALUES ($1, $2, $3) RETURNING id`,
		scan.SubprojectID, scan.ScanDate, scan.Description).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add scan: %w", err)
	}
	return id, nil
}

// GetScan returns the scan with the given ID, or ErrNotFound.
func (s *Store) GetScan(ctx context.Context, scanID int64) (Scan, error) {
	var scan Scan
	var hash *string
	err := s.db.QueryRow(ctx,
		`SELECT id, subproject_id, scan_date, description, document_hash FROM scans WHERE id = $1`,
		scanID).Scan(&scan.ID, &scan.SubprojectID, &scan.ScanDate, &scan.Description, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Scan{}, fmt.Errorf("scan %d: %w", scanID, ErrNotFound)
	}
	if err != nil {
		return Scan{}, fmt.Errorf("get scan %d: %w", scanID, err)
	}
	if hash != nil {
		scan.DocumentHash = *hash
	}
	return scan, nil
}

// SetScanDocumentHash records the fingerprint of the document imported into a scan.
func (s *Store) SetScanDocumentHash(ctx context.Context, scanID int64, hash string) error {
	_, err := s.db.Exec(ctx, `UPDATE scans SET document_hash = $2 WHERE id = $1`, scanID, hash)
	if err != nil {
		return fmt.Errorf("set document hash for scan %d: %w", scanID, err)
	}
	return nil
}

// FindScanByDocumentHash returns the ID of the earliest scan whose document
// has the given fingerprint. The boolean is false when no scan matches.
func (s *Store) FindScanByDocumentHash(ctx context.Context, hash string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`SELECT id FROM scans WHERE document_hash = $1 ORDER BY id LIMIT 1`, hash).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find scan by document hash: %w", err)
	}
	return id, true, nil
}

// CountScanFiles returns how many file rows are stored for a scan.
func (s *Store) CountScanFiles(ctx context.Context, scanID int64) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM files WHERE scan_id = $1`, scanID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count files for scan %d: %w", scanID, err)
	}
	return n, nil
}
