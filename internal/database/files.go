package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// fileCopyColumns lists the files columns in the order copyFileRow returns them.
var fileCopyColumns = []string{"scan_id", "path", "license_id", "sha1", "md5", "sha256"}

// BulkInsertFiles writes every row under scanID using a single COPY inside
// one transaction. Either all rows are stored or none are.
func (s *Store) BulkInsertFiles(ctx context.Context, scanID int64, rows []FileRow) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"files"},
		fileCopyColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			return copyFileRow(scanID, rows[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy files for scan %d: %w", scanID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit files for scan %d: %w", scanID, err)
	}
	return n, nil
}

func copyFileRow(scanID int64, row FileRow) []any {
	return []any{scanID, row.Path, row.LicenseID, row.SHA1, row.MD5, row.SHA256}
}

// ListScanFiles returns every file stored for a scan, ordered by path.
func (s *Store) ListScanFiles(ctx context.Context, scanID int64) ([]ScanFile, error) {
	rows, err := s.db.Query(ctx, `
		SELECT f.id, f.path, l.name, c.name, f.sha1, f.md5, f.sha256
		FROM files f
		JOIN licenses l ON l.id = f.license_id
		JOIN categories c ON c.id = l.category_id
		WHERE f.scan_id = $1
		ORDER BY f.path`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list files for scan %d: %w", scanID, err)
	}
	defer rows.Close()

	var result []ScanFile
	for rows.Next() {
		var f ScanFile
		var sha1, md5, sha256 pgtype.Text
		if err := rows.Scan(&f.ID, &f.Path, &f.License, &f.Category, &sha1, &md5, &sha256); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		f.SHA1, f.MD5, f.SHA256 = sha1.String, md5.String, sha256.String
		result = append(result, f)
	}
	return result, rows.Err()
}
