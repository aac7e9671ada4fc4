package database

import (
	"context"
	"fmt"
)

// schema holds the DDL statements applied by Migrate, in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		sort_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS licenses (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		category_id BIGINT NOT NULL REFERENCES categories(id)
	)`,
	`CREATE TABLE IF NOT EXISTS conversions (
		id BIGSERIAL PRIMARY KEY,
		old_text TEXT NOT NULL UNIQUE,
		new_license TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS subprojects (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id),
		name TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS scans (
		id BIGSERIAL PRIMARY KEY,
		subproject_id BIGINT NOT NULL REFERENCES subprojects(id),
		scan_date DATE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		document_hash TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id BIGSERIAL PRIMARY KEY,
		scan_id BIGINT NOT NULL REFERENCES scans(id),
		path TEXT NOT NULL,
		license_id BIGINT NOT NULL REFERENCES licenses(id),
		sha1 TEXT,
		md5 TEXT,
		sha256 TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS files_scan_id_idx ON files (scan_id)`,
	`CREATE INDEX IF NOT EXISTS scans_document_hash_idx ON scans (document_hash)`,
}

// Migrate creates any missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeedConfig stores defaults for config keys that have no value yet.
// Existing values are left alone.
func (s *Store) SeedConfig(ctx context.Context, defaults map[string]string) error {
	for key, value := range defaults {
		_, err := s.db.Exec(ctx,
			`INSERT INTO config (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
			key, value)
		if err != nil {
			return fmt.Errorf("seed config %s: %w", key, err)
		}
	}
	return nil
}
