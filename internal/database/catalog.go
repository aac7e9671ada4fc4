package database

import (
	"context"
	"fmt"
)

// AddCategory creates a license category and returns its ID.
func (s *Store) AddCategory(ctx context.Context, name string, sortOrder int) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name, sort_order) VALUES ($1, $2) RETURNING id`,
		name, sortOrder).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add category %s: %w", name, err)
	}
	return id, nil
}

// ListCategories returns all categories in report order.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, sort_order FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// AddLicense adds a license to the catalog under categoryID and returns its ID.
func (s *Store) AddLicense(ctx context.Context, name string, categoryID int64) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO licenses (name, category_id) VALUES ($1, $2) RETURNING id`,
		name, categoryID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add license %s: %w", name, err)
	}
	s.licenseIDs.Add(name, id)
	return id, nil
}

// ListLicenses returns every catalog license with its category name.
func (s *Store) ListLicenses(ctx context.Context) ([]License, error) {
	rows, err := s.db.Query(ctx, `
		SELECT l.id, l.name, l.category_id, c.name
		FROM licenses l JOIN categories c ON c.id = l.category_id
		ORDER BY l.name`)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var result []License
	for rows.Next() {
		var l License
		if err := rows.Scan(&l.ID, &l.Name, &l.CategoryID, &l.Category); err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// ResolveLicenseIDs looks up catalog IDs for names in one query.
// Names that are not in the catalog are absent from the returned map.
func (s *Store) ResolveLicenseIDs(ctx context.Context, names []string) (map[string]int64, error) {
	result := make(map[string]int64, len(names))

	var missing []string
	for _, name := range names {
		if id, ok := s.licenseIDs.Get(name); ok {
			result[name] = id
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return result, nil
	}

	rows, err := s.db.Query(ctx, `SELECT name, id FROM licenses WHERE name = ANY($1)`, missing)
	if err != nil {
		return nil, fmt.Errorf("resolve licenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var id int64
		if err := rows.Scan(&name, &id); err != nil {
			return nil, fmt.Errorf("scan license id: %w", err)
		}
		result[name] = id
		s.licenseIDs.Add(name, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("resolve licenses: %w", err)
	}
	return result, nil
}

// AddConversion maps oldText to an existing catalog license.
func (s *Store) AddConversion(ctx context.Context, oldText, newLicense string) (int64, error) {
	ids, err := s.ResolveLicenseIDs(ctx, []string{newLicense})
	if err != nil {
		return 0, err
	}
	if _, ok := ids[newLicense]; !ok {
		return 0, fmt.Errorf("add conversion %q -> %q: %w", oldText, newLicense, ErrUnknownLicense)
	}

	var id int64
	err = s.db.QueryRow(ctx,
		`INSERT INTO conversions (old_text, new_license) VALUES ($1, $2) RETURNING id`,
		oldText, newLicense).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add conversion %q: %w", oldText, err)
	}
	return id, nil
}

// ListConversions returns every conversion mapping.
func (s *Store) ListConversions(ctx context.Context) ([]Conversion, error) {
	rows, err := s.db.Query(ctx, `SELECT id, old_text, new_license FROM conversions ORDER BY old_text`)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var result []Conversion
	for rows.Next() {
		var c Conversion
		if err := rows.Scan(&c.ID, &c.OldText, &c.NewLicense); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
