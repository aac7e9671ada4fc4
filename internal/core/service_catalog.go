package core

import (
	"context"
	"strings"
	"time"

	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/logging"
)

// ============================================================================
// Catalog
// ============================================================================

// AddCategory creates a report category.
func (s *Service) AddCategory(ctx context.Context, name string, sortOrder int) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalidInput("category name is required")
	}
	id, err := s.store.AddCategory(ctx, name, sortOrder)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("category added", "category_id", id, "name", name)
	return id, nil
}

// ListCategories returns categories in report order.
func (s *Service) ListCategories(ctx context.Context) ([]database.Category, error) {
	return s.store.ListCategories(ctx)
}

// AddLicense adds a license name to the catalog.
func (s *Service) AddLicense(ctx context.Context, name string, categoryID int64) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalidInput("license name is required")
	}
	if categoryID <= 0 {
		return 0, invalidInput("category id is required")
	}
	id, err := s.store.AddLicense(ctx, name, categoryID)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("license added", "license_id", id, "name", name)
	return id, nil
}

// ListLicenses returns the catalog ordered by name.
func (s *Service) ListLicenses(ctx context.Context) ([]database.License, error) {
	return s.store.ListLicenses(ctx)
}

// AddConversion maps a raw license string to a catalog license.
// The old text is kept verbatim; an empty old text maps files that declared
// no license at all.
func (s *Service) AddConversion(ctx context.Context, oldText, newLicense string) (int64, error) {
	newLicense = strings.TrimSpace(newLicense)
	if newLicense == "" {
		return 0, invalidInput("target license is required")
	}
	if oldText == newLicense {
		return 0, invalidInput("conversion of %q to itself", oldText)
	}
	id, err := s.store.AddConversion(ctx, oldText, newLicense)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).Info("conversion added", "conversion_id", id, "from", oldText, "to", newLicense)
	return id, nil
}

// ListConversions returns every conversion.
func (s *Service) ListConversions(ctx context.Context) ([]database.Conversion, error) {
	return s.store.ListConversions(ctx)
}

// ============================================================================
// Config
// ============================================================================

// GetConfig returns a stored config value, or "" when unset.
func (s *Service) GetConfig(ctx context.Context, key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", invalidInput("config key is required")
	}
	return s.store.GetConfig(ctx, key)
}

// SetConfig stores a config value.
func (s *Service) SetConfig(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return invalidInput("config key is required")
	}
	if err := s.store.SetConfig(ctx, key, value); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("config updated", "key", key, "value", value)
	return nil
}

// ============================================================================
// Projects and scans
// ============================================================================

// AddProject creates a project.
func (s *Service) AddProject(ctx context.Context, name, fullName string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalidInput("project name is required")
	}
	return s.store.AddProject(ctx, name, strings.TrimSpace(fullName))
}

// AddSubproject creates a subproject under projectID.
func (s *Service) AddSubproject(ctx context.Context, projectID int64, name, fullName string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalidInput("subproject name is required")
	}
	return s.store.AddSubproject(ctx, projectID, name, strings.TrimSpace(fullName))
}

// AddScan creates an empty scan under subprojectID. A zero scanDate means now.
func (s *Service) AddScan(ctx context.Context, subprojectID int64, scanDate time.Time, description string) (int64, error) {
	if scanDate.IsZero() {
		scanDate = time.Now().UTC()
	}
	return s.store.AddScan(ctx, database.Scan{
		SubprojectID: subprojectID,
		ScanDate:     scanDate,
		Description:  strings.TrimSpace(description),
	})
}
