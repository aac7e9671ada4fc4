package core

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/JonMunkholm/licscan/internal/database"
)

// MockStore is a Repository backed by testify/mock.
type MockStore struct {
	mock.Mock
}

var _ Repository = (*MockStore)(nil)

func (m *MockStore) ListConversions(ctx context.Context) ([]database.Conversion, error) {
	args := m.Called(ctx)
	conv, _ := args.Get(0).([]database.Conversion)
	return conv, args.Error(1)
}

func (m *MockStore) ResolveLicenseIDs(ctx context.Context, names []string) (map[string]int64, error) {
	args := m.Called(ctx, names)
	ids, _ := args.Get(0).(map[string]int64)
	return ids, args.Error(1)
}

func (m *MockStore) GetConfig(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockStore) SetConfig(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockStore) BulkInsertFiles(ctx context.Context, scanID int64, rows []database.FileRow) (int64, error) {
	args := m.Called(ctx, scanID, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) GetScan(ctx context.Context, scanID int64) (database.Scan, error) {
	args := m.Called(ctx, scanID)
	return args.Get(0).(database.Scan), args.Error(1)
}

func (m *MockStore) CountScanFiles(ctx context.Context, scanID int64) (int64, error) {
	args := m.Called(ctx, scanID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) SetScanDocumentHash(ctx context.Context, scanID int64, hash string) error {
	return m.Called(ctx, scanID, hash).Error(0)
}

func (m *MockStore) FindScanByDocumentHash(ctx context.Context, hash string) (int64, bool, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *MockStore) ListScanFiles(ctx context.Context, scanID int64) ([]database.ScanFile, error) {
	args := m.Called(ctx, scanID)
	files, _ := args.Get(0).([]database.ScanFile)
	return files, args.Error(1)
}

func (m *MockStore) AddCategory(ctx context.Context, name string, sortOrder int) (int64, error) {
	args := m.Called(ctx, name, sortOrder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListCategories(ctx context.Context) ([]database.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]database.Category)
	return cats, args.Error(1)
}

func (m *MockStore) AddLicense(ctx context.Context, name string, categoryID int64) (int64, error) {
	args := m.Called(ctx, name, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) ListLicenses(ctx context.Context) ([]database.License, error) {
	args := m.Called(ctx)
	lics, _ := args.Get(0).([]database.License)
	return lics, args.Error(1)
}

func (m *MockStore) AddConversion(ctx context.Context, oldText, newLicense string) (int64, error) {
	args := m.Called(ctx, oldText, newLicense)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) AddProject(ctx context.Context, name, fullName string) (int64, error) {
	args := m.Called(ctx, name, fullName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) AddSubproject(ctx context.Context, projectID int64, name, fullName string) (int64, error) {
	args := m.Called(ctx, projectID, name, fullName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) AddScan(ctx context.Context, scan database.Scan) (int64, error) {
	args := m.Called(ctx, scan)
	return args.Get(0).(int64), args.Error(1)
}

// expectLookups sets up the lookups CheckRecords performs.
func (m *MockStore) expectLookups(conversions []database.Conversion, strip string, ids map[string]int64) {
	m.On("ListConversions", mock.Anything).Return(conversions, nil)
	m.On("GetConfig", mock.Anything, ConfigStripPaths).Return(strip, nil)
	m.On("ResolveLicenseIDs", mock.Anything, mock.Anything).Return(ids, nil)
}
