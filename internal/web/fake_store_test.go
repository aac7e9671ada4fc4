package web

import (
	"context"
	"sort"
	"sync"

	"github.com/JonMunkholm/licscan/internal/core"
	"github.com/JonMunkholm/licscan/internal/database"
)

// memStore is an in-memory core.Repository for handler tests.
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	categories  []database.Category
	licenses    []database.License
	conversions []database.Conversion
	config      map[string]string
	scans       map[int64]database.Scan
	files       map[int64][]database.ScanFile
}

var _ core.Repository = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		config: make(map[string]string),
		scans:  make(map[int64]database.Scan),
		files:  make(map[int64][]database.ScanFile),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) ListConversions(ctx context.Context) ([]database.Conversion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.Conversion(nil), m.conversions...), nil
}

func (m *memStore) ResolveLicenseIDs(ctx context.Context, names []string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make(map[string]int64)
	for _, name := range names {
		for _, l := range m.licenses {
			if l.Name == name {
				ids[name] = l.ID
			}
		}
	}
	return ids, nil
}

func (m *memStore) GetConfig(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config[key], nil
}

func (m *memStore) SetConfig(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config[key] = value
	return nil
}

func (m *memStore) BulkInsertFiles(ctx context.Context, scanID int64, rows []database.FileRow) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range rows {
		f := database.ScanFile{ID: m.id(), Path: row.Path, SHA1: row.SHA1.String, MD5: row.MD5.String, SHA256: row.SHA256.String}
		for _, l := range m.licenses {
			if l.ID == row.LicenseID {
				f.License, f.Category = l.Name, l.Category
			}
		}
		m.files[scanID] = append(m.files[scanID], f)
	}
	return int64(len(rows)), nil
}

func (m *memStore) GetScan(ctx context.Context, scanID int64) (database.Scan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scan, ok := m.scans[scanID]
	if !ok {
		return database.Scan{}, database.ErrNotFound
	}
	return scan, nil
}

func (m *memStore) CountScanFiles(ctx context.Context, scanID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.files[scanID])), nil
}

func (m *memStore) SetScanDocumentHash(ctx context.Context, scanID int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	scan := m.scans[scanID]
	scan.DocumentHash = hash
	m.scans[scanID] = scan
	return nil
}

func (m *memStore) FindScanByDocumentHash(ctx context.Context, hash string) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, scan := range m.scans {
		if scan.DocumentHash == hash {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (m *memStore) ListScanFiles(ctx context.Context, scanID int64) ([]database.ScanFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := append([]database.ScanFile(nil), m.files[scanID]...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (m *memStore) AddCategory(ctx context.Context, name string, sortOrder int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := database.Category{ID: m.id(), Name: name, SortOrder: sortOrder}
	m.categories = append(m.categories, c)
	return c.ID, nil
}

func (m *memStore) ListCategories(ctx context.Context) ([]database.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]database.Category(nil), m.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (m *memStore) AddLicense(ctx context.Context, name string, categoryID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := database.License{ID: m.id(), Name: name, CategoryID: categoryID}
	for _, c := range m.categories {
		if c.ID == categoryID {
			l.Category = c.Name
		}
	}
	m.licenses = append(m.licenses, l)
	return l.ID, nil
}

func (m *memStore) ListLicenses(ctx context.Context) ([]database.License, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]database.License(nil), m.licenses...), nil
}

func (m *memStore) AddConversion(ctx context.Context, oldText, newLicense string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	known := false
	for _, l := range m.licenses {
		known = known || l.Name == newLicense
	}
	if !known {
		return 0, database.ErrUnknownLicense
	}
	c := database.Conversion{ID: m.id(), OldText: oldText, NewLicense: newLicense}
	m.conversions = append(m.conversions, c)
	return c.ID, nil
}

func (m *memStore) AddProject(ctx context.Context, name, fullName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id(), nil
}

func (m *memStore) AddSubproject(ctx context.Context, projectID int64, name, fullName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id(), nil
}

func (m *memStore) AddScan(ctx context.Context, scan database.Scan) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scan.ID = m.id()
	m.scans[scan.ID] = scan
	return scan.ID, nil
}
