package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/licscan/internal/database"
	"github.com/JonMunkholm/licscan/internal/spdx"
)

func newRecords(pairs ...[2]string) []*spdx.Record {
	records := make([]*spdx.Record, len(pairs))
	for i, p := range pairs {
		rec := spdx.NewRecord(p[0])
		rec.SetLicense(p[1])
		records[i] = rec
	}
	return records
}

// ============================================================================
// CheckRecords
// ============================================================================

func TestCheckRecords_ReportsDuplicatesAndUnknownTogether(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "", map[string]int64{})

	records := newRecords([2]string{"/a", "X"}, [2]string{"/a", "Y"})
	im := NewImporter()

	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"/a"}, im.DuplicatePaths())
	assert.Equal(t, []string{"X", "Y"}, im.UnknownLicenses())
	store.AssertNotCalled(t, "BulkInsertFiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckRecords_ConversionResolves(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(
		[]database.Conversion{{OldText: "X", NewLicense: "MIT"}},
		"",
		map[string]int64{"MIT": 1},
	)

	records := newRecords([2]string{"/src/main.go", "X"})
	im := NewImporter()

	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "X", records[0].License)
	assert.Equal(t, "MIT", records[0].FinalLicense)
	assert.Empty(t, im.UnknownLicenses())
	assert.Empty(t, im.DuplicatePaths())
	store.AssertCalled(t, "ResolveLicenseIDs", mock.Anything, []string{"MIT"})
}

func TestCheckRecords_ResolvesDistinctLicensesOnce(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "", map[string]int64{"MIT": 1, "Apache-2.0": 2})

	records := newRecords(
		[2]string{"/a", "MIT"},
		[2]string{"/b", "Apache-2.0"},
		[2]string{"/c", "MIT"},
	)

	ok, err := NewImporter().CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	assert.True(t, ok)
	store.AssertNumberOfCalls(t, "ListConversions", 1)
	store.AssertNumberOfCalls(t, "ResolveLicenseIDs", 1)
	store.AssertCalled(t, "ResolveLicenseIDs", mock.Anything, []string{"Apache-2.0", "MIT"})
}

func TestCheckRecords_EmptyLicenseIsUnknownUnlessConverted(t *testing.T) {
	t.Run("no conversion", func(t *testing.T) {
		store := new(MockStore)
		store.expectLookups(nil, "", map[string]int64{"MIT": 1})

		im := NewImporter()
		ok, err := im.CheckRecords(context.Background(), newRecords([2]string{"/a", ""}), store)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, []string{""}, im.UnknownLicenses())
	})

	t.Run("converted", func(t *testing.T) {
		store := new(MockStore)
		store.expectLookups(
			[]database.Conversion{{OldText: "", NewLicense: "NOASSERTION"}},
			"",
			map[string]int64{"NOASSERTION": 4},
		)

		ok, err := NewImporter().CheckRecords(context.Background(), newRecords([2]string{"/a", ""}), store)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestCheckRecords_PathPrefixStrip(t *testing.T) {
	tests := []struct {
		name  string
		strip string
		paths []string
		want  []string
	}{
		{"disabled", "", []string{"/proj/a.txt", "/proj/b.txt"}, []string{"/proj/a.txt", "/proj/b.txt"}},
		{"common absolute dir", "yes", []string{"/proj/a.txt", "/proj/b.txt"}, []string{"a.txt", "b.txt"}},
		{"nested common dir", "true", []string{"/p/src/a.go", "/p/src/x/b.go"}, []string{"a.go", "x/b.go"}},
		{"partial component not stripped", "1", []string{"/proj1/a", "/proj2/b"}, []string{"/proj1/a", "/proj2/b"}},
		{"root only", "on", []string{"/a.txt", "/b/c.txt"}, []string{"/a.txt", "/b/c.txt"}},
		{"mixed absolute and relative", "yes", []string{"a.txt", "/b.txt"}, []string{"a.txt", "/b.txt"}},
		{"relative common dir", "yes", []string{"src/a", "src/b"}, []string{"a", "b"}},
		{"flag off", "no", []string{"/proj/a.txt", "/proj/b.txt"}, []string{"/proj/a.txt", "/proj/b.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockStore)
			store.expectLookups(nil, tt.strip, map[string]int64{"MIT": 1})

			records := make([]*spdx.Record, len(tt.paths))
			for i, p := range tt.paths {
				records[i] = spdx.NewRecord(p)
				records[i].SetLicense("MIT")
			}

			ok, err := NewImporter().CheckRecords(context.Background(), records, store)
			require.NoError(t, err)
			assert.True(t, ok)

			for i, rec := range records {
				assert.Equal(t, tt.paths[i], rec.Path, "original path must not change")
				assert.Equal(t, tt.want[i], rec.FinalPath)
			}
		})
	}
}

func TestCheckRecords_DuplicatesUseOriginalPath(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "yes", map[string]int64{"MIT": 1})

	// Stripping is on; duplicates are still reported by original path.
	records := newRecords(
		[2]string{"/proj/a", "MIT"},
		[2]string{"/proj/b", "MIT"},
		[2]string{"/proj/a", "MIT"},
		[2]string{"/proj/b", "MIT"},
		[2]string{"/proj/c", "MIT"},
	)

	im := NewImporter()
	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"/proj/a", "/proj/b"}, im.DuplicatePaths())
}

func TestCheckRecords_StoreErrors(t *testing.T) {
	boom := errors.New("connection reset by peer")

	t.Run("conversions", func(t *testing.T) {
		store := new(MockStore)
		store.On("ListConversions", mock.Anything).Return(nil, boom)

		_, err := NewImporter().CheckRecords(context.Background(), newRecords([2]string{"/a", "MIT"}), store)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("resolve", func(t *testing.T) {
		store := new(MockStore)
		store.On("ListConversions", mock.Anything).Return(nil, nil)
		store.On("GetConfig", mock.Anything, ConfigStripPaths).Return("", nil)
		store.On("ResolveLicenseIDs", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := NewImporter().CheckRecords(context.Background(), newRecords([2]string{"/a", "MIT"}), store)
		assert.ErrorIs(t, err, boom)
	})
}

// ============================================================================
// ImportRecords
// ============================================================================

func TestImportRecords_WithoutCheckFails(t *testing.T) {
	store := new(MockStore)

	im := NewImporter()
	err := im.ImportRecords(context.Background(), newRecords([2]string{"/a", "MIT"}), store, 1)

	assert.ErrorIs(t, err, ErrNotChecked)
	assert.Zero(t, im.Imported())
	store.AssertNotCalled(t, "BulkInsertFiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportRecords_AfterFailedCheckFails(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "", map[string]int64{})

	records := newRecords([2]string{"/a", "Unknown"})
	im := NewImporter()
	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	require.False(t, ok)

	err = im.ImportRecords(context.Background(), records, store, 1)
	assert.ErrorIs(t, err, ErrNotChecked)
	store.AssertNotCalled(t, "BulkInsertFiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportRecords_SingleBulkWrite(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(
		[]database.Conversion{{OldText: "X", NewLicense: "MIT"}},
		"yes",
		map[string]int64{"MIT": 1, "BSD-3-Clause": 2},
	)

	records := newRecords(
		[2]string{"/proj/a.go", "X"},
		[2]string{"/proj/b.go", "BSD-3-Clause"},
	)
	records[0].SHA1 = "da39a3ee5e6b4b0d3255bfef95601890afd80709"
	records[0].MD5 = "d41d8cd98f00b204e9800998ecf8427e"

	wantRows := []database.FileRow{
		{
			Path:      "a.go",
			LicenseID: 1,
			SHA1:      ToPgText("da39a3ee5e6b4b0d3255bfef95601890afd80709"),
			MD5:       ToPgText("d41d8cd98f00b204e9800998ecf8427e"),
		},
		{Path: "b.go", LicenseID: 2},
	}
	store.On("BulkInsertFiles", mock.Anything, int64(42), wantRows).Return(int64(2), nil).Once()

	im := NewImporter()
	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, im.ImportRecords(context.Background(), records, store, 42))
	assert.Equal(t, 2, im.Imported())
	assert.Equal(t, int64(42), im.ScanID())
	store.AssertNumberOfCalls(t, "BulkInsertFiles", 1)

	// One import per successful check.
	err = im.ImportRecords(context.Background(), records, store, 42)
	assert.ErrorIs(t, err, ErrNotChecked)
	store.AssertNumberOfCalls(t, "BulkInsertFiles", 1)
}

func TestImportRecords_RecordsChangedSinceCheck(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "", map[string]int64{"MIT": 1})

	records := newRecords([2]string{"/a", "MIT"})
	im := NewImporter()
	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	require.True(t, ok)

	more := append(records, newRecords([2]string{"/b", "GPL-2.0"})...)
	err = im.ImportRecords(context.Background(), more, store, 1)
	assert.ErrorIs(t, err, ErrNotChecked)
	store.AssertNotCalled(t, "BulkInsertFiles", mock.Anything, mock.Anything, mock.Anything)
}

func TestImportRecords_StoreFailure(t *testing.T) {
	store := new(MockStore)
	store.expectLookups(nil, "", map[string]int64{"MIT": 1})
	store.On("BulkInsertFiles", mock.Anything, int64(3), mock.Anything).
		Return(int64(0), errors.New("ERROR: deadlock detected"))

	records := newRecords([2]string{"/a", "MIT"})
	im := NewImporter()
	ok, err := im.CheckRecords(context.Background(), records, store)
	require.NoError(t, err)
	require.True(t, ok)

	err = im.ImportRecords(context.Background(), records, store, 3)
	require.Error(t, err)
	assert.Equal(t, "DB007", MapError(err).Code)
	assert.Zero(t, im.Imported())
}

// ============================================================================
// Helpers
// ============================================================================

func TestCommonPathPrefix(t *testing.T) {
	tests := []struct {
		paths []string
		want  string
	}{
		{nil, ""},
		{[]string{"/proj/a.txt"}, "/proj"},
		{[]string{"/proj/a.txt", "/proj/b.txt"}, "/proj"},
		{[]string{"/proj/sub/a", "/proj/sub/b", "/proj/c"}, "/proj"},
		{[]string{"/a", "/b"}, ""},
		{[]string{"a.txt", "b.txt"}, ""},
		{[]string{"a.txt", "/b.txt"}, ""},
		{[]string{"x/y/a", "x/y/b"}, "x/y"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, commonPathPrefix(tt.paths), "commonPathPrefix(%q)", tt.paths)
	}
}

func TestConfigEnabled(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "Y", "on", " on "} {
		assert.True(t, configEnabled(v), "configEnabled(%q)", v)
	}
	for _, v := range []string{"", "0", "false", "no", "off", "maybe"} {
		assert.False(t, configEnabled(v), "configEnabled(%q)", v)
	}
}
