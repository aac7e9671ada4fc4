package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/licscan/internal/config"
	"github.com/JonMunkholm/licscan/internal/logging"
	"github.com/JonMunkholm/licscan/internal/spdx"
)

// Service runs document imports and serves catalog and report queries.
type Service struct {
	store   Repository
	limiter *ImportLimiter

	maxFileSize int64
	timeout     time.Duration
}

// NewService creates a Service backed by store.
func NewService(store Repository, cfg config.ImportConfig) *Service {
	return &Service{
		store:       store,
		limiter:     NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		maxFileSize: cfg.MaxFileSize,
		timeout:     cfg.Timeout,
	}
}

// MaxFileSize returns the largest document ImportDocument accepts.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ImportDocument reads an SPDX tag-value document from src and imports its
// file records into scanID.
//
// The returned result is never nil. On a validation failure it lists every
// unknown license and duplicate path, and the error matches
// ErrValidationFailed. Nothing is written unless the whole document is valid.
func (s *Service) ImportDocument(ctx context.Context, scanID int64, fileName string, src io.Reader) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{
		ImportID: uuid.NewString(),
		ScanID:   scanID,
		FileName: fileName,
		Phase:    PhaseReading,
	}

	log := logging.WithFields(ctx, "import_id", result.ImportID, "scan_id", scanID, "file", fileName)
	if ip, ua := ClientFromContext(ctx); ip != "" {
		log = log.With("client_ip", ip, "user_agent", ua)
	}

	fail := func(err error) (*ImportResult, error) {
		log.Warn("import failed", "phase", result.Phase, "error", err)
		result.Phase = PhaseFailed
		result.Error = FormatUserError(err)
		result.Duration = time.Since(start)
		return result, err
	}

	release, err := s.limiter.Acquire(ctx, scanID)
	if err != nil {
		return fail(err)
	}
	defer release()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.checkScanEmpty(ctx, scanID); err != nil {
		return fail(err)
	}
	log.Info("import started")

	doc, raw := wrapDocument(src, s.maxFileSize)
	pairs, err := spdx.ReadAll(doc)
	if err != nil {
		return fail(err)
	}
	result.DocumentHash = raw.Hash()
	log.Debug("document read", "bytes", raw.BytesRead(), "pairs", len(pairs))

	result.Phase = PhaseParsing
	records, err := spdx.ParseAll(pairs)
	if err != nil {
		return fail(err)
	}
	result.Records = len(records)
	if len(records) == 0 {
		return fail(ErrEmptyDocument)
	}
	s.warnIfSeen(ctx, log, scanID, result.DocumentHash)

	result.Phase = PhaseValidating
	im := NewImporter()
	ok, err := im.CheckRecords(ctx, records, s.store)
	if err != nil {
		return fail(err)
	}
	if !ok {
		result.UnknownLicenses = im.UnknownLicenses()
		result.DuplicatePaths = im.DuplicatePaths()
		return fail(&ValidationError{
			UnknownLicenses: result.UnknownLicenses,
			DuplicatePaths:  result.DuplicatePaths,
		})
	}

	result.Phase = PhaseInserting
	if err := im.ImportRecords(ctx, records, s.store, scanID); err != nil {
		return fail(err)
	}
	result.Imported = im.Imported()

	if err := s.store.SetScanDocumentHash(ctx, scanID, result.DocumentHash); err != nil {
		log.Warn("failed to record document hash", "error", err)
	}

	result.Phase = PhaseComplete
	result.Duration = time.Since(start)
	log.Info("import complete",
		"records", result.Records,
		"imported", result.Imported,
		"duration", result.Duration,
	)
	return result, nil
}

// checkScanEmpty verifies the scan exists and has no files yet.
func (s *Service) checkScanEmpty(ctx context.Context, scanID int64) error {
	if _, err := s.store.GetScan(ctx, scanID); err != nil {
		return fmt.Errorf("scan %d: %w", scanID, err)
	}
	n, err := s.store.CountScanFiles(ctx, scanID)
	if err != nil {
		return fmt.Errorf("count files of scan %d: %w", scanID, err)
	}
	if n > 0 {
		return fmt.Errorf("%w: scan %d has %d files", ErrScanAlreadyImported, scanID, n)
	}
	return nil
}

// warnIfSeen logs when identical document bytes were already imported into
// another scan. It never fails the import.
func (s *Service) warnIfSeen(ctx context.Context, log *slog.Logger, scanID int64, hash string) {
	other, found, err := s.store.FindScanByDocumentHash(ctx, hash)
	switch {
	case err != nil:
		log.Warn("document hash lookup failed", "error", err)
	case found && other != scanID:
		log.Warn("document already imported into another scan", "other_scan_id", other)
	}
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	if err := s.limiter.WaitForDrain(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%d imports still running: %w", s.limiter.ActiveCount(), err)
		}
		return err
	}
	return nil
}
