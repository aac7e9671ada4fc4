package core

// import_limiter.go gates document imports.
//
// Each import claims its scan first, then one of a fixed number of slots.
// A scan can be claimed by a single import at a time; slots cap how many
// documents are read, checked, and copied into storage in parallel. The
// importer itself takes no locks, so every write to a scan passes through here.

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"
)

// ErrTooManyImports is returned when no import slot frees up in time.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

// ErrImportInProgress is returned when another import is already running for the same scan.
var ErrImportInProgress = errors.New("import in progress for this scan")

const (
	// DefaultMaxConcurrentImports applies when the configured slot count is not positive.
	DefaultMaxConcurrentImports = 2
	// DefaultMaxWaitTime applies when the configured slot wait is not positive.
	DefaultMaxWaitTime = 30 * time.Second

	drainPollInterval = 100 * time.Millisecond
)

// ImportLimiter hands out per-scan import slots.
type ImportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu    sync.Mutex
	scans map[int64]bool // true once the scan holds a slot
}

// NewImportLimiter returns a limiter with maxConcurrent slots. Callers wait at
// most maxWait for a slot.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &ImportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		scans:   make(map[int64]bool),
	}
}

// Acquire claims scanID and an import slot. The returned release func must
// be called once the import finishes.
//
// Errors: ErrImportInProgress when scanID is already claimed, ErrTooManyImports
// when no slot frees up within maxWait, or ctx's error if ctx ends first.
func (l *ImportLimiter) Acquire(ctx context.Context, scanID int64) (func(), error) {
	if !l.claim(scanID) {
		return nil, ErrImportInProgress
	}

	if err := l.waitSlot(ctx); err != nil {
		l.unclaim(scanID)
		return nil, err
	}

	l.mu.Lock()
	l.scans[scanID] = true
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.unclaim(scanID)
			<-l.slots
		})
	}, nil
}

func (l *ImportLimiter) claim(scanID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.scans[scanID]; busy {
		return false
	}
	l.scans[scanID] = false
	return true
}

func (l *ImportLimiter) unclaim(scanID int64) {
	l.mu.Lock()
	delete(l.scans, scanID)
	l.mu.Unlock()
}

func (l *ImportLimiter) waitSlot(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyImports
	}
}

// ActiveCount returns the number of imports holding a slot.
func (l *ImportLimiter) ActiveCount() int {
	return len(l.slots)
}

// WaitForDrain blocks until no import holds a slot or ctx is done.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// ImportLimiterStatus is a snapshot of slot usage.
type ImportLimiterStatus struct {
	Active        int     `json:"active"`
	Available     int     `json:"available"`
	MaxConcurrent int     `json:"maxConcurrent"`
	Scans         []int64 `json:"scans"` // scans currently importing, ascending
}

// Status reports slot usage and the scans currently importing.
func (l *ImportLimiter) Status() ImportLimiterStatus {
	l.mu.Lock()
	scans := make([]int64, 0, len(l.scans))
	for id, running := range l.scans {
		if running {
			scans = append(scans, id)
		}
	}
	l.mu.Unlock()
	slices.Sort(scans)

	active := len(l.slots)
	return ImportLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - active,
		MaxConcurrent: cap(l.slots),
		Scans:         scans,
	}
}
