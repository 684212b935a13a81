// Package store persists dashboard layouts.
//
// It is split into two layers. [Backend] is a minimal durable key/value
// interface with in-memory, file, Redis, and MongoDB implementations.
// [LayoutStore] sits on top and owns the layout-specific policy: desktop
// layouts are validated against the reference layout before they are
// trusted in either direction, and mobile layouts are never persisted at
// all. Malformed or invalid stored data is treated as absent, never as an
// error.
package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/observability"
)

// DesktopKey is the fixed storage key for the desktop layout.
const DesktopKey = "desktop-layout"

// Backend is durable key/value storage. Get reports (nil, false, nil) for
// an absent key; errors are reserved for backend failures.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutStore reads and writes layout snapshots scoped by breakpoint.
// It never mutates a snapshot it is given.
type LayoutStore struct {
	backend Backend
	desktop grid.Snapshot // reference desktop layout
	mobile  grid.Snapshot // fixed mobile layout
	logger  *log.Logger
}

// NewLayoutStore creates a layout store over the given backend. The desktop
// reference layout is used both as the validation reference and as the
// source of re-derived constraints; if mobile is nil it is derived from the
// desktop reference with [grid.SingleColumn]. A nil logger falls back to
// log.Default().
func NewLayoutStore(b Backend, desktop, mobile grid.Snapshot, logger *log.Logger) *LayoutStore {
	if mobile == nil {
		mobile = grid.SingleColumn(desktop)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LayoutStore{
		backend: b,
		desktop: desktop.Clone(),
		mobile:  mobile.Clone(),
		logger:  logger,
	}
}

// Reference returns the reference (default) layout for a breakpoint.
func (s *LayoutStore) Reference(bp grid.Breakpoint) grid.Snapshot {
	if bp == grid.Mobile {
		return s.mobile.Clone()
	}
	return s.desktop.Clone()
}

// Load returns the saved snapshot for a breakpoint and whether one exists.
// Mobile never reads durable storage: mobile layouts are single-column and
// recomputed, not user-customized. For desktop, an absent key, malformed
// JSON, or a snapshot failing validation all report (nil, false, nil) with
// a diagnostic log; only backend failures surface as errors. Constraints
// are re-derived from the reference layout on every load.
func (s *LayoutStore) Load(ctx context.Context, bp grid.Breakpoint) (grid.Snapshot, bool, error) {
	if bp == grid.Mobile {
		return nil, false, nil
	}

	start := time.Now()
	data, ok, err := s.backend.Get(ctx, DesktopKey)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		observability.Store().OnLoad(bp.String(), false, time.Since(start))
		return nil, false, nil
	}

	snap, err := grid.UnmarshalPlacements(data)
	if err != nil {
		s.logger.Debug("discarding malformed saved layout", "key", DesktopKey, "err", err)
		observability.Store().OnDiscard(bp.String(), "malformed")
		observability.Store().OnLoad(bp.String(), false, time.Since(start))
		return nil, false, nil
	}
	snap = grid.Rehydrate(snap, s.desktop)
	if err := grid.Validate(snap, s.desktop); err != nil {
		s.logger.Debug("discarding invalid saved layout", "key", DesktopKey, "err", err)
		observability.Store().OnDiscard(bp.String(), "invalid")
		observability.Store().OnLoad(bp.String(), false, time.Since(start))
		return nil, false, nil
	}
	observability.Store().OnLoad(bp.String(), true, time.Since(start))
	return snap, true, nil
}

// Save persists a desktop snapshot if it validates against the reference
// layout, and silently does nothing otherwise. Mobile saves are no-ops.
// Only backend failures surface as errors.
func (s *LayoutStore) Save(ctx context.Context, bp grid.Breakpoint, snap grid.Snapshot) error {
	if bp == grid.Mobile {
		return nil
	}
	if err := grid.Validate(snap, s.desktop); err != nil {
		s.logger.Debug("refusing to save invalid layout", "key", DesktopKey, "err", err)
		return nil
	}

	data, err := grid.MarshalPlacements(snap)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.backend.Set(ctx, DesktopKey, data); err != nil {
		return err
	}
	observability.Store().OnSave(bp.String(), len(data), time.Since(start))
	return nil
}

// Clear deletes the saved layout for a breakpoint.
func (s *LayoutStore) Clear(ctx context.Context, bp grid.Breakpoint) error {
	if bp == grid.Mobile {
		return nil
	}
	return s.backend.Delete(ctx, DesktopKey)
}
