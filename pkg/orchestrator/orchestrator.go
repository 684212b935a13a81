// Package orchestrator owns the authoritative set of widget positions on a
// dashboard grid.
//
// The orchestrator sequences initialization, applies and validates layouts
// against an external grid-mechanics engine without visible jitter,
// persists user customizations on a debounced schedule, and reconciles
// layout state across desktop and mobile breakpoints. The engine holds a
// derived mirror of the layout that is authoritative only between
// transactions; the durable store holds a validated copy; the orchestrator
// alone mutates either.
//
// Lifecycle is explicit: create with [New], drive with
// [Orchestrator.Initialize] and [Orchestrator.OnBreakpointChange], and
// release with [Orchestrator.Close]. No failure in this package is fatal;
// everything degrades to the best known good layout.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridkit/pkg/engine"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/observability"
	"github.com/matzehuels/gridkit/pkg/store"
)

var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("orchestrator is closed")

	// ErrNotInitialized is returned by operations that need an active
	// layout before Initialize has run.
	ErrNotInitialized = errors.New("orchestrator is not initialized")

	// ErrInvalidLayoutFormat is returned by ImportLayout for unparsable or
	// empty input. The active layout is left untouched.
	ErrInvalidLayoutFormat = errors.New("invalid layout format")
)

// Orchestrator is the grid layout state machine. It is safe for concurrent
// use; a second Initialize or ImportLayout arriving while one is in flight
// waits and runs after it, never interleaved.
type Orchestrator struct {
	mu     sync.Mutex
	eng    engine.Engine
	store  *store.LayoutStore
	logger *log.Logger
	clock  Clock

	settleDelay  time.Duration
	saveDebounce time.Duration

	state  State
	phase  Phase
	bp     grid.Breakpoint
	source grid.Source
	active grid.Snapshot

	txnOpen bool
	closed  bool

	settleTimer Timer
	saveTimer   Timer
	unsubscribe func()

	// applying is set while the orchestrator itself is mutating the
	// engine, so the change subscription can drop the echoes of its own
	// writes without re-entering the lock.
	applying atomic.Bool
}

// New creates an orchestrator and subscribes to the engine's change stream.
// The grid starts hidden and static until the first Initialize.
func New(opts Options) (*Orchestrator, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}
	o := &Orchestrator{
		eng:          opts.Engine,
		store:        opts.Store,
		logger:       opts.Logger,
		clock:        opts.Clock,
		settleDelay:  opts.SettleDelay,
		saveDebounce: opts.SaveDebounce,
		state:        StateUninitialized,
		phase:        PhaseHidden,
	}
	o.unsubscribe = o.eng.Subscribe(o.onChanges)
	return o, nil
}

// Initialize resolves, applies, and verifies the layout for a breakpoint,
// then hands the grid to the visibility phase sequence. Calling it again
// from StateInteractive re-runs the whole sequence.
func (o *Orchestrator) Initialize(ctx context.Context, bp grid.Breakpoint) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	return o.initializeLocked(ctx, bp)
}

// OnBreakpointChange re-initializes with the new breakpoint's layout. No
// cross-breakpoint geometry is carried over. A pending persistence write
// for the old breakpoint is flushed first so the last customization is not
// lost. Unchanged breakpoints are a no-op.
func (o *Orchestrator) OnBreakpointChange(ctx context.Context, bp grid.Breakpoint) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if o.state != StateUninitialized && bp == o.bp {
		return nil
	}
	o.flushSaveLocked(ctx)
	return o.initializeLocked(ctx, bp)
}

// ExportLayout serializes the current snapshot as JSON placements in stable
// order, omitting constraints.
func (o *Orchestrator) ExportLayout() (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return "", ErrClosed
	}
	if o.state == StateUninitialized {
		return "", ErrNotInitialized
	}
	data, err := grid.MarshalPlacements(o.active)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportLayout parses serialized placements and applies them to the grid.
// Nodes absent from the current grid are ignored; current nodes missing
// from the text keep their geometry. Unlike Initialize, partial application
// is allowed. Malformed or empty text is rejected wholesale with
// [ErrInvalidLayoutFormat] and the active layout is unchanged.
func (o *Orchestrator) ImportLayout(ctx context.Context, text string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrClosed
	}
	if o.state == StateUninitialized {
		return ErrNotInitialized
	}

	imported, err := grid.UnmarshalPlacements([]byte(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLayoutFormat, err)
	}
	if len(imported) == 0 {
		return fmt.Errorf("%w: no widgets", ErrInvalidLayoutFormat)
	}

	// Match by ID and clamp against the active constraints so nothing
	// below minimum size ever reaches the engine.
	matched := make(grid.Snapshot, 0, len(imported))
	for _, in := range imported {
		cur, ok := o.active.ByID(in.ID)
		if !ok {
			continue
		}
		n := cur
		n.X, n.Y = in.X, in.Y
		n.W = max(in.W, cur.EffectiveMinW())
		n.H = max(in.H, cur.EffectiveMinH())
		matched = append(matched, n)
	}
	if len(matched) == 0 {
		o.logger.Debug("import matched no widgets on the current grid")
		return nil
	}
	matched.SortForApply()

	o.applying.Store(true)
	defer o.applying.Store(false)

	// Imports are partial: nodes missing from the text keep their
	// geometry, so nothing is stale.
	if err := o.applyLocked(matched, nil); err != nil {
		return err
	}
	if drift := o.verifyLocked(matched); drift {
		o.eng.Compact()
		observability.Layout().OnCompact(o.bp.String())
	}
	o.refreshLocked()
	o.source = grid.SourceRuntime
	o.scheduleSaveLocked()

	o.logger.Info("imported layout", "widgets", len(matched), "ignored", len(imported)-len(matched))
	return nil
}

// Phase reports the visual phase, for UI affordances such as disabling
// controls until the grid is interactive.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// State reports the lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Breakpoint reports the active breakpoint.
func (o *Orchestrator) Breakpoint() grid.Breakpoint {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.bp
}

// Source reports where the active layout came from.
func (o *Orchestrator) Source() grid.Source {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.source
}

// Snapshot returns a copy of the active layout.
func (o *Orchestrator) Snapshot() grid.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active.Clone()
}

// Close cancels pending timers and detaches from the engine. A pending
// debounced persistence write is dropped, not flushed: teardown must never
// produce a partial write.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	o.cancelTimersLocked()
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
	return nil
}

// =============================================================================
// State machine internals
// =============================================================================

// setStateLocked records a lifecycle transition. Callers must hold o.mu.
func (o *Orchestrator) setStateLocked(s State) {
	o.state = s
	observability.Layout().OnStateChange(o.bp.String(), s.String())
}

// setPhaseLocked records a visual phase transition. Callers must hold o.mu.
func (o *Orchestrator) setPhaseLocked(p Phase) {
	o.phase = p
	observability.Layout().OnPhaseChange(o.bp.String(), p.String())
}

// initializeLocked runs the full Preparing → Applying → Verifying → Settled
// sequence. Callers must hold o.mu.
func (o *Orchestrator) initializeLocked(ctx context.Context, bp grid.Breakpoint) error {
	o.cancelTimersLocked()
	o.bp = bp

	o.applying.Store(true)
	defer o.applying.Store(false)

	// Preparing: hide the grid before anything moves.
	o.setStateLocked(StatePreparing)
	o.setPhaseLocked(PhaseHidden)
	o.eng.SetStatic(true)
	o.eng.SetAnimated(false)

	snap, source := o.resolveLocked(ctx, bp)
	snap.SortForApply()
	o.logger.Debug("initializing layout", "breakpoint", bp, "source", source, "widgets", len(snap))

	// Applying: one atomic force-write of the whole layout. Nodes from the
	// outgoing layout that the new one does not contain are evicted from
	// the engine; the mirror must hold exactly the applied snapshot.
	o.setStateLocked(StateApplying)
	if err := o.applyLocked(snap, staleNodes(o.active, snap)); err != nil {
		return err
	}

	// Verifying: reconcile with what the engine actually holds, compact
	// only if corrections were needed.
	o.setStateLocked(StateVerifying)
	if drift := o.verifyLocked(snap); drift {
		o.logger.Debug("drift detected, compacting once")
		o.eng.Compact()
		observability.Layout().OnCompact(o.bp.String())
	}

	o.active = snap
	o.refreshLocked()
	o.source = source

	// Settled: geometry is correct but not yet shown.
	o.setStateLocked(StateSettled)
	o.setPhaseLocked(PhaseStabilizing)
	o.settleTimer = o.clock.AfterFunc(o.settleDelay, o.onSettle)
	return nil
}

// resolveLocked picks the layout for a breakpoint: mobile is always the
// fixed mobile default; desktop prefers a saved, validated layout and falls
// back to the default. A store failure degrades to the default layout.
func (o *Orchestrator) resolveLocked(ctx context.Context, bp grid.Breakpoint) (grid.Snapshot, grid.Source) {
	if bp == grid.Mobile {
		return o.store.Reference(grid.Mobile), grid.SourceDefault
	}
	saved, ok, err := o.store.Load(ctx, grid.Desktop)
	if err != nil {
		o.logger.Warn("layout store unavailable, using default layout", "err", err)
		return o.store.Reference(grid.Desktop), grid.SourceDefault
	}
	if !ok {
		return o.store.Reference(grid.Desktop), grid.SourceDefault
	}
	return saved, grid.SourceSavedDesktop
}

// applyLocked force-writes a snapshot inside one transaction. The order
// inside the batch matters: stale nodes are removed and stripped of hints
// first so no positional state leaks from a prior layout, every node is
// pinned so the engine's reactive compaction cannot fire mid-write,
// constraints are written before geometry so geometry is clamped against
// them, and geometry lands in the snapshot's deterministic order with
// autoposition off. The pins are removed after the batch closes.
func (o *Orchestrator) applyLocked(snap, stale grid.Snapshot) error {
	err := o.withTransaction(func() {
		for _, n := range stale {
			o.eng.Remove(n.ID)
			o.eng.ClearHints(n.ID)
		}
		for _, n := range snap {
			o.eng.ClearHints(n.ID)
			o.eng.SetMovable(n.ID, false)
		}
		for _, n := range snap {
			o.eng.SetConstraints(n.ID, n.EffectiveMinW(), n.EffectiveMinH())
		}
		for _, n := range snap {
			o.eng.SetGeometry(n.ID, n.X, n.Y, n.W, n.H, false)
		}
	})
	if err != nil {
		return err
	}
	for _, n := range snap {
		o.eng.SetMovable(n.ID, true)
		o.eng.SetResizable(n.ID, true)
	}
	return nil
}

// staleNodes returns the nodes of old that are absent from next.
func staleNodes(old, next grid.Snapshot) grid.Snapshot {
	var stale grid.Snapshot
	for _, n := range old {
		if next.IndexOf(n.ID) < 0 {
			stale = append(stale, n)
		}
	}
	return stale
}

// verifyLocked re-reads each node's actual post-engine position and
// re-issues a narrow, non-autopositioned correction where it differs from
// the intended one. A correction that does not converge after one retry is
// logged and skipped; initialization must always reach the interactive
// state, never hang.
func (o *Orchestrator) verifyLocked(snap grid.Snapshot) (drift bool) {
	for _, n := range snap {
		intended := engine.Rect{X: n.X, Y: n.Y, W: n.W, H: n.H}
		actual, ok := o.eng.Geometry(n.ID)
		if !ok {
			o.logger.Warn("widget missing from engine after apply", "id", n.ID)
			observability.Layout().OnDrift(n.ID, false)
			drift = true
			continue
		}
		if actual == intended {
			continue
		}
		drift = true
		o.eng.SetGeometry(n.ID, n.X, n.Y, n.W, n.H, false)
		again, _ := o.eng.Geometry(n.ID)
		observability.Layout().OnDrift(n.ID, again == intended)
		if again != intended {
			o.logger.Warn("engine drift unresolved", "id", n.ID,
				"intended", intended, "actual", again)
		}
	}
	return drift
}

// refreshLocked reloads the active snapshot's geometry from the engine,
// which is authoritative at this instant (between transactions).
func (o *Orchestrator) refreshLocked() {
	for i, n := range o.active {
		if r, ok := o.eng.Geometry(n.ID); ok {
			o.active[i].X, o.active[i].Y = r.X, r.Y
			o.active[i].W, o.active[i].H = r.W, r.H
		}
	}
}

// onSettle fires when the settle delay elapses: the grid becomes visible
// and interactive, and the engine's own animated transitions come back on.
func (o *Orchestrator) onSettle() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.state != StateSettled {
		return
	}
	o.setPhaseLocked(PhaseVisible)
	o.setStateLocked(StateInteractive)
	o.eng.SetStatic(false)
	o.eng.SetAnimated(true)
	o.logger.Debug("grid interactive", "breakpoint", o.bp)
}

// =============================================================================
// Change stream
// =============================================================================

// onChanges is the single handler for the engine's event stream. Echoes of
// the orchestrator's own writes are dropped; everything else mutates the
// active snapshot and schedules a debounced persistence write.
func (o *Orchestrator) onChanges(changes []engine.Change) {
	if o.applying.Load() {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed || o.state != StateInteractive {
		return
	}

	for _, ch := range changes {
		o.applyChangeLocked(ch)
	}
	o.source = grid.SourceRuntime

	if err := grid.Validate(o.active, o.store.Reference(o.bp)); err != nil {
		// Expected after add/remove; the store will refuse to persist it.
		o.logger.Debug("runtime layout no longer matches reference", "err", err)
	}
	o.scheduleSaveLocked()
}

// applyChangeLocked folds one change event into the active snapshot.
func (o *Orchestrator) applyChangeLocked(ch engine.Change) {
	switch ch.Reason {
	case engine.ReasonRemove:
		if i := o.active.IndexOf(ch.ID); i >= 0 {
			o.active = slices.Delete(o.active, i, i+1)
		}
	case engine.ReasonAdd:
		if o.active.IndexOf(ch.ID) >= 0 {
			return
		}
		n := grid.Node{ID: ch.ID, X: ch.X, Y: ch.Y, W: ch.W, H: ch.H, MinW: 1, MinH: 1}
		if ref, ok := o.store.Reference(o.bp).ByID(ch.ID); ok {
			n.MinW, n.MinH = ref.EffectiveMinW(), ref.EffectiveMinH()
		}
		o.active = append(o.active, n)
	default:
		if i := o.active.IndexOf(ch.ID); i >= 0 {
			o.active[i].X, o.active[i].Y = ch.X, ch.Y
			o.active[i].W, o.active[i].H = ch.W, ch.H
		}
	}
}

// =============================================================================
// Timers
// =============================================================================

// scheduleSaveLocked arms the debounced persistence write, superseding any
// pending one so the write always reflects the latest snapshot at fire time.
func (o *Orchestrator) scheduleSaveLocked() {
	if o.saveTimer != nil {
		o.saveTimer.Stop()
	}
	o.saveTimer = o.clock.AfterFunc(o.saveDebounce, o.onSaveTimer)
}

// onSaveTimer performs the debounced write. The store is called outside
// the lock; it validates and silently refuses snapshots that no longer
// match the reference.
func (o *Orchestrator) onSaveTimer() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.saveTimer = nil
	bp := o.bp
	snap := o.active.Clone()
	o.mu.Unlock()

	if err := o.store.Save(context.Background(), bp, snap); err != nil {
		o.logger.Warn("persisting layout failed", "breakpoint", bp, "err", err)
	}
}

// flushSaveLocked runs a pending debounced write synchronously, used before
// a breakpoint switch discards the snapshot the write refers to.
func (o *Orchestrator) flushSaveLocked(ctx context.Context) {
	if o.saveTimer == nil {
		return
	}
	o.saveTimer.Stop()
	o.saveTimer = nil
	if err := o.store.Save(ctx, o.bp, o.active.Clone()); err != nil {
		o.logger.Warn("flushing layout failed", "breakpoint", o.bp, "err", err)
	}
}

// cancelTimersLocked stops the settle and save timers.
func (o *Orchestrator) cancelTimersLocked() {
	if o.settleTimer != nil {
		o.settleTimer.Stop()
		o.settleTimer = nil
	}
	if o.saveTimer != nil {
		o.saveTimer.Stop()
		o.saveTimer = nil
	}
}
