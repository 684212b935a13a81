package orchestrator

import "errors"

// ErrTransactionOpen is returned when a transaction is requested while one
// is already open on the same engine handle. Transactions do not nest.
var ErrTransactionOpen = errors.New("a transaction is already open")

// withTransaction runs body between BeginBatch and EndBatch on the engine.
// Per-node geometry writes are observably incremental outside a batch (each
// one can trigger the engine's own re-layout pass); batching makes the
// whole sequence visible to listeners as a single update. EndBatch runs on
// every exit path, including a panic in body.
//
// Callers must hold o.mu.
func (o *Orchestrator) withTransaction(body func()) error {
	if o.txnOpen {
		return ErrTransactionOpen
	}
	o.txnOpen = true
	o.eng.BeginBatch()
	defer func() {
		o.eng.EndBatch()
		o.txnOpen = false
	}()
	body()
	return nil
}
