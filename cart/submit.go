package cart

import (
	"context"
	"sync"
	"time"
)

type opKind int

const (
	opAdd opKind = iota
	opSetQuantity
	opRemove
)

func (k opKind) String() string {
	switch k {
	case opAdd:
		return "add"
	case opSetQuantity:
		return "set quantity"
	case opRemove:
		return "remove"
	}
	return "unknown"
}

type submitOp struct {
	kind      opKind
	tempID    string // set on add when a new optimistic line was created
	lineID    string // target of set/remove; may be a temporary id
	productID string
	variantID string
	quantity  int
}

const submitTimeout = 15 * time.Second

// submitWorker drains the engine's mutation queue on a single goroutine, so
// remote commands run to completion in the order the user acted even though
// the reducer never waits for them. That FIFO ordering is also what
// sequences a quantity update behind the add that created its line: by the
// time the update is dequeued, the add has been acknowledged and its
// temporary id recorded in the resolution map, or it has failed and the
// update is dropped and reported. Last-write-wins against the raw temporary
// id was rejected; the store has never heard of that id.
type submitWorker struct {
	identity string
	sub      Submitter
	ops      chan submitOp
	done     chan struct{}
	errs     chan<- error

	mu     sync.Mutex
	closed bool

	resolved map[string]string // temp id -> persisted id
}

func newSubmitWorker(identity string, sub Submitter, errs chan<- error) *submitWorker {
	return &submitWorker{
		identity: identity,
		sub:      sub,
		ops:      make(chan submitOp, 256),
		done:     make(chan struct{}),
		errs:     errs,
		resolved: map[string]string{},
	}
}

// enqueue hands an op to the worker. A handler can hold an engine another
// request has already dropped (checkout, login merge), so ops arriving after
// close are discarded rather than sent on the closed channel.
func (w *submitWorker) enqueue(op submitOp) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.ops <- op
}

// close drains the remaining ops and stops the worker. Safe to call more
// than once.
func (w *submitWorker) close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ops)
	w.mu.Unlock()
	<-w.done
}

func (w *submitWorker) run() {
	defer close(w.done)
	for op := range w.ops {
		w.process(op)
	}
}

func (w *submitWorker) process(op submitOp) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	switch op.kind {
	case opAdd:
		lineID, err := w.sub.PersistAdd(ctx, w.identity, op.productID, op.variantID, op.quantity)
		if err != nil {
			w.report(&PersistenceError{Op: op.kind.String(), Err: err})
			return
		}
		if op.tempID != "" {
			w.resolved[op.tempID] = lineID
		}

	case opSetQuantity, opRemove:
		lineID := op.lineID
		if IsTempLineID(lineID) {
			real, ok := w.resolved[lineID]
			if !ok {
				// The add this op depends on was rejected (or the id never
				// came from this engine). Advisory; reconcile repairs drift.
				w.report(&PersistenceError{Op: op.kind.String(), LineID: lineID, Err: ErrLineNotFound})
				return
			}
			lineID = real
		}

		var err error
		if op.kind == opSetQuantity {
			err = w.sub.PersistSetQuantity(ctx, w.identity, lineID, op.quantity)
		} else {
			err = w.sub.PersistRemove(ctx, w.identity, lineID)
		}
		if err != nil {
			w.report(&PersistenceError{Op: op.kind.String(), LineID: lineID, Err: err})
		}
	}
}

// report never blocks the worker; when nobody drains the error channel the
// newest error is dropped.
func (w *submitWorker) report(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
