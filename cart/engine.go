// Package cart implements the cart reconciliation engine: an in-memory
// reducer over the current cart snapshot that applies user mutations
// synchronously, persists them in the background, and replaces its state
// wholesale whenever an authoritative server snapshot arrives.
package cart

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/models"
)

const tempIDPrefix = "temp-"

// NewTempLineID generates a line id for an optimistic line that has not been
// acknowledged by the server yet.
func NewTempLineID() string {
	return tempIDPrefix + uuid.NewString()
}

// IsTempLineID reports whether id marks an unconfirmed optimistic line.
func IsTempLineID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Submitter is the outbound contract to the cart mutation service. Every
// call is independently idempotent-safe: adds merge by variant, removes are
// delete-if-present. PersistAdd returns the persisted line id so the engine
// can retarget queued mutations that still reference a temporary id.
type Submitter interface {
	PersistAdd(ctx context.Context, identity, productID, variantID string, quantity int) (string, error)
	PersistSetQuantity(ctx context.Context, identity, lineID string, quantity int) error
	PersistRemove(ctx context.Context, identity, lineID string) error
}

// LineDetails carries the display fields supplied at click time, because the
// authoritative catalog row is not available synchronously.
type LineDetails struct {
	ProductName string
	VariantName string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	ImageURL    string
}

// optimisticMaxStock is advisory only; the real stock arrives on reconcile.
const optimisticMaxStock = 99

// Engine owns the optimistic cart snapshot for one browsing session. All
// mutations are serialized through the engine's mutex, apply synchronously,
// and enqueue the equivalent remote command on a FIFO queue drained by a
// single background worker. Nothing blocks on the network and no mutation is
// rolled back when its submission fails.
type Engine struct {
	mu       sync.Mutex
	identity string
	snapshot *models.Cart

	worker     *submitWorker
	errs       chan error
	closeOnce  sync.Once
	onOpenCart func()
}

type Option func(*Engine)

// WithOpenCartSignal registers a callback fired after every successful add,
// so the UI can open the cart view. It runs outside the engine lock.
func WithOpenCartSignal(fn func()) Option {
	return func(e *Engine) { e.onOpenCart = fn }
}

// NewEngine seeds the engine from the last known server snapshot, or an
// empty cart when none exists for the identity.
func NewEngine(identity string, initial *models.Cart, sub Submitter, opts ...Option) *Engine {
	if initial == nil {
		initial = models.EmptyCart()
	}
	e := &Engine{
		identity: identity,
		snapshot: cloneCart(initial),
		errs:     make(chan error, 16),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.worker = newSubmitWorker(identity, sub, e.errs)
	go e.worker.run()
	return e
}

// Errors delivers failures from the background submissions. Errors are
// advisory: the snapshot keeps whatever the user last saw.
func (e *Engine) Errors() <-chan error {
	return e.errs
}

// Close drains the pending submissions, stops the worker and closes the
// error channel. Mutations on a closed engine still apply locally but are no
// longer submitted; the engine is about to be discarded anyway.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.worker.close()
		close(e.errs)
	})
}

// Snapshot returns a copy of the current cart.
func (e *Engine) Snapshot() models.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *cloneCart(e.snapshot)
}

// AddLine applies an optimistic add and returns the new snapshot
// immediately. An existing line for the same variant has its quantity
// incremented; otherwise a new unconfirmed line is prepended.
func (e *Engine) AddLine(productID, variantID string, quantity int, details LineDetails) (models.Cart, error) {
	if quantity < 1 {
		return e.Snapshot(), ErrInvalidQuantity
	}

	e.mu.Lock()
	next := cloneCart(e.snapshot)

	tempID := ""
	if idx := findVariant(next.Lines, variantID); idx >= 0 {
		next.Lines[idx].Quantity += quantity
	} else {
		tempID = NewTempLineID()
		variantName := details.VariantName
		if variantName == "" {
			variantName = "Item"
		}
		line := models.CartLine{
			ID:          tempID,
			ProductID:   productID,
			VariantID:   variantID,
			ProductName: details.ProductName,
			VariantName: variantName,
			Price:       details.Price,
			SalePrice:   details.SalePrice,
			ImageURL:    details.ImageURL,
			Quantity:    quantity,
			MaxStock:    optimisticMaxStock,
		}
		next.Lines = append([]models.CartLine{line}, next.Lines...)
	}

	next.RecomputeTotals()
	e.snapshot = next
	snap := *cloneCart(next)
	e.mu.Unlock()

	e.worker.enqueue(submitOp{
		kind:      opAdd,
		tempID:    tempID,
		productID: productID,
		variantID: variantID,
		quantity:  quantity,
	})

	if e.onOpenCart != nil {
		e.onOpenCart()
	}
	return snap, nil
}

// UpdateQuantity sets a line to an absolute quantity. A quantity of zero or
// below deletes the line. Targeting an id the snapshot does not contain is a
// local no-op and submits nothing.
func (e *Engine) UpdateQuantity(lineID string, quantity int) models.Cart {
	e.mu.Lock()
	if findLine(e.snapshot.Lines, lineID) < 0 {
		snap := *cloneCart(e.snapshot)
		e.mu.Unlock()
		return snap
	}

	next := cloneCart(e.snapshot)
	idx := findLine(next.Lines, lineID)
	if quantity <= 0 {
		next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
	} else {
		next.Lines[idx].Quantity = quantity
	}

	next.RecomputeTotals()
	e.snapshot = next
	snap := *cloneCart(next)
	e.mu.Unlock()

	e.worker.enqueue(submitOp{
		kind:     opSetQuantity,
		lineID:   lineID,
		quantity: quantity,
	})
	return snap
}

// RemoveLine deletes a line if present. Removing an absent line leaves the
// cart unchanged and submits nothing.
func (e *Engine) RemoveLine(lineID string) models.Cart {
	e.mu.Lock()
	idx := findLine(e.snapshot.Lines, lineID)
	if idx < 0 {
		snap := *cloneCart(e.snapshot)
		e.mu.Unlock()
		return snap
	}

	next := cloneCart(e.snapshot)
	next.Lines = append(next.Lines[:idx], next.Lines[idx+1:]...)
	next.RecomputeTotals()
	e.snapshot = next
	snap := *cloneCart(next)
	e.mu.Unlock()

	e.worker.enqueue(submitOp{
		kind:   opRemove,
		lineID: lineID,
	})
	return snap
}

// Reconcile replaces the snapshot wholesale with a fresh authoritative one.
// This is the only transition that swaps temporary line ids for persisted
// ones; no prior optimistic state survives it.
func (e *Engine) Reconcile(server *models.Cart) models.Cart {
	if server == nil {
		server = models.EmptyCart()
	}
	e.mu.Lock()
	e.snapshot = cloneCart(server)
	snap := *cloneCart(e.snapshot)
	e.mu.Unlock()
	return snap
}

func cloneCart(c *models.Cart) *models.Cart {
	lines := make([]models.CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &models.Cart{
		ID:            c.ID,
		Lines:         lines,
		Subtotal:      c.Subtotal,
		TotalQuantity: c.TotalQuantity,
	}
}

func findVariant(lines []models.CartLine, variantID string) int {
	for i, line := range lines {
		if line.VariantID == variantID {
			return i
		}
	}
	return -1
}

func findLine(lines []models.CartLine, lineID string) int {
	for i, line := range lines {
		if line.ID == lineID {
			return i
		}
	}
	return -1
}
