package cart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerSubmitsInUserOrder(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)

	snap, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)
	tempID := snap.Lines[0].ID

	e.UpdateQuantity(tempID, 5)
	_, err = e.AddLine("p2", "v2", 1, details("60"))
	require.NoError(t, err)
	e.RemoveLine(tempID)

	e.Close()

	assert.Equal(t, []string{
		"add v1",
		"set line-1",
		"add v2",
		"remove line-1",
	}, sub.order)
}

func TestWorkerRewritesTempIDsAfterAck(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)

	snap, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)
	tempID := snap.Lines[0].ID
	require.True(t, IsTempLineID(tempID))

	e.UpdateQuantity(tempID, 3)
	e.Close()

	require.Len(t, sub.sets, 1)
	assert.Equal(t, "line-1", sub.sets[0].LineID, "submission must use the persisted id")
	assert.Equal(t, 3, sub.sets[0].Quantity)
}

func TestWorkerReportsFailedAdd(t *testing.T) {
	sub := &fakeSubmitter{addErr: errors.New("stock conflict")}
	e := NewEngine("cart-1", nil, sub)

	snap, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err, "optimistic add never fails synchronously")
	require.Len(t, snap.Lines, 1, "snapshot keeps the optimistic line")

	e.Close()

	perr := &PersistenceError{}
	require.ErrorAs(t, <-e.Errors(), &perr)
	assert.Equal(t, "add", perr.Op)
	assert.False(t, perr.NotFound())
}

func TestWorkerDropsDependentsOfFailedAdd(t *testing.T) {
	sub := &fakeSubmitter{addErr: errors.New("server down")}
	e := NewEngine("cart-1", nil, sub)

	snap, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)
	e.UpdateQuantity(snap.Lines[0].ID, 5)
	e.Close()

	assert.Empty(t, sub.sets, "updates on a never-persisted line must not reach the store")

	var sawNotFound bool
	for err := range e.Errors() {
		perr := &PersistenceError{}
		if errors.As(err, &perr) && perr.NotFound() {
			sawNotFound = true
		}
	}
	assert.True(t, sawNotFound, "dropped dependent must be reported as a stale-line warning")
}

func TestWorkerReportsLineNotFound(t *testing.T) {
	sub := &fakeSubmitter{removeErr: ErrLineNotFound}
	e := NewEngine("cart-1", seededCart(testLine("L1", "v1", "25", 1)), sub)

	e.RemoveLine("L1")
	e.Close()

	perr := &PersistenceError{}
	require.ErrorAs(t, <-e.Errors(), &perr)
	assert.True(t, perr.NotFound())
	assert.Equal(t, "L1", perr.LineID)
}

func TestMutationAfterDropDoesNotPanic(t *testing.T) {
	sub := &fakeSubmitter{}
	m := NewManager(sub)

	// A request handler can still hold the engine after another request
	// dropped the identity (checkout, login merge).
	e := m.Get("cart-a", nil)
	m.Drop("cart-a")

	assert.NotPanics(t, func() {
		snap, err := e.AddLine("p1", "v1", 1, details("100"))
		require.NoError(t, err)
		assert.Len(t, snap.Lines, 1, "the local snapshot still applies")

		e.UpdateQuantity(snap.Lines[0].ID, 3)
		e.RemoveLine(snap.Lines[0].ID)
		e.Close()
	})

	assert.Empty(t, sub.adds, "a dropped engine submits nothing")
}

func TestDropDrainsPendingSubmissions(t *testing.T) {
	gate := make(chan struct{})
	sub := &fakeSubmitter{gate: gate}
	m := NewManager(sub)

	e := m.Get("cart-a", nil)
	_, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)

	close(gate)
	m.Drop("cart-a")

	// Drop must not return while submissions are still in flight; the login
	// merge relies on the guest cart being quiescent before it copies rows.
	assert.Len(t, sub.adds, 1)
}

func TestManagerReusesEnginePerIdentity(t *testing.T) {
	sub := &fakeSubmitter{}
	m := NewManager(sub)

	a := m.Get("cart-a", nil)
	b := m.Get("cart-a", nil)
	c := m.Get("cart-b", nil)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)

	m.Drop("cart-a")
	d := m.Get("cart-a", nil)
	assert.NotSame(t, a, d, "dropped identity gets a fresh engine")

	m.Drop("cart-a")
	m.Drop("cart-b")
	m.Drop("missing") // no-op
}
