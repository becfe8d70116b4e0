package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/models"
)

type addCall struct {
	ProductID string
	VariantID string
	Quantity  int
}

type setCall struct {
	LineID   string
	Quantity int
}

// fakeSubmitter records every persisted mutation in call order.
type fakeSubmitter struct {
	mu      sync.Mutex
	adds    []addCall
	sets    []setCall
	removes []string
	order   []string

	addErr    error
	setErr    error
	removeErr error

	nextID int
	gate   chan struct{} // when set, PersistAdd blocks until the gate closes
}

func (f *fakeSubmitter) PersistAdd(ctx context.Context, identity, productID, variantID string, quantity int) (string, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return "", f.addErr
	}
	f.nextID++
	id := fmt.Sprintf("line-%d", f.nextID)
	f.adds = append(f.adds, addCall{productID, variantID, quantity})
	f.order = append(f.order, "add "+variantID)
	return id, nil
}

func (f *fakeSubmitter) PersistSetQuantity(ctx context.Context, identity, lineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.sets = append(f.sets, setCall{lineID, quantity})
	f.order = append(f.order, "set "+lineID)
	return nil
}

func (f *fakeSubmitter) PersistRemove(ctx context.Context, identity, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removes = append(f.removes, lineID)
	f.order = append(f.order, "remove "+lineID)
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func details(price string) LineDetails {
	return LineDetails{
		ProductName: "Air Max 90",
		VariantName: "White / 10",
		Price:       dec(price),
		ImageURL:    "/shoes/air-max-90.png",
	}
}

func testLine(id, variantID, price string, qty int) models.CartLine {
	return models.CartLine{
		ID:        id,
		ProductID: "p-" + variantID,
		VariantID: variantID,
		Price:     dec(price),
		Quantity:  qty,
	}
}

func seededCart(lines ...models.CartLine) *models.Cart {
	c := &models.Cart{ID: "cart-1", Lines: lines}
	c.RecomputeTotals()
	return c
}

func TestAddLineMergesByVariant(t *testing.T) {
	tests := []struct {
		name       string
		quantities []int
		wantQty    int
	}{
		{"single add", []int{2}, 2},
		{"two adds", []int{2, 1}, 3},
		{"many adds", []int{1, 1, 1, 1, 5}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			e := NewEngine("cart-1", nil, sub)
			defer e.Close()

			var snap models.Cart
			for _, q := range tt.quantities {
				var err error
				snap, err = e.AddLine("p1", "v1", q, details("100"))
				require.NoError(t, err)
			}

			require.Len(t, snap.Lines, 1)
			assert.Equal(t, tt.wantQty, snap.Lines[0].Quantity)
			assert.Equal(t, tt.wantQty, snap.TotalQuantity)
		})
	}
}

func TestAddLinePrependsUnconfirmedLine(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(models.CartLine{
		ID: "line-old", ProductID: "p0", VariantID: "v0", Price: dec("10"), Quantity: 1,
	}), sub)
	defer e.Close()

	snap, err := e.AddLine("p1", "v1", 1, details("100"))
	require.NoError(t, err)

	require.Len(t, snap.Lines, 2)
	assert.True(t, IsTempLineID(snap.Lines[0].ID), "new line should carry a temp id")
	assert.Equal(t, "v1", snap.Lines[0].VariantID)
	assert.Equal(t, "line-old", snap.Lines[1].ID)
}

func TestAddLineRejectsInvalidQuantity(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)

	snap, err := e.AddLine("p1", "v1", 0, details("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Empty(t, snap.Lines)

	_, err = e.AddLine("p1", "v1", -3, details("100"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	e.Close()
	assert.Empty(t, sub.adds, "rejected adds must not be submitted")
}

func TestTotalsAlwaysRecomputed(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)
	defer e.Close()

	_, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)
	_, err = e.AddLine("p2", "v2", 3, LineDetails{
		ProductName: "Air Force 1",
		Price:       dec("50"),
		SalePrice:   decPtr("40"),
	})
	require.NoError(t, err)

	snap := e.Snapshot()
	// 2*100 + 3*40
	assert.True(t, snap.Subtotal.Equal(dec("320")), "subtotal = %s", snap.Subtotal)
	assert.Equal(t, 5, snap.TotalQuantity)

	snap = e.UpdateQuantity(snap.Lines[1].ID, 1)
	// 1*100 + 3*40
	assert.True(t, snap.Subtotal.Equal(dec("220")), "subtotal = %s", snap.Subtotal)
	assert.Equal(t, 4, snap.TotalQuantity)
}

func TestScenarioEmptyCartAdd(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)
	defer e.Close()

	snap, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.True(t, snap.Subtotal.Equal(dec("200")))
}

func TestScenarioMergeUsesSalePrice(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(models.CartLine{
		ID:        "L1",
		ProductID: "p1",
		VariantID: "v1",
		Price:     dec("50"),
		SalePrice: decPtr("40"),
		Quantity:  2,
	}), sub)
	defer e.Close()

	snap, err := e.AddLine("p1", "v1", 1, details("50"))
	require.NoError(t, err)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "L1", snap.Lines[0].ID)
	assert.Equal(t, 3, snap.Lines[0].Quantity)
	assert.True(t, snap.Subtotal.Equal(dec("120")), "subtotal = %s", snap.Subtotal)
}

func TestUpdateQuantityDeletesAtZeroOrBelow(t *testing.T) {
	for _, qty := range []int{0, -1} {
		t.Run(fmt.Sprintf("quantity %d", qty), func(t *testing.T) {
			sub := &fakeSubmitter{}
			e := NewEngine("cart-1", seededCart(models.CartLine{
				ID: "L1", ProductID: "p1", VariantID: "v1", Price: dec("25"), Quantity: 1,
			}), sub)
			defer e.Close()

			snap := e.UpdateQuantity("L1", qty)
			assert.Empty(t, snap.Lines)
			assert.True(t, snap.Subtotal.IsZero())
			assert.Equal(t, 0, snap.TotalQuantity)
		})
	}
}

func TestUpdateQuantityAbsoluteSet(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(models.CartLine{
		ID: "L1", ProductID: "p1", VariantID: "v1", Price: dec("25"), Quantity: 2,
	}), sub)
	defer e.Close()

	snap := e.UpdateQuantity("L1", 7)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 7, snap.Lines[0].Quantity)
	assert.True(t, snap.Subtotal.Equal(dec("175")))
}

func TestUpdateQuantityUnknownLineIsNoOp(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(models.CartLine{
		ID: "L1", ProductID: "p1", VariantID: "v1", Price: dec("25"), Quantity: 2,
	}), sub)

	before := e.Snapshot()
	after := e.UpdateQuantity("nonexistent", 5)
	assert.Equal(t, before, after)

	e.Close()
	assert.Empty(t, sub.sets, "no submission for an unknown line")
}

func TestRemoveLineIdempotent(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(
		models.CartLine{ID: "L1", ProductID: "p1", VariantID: "v1", Price: dec("25"), Quantity: 2},
		models.CartLine{ID: "L2", ProductID: "p2", VariantID: "v2", Price: dec("30"), Quantity: 1},
	), sub)

	before := e.Snapshot()
	after := e.RemoveLine("nonexistent")
	assert.Equal(t, before, after, "removing an absent line changes nothing")

	after = e.RemoveLine("L1")
	require.Len(t, after.Lines, 1)
	assert.Equal(t, "L2", after.Lines[0].ID)
	assert.True(t, after.Subtotal.Equal(dec("30")))

	e.Close()
	assert.Equal(t, []string{"L1"}, sub.removes)
}

func TestReconcileReplacesWholesale(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)
	defer e.Close()

	_, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)

	server := seededCart(models.CartLine{
		ID: "persisted-1", ProductID: "p1", VariantID: "v1", Price: dec("100"), Quantity: 2, MaxStock: 5,
	})
	snap := e.Reconcile(server)

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, "persisted-1", snap.Lines[0].ID)
	assert.False(t, IsTempLineID(snap.Lines[0].ID))
	assert.Equal(t, 5, snap.Lines[0].MaxStock)
	assert.Equal(t, server.Subtotal, snap.Subtotal)

	snap = e.Reconcile(nil)
	assert.Empty(t, snap.Lines)
	assert.True(t, snap.Subtotal.IsZero())
}

func TestReconcileDiscardsOptimisticState(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub)
	defer e.Close()

	_, err := e.AddLine("p1", "v1", 2, details("100"))
	require.NoError(t, err)
	_, err = e.AddLine("p2", "v2", 1, details("60"))
	require.NoError(t, err)

	server := seededCart(models.CartLine{
		ID: "persisted-9", ProductID: "p9", VariantID: "v9", Price: dec("10"), Quantity: 1,
	})
	snap := e.Reconcile(server)

	require.Len(t, snap.Lines, 1, "no merging of prior optimistic lines")
	assert.Equal(t, "persisted-9", snap.Lines[0].ID)
}

func TestOpenCartSignal(t *testing.T) {
	opened := 0
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", nil, sub, WithOpenCartSignal(func() { opened++ }))
	defer e.Close()

	_, err := e.AddLine("p1", "v1", 1, details("100"))
	require.NoError(t, err)
	assert.Equal(t, 1, opened)

	_, err = e.AddLine("p1", "v1", 0, details("100"))
	assert.Error(t, err)
	assert.Equal(t, 1, opened, "rejected add must not signal")

	e.UpdateQuantity("whatever", 3)
	assert.Equal(t, 1, opened, "only adds signal the cart view")
}

func TestSnapshotIsACopy(t *testing.T) {
	sub := &fakeSubmitter{}
	e := NewEngine("cart-1", seededCart(models.CartLine{
		ID: "L1", ProductID: "p1", VariantID: "v1", Price: dec("25"), Quantity: 2,
	}), sub)
	defer e.Close()

	snap := e.Snapshot()
	snap.Lines[0].Quantity = 999

	again := e.Snapshot()
	assert.Equal(t, 2, again.Lines[0].Quantity, "callers must not reach the live snapshot")
}

func TestMutationsDoNotBlockOnSlowSubmitter(t *testing.T) {
	gate := make(chan struct{})
	sub := &fakeSubmitter{gate: gate}
	e := NewEngine("cart-1", nil, sub)

	// The submitter is stuck, the reducer must not be.
	snap, err := e.AddLine("p1", "v1", 1, details("100"))
	require.NoError(t, err)
	snap = e.UpdateQuantity(snap.Lines[0].ID, 4)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 4, snap.Lines[0].Quantity)

	close(gate)
	e.Close()
}
