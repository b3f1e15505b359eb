package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chibuezemicahe/wdd330-sleepoutside/cart"
	"github.com/chibuezemicahe/wdd330-sleepoutside/checkout"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
	"github.com/chibuezemicahe/wdd330-sleepoutside/storage"
)

var (
	sess     = models.Session{ID: "checkout-test"}
	fixedNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)
)

type harness struct {
	slots     *storage.MemoryStore
	cart      *cart.Store
	history   *History
	processor *Processor
}

func newHarness(t *testing.T, submitter Submitter, opts ...Option) *harness {
	t.Helper()
	slots := storage.NewMemoryStore()
	numbers, err := NewSnowflakeNumbers(1)
	require.NoError(t, err)

	h := &harness{slots: slots, cart: cart.NewStore(slots), history: NewHistory(slots)}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	h.processor = NewProcessor(h.cart, h.history,
		checkout.NewWithClock(func() time.Time { return fixedNow }),
		submitter, numbers, opts...)
	return h
}

func (h *harness) fill(t *testing.T, prices ...float64) {
	t.Helper()
	for i, price := range prices {
		_, err := h.cart.Add(context.Background(), sess, models.Product{
			ID:         string(rune('a' + i)),
			Name:       "Item",
			FinalPrice: price,
			Category:   "tents",
		})
		require.NoError(t, err)
	}
}

func (h *harness) items(t *testing.T) []models.CartLineItem {
	t.Helper()
	items, err := h.cart.Get(context.Background(), sess)
	require.NoError(t, err)
	return items
}

func (h *harness) orders(t *testing.T) []models.Order {
	t.Helper()
	orders, err := h.history.List(context.Background(), sess)
	require.NoError(t, err)
	return orders
}

func succeed() Submitter {
	return SubmitterFunc(func(ctx context.Context, o models.Order) error { return nil })
}

func validForm() checkout.Form {
	return checkout.Form{
		FirstName:  "Jane",
		LastName:   "Doe",
		Street:     "123 Main St",
		City:       "Provo",
		State:      "ut",
		Zip:        "84601",
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "10/26",
		CVV:        "123",
		CardName:   "Jane Doe",
	}
}

func TestSubmit_TotalsEndToEnd(t *testing.T) {
	h := newHarness(t, succeed())
	h.fill(t, 50, 60)

	receipt, err := h.processor.Submit(context.Background(), sess, validForm())
	require.NoError(t, err)

	o := receipt.Order
	assert.Equal(t, 110.0, o.Subtotal)
	assert.Equal(t, 0.0, o.Shipping)
	assert.Equal(t, 8.8, o.Tax)
	assert.Equal(t, 118.8, o.Total)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, fixedNow, o.OrderDate)
	assert.Equal(t, "UT", o.ShippingInfo.State)
	assert.Regexp(t, `^SO\d+$`, o.OrderNumber)

	c := receipt.Confirmation
	assert.Equal(t, o.OrderNumber, c.OrderNumber)
	assert.Equal(t, 2, c.ItemCount)
	assert.Equal(t, "$118.80", c.TotalLabel)
	assert.Equal(t, "Jane Doe", c.ShipTo)
	assert.Equal(t, []string{"123 Main St", "Provo, UT 84601"}, c.AddressLines)

	assert.Empty(t, h.items(t))
	orders := h.orders(t)
	require.Len(t, orders, 1)
	assert.Equal(t, o.OrderNumber, orders[0].OrderNumber)
	assert.Equal(t, PhaseSuccess, h.processor.Phase(sess))
}

func TestSubmit_InvalidZipThenCorrected(t *testing.T) {
	h := newHarness(t, succeed())
	h.fill(t, 50, 60)

	form := validForm()
	form.Zip = "1234"
	receipt, err := h.processor.Submit(context.Background(), sess, form)
	assert.Nil(t, receipt)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Results, 1)
	assert.Equal(t, checkout.FieldZip, verr.Results[0].Field)
	assert.Equal(t, checkout.MsgInvalidSummary, verr.Message)
	assert.Equal(t, PhaseIdle, h.processor.Phase(sess))
	assert.Len(t, h.items(t), 2)
	assert.Empty(t, h.orders(t))

	form.Zip = "84601"
	receipt, err = h.processor.Submit(context.Background(), sess, form)
	require.NoError(t, err)
	require.NotNil(t, receipt)
	assert.Empty(t, h.items(t))
	assert.Len(t, h.orders(t), 1)
}

func TestSubmit_MissingRequiredFields(t *testing.T) {
	h := newHarness(t, succeed())
	h.fill(t, 20)

	form := validForm()
	form.CardName = ""
	_, err := h.processor.Submit(context.Background(), sess, form)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, checkout.MsgRequiredSummary, verr.Message)
	assert.Equal(t, "Name on Card is required", verr.Results[0].Message)
}

func TestSubmit_EmptyCart(t *testing.T) {
	h := newHarness(t, succeed())
	_, err := h.processor.Submit(context.Background(), sess, validForm())
	assert.Equal(t, ErrEmptyCart, err)
	assert.Equal(t, PhaseIdle, h.processor.Phase(sess))
	assert.Empty(t, h.orders(t))
}

func TestSubmit_FailureKeepsCartAndAllowsRetry(t *testing.T) {
	fail := true
	h := newHarness(t, SubmitterFunc(func(ctx context.Context, o models.Order) error {
		if fail {
			return errors.New("gateway unavailable")
		}
		return nil
	}))
	h.fill(t, 30)

	_, err := h.processor.Submit(context.Background(), sess, validForm())
	assert.Equal(t, ErrSubmissionFailed, errors.Cause(err))
	assert.Equal(t, PhaseFailed, h.processor.Phase(sess))
	assert.Len(t, h.items(t), 1)
	assert.Empty(t, h.orders(t))

	fail = false
	receipt, err := h.processor.Submit(context.Background(), sess, validForm())
	require.NoError(t, err)
	assert.Equal(t, 10.0, receipt.Order.Shipping)
	assert.Equal(t, 42.4, receipt.Order.Total)
	assert.Len(t, h.orders(t), 1)
}

func TestSubmit_PhaseDuringPlacement(t *testing.T) {
	var seen Phase
	var p *Processor
	h := newHarness(t, SubmitterFunc(func(ctx context.Context, o models.Order) error {
		seen = p.Phase(sess)
		assert.Empty(t, o.OrderNumber, "number is assigned only on success")
		assert.Equal(t, 118.8, o.Total)
		return nil
	}))
	p = h.processor
	h.fill(t, 50, 60)

	_, err := p.Submit(context.Background(), sess, validForm())
	require.NoError(t, err)
	assert.Equal(t, PhaseSubmitting, seen)
}

func TestSubmit_AbandonedRecordsNothing(t *testing.T) {
	h := newHarness(t, NewSimulatedSubmitter(time.Hour, 0))
	h.fill(t, 50)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.processor.Submit(ctx, sess, validForm())
	assert.Equal(t, context.DeadlineExceeded, err)
	assert.Equal(t, PhaseIdle, h.processor.Phase(sess))
	assert.Len(t, h.items(t), 1)
	assert.Empty(t, h.orders(t))
}

func TestSubmit_PlacementTimeoutFails(t *testing.T) {
	h := newHarness(t, NewSimulatedSubmitter(time.Hour, 0), WithSubmitTimeout(10*time.Millisecond))
	h.fill(t, 50)

	_, err := h.processor.Submit(context.Background(), sess, validForm())
	assert.Equal(t, ErrSubmissionFailed, errors.Cause(err))
	assert.Equal(t, PhaseFailed, h.processor.Phase(sess))
	assert.Len(t, h.items(t), 1)
}

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	release := make(chan struct{})
	h := newHarness(t, SubmitterFunc(func(ctx context.Context, o models.Order) error {
		<-release
		return nil
	}))
	h.fill(t, 50)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = h.processor.Submit(context.Background(), sess, validForm())
	}()

	require.Eventually(t, func() bool {
		return h.processor.Phase(sess) == PhaseSubmitting
	}, time.Second, time.Millisecond)

	_, err := h.processor.Submit(context.Background(), sess, validForm())
	assert.Equal(t, ErrInProgress, err)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Len(t, h.orders(t), 1)
}

type recordingNotifier struct {
	placed chan models.Order
}

func (r *recordingNotifier) OrderPlaced(ctx context.Context, o models.Order) error {
	r.placed <- o
	return nil
}

func TestSubmit_NotifiesAfterSuccess(t *testing.T) {
	n := &recordingNotifier{placed: make(chan models.Order, 1)}
	h := newHarness(t, succeed(), WithNotifier(n))
	h.fill(t, 50)

	receipt, err := h.processor.Submit(context.Background(), sess, validForm())
	require.NoError(t, err)

	select {
	case o := <-n.placed:
		assert.Equal(t, receipt.Order.OrderNumber, o.OrderNumber)
	case <-time.After(time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestSubmit_HistoryAppends(t *testing.T) {
	h := newHarness(t, succeed())
	var numbers []string
	for i := 0; i < 3; i++ {
		h.fill(t, 10)
		receipt, err := h.processor.Submit(context.Background(), sess, validForm())
		require.NoError(t, err)
		numbers = append(numbers, receipt.Order.OrderNumber)
	}
	orders := h.orders(t)
	require.Len(t, orders, 3)
	for i, o := range orders {
		assert.Equal(t, numbers[i], o.OrderNumber)
	}
}

func TestHistory_UnreadableIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemoryStore()
	require.NoError(t, slots.Put(ctx, sess.OrdersKey(), []byte("garbage")))
	hist := NewHistory(slots)

	err := hist.Append(ctx, sess, models.Order{OrderNumber: "SO1"})
	assert.True(t, storage.IsCorrupt(err))
	raw, err := slots.Get(ctx, sess.OrdersKey())
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(raw))
}

func TestSnowflakeNumbersAreUnique(t *testing.T) {
	numbers, err := NewSnowflakeNumbers(7)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		n := numbers.Next()
		require.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}

	_, err = NewSnowflakeNumbers(-1)
	assert.Error(t, err)
}

func TestSimulatedSubmitter(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, NewSimulatedSubmitter(0, 0).Place(ctx, models.Order{}))
	assert.Equal(t, ErrDeclined, NewSimulatedSubmitter(time.Millisecond, 1).Place(ctx, models.Order{}))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Equal(t, context.Canceled, NewSimulatedSubmitter(time.Hour, 0).Place(cancelled, models.Order{}))
}

func TestQuote(t *testing.T) {
	h := newHarness(t, succeed())
	h.fill(t, 50, 60)
	totals, err := h.processor.Quote(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, "118.80", totals.Total.StringFixed(2))
	assert.Len(t, h.items(t), 2)
}

func TestPricing(t *testing.T) {
	p := DefaultPricing()
	line := func(price float64, qty int) models.CartLineItem {
		return models.CartLineItem{Product: models.Product{FinalPrice: price}, Quantity: qty}
	}

	cases := []struct {
		name     string
		items    []models.CartLineItem
		shipping string
		tax      string
		total    string
	}{
		{"under threshold", []models.CartLineItem{line(50, 1)}, "10.00", "4.00", "64.00"},
		{"exactly threshold pays shipping", []models.CartLineItem{line(100, 1)}, "10.00", "8.00", "118.00"},
		{"over threshold", []models.CartLineItem{line(50, 1), line(60, 1)}, "0.00", "8.80", "118.80"},
		{"quantities", []models.CartLineItem{line(199.99, 2)}, "0.00", "32.00", "431.98"},
		{"empty", nil, "10.00", "0.00", "10.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			totals := p.Compute(tc.items)
			assert.Equal(t, tc.shipping, totals.Shipping.StringFixed(2))
			assert.Equal(t, tc.tax, totals.Tax.StringFixed(2))
			assert.Equal(t, tc.total, totals.Total.StringFixed(2))
		})
	}
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "submitting", PhaseSubmitting.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
