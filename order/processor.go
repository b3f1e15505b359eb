package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chibuezemicahe/wdd330-sleepoutside/checkout"
	"github.com/chibuezemicahe/wdd330-sleepoutside/models"
)

// Phase is where a session's checkout currently is
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MsgSubmissionFailed is shown when placement fails; the shopper may retry
const MsgSubmissionFailed = "Sorry, there was an error processing your order. Please try again or contact customer service."

var (
	ErrEmptyCart        = errors.New("Your cart is empty. Add some items before checking out.")
	ErrInProgress       = errors.New("order submission already in progress")
	ErrSubmissionFailed = errors.New(MsgSubmissionFailed)
)

// ValidationError carries the per-field failures that blocked submission
type ValidationError struct {
	Results []checkout.Result
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Confirmation is what the shopper sees after a successful order
type Confirmation struct {
	OrderNumber       string   `json:"orderNumber"`
	ItemCount         int      `json:"itemCount"`
	Total             float64  `json:"total"`
	TotalLabel        string   `json:"totalLabel"`
	ShipTo            string   `json:"shipTo"`
	AddressLines      []string `json:"addressLines"`
	EstimatedDelivery string   `json:"estimatedDelivery"`
}

// Receipt is the result of a successful submission
type Receipt struct {
	Order        models.Order `json:"order"`
	Confirmation Confirmation `json:"confirmation"`
}

// CartStore is the part of cart.Store the processor needs
type CartStore interface {
	Get(ctx context.Context, sess models.Session) ([]models.CartLineItem, error)
	Clear(ctx context.Context, sess models.Session) error
}

// Notifier is told about every placed order, after the fact
type Notifier interface {
	OrderPlaced(ctx context.Context, order models.Order) error
}

// Processor runs checkout for each session:
//
//	Idle -> Validating -> Submitting -> Success | Failed
//
// Validation failures return to Idle. Success and Failed accept a new
// submission, which passes through Idle again.
type Processor struct {
	cart          CartStore
	history       *History
	validator     *checkout.Validator
	submitter     Submitter
	numbers       NumberSource
	pricing       Pricing
	notifier      Notifier
	now           func() time.Time
	submitTimeout time.Duration

	mu     sync.Mutex
	phases map[string]Phase
}

type Option func(*Processor)

func WithPricing(p Pricing) Option {
	return func(pr *Processor) { pr.pricing = p }
}

func WithNotifier(n Notifier) Option {
	return func(pr *Processor) { pr.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(pr *Processor) { pr.now = now }
}

// WithSubmitTimeout bounds how long a placement may take. Zero disables
// the bound.
func WithSubmitTimeout(d time.Duration) Option {
	return func(pr *Processor) { pr.submitTimeout = d }
}

func NewProcessor(cart CartStore, history *History, validator *checkout.Validator, submitter Submitter, numbers NumberSource, opts ...Option) *Processor {
	p := &Processor{
		cart:          cart,
		history:       history,
		validator:     validator,
		submitter:     submitter,
		numbers:       numbers,
		pricing:       DefaultPricing(),
		now:           time.Now,
		submitTimeout: 30 * time.Second,
		phases:        make(map[string]Phase),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Phase reports the session's current phase
func (p *Processor) Phase(sess models.Session) Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phases[sess.ID]
}

// Quote prices the session's current cart without submitting anything
func (p *Processor) Quote(ctx context.Context, sess models.Session) (Totals, error) {
	items, err := p.cart.Get(ctx, sess)
	if err != nil {
		return Totals{}, err
	}
	return p.pricing.Compute(items), nil
}

// Submit validates form, places the order built from the session's cart,
// records it and empties the cart.
//
// Errors: ErrInProgress, ErrEmptyCart, *ValidationError, ErrSubmissionFailed
// (as the cause), or the context's error when ctx ends during placement. In
// every error case the cart is left as it was.
func (p *Processor) Submit(ctx context.Context, sess models.Session, form checkout.Form) (*Receipt, error) {
	if err := p.begin(sess); err != nil {
		return nil, err
	}
	log := zap.S().With("session", sess.ID)

	items, err := p.cart.Get(ctx, sess)
	if err != nil {
		p.transition(sess, PhaseIdle)
		return nil, err
	}
	if len(items) == 0 {
		p.transition(sess, PhaseIdle)
		return nil, ErrEmptyCart
	}

	if results := p.validator.ValidateForm(form); len(results) > 0 {
		p.transition(sess, PhaseIdle)
		log.Infow("Checkout form rejected", "failures", len(results))
		return nil, &ValidationError{Results: results, Message: checkout.Summary(results)}
	}

	f := form.Normalized()
	totals := p.pricing.Compute(items)
	draft := models.Order{
		Items:    items,
		Subtotal: totals.Subtotal.InexactFloat64(),
		Shipping: totals.Shipping.InexactFloat64(),
		Tax:      totals.Tax.InexactFloat64(),
		Total:    totals.Total.InexactFloat64(),
		ShippingInfo: models.ShippingInfo{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Street:    f.Street,
			City:      f.City,
			State:     f.State,
			Zip:       f.Zip,
		},
	}

	p.transition(sess, PhaseSubmitting)
	log.Infow("Processing order", "items", len(items), "total", totals.Total.StringFixed(2))

	placeCtx := ctx
	if p.submitTimeout > 0 {
		var cancel context.CancelFunc
		placeCtx, cancel = context.WithTimeout(ctx, p.submitTimeout)
		defer cancel()
	}
	err = p.submitter.Place(placeCtx, draft)

	if ctx.Err() != nil {
		// the caller went away; nothing is recorded and nothing is cleared
		p.transition(sess, PhaseIdle)
		log.Infow("Order submission abandoned", "error", ctx.Err())
		return nil, ctx.Err()
	}
	if err != nil {
		p.transition(sess, PhaseFailed)
		log.Warnw("Error processing order", "error", err)
		return nil, errors.Wrap(ErrSubmissionFailed, err.Error())
	}

	order := draft
	order.OrderNumber = p.numbers.Next()
	order.OrderDate = p.now().UTC()

	// order append and cart clear are separate writes; a crash between
	// them leaves the order recorded with the items still in the cart
	if err := p.history.Append(ctx, sess, order); err != nil {
		p.transition(sess, PhaseFailed)
		log.Errorw("Error recording order", "order", order.OrderNumber, "error", err)
		return nil, errors.Wrap(ErrSubmissionFailed, err.Error())
	}
	if err := p.cart.Clear(ctx, sess); err != nil {
		log.Errorw("Order recorded but cart was not cleared", "order", order.OrderNumber, "error", err)
	}

	p.transition(sess, PhaseSuccess)
	log.Infow("Order placed successfully", "order", order.OrderNumber, "total", order.Total)

	if p.notifier != nil {
		go func(o models.Order) {
			if err := p.notifier.OrderPlaced(context.Background(), o); err != nil {
				zap.S().Warnw("Failed to send order notification", "order", o.OrderNumber, "error", err)
			}
		}(order)
	}

	return &Receipt{Order: order, Confirmation: Confirm(order)}, nil
}

// Confirm builds the confirmation view of an order
func Confirm(o models.Order) Confirmation {
	return Confirmation{
		OrderNumber:       o.OrderNumber,
		ItemCount:         o.ItemCount(),
		Total:             o.Total,
		TotalLabel:        fmt.Sprintf("$%.2f", o.Total),
		ShipTo:            o.ShippingInfo.FullName(),
		AddressLines:      []string{o.ShippingInfo.Street, o.ShippingInfo.CityLine()},
		EstimatedDelivery: "3-5 business days",
	}
}

func (p *Processor) begin(sess models.Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch p.phases[sess.ID] {
	case PhaseValidating, PhaseSubmitting:
		return ErrInProgress
	}
	p.phases[sess.ID] = PhaseValidating
	return nil
}

func (p *Processor) transition(sess models.Session, to Phase) {
	p.mu.Lock()
	from := p.phases[sess.ID]
	p.phases[sess.ID] = to
	p.mu.Unlock()
	zap.S().Debugw("Checkout phase", "session", sess.ID, "from", from.String(), "to", to.String())
}
