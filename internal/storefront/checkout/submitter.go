package checkout

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	errx "github.com/storefront-core/server/internal/core/error"
	"github.com/storefront-core/server/internal/storefront/cart"
	"github.com/storefront-core/server/internal/storefront/model"
	logx "github.com/storefront-core/server/pkg/logger"
)

// Submitter turns the cart plus a checkout form into one order request.
type Submitter struct {
	cart   *cart.Store
	sender model.OrderSender
	cfg    model.CheckoutConfig

	inFlight  atomic.Bool
	onSuccess func(model.OrderResult)
	newKey    func() string
}

type Option func(*Submitter)

// WithOnSuccess registers a hook that runs after a confirmed order has been taken out of the cart.
func WithOnSuccess(fn func(model.OrderResult)) Option {
	return func(s *Submitter) { s.onSuccess = fn }
}

// WithIdempotencyKeys overrides the idempotency key generator.
func WithIdempotencyKeys(fn func() string) Option {
	return func(s *Submitter) { s.newKey = fn }
}

func NewSubmitter(store *cart.Store, sender model.OrderSender, cfg model.CheckoutConfig, opts ...Option) *Submitter {
	s := &Submitter{
		cart:   store,
		sender: sender,
		cfg:    cfg,
		newKey: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates locally, sends the order once and removes the ordered lines
// from the cart on success.
// A second call while one is in flight fails with SUBMIT_IN_PROGRESS.
func (s *Submitter) Submit(ctx context.Context, form model.CheckoutForm) (*model.OrderResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		logx.Warn().Msg("checkout already in flight, rejecting duplicate submit")
		return nil, errx.ErrSubmitInProgress
	}
	defer s.inFlight.Store(false)

	lines := s.cart.Lines()
	if len(lines) == 0 {
		return nil, errx.ErrEmptyCart
	}
	if missingRequired(form) {
		return nil, errx.ErrMissingFields
	}

	payload := BuildPayload(lines, form, s.cfg)
	key := s.newKey()

	logx.Info().
		Str("idempotency_key", key).
		Int("items", len(payload.Items)).
		Str("subtotal", payload.Subtotal.Decimal().StringFixed(2)).
		Msg("submitting order")

	resp, err := s.sender.SubmitOrder(ctx, payload, key)
	if err != nil {
		logx.Error().Err(err).Str("code", string(errx.CodeOf(err))).Str("idempotency_key", key).Msg("order submission failed")
		return nil, err
	}

	subtotal := payload.Subtotal.Decimal()
	result := model.OrderResult{
		OrderNumber:  resp.OrderNumber,
		Subtotal:     subtotal,
		ShippingCost: s.cfg.ShippingCost,
		TaxAmount:    s.cfg.TaxAmount,
		Total:        subtotal.Add(s.cfg.ShippingCost).Add(s.cfg.TaxAmount),
	}

	s.cart.Deduct(lines)
	logx.Info().Str("order_number", result.OrderNumber).Msg("order placed")

	if s.onSuccess != nil {
		s.onSuccess(result)
	}
	return &result, nil
}

// InFlight reports whether a submission is currently running.
func (s *Submitter) InFlight() bool {
	return s.inFlight.Load()
}

func missingRequired(f model.CheckoutForm) bool {
	for _, v := range []string{f.Name, f.Email, f.Address, f.City, f.State, f.Country, f.ZipCode} {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// BuildPayload assembles the order document from cart lines and the form.
func BuildPayload(lines []model.CartLine, f model.CheckoutForm, cfg model.CheckoutConfig) model.OrderPayload {
	subtotal := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
		items = append(items, model.OrderItem{
			ProductID:   l.ID,
			Quantity:    l.Quantity,
			UnitPrice:   model.NewMoney(l.Price),
			ProductName: l.Name,
			Attributes:  map[string]string{"category": l.Category},
		})
	}

	var coupon *string
	if c := strings.TrimSpace(f.CouponCode); c != "" {
		coupon = &c
	}

	return model.OrderPayload{
		CustomerName:         strings.TrimSpace(f.Name),
		CustomerEmail:        strings.TrimSpace(f.Email),
		CustomerPhone:        strings.TrimSpace(f.Phone),
		ShippingAddress:      strings.TrimSpace(f.Address),
		ShippingCity:         strings.TrimSpace(f.City),
		ShippingState:        strings.TrimSpace(f.State),
		ShippingCountry:      strings.TrimSpace(f.Country),
		ShippingZipCode:      strings.TrimSpace(f.ZipCode),
		DeliveryMethod:       f.DeliveryMethod,
		DeliveryInstructions: f.DeliveryInstructions,
		IsGift:               f.IsGift,
		GiftMessage:          f.GiftMessage,
		Subtotal:             model.NewMoney(subtotal),
		ShippingCost:         model.NewMoney(cfg.ShippingCost),
		TaxAmount:            model.NewMoney(cfg.TaxAmount),
		CouponCode:           coupon,
		PaymentMethod:        f.PaymentMethod,
		Items:                items,
	}
}
