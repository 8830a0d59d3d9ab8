package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates hosted Stripe Checkout sessions in EUR.
type StripeGateway struct {
	api     *client.API
	baseURL string
}

// NewStripeGateway uses the default Stripe backends when backends is nil.
func NewStripeGateway(secretKey, baseURL string, backends *stripe.Backends) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, backends)
	return &StripeGateway{api: api, baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(li.ProductName),
		}
		if li.ProductDescription != "" {
			product.Description = stripe.String(li.ProductDescription)
		}
		items = append(items, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(string(stripe.CurrencyEUR)),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.UnitAmountMinorUnits),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          items,
		SuccessURL:         stripe.String(g.baseURL + "/payment-success.html?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(g.baseURL + "/services.html?canceled=true"),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.AddMetadata("customerName", clip(req.CustomerName, maxMetadataLen))
	params.AddMetadata("customerPhone", clip(req.CustomerPhone, maxMetadataLen))
	params.AddMetadata("message", clip(req.Message, maxMetadataLen))
	params.AddMetadata("serviceName", req.ServiceNames())

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return fromStripe(s), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session %s: %w", id, err)
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	out := &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		CustomerEmail: s.CustomerEmail,
		Metadata:      s.Metadata,
	}
	if s.Created > 0 {
		out.Created = time.Unix(s.Created, 0)
	}
	if s.CustomerDetails != nil {
		out.CustomerName = s.CustomerDetails.Name
		if out.CustomerEmail == "" {
			out.CustomerEmail = s.CustomerDetails.Email
		}
	}
	if out.CustomerName == "" && s.Metadata != nil {
		out.CustomerName = s.Metadata["customerName"]
	}
	return out
}
