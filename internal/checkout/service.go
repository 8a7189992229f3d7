package checkout

import (
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// Flat listing fee charged to private sellers of car categories, in cents.
const ListingFeeCents int64 = 4999

// SessionCreator abstracts Stripe Checkout Session creation for testability.
type SessionCreator interface {
	Create(in CreateSessionInput) (*SessionResult, error)
}

type CreateSessionInput struct {
	ListingID    string
	ListingTitle string
	BuyerEmail   string
	AmountCents  int64
	SuccessURL   string
	CancelURL    string
}

type SessionResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// StripeSessionCreator creates real Checkout Sessions via the Stripe SDK.
type StripeSessionCreator struct {
	SecretKey string
}

func (s *StripeSessionCreator) Create(in CreateSessionInput) (*SessionResult, error) {
	stripe.Key = s.SecretKey

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(in.BuyerEmail),
		SuccessURL:    stripe.String(in.SuccessURL),
		CancelURL:     stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(in.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Listing fee: " + in.ListingTitle),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("listing_id", in.ListingID)

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &SessionResult{ID: sess.ID, URL: sess.URL}, nil
}
