package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"voltmarket-backend/internal/listingevents"
	"voltmarket-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type WebhookHandler struct {
	DB            *gorm.DB
	Events        *listingevents.Service
	WebhookSecret string
}

type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

type checkoutSessionObject struct {
	ID            string            `json:"id"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	CustomerEmail string            `json:"customer_email"`
	PaymentStatus string            `json:"payment_status"`
	Metadata      map[string]string `json:"metadata"`
}

// HandleWebhook POST /api/v1/stripe/webhook — raw body, signature
// verification, then process. Domain errors still return 200 so Stripe does
// not retry them.
func (wh *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	rawBody := c.BodyRaw()
	sig := c.Get("Stripe-Signature")

	if len(rawBody) == 0 {
		log.Warn().Msg("Stripe webhook received empty body (ensure no global body parser consumes the webhook body)")
		return c.Status(400).SendString("Webhook Error: empty body")
	}

	if err := verifyStripeSignature(rawBody, sig, wh.WebhookSecret); err != nil {
		log.Warn().Err(err).Bool("has_sig", sig != "").Bool("has_secret", wh.WebhookSecret != "").Msg("Stripe webhook signature verification failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	var event stripeEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		log.Warn().Err(err).Msg("Stripe webhook JSON parse failed")
		return c.Status(400).SendString(fmt.Sprintf("Webhook Error: %s", err.Error()))
	}

	if event.Type == "checkout.session.completed" {
		var cs checkoutSessionObject
		if err := json.Unmarshal(event.Data.Object, &cs); err != nil {
			return c.Status(200).SendString("ok")
		}
		if err := wh.handleSessionCompleted(cs, event.ID, rawBody); err != nil {
			return c.Status(200).SendString("ok")
		}
	}

	return c.Status(200).SendString("ok")
}

func (wh *WebhookHandler) handleSessionCompleted(cs checkoutSessionObject, eventID string, rawBody []byte) error {
	listingIDStr := cs.Metadata["listing_id"]
	if listingIDStr == "" || cs.PaymentStatus != "paid" {
		return nil // not a listing-fee session, skip silently
	}
	listingID, err := uuid.Parse(listingIDStr)
	if err != nil {
		return nil
	}

	activated := false
	err = wh.DB.Transaction(func(tx *gorm.DB) error {
		// Idempotency: one Payment per checkout session
		var existing models.Payment
		if err := tx.Where("stripe_session_id = ?", cs.ID).First(&existing).Error; err == nil {
			return nil
		}

		payment := models.Payment{
			StripeSessionID: cs.ID,
			StripeEventID:   eventID,
			ListingID:       listingID,
			BuyerEmail:      cs.CustomerEmail,
			AmountCents:     cs.AmountTotal,
			Currency:        cs.Currency,
			Status:          cs.PaymentStatus,
			RawEvent:        rawBody,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Listing{}).
			Where("listing_id = ? AND status = ?", listingID, models.StatusPendingPayment).
			Update("status", models.StatusActive)
		if res.Error != nil {
			return res.Error
		}
		activated = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", cs.ID).Msg("checkout webhook processing failed")
		return err
	}
	if activated && wh.Events != nil {
		_ = wh.Events.Record(context.Background(), listingID, models.EventListingActivated, map[string]interface{}{
			"stripe_session_id": cs.ID,
		}, "")
	}
	return nil
}

// verifyStripeSignature verifies "t=...,v1=..." HMAC-SHA256 over "t.payload".
func verifyStripeSignature(payload []byte, header, secret string) error {
	if secret == "" {
		return errors.New("webhook secret not configured")
	}
	if header == "" {
		return errors.New("missing stripe-signature header")
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return errors.New("malformed stripe-signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return errors.New("invalid signature timestamp")
	}
	if d := time.Since(time.Unix(ts, 0)); d > 5*time.Minute || d < -5*time.Minute {
		return errors.New("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp + "."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return errors.New("no matching v1 signature")
}
