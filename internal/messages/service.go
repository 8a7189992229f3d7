package messages

import (
	"context"
	"errors"
	"strings"

	"voltmarket-backend/internal/models"
	"voltmarket-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Redis set of listing ids a user has messaged about, namespaced per user so
// accounts sharing a device never see each other's sent-state.
const sentSetPrefix = "sent_listings:"

type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type SendInput struct {
	ListingID   uuid.UUID
	SenderID    uuid.UUID
	SenderEmail string
	Content     string
}

// Send stores one message to the listing's seller and marks the listing in
// the sender's sent set. Senders cannot message their own listing.
func (s *Service) Send(ctx context.Context, in SendInput) (*models.Message, error) {
	if in.ListingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	if !validation.IsValidEmail(in.SenderEmail) {
		return nil, errors.New("A resolvable sender email is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.New("Message content is required")
	}

	var listing models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	if listing.SellerID == in.SenderID {
		return nil, errors.New("Cannot message your own listing")
	}

	msg := &models.Message{
		ListingID:     in.ListingID,
		SenderID:      in.SenderID,
		SenderEmail:   in.SenderEmail,
		ReceiverEmail: listing.SellerEmail,
		Content:       in.Content,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}

	// Sent-state cache; the messages table stays the source of truth, so a
	// Redis miss here only delays rehydration.
	_ = s.Rdb.SAdd(ctx, sentSetPrefix+in.SenderID.String(), in.ListingID.String()).Err()
	return msg, nil
}

// SentState returns the listing ids the user has messaged about. The Redis
// set is a cache; when empty it is rebuilt from message history, so clearing
// device or cache state never shows "Not sent" for an existing conversation.
func (s *Service) SentState(ctx context.Context, userID uuid.UUID) ([]string, error) {
	key := sentSetPrefix + userID.String()
	ids, err := s.Rdb.SMembers(ctx, key).Result()
	if err == nil && len(ids) > 0 {
		return ids, nil
	}

	var rows []models.Message
	if err := s.DB.WithContext(ctx).
		Select("DISTINCT listing_id").
		Where("sender_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids = make([]string, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.ListingID.String())
	}
	if len(ids) > 0 {
		_ = s.Rdb.SAdd(ctx, key, toInterfaces(ids)...).Err()
	}
	return ids, nil
}

// Conversation returns the thread for one listing involving the user, oldest
// first.
func (s *Service) Conversation(ctx context.Context, listingID uuid.UUID, userEmail string) ([]models.Message, error) {
	if listingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	var msgs []models.Message
	err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND (sender_email = ? OR receiver_email = ?)", listingID, userEmail, userEmail).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
