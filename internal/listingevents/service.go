package listingevents

import (
	"context"
	"encoding/json"
	"errors"

	"voltmarket-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Record appends one lifecycle event for a listing. Marshal failures fall back
// to an empty JSON object so the append never blocks the main transition.
func (s *Service) Record(ctx context.Context, listingID uuid.UUID, eventType string, data map[string]interface{}, actorEmail string) error {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	event := &models.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: payload,
	}
	if actorEmail != "" {
		event.ActorEmail = &actorEmail
	}
	return s.DB.WithContext(ctx).Create(event).Error
}

// ListForListing returns a listing's events oldest first.
func (s *Service) ListForListing(ctx context.Context, listingID uuid.UUID) ([]models.ListingEvent, error) {
	if listingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	var events []models.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
