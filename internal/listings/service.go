package listings

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"voltmarket-backend/internal/listingevents"
	"voltmarket-backend/internal/models"
	"voltmarket-backend/internal/pkg/validation"
	"voltmarket-backend/pkg/browse"

	"github.com/google/uuid"
	"github.com/mmcloughlin/geohash"
	"gorm.io/gorm"
)

// Stored geohash precision (~5m cells); nearby queries match on a prefix.
const geohashPrecision = 9

// DefaultNearbyPrecision is a ~5km cell.
const DefaultNearbyPrecision = 5

type Service struct {
	DB     *gorm.DB
	Events *listingevents.Service
}

type CreateListingInput struct {
	validation.ListingInput
	SellerID    uuid.UUID
	SellerEmail string
	SellerType  string
}

// CreateListing persists a validated listing. Private sellers of car
// categories start at pending_payment until checkout completes; everything
// else goes live immediately. Callers run validation.ValidateListing first.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*models.Listing, error) {
	images, err := json.Marshal(in.Images)
	if err != nil {
		return nil, err
	}
	var attrs []byte
	if len(in.Attributes) > 0 {
		attrs, err = json.Marshal(in.Attributes)
		if err != nil {
			return nil, err
		}
	}

	status := models.StatusActive
	if models.CarCategory(in.Category) && in.SellerType == models.SellerPrivate {
		status = models.StatusPendingPayment
	}

	listing := &models.Listing{
		Title:       in.Title,
		Brand:       in.Brand,
		Model:       in.Model,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		OldPrice:    in.OldPrice,
		Year:        in.Year,
		Mileage:     in.Mileage,
		RangeMiles:  in.RangeMiles,
		Color:       in.Color,
		Images:      images,
		VideoURL:    in.VideoURL,
		Attributes:  attrs,
		Location:    in.Location,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.PostalCode,
		Lat:         in.Lat,
		Lng:         in.Lng,
		SellerID:    in.SellerID,
		SellerEmail: in.SellerEmail,
		SellerType:  in.SellerType,
		Status:      status,
	}
	if in.Lat != nil && in.Lng != nil {
		listing.Geohash = geohash.EncodeWithPrecision(*in.Lat, *in.Lng, geohashPrecision)
	}

	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	_ = s.Events.Record(ctx, listing.ListingID, models.EventListingCreated, map[string]interface{}{
		"category": listing.Category,
		"price":    listing.Price,
		"status":   listing.Status,
	}, in.SellerEmail)
	return listing, nil
}

// Browse runs one paginated query for the filter state and returns the page
// plus the authoritative total. Sold listings stay visible.
func (s *Service) Browse(ctx context.Context, q Query) ([]models.Listing, int64, error) {
	base := q.apply(s.DB.WithContext(ctx).Model(&models.Listing{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []models.Listing
	err := base.Order(q.orderClause()).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// CategoryBrowse fetches up to 100 newest records in one category and applies
// the word-OR post-filter for search and location. Records beyond the fetched
// window are invisible to the filter.
func (s *Service) CategoryBrowse(ctx context.Context, category, search, location string) ([]models.Listing, error) {
	var fetched []models.Listing
	err := s.DB.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC").
		Limit(MaxPageSize).
		Find(&fetched).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.Listing, 0, len(fetched))
	for _, l := range fetched {
		if !browse.MatchesAnyWord(search, l.Title, l.Brand, l.Model) {
			continue
		}
		if !browse.MatchesAnyWord(location, l.Location) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	if listingID == uuid.Nil {
		return nil, errors.New("listing_id is required")
	}
	var listing models.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Listing not found")
		}
		return nil, err
	}
	return &listing, nil
}

// Nearby returns listings whose geohash shares a prefix with the given point.
func (s *Service) Nearby(ctx context.Context, lat, lng float64, precision uint) ([]models.Listing, error) {
	if precision < 1 || precision > geohashPrecision {
		precision = DefaultNearbyPrecision
	}
	prefix := geohash.EncodeWithPrecision(lat, lng, precision)
	var out []models.Listing
	err := s.DB.WithContext(ctx).
		Where("geohash LIKE ?", prefix+"%").
		Order("created_at DESC").
		Limit(MaxPageSize).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSold performs the one-way not-sold -> sold transition for the owner.
// There is no path back.
func (s *Service) MarkSold(ctx context.Context, listingID, sellerID uuid.UUID, actorEmail string) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.New("Unauthorized")
	}
	if listing.Sold {
		return nil, errors.New("Listing is already sold")
	}

	now := time.Now()
	updates := map[string]interface{}{"sold": true, "sold_at": now}
	if err := s.DB.WithContext(ctx).Model(listing).Updates(updates).Error; err != nil {
		return nil, err
	}
	listing.Sold = true
	listing.SoldAt = &now

	_ = s.Events.Record(ctx, listing.ListingID, models.EventListingSold, map[string]interface{}{
		"sold_at": now,
	}, actorEmail)
	return listing, nil
}

// UpdatePrice lets the owner change the asking price. When lowering, the
// previous price becomes old_price so the browse grid can show the discount.
func (s *Service) UpdatePrice(ctx context.Context, listingID, sellerID uuid.UUID, newPrice float64, actorEmail string) (*models.Listing, error) {
	if math.IsNaN(newPrice) || newPrice <= 0 || newPrice > 1_000_000 {
		return nil, errors.New("Invalid price")
	}
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.New("Unauthorized")
	}
	if listing.Sold {
		return nil, errors.New("Sold listings cannot be repriced")
	}
	if newPrice == listing.Price {
		return nil, errors.New("No valid changes provided")
	}

	updates := map[string]interface{}{"price": newPrice}
	if newPrice < listing.Price {
		updates["old_price"] = listing.Price
	}
	if err := s.DB.WithContext(ctx).Model(listing).Updates(updates).Error; err != nil {
		return nil, err
	}
	previous := listing.Price
	listing.Price = newPrice
	if newPrice < previous {
		listing.OldPrice = &previous
	}

	_ = s.Events.Record(ctx, listing.ListingID, models.EventPriceChanged, map[string]interface{}{
		"from": previous,
		"to":   newPrice,
	}, actorEmail)
	return listing, nil
}

// Activate flips a pending_payment listing to active. Called by the checkout
// webhook after the listing fee settles; idempotent on already-active listings.
func (s *Service) Activate(ctx context.Context, listingID uuid.UUID) (*models.Listing, error) {
	listing, err := s.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status == models.StatusActive {
		return listing, nil
	}
	if err := s.DB.WithContext(ctx).Model(listing).Update("status", models.StatusActive).Error; err != nil {
		return nil, err
	}
	listing.Status = models.StatusActive
	_ = s.Events.Record(ctx, listing.ListingID, models.EventListingActivated, map[string]interface{}{}, "")
	return listing, nil
}
