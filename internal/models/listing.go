package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vehicle categories (closed set). Category decides which attribute group applies.
const (
	CategoryEVCar     = "ev-car"
	CategoryHybridCar = "hybrid-car"
	CategoryEVScooter = "ev-scooter"
	CategoryEBike     = "e-bike"
)

// Seller types.
const (
	SellerPrivate = "private"
	SellerDealer  = "dealer"
)

// Listing statuses. Private car listings start as pending_payment until the
// checkout webhook activates them; everything else is active immediately.
const (
	StatusActive         = "active"
	StatusPendingPayment = "pending_payment"
)

// Listing is a single vehicle-for-sale record exposed to buyers.
type Listing struct {
	ListingID   uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Brand       string         `gorm:"column:brand;not null;index" json:"brand"`
	Model       string         `gorm:"column:model;not null" json:"model"`
	Description string         `gorm:"column:description" json:"description"`
	Category    string         `gorm:"column:category;type:varchar(20);not null;index" json:"category"`
	Price       float64        `gorm:"column:price;type:decimal(12,2);not null" json:"price"`
	OldPrice    *float64       `gorm:"column:old_price;type:decimal(12,2)" json:"old_price,omitempty"`
	Year        int            `gorm:"column:year;not null;index" json:"year"`
	Mileage     *int64         `gorm:"column:mileage" json:"mileage,omitempty"`
	RangeMiles  *int64         `gorm:"column:range_miles" json:"range_miles,omitempty"`
	Color       string         `gorm:"column:color" json:"color"`
	Images      datatypes.JSON `gorm:"column:images;type:jsonb;not null" json:"images"`
	VideoURL    *string        `gorm:"column:video_url" json:"video_url,omitempty"`

	// Category-tagged attribute group (car: fuel_type/transmission/drivetrain,
	// micromobility: motor_power_watts/wheel_size_inches/gear_system).
	Attributes datatypes.JSON `gorm:"column:attributes;type:jsonb" json:"attributes,omitempty"`

	Location   string   `gorm:"column:location;not null" json:"location"`
	City       string   `gorm:"column:city" json:"city"`
	State      string   `gorm:"column:state" json:"state"`
	PostalCode string   `gorm:"column:postal_code" json:"postal_code"`
	Lat        *float64 `gorm:"column:lat" json:"lat,omitempty"`
	Lng        *float64 `gorm:"column:lng" json:"lng,omitempty"`
	Geohash    string   `gorm:"column:geohash;type:varchar(12);index" json:"geohash,omitempty"`

	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	SellerEmail string    `gorm:"column:seller_email;not null" json:"seller_email"`
	SellerType  string    `gorm:"column:seller_type;type:varchar(10);not null;default:private" json:"seller_type"`

	Status string     `gorm:"column:status;type:varchar(20);not null;default:active" json:"status"`
	Sold   bool       `gorm:"column:sold;not null;default:false" json:"sold"`
	SoldAt *time.Time `gorm:"column:sold_at" json:"sold_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// ValidCategory reports whether c is one of the four closed vehicle types.
func ValidCategory(c string) bool {
	switch c {
	case CategoryEVCar, CategoryHybridCar, CategoryEVScooter, CategoryEBike:
		return true
	}
	return false
}

// CarCategory reports whether c is a car category (checkout required for
// private sellers, car attribute group applies).
func CarCategory(c string) bool {
	return c == CategoryEVCar || c == CategoryHybridCar
}
