package auth

import (
	"context"
	"errors"
	"strings"

	"voltmarket-backend/internal/models"
	"voltmarket-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrInvalidEmail          = errors.New("Invalid email")
	ErrIncorrectPassword     = errors.New("Incorrect password")
)

// UserFinder abstracts dealer credential lookup for testability.
type UserFinder interface {
	FindByEmailAndPassword(email, password string) (*models.User, error)
}

// GormUserFinder finds dealer accounts by email and verifies the bcrypt hash.
type GormUserFinder struct {
	DB *gorm.DB
}

func (f *GormUserFinder) FindByEmailAndPassword(email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrEmailPasswordRequired
	}
	var user models.User
	err := f.DB.Where("email = ? AND seller_type = ?", strings.ToLower(email), models.SellerDealer).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrIncorrectPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &user, nil
}

// HashPassword hashes a dealer password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Service handles external-identity sync.
type Service struct {
	DB *gorm.DB
}

type SyncInput struct {
	ExternalID string
	Email      string
	Fullname   string
	AvatarURL  string
}

// SyncExternalUser upserts the account for an external identity and returns
// the internal seller id. Matched by external_id first, then by email so an
// account created before identity linking gets adopted instead of duplicated.
func (s *Service) SyncExternalUser(ctx context.Context, in SyncInput) (*models.User, error) {
	if in.ExternalID == "" {
		return nil, errors.New("external_id is required")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, errors.New("A valid email is required")
	}
	email := strings.ToLower(in.Email)

	var user models.User
	err := s.DB.WithContext(ctx).Where("external_id = ?", in.ExternalID).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		err = s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	}
	if err == gorm.ErrRecordNotFound {
		user = models.User{
			ExternalID: &in.ExternalID,
			Email:      email,
			Fullname:   in.Fullname,
			AvatarURL:  in.AvatarURL,
			SellerType: models.SellerPrivate,
		}
		if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"external_id": in.ExternalID,
		"email":       email,
	}
	if in.Fullname != "" {
		updates["fullname"] = in.Fullname
	}
	if in.AvatarURL != "" {
		updates["avatar_url"] = in.AvatarURL
	}
	if err := s.DB.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, err
	}
	user.ExternalID = &in.ExternalID
	user.Email = email
	return &user, nil
}
