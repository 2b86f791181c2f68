package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"estate-backend/internal/domain"
	"estate-backend/internal/pkg/constants"
	"estate-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNameRequired = errors.New("Username is required and must be a non-empty string")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrInvalidPassword  = errors.New("Invalid password format")
	ErrFullnameRequired = errors.New("Full name is required and must be a non-empty string")
	ErrInvalidFullname  = errors.New("Full name contains invalid characters (only letters, spaces, hyphens, and apostrophes allowed)")
	ErrInvalidRole      = errors.New("Invalid role")
	ErrEmailTaken       = errors.New("Email already registered")
	ErrUserNameTaken    = errors.New("Username already registered")
	ErrUserNotFound     = errors.New("User not found")
)

// Service holds the DB for account operations.
type Service struct {
	DB *gorm.DB
}

// RegisterInput is the body of POST /api/users/register.
type RegisterInput struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// Register creates a buyer/renter account with role "user".
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.create(ctx, in, constants.User)
}

// CreateWithRole is used by admins to create agent or admin accounts.
func (s *Service) CreateWithRole(ctx context.Context, in RegisterInput, role string) (*domain.User, error) {
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, in, role)
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (*domain.User, error) {
	userName := strings.TrimSpace(in.UserName)
	if userName == "" {
		return nil, ErrUserNameRequired
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, ErrInvalidPassword
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if trimmed == "" {
		return nil, ErrFullnameRequired
	}
	if !validation.IsValidFullname(trimmed) {
		return nil, ErrInvalidFullname
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if err := s.DB.WithContext(ctx).Where("user_name = ?", userName).First(&existing).Error; err == nil {
		return nil, ErrUserNameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     titleCase(trimmed),
		Role:         role,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ViewUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// titleCase collapses whitespace and upper-cases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
