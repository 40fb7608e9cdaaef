package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"trackbox/internal/models"
	"trackbox/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles authentication: registration, login, token issuance
// and verification, identity resolution and the administrator check.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	admins    map[string]struct{}
}

// NewAuthService creates a new AuthService. adminEmails is the configured
// allow-list of administrator emails; it is copied into an immutable set.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, adminEmails []string) *AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		admins[email] = struct{}{}
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  60 * time.Minute,
		admins:    admins,
	}
}

// Register creates a new user with a bcrypt-hashed password. Email and
// username uniqueness is pre-checked in a single lookup; the unique indexes
// on both columns remain authoritative if concurrent registrations race.
func (s *AuthService) Register(user *models.User) error {
	existing, err := s.userRepo.FindByEmailOrUsername(user.Email, user.Username)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return ErrDuplicateRegistration
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// Login authenticates by email or username and returns a signed token.
// Unknown identifier and wrong password both yield ErrInvalidCredentials so
// the caller cannot enumerate accounts.
func (s *AuthService) Login(email, username, password string) (string, error) {
	user, err := s.userRepo.FindByEmailOrUsername(email, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(user.ID), 10),
		"exp": now.Add(s.tokenTTL).Unix(),
		"iat": now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a bearer token, returning its claims.
// Signature, format and expiry failures all map to ErrInvalidCredential.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidCredential
}

// ResolveUser maps a verified token's subject claim to a stored user. A
// token can outlive the user it names, so an absent user is a hard
// authentication failure (ErrUserNotFound), not a pass-through.
func (s *AuthService) ResolveUser(claims jwt.MapClaims) (*models.User, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidCredential
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.userRepo.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user %d: %w", id, err)
	}
	return user, nil
}

// IsAdmin reports whether the email belongs to the configured administrator
// allow-list. Exact match, no storage access.
func (s *AuthService) IsAdmin(email string) bool {
	_, ok := s.admins[email]
	return ok
}
