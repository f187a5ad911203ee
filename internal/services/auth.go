package services

import (
	"errors"
	"time"

	"visitlog/internal/config"
	"visitlog/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrTicketInvalid      = errors.New("login ticket invalid or expired")
)

type AuthService struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewAuthService(cfg *config.Config, db *gorm.DB) *AuthService {
	return &AuthService{cfg: cfg, db: db}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Security.BcryptCost)
	return string(bytes), err
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Register creates a new inspector account
func (s *AuthService) Register(email, password string) (*models.User, error) {
	var existingUser models.User
	if err := s.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         "inspector",
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies credentials and returns the user. Unknown email
// and wrong password both map to ErrInvalidCredentials so callers cannot
// tell registered addresses apart.
func (s *AuthService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUserByEmail returns the user owning the given email
func (s *AuthService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateSession issues an opaque session token for the user and persists
// it with a server-side expiry.
func (s *AuthService) CreateSession(userID uint) (*models.Session, error) {
	session := &models.Session{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.SessionTTL()),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession resolves a session token to a live session and its user
func (s *AuthService) GetSession(token string) (*models.Session, error) {
	var session models.Session
	if err := s.db.Where("token = ? AND expires_at > ?", token, time.Now()).Preload("User").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// DeleteExpiredSessions removes expired sessions
func (s *AuthService) DeleteExpiredSessions() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&models.Session{}).Error
}

// SessionTTL returns the configured session lifetime
func (s *AuthService) SessionTTL() time.Duration {
	ttl, err := time.ParseDuration(s.cfg.Login.SessionTTL)
	if err != nil || ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return ttl
}

// CodeTTL returns the configured verification code lifetime
func (s *AuthService) CodeTTL() time.Duration {
	ttl, err := time.ParseDuration(s.cfg.Login.CodeTTL)
	if err != nil || ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return ttl
}

// IssueLoginTicket signs a short-lived token marking that the email has
// passed the password check. It travels in the code_verif cookie and
// gates the code-entry step.
func (s *AuthService) IssueLoginTicket(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"exp": now.Add(s.CodeTTL()).Unix(),
		"iat": now.Unix(),
		"iss": s.cfg.Login.Issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.ticketSecret()))
}

// CheckLoginTicket validates a login ticket and that it was issued for
// the given email. Expired or tampered tickets fail.
func (s *AuthService) CheckLoginTicket(ticket, email string) error {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTicketInvalid
		}
		return []byte(s.ticketSecret()), nil
	})
	if err != nil || !token.Valid {
		return ErrTicketInvalid
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub != email {
		return ErrTicketInvalid
	}

	return nil
}

func (s *AuthService) ticketSecret() string {
	if s.cfg.Login.TicketSecret != "" {
		return s.cfg.Login.TicketSecret
	}
	return "visitlog-default-secret-change-in-production"
}
