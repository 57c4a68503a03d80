package session

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/adoptd-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	ErrInvalidEmail       = fmt.Errorf("%w: a valid email is required", apperr.ErrValidation)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrValidation)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = fmt.Errorf("%w: session expired or revoked", apperr.ErrUnauthenticated)
)

const minPasswordLength = 8

// Store is the slice of the remote data gateway that owns identities and
// issued sessions. Missing rows are reported as apperr.ErrNotFound.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	OpenSession(ctx context.Context, userID uuid.UUID, expiresAt time.Time) (uuid.UUID, error)
	RevokeSession(ctx context.Context, sessionID uuid.UUID) (bool, error)
	SessionActive(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// Issued is the result of a successful credential exchange.
type Issued struct {
	Token   string
	Session Session
}

// Service performs credential exchange and token verification.
type Service struct {
	store  Store
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewService(store Store, secret string, expiry time.Duration) *Service {
	return &Service{store: store, secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*Issued, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, email, string(hash))
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return s.issue(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*Issued, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// SignOut revokes the session. A session that is already gone counts as
// signed out.
func (s *Service) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return nil
	}
	if _, err := s.store.RevokeSession(ctx, sessionID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return nil
}

// Verify resolves validated token claims into a live session. The role is
// read from the gateway, not trusted from the token.
func (s *Service) Verify(ctx context.Context, claims jwt.MapClaims) (*Session, error) {
	userID, sessionID, err := ParseClaims(claims)
	if err != nil {
		return nil, err
	}

	active, err := s.store.SessionActive(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrInvalidToken
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return &Session{ID: sessionID, UserID: user.ID, Email: user.Email, Role: roleOf(user)}, nil
}

func (s *Service) issue(ctx context.Context, user *models.User) (*Issued, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	sessionID, err := s.store.OpenSession(ctx, user.ID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"sid":   sessionID.String(),
		"email": user.Email,
		"role":  roleOf(user),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Issued{
		Token: token,
		Session: Session{
			ID:        sessionID,
			UserID:    user.ID,
			Email:     user.Email,
			Role:      roleOf(user),
			ExpiresAt: expiresAt,
		},
	}, nil
}

// ParseClaims extracts the user and session ids from access token claims.
func ParseClaims(claims jwt.MapClaims) (userID, sessionID uuid.UUID, err error) {
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)

	userID, err = uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	sessionID, err = uuid.Parse(sid)
	if err != nil {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	return userID, sessionID, nil
}

func roleOf(user *models.User) string {
	if user.Role == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
