package services

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pickmeup-server/models"
	"pickmeup-server/session"
	"pickmeup-server/store"
	"pickmeup-server/utils/errors"
)

const tokenLifetime = 24 * time.Hour

// AuthService creates accounts, issues JWTs and tracks the active session
// per user so logout actually invalidates the token.
type AuthService struct {
	users     store.UserStore
	sessions  store.SessionCache
	jwtSecret string
}

func NewAuthService(users store.UserStore, sessions store.SessionCache, jwtSecret string) *AuthService {
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret}
}

// Register creates a user with an empty friends list and no pending
// requests, and returns the new uid.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", errors.ErrInvalidInput
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "HASH_ERROR", "Failed to hash password", http.StatusInternalServerError)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Friends:      []string{},
		FriendRequests: models.FriendRequests{
			Incoming: []string{},
			Outgoing: []string{},
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login verifies the password and returns a signed token. The token is
// recorded as the user's active session.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == errors.ErrNotFound {
			return "", errors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userID": user.ID,
		"email":  user.Email,
		"exp":    time.Now().Add(tokenLifetime).Unix(),
	})
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", errors.Wrap(err, "JWT_ERROR", "Failed to generate token", http.StatusInternalServerError)
	}

	if err := s.sessions.PutSession(ctx, user.ID, tokenString, tokenLifetime); err != nil {
		return "", err
	}
	return tokenString, nil
}

// Logout clears the caller's active session; the old token stops
// authenticating immediately.
func (s *AuthService) Logout(ctx context.Context) error {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return errors.ErrUnauthorized
	}
	return s.sessions.DeleteSession(ctx, sess.UID)
}
