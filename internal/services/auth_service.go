package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-posts/backend/internal/apperrors"
	"github.com/anonto42/nano-posts/backend/internal/models"
	"github.com/anonto42/nano-posts/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenSubject = "access"

// IDTokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthService registers users and issues and verifies access tokens.
type AuthService struct {
	users     repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	verifier  *EmailVerifier
	firebase  IDTokenVerifier
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService. verifier and firebase may be nil:
// without a verifier new users are active immediately, and without firebase
// FirebaseLogin is unavailable.
func NewAuthService(
	users repositories.UserRepository,
	jwtSecret string,
	tokenTTL time.Duration,
	verifier *EmailVerifier,
	firebase IDTokenVerifier,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		verifier:  verifier,
		firebase:  firebase,
		logger:    logger,
	}
}

// FirebaseEnabled reports whether FirebaseLogin can be used.
func (s *AuthService) FirebaseEnabled() bool {
	return s.firebase != nil
}

// SignUp creates a user. When an email verifier is configured the user starts
// inactive and is activated in the background once the address checks out.
func (s *AuthService) SignUp(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: string(hashedPassword),
		IsActive:       s.verifier == nil,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if s.verifier != nil {
		go s.verifier.VerifyAndActivate(context.WithoutCancel(ctx), user.Email)
	}
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return nil, apperrors.BadRequest("Incorrect username or password.")
	}
	return user, nil
}

// IssueToken generates a signed access token for user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.JwtCustomClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accessTokenSubject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// UserFromToken validates an access token and loads the user it was issued for.
func (s *AuthService) UserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.New(apperrors.ErrInvalidToken, "Could not validate credentials", err)
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrInvalidToken, "Bad token", nil)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FirebaseLogin verifies a Firebase ID token and returns a local access token,
// linking or creating the matching user.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (string, error) {
	if s.firebase == nil {
		return "", apperrors.BadRequest("Firebase login is not configured")
	}

	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", apperrors.New(apperrors.ErrUnauthorized, "Invalid Firebase ID token", err)
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return "", apperrors.BadRequest("Firebase account has no email")
	}
	firebaseUID := token.UID

	user, err := s.users.GetUserByFirebaseUID(ctx, firebaseUID)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.linkFirebaseUser(ctx, firebaseUID, email)
		if err != nil {
			return "", err
		}
	default:
		return "", err
	}

	return s.IssueToken(user)
}

func (s *AuthService) linkFirebaseUser(ctx context.Context, firebaseUID, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		// User found by email, link their Firebase UID
		user.FirebaseUID = &firebaseUID
		if err := s.users.UpdateUser(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Firebase already verified the address, so the account starts active.
	user = &models.User{
		Username:    email,
		Email:       email,
		IsActive:    true,
		FirebaseUID: &firebaseUID,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "created user from firebase login", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}
