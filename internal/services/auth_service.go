package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"tokobuku/internal/apperror"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
)

// AuthService handles registration, login and token verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterUser creates a non-admin user and returns it with a fresh token.
func (s *AuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("username '%s' already taken", req.Username))
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrap(err, "check username")
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("email '%s' already registered", req.Email))
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, errors.Wrap(err, "check email")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}
	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	// Unique keys catch sign-ups that raced past the lookups.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, &apperror.Error{Status: http.StatusConflict, Message: MsgUserExists, Err: err}
		}
		return nil, errors.Wrap(err, "register user")
	}
	return s.respond(user)
}

// LoginUser checks the credentials and returns the user with a fresh token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperror.Unauthorized(MsgInvalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperror.Unauthorized(MsgInvalidCredentials)
	}
	return s.respond(user)
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
		Token:    token,
	}, nil
}

// GenerateToken signs an HS256 token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "invalid token")
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Authenticate resolves the user a token was issued to.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token: missing user_id")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "load token user")
	}
	return user, nil
}
