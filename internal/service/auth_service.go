package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"astra/internal/models"
	"astra/internal/repository"
	"astra/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "astra-api"
	tokenAudience = "astra-client"
)

// TokenConfig carries the signing material for both token kinds. Access and
// refresh tokens are signed with different secrets so one can never pass as
// the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenConfig
}

type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
}

// TokenPair is the result of a successful register or login.
type TokenPair struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenConfig) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return nil, models.NewValidationError("Email, username, and password are required")
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Email already in use")
	}
	existing, err = s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Username already in use")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashedPassword),
		DisplayName: in.DisplayName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issueTokenPair(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}

	return s.issueTokenPair(user)
}

// Refresh validates a refresh token and issues a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, s.tokens.RefreshSecret)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired refresh token")
	}
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return "", models.NewUnauthorizedError("Invalid or expired refresh token")
	}

	userID, err := subjectUserID(claims)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", models.NewUnauthorizedError("Invalid or expired refresh token")
	}

	return s.generateAccessToken(user.ID, user.Username)
}

// CurrentUser loads the user identified by an access token's subject.
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ParseAccessToken validates an access token and returns the user ID it
// carries. Refresh tokens fail here because they are signed with a
// different secret.
func (s *AuthService) ParseAccessToken(tokenString string) (uint, error) {
	claims, err := s.parseToken(tokenString, s.tokens.AccessSecret)
	if err != nil {
		return 0, err
	}
	return subjectUserID(claims)
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refreshToken, err := s.generateRefreshToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenPair{User: user, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// generateAccessToken creates a short-lived JWT for the given user ID and username
func (s *AuthService) generateAccessToken(userID uint, username string) (string, error) {
	// Validate secret exists
	if s.tokens.AccessSecret == "" {
		return "", fmt.Errorf("access token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"username": username,                               // Username (cached in token)
		"iss":      tokenIssuer,                            // Issuer
		"aud":      tokenAudience,                          // Audience
		"exp":      now.Add(s.tokens.AccessTTL).Unix(),     // Expiration
		"iat":      now.Unix(),                             // Issued at
		"nbf":      now.Unix(),                             // Not before
		"jti":      generateJTI(),                          // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.AccessSecret))
}

// generateRefreshToken creates a long-lived JWT marked with typ=refresh.
func (s *AuthService) generateRefreshToken(userID uint) (string, error) {
	if s.tokens.RefreshSecret == "" {
		return "", fmt.Errorf("refresh token secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"typ": "refresh",
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(s.tokens.RefreshTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.tokens.RefreshSecret))
}

func (s *AuthService) parseToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	return claims, nil
}

func subjectUserID(claims jwt.MapClaims) (uint, error) {
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token subject")
	}
	userID, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}
	return uint(userID), nil
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
