package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"commercehub/internal/caching"
	"commercehub/internal/models"
	"commercehub/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService issues and validates access tokens and manages the rotating
// refresh tokens backing them.
type AuthService interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
}

type authService struct {
	cacheSvc   caching.CacheService
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenTTL   int // Access token TTL in seconds
	refreshTTL int // Refresh token TTL in seconds
}

// TokenClaims are the JWT claims carried by an access token. Role is a
// hint only; authorization re-reads the user row on every request.
type TokenClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(cacheSvc caching.CacheService, userRepo repositories.UserRepository, jwtSecret string, tokenTTLSeconds, refreshTTLSeconds int) AuthService {
	return &authService{
		cacheSvc:   cacheSvc,
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTLSeconds,
		refreshTTL: refreshTTLSeconds,
	}
}

// GenerateTokens signs a new access token and stores a fresh refresh token.
// Only the SHA-256 hash of the refresh token is persisted.
func (s *authService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenResponse, error) {
	now := time.Now()
	tokenID := uuid.NewString()

	claims := TokenClaims{
		UserID:   user.ID.String(),
		TenantID: user.TenantID.String(),
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "commercehub-auth",
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{"commercehub-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.tokenTTL) * time.Second)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	refreshToken := generateSecureToken()
	refreshTokenHash := hashToken(refreshToken)

	// The store maps hash -> user id; the Redis TTL bounds the token's life.
	cacheKey := refreshTokenKey(refreshTokenHash)
	if err := s.cacheSvc.SetString(ctx, cacheKey, user.ID.String(), time.Duration(s.refreshTTL)*time.Second); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.TokenResponse{
		AccessToken:  accessTokenString,
		TokenType:    "Bearer",
		ExpiresIn:    s.tokenTTL,
		RefreshToken: refreshToken,
		UserID:       user.ID.String(),
		TenantID:     user.TenantID.String(),
		IssuedAt:     now,
	}, nil
}

// RefreshTokens exchanges a valid refresh token for a new token pair. The
// presented token is deleted first, so each refresh token works exactly
// once. The user row is re-read, so a deleted or deactivated account cannot
// keep exchanging refresh tokens for the rest of the refresh TTL.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	cacheKey := refreshTokenKey(hashToken(refreshToken))
	userIDStr, err := s.cacheSvc.GetString(ctx, cacheKey)
	if err != nil || userIDStr == "" {
		return nil, fmt.Errorf("invalid refresh token")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in refresh token")
	}

	// Rotation: the old token is dead whether or not issuing succeeds.
	if err := s.cacheSvc.Delete(ctx, cacheKey); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || !user.IsActive {
		return nil, fmt.Errorf("invalid refresh token")
	}

	return s.GenerateTokens(ctx, user)
}

// ValidateToken parses and verifies a JWT access token.
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	jwtToken, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if claims, ok := jwtToken.Claims.(*TokenClaims); ok && jwtToken.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token claims")
}

func (s *authService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return s.cacheSvc.Delete(ctx, refreshTokenKey(hashToken(refreshToken)))
}

func refreshTokenKey(tokenHash string) string {
	return fmt.Sprintf("refresh_token:%s", tokenHash)
}

// generateSecureToken returns a cryptographically random opaque token.
func generateSecureToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}

// hashToken derives the SHA-256 storage key for a token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
