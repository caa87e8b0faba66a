package services

import (
	"errors"
	"time"

	"github.com/xnftlabs/backend/internal/config"
	"github.com/xnftlabs/backend/internal/models"
	"github.com/xnftlabs/backend/pkg/crypto"
	jwtpkg "github.com/xnftlabs/backend/pkg/jwt"
	"github.com/xnftlabs/backend/pkg/validation"
	"gorm.io/gorm"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a new wallet account. The address is generated by the
// model hook; the caller only supplies credentials.
func (s *AuthService) Register(password string) (*models.Wallet, error) {
	if !validation.ValidatePassword(password) {
		return nil, errors.New("password must be at least 8 characters with upper, lower and digit")
	}

	hashed, err := crypto.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	wallet := &models.Wallet{
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := s.db.Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

// Login authenticates a wallet and returns access and refresh tokens
func (s *AuthService) Login(address, password string) (string, string, *models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("address = ?", address).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, errors.New("invalid credentials")
		}
		return "", "", nil, err
	}

	if !wallet.IsActive {
		return "", "", nil, errors.New("account is deactivated")
	}

	if !crypto.CheckPassword(password, wallet.PasswordHash) {
		return "", "", nil, errors.New("invalid credentials")
	}

	accessToken, err := jwtpkg.GenerateToken(wallet.Address, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := jwtpkg.GenerateToken(wallet.Address, jwtpkg.RefreshToken, s.cfg.JWTSecret, s.cfg.JWTRefreshTokenDuration)
	if err != nil {
		return "", "", nil, err
	}

	refreshTokenModel := &models.RefreshToken{
		WalletID:  wallet.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshTokenDuration),
	}
	if err := s.db.Create(refreshTokenModel).Error; err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, &wallet, nil
}

// RefreshToken generates a new access token from a valid refresh token
func (s *AuthService) RefreshToken(refreshToken string) (string, error) {
	claims, err := jwtpkg.ValidateToken(refreshToken, s.cfg.JWTSecret)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	if claims.TokenType != jwtpkg.RefreshToken {
		return "", errors.New("invalid token type")
	}

	var tokenModel models.RefreshToken
	if err := s.db.Where("token = ?", refreshToken).First(&tokenModel).Error; err != nil {
		return "", errors.New("refresh token not found")
	}

	if time.Now().After(tokenModel.ExpiresAt) {
		return "", errors.New("refresh token expired")
	}

	return jwtpkg.GenerateToken(claims.Wallet, jwtpkg.AccessToken, s.cfg.JWTSecret, s.cfg.JWTAccessTokenDuration)
}

// Logout invalidates all refresh tokens of a wallet
func (s *AuthService) Logout(address string) error {
	var wallet models.Wallet
	if err := s.db.Where("address = ?", address).First(&wallet).Error; err != nil {
		return err
	}
	return s.db.Where("wallet_id = ?", wallet.ID).Delete(&models.RefreshToken{}).Error
}

// ValidateAccessToken validates an access token and returns its claims
func (s *AuthService) ValidateAccessToken(token string) (*jwtpkg.Claims, error) {
	claims, err := jwtpkg.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwtpkg.AccessToken {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}

// CleanupExpiredTokens removes expired refresh tokens
func (s *AuthService) CleanupExpiredTokens() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}
