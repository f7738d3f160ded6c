package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/config"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/password"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/validation"
)

type AuthService interface {
	Signup(ctx context.Context, req repository.CreateUserRequest) (*models.User, error)
	Signin(ctx context.Context, email, password string) (*models.User, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error)
	ValidateToken(tokenString string) (*jwt.Token, error)
	GetUserFromToken(tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   password.Hasher
	validate *validator.Validate
	cfg      *config.Config
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, hasher password.Hasher, cfg *config.Config, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		validate: validation.New(),
		cfg:      cfg,
		logger:   logger,
	}
}

// errBadCredentials is shared by the unknown-email and wrong-password paths.
var errBadCredentials = apperr.Unauthorized("invalid email or password")

func (s *authService) Signup(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)

	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil && existingUser != nil:
		return nil, apperr.Conflict("user with email %s already exists", req.Email)
	case err != nil && !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: digest,
	}

	// the unique index still decides when two signups race
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.UserID))
	return user, nil
}

func (s *authService) Signin(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, "", "", errBadCredentials
		}
		return nil, "", "", err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", "", errBadCredentials
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.User, string, string, error) {
	if refreshToken == "" {
		return nil, "", "", apperr.Validation("refreshToken is required")
	}

	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", "", err
	}

	return s.issueTokens(ctx, user)
}

// issueTokens signs a new access token and rotates the stored refresh token.
func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.User, string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()

	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry); err != nil {
		return nil, "", "", err
	}

	user.RefreshToken = refreshToken
	user.RefreshTokenExpiryTime = &refreshTokenExpiry

	return user, accessToken, refreshToken, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.UserID,
		"email":  user.Email,
		"name":   user.Name,
		"exp":    now.Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

func (s *authService) ValidateToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, apperr.Unauthorized("invalid token: %v", err)
	}

	if !token.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}

	return token, nil
}

// GetUserFromToken rebuilds the caller identity from the token claims without a
// database round trip.
func (s *authService) GetUserFromToken(tokenString string) (*models.User, error) {
	token, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("invalid token claims")
	}

	userID, ok1 := claims["userId"].(string)
	email, ok2 := claims["email"].(string)
	name, _ := claims["name"].(string)
	if !ok1 || !ok2 || userID == "" {
		return nil, apperr.Unauthorized("invalid token claims")
	}

	return &models.User{UserID: userID, Email: email, Name: name}, nil
}
