package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/validation"
)

type UserService interface {
	Me(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.AuthorSummary, error)
}

type userService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
		validate: validation.New(),
	}
}

func (s *userService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

// UpdateProfile changes only the fields set in req. An empty imageUrl clears it.
func (s *userService) UpdateProfile(ctx context.Context, req repository.UpdateProfileRequest) (*models.User, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return nil, err
	}

	// get user by id
	user, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	name := user.Name
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Validation("name must not be empty")
		}
	}

	imageURL := user.ImageURL
	if req.ImageURL != nil {
		imageURL = req.ImageURL
		if strings.TrimSpace(*req.ImageURL) == "" {
			imageURL = nil
		}
	}

	return s.userRepo.UpdateProfile(ctx, req.UserID, name, imageURL)
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.AuthorSummary, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := user.Summary()
	return &summary, nil
}
