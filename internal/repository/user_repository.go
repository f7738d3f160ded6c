package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required"`
}

type UpdateProfileRequest struct {
	UserID   string  `json:"userId"`
	Name     *string `json:"name"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,url"`
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser inserts a user whose PasswordHash is already set.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO users (user_id, email, name, password_hash, image_url, refresh_token, refresh_token_expiry_time, created_at)
		VALUES (:user_id, :email, :name, :password_hash, :image_url, :refresh_token, :refresh_token_expiry_time, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("user with email %s already exists", user.Email)
		}
		return upstream(err, "error creating user")
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, upstream(err, "error getting user")
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("user with email %s not found", email)
		}
		return nil, upstream(err, "error getting user by email")
	}

	return &user, nil
}

// UpdateProfile changes the profile fields and returns the updated row.
func (r *userRepository) UpdateProfile(ctx context.Context, userID, name string, imageURL *string) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $1, image_url = $2
		WHERE user_id = $3
		RETURNING *
	`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, name, imageURL, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("user %s not found", userID)
		}
		return nil, upstream(err, "error updating user profile")
	}

	return &user, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error {
	query := `
		UPDATE users
		SET refresh_token = $1, refresh_token_expiry_time = $2
		WHERE user_id = $3
	`

	result, err := r.db.ExecContext(ctx, query, refreshToken, expiryTime, userID)
	if err != nil {
		return upstream(err, "error updating refresh token")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated rows: %w", err)
	}

	if rowsAffected == 0 {
		return apperr.NotFound("user %s not found", userID)
	}

	return nil
}

func (r *userRepository) GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error) {
	var user models.User

	query := `
		SELECT * FROM users
		WHERE refresh_token = $1
		AND refresh_token_expiry_time > CURRENT_TIMESTAMP
	`

	err := r.db.GetContext(ctx, &user, query, refreshToken)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.Unauthorized("invalid or expired refresh token")
		}
		return nil, upstream(err, "error getting user by refresh token")
	}

	return &user, nil
}
