package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID, name string, imageURL *string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetLatestByAuthor(ctx context.Context, authorID string) (*models.Post, error)
	ListFeed(ctx context.Context) ([]models.FeedPost, error)
}

type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
}

type ReactionRepository interface {
	Toggle(ctx context.Context, actorID string, target models.Target, reactionType models.ReactionType) (*models.ToggleResult, error)
}

type UploadRepository interface {
	Create(ctx context.Context, upload *models.Upload) error
	GetByKey(ctx context.Context, objectKey string) (*models.Upload, error)
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
}

type Repository struct {
	User     UserRepository
	Post     PostRepository
	Reply    ReplyRepository
	Reaction ReactionRepository
	Upload   UploadRepository
	Tables   TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:     NewUserRepository(db),
		Post:     NewPostRepository(db),
		Reply:    NewReplyRepository(db),
		Reaction: NewReactionRepository(db),
		Upload:   NewUploadRepository(db),
		Tables:   NewTablesRepository(db),
	}
}
