package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

type ReplyRepositoryImpl struct {
	DB *sqlx.DB
}

type CreateReplyRequest struct {
	AuthorID string  `json:"authorId"`
	PostID   string  `json:"postId" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,url"`
}

func NewReplyRepository(db *sqlx.DB) *ReplyRepositoryImpl {
	return &ReplyRepositoryImpl{DB: db}
}

// Create inserts a reply. A missing post surfaces as a foreign key violation.
func (r *ReplyRepositoryImpl) Create(ctx context.Context, reply *models.Reply) error {
	query := `
		INSERT INTO replies (reply_id, content, photo_url, post_id, author_id, created_at)
		VALUES (:reply_id, :content, :photo_url, :post_id, :author_id, :created_at)
	`

	if reply.ReplyID == "" {
		reply.ReplyID = uuid.New().String()
	}
	reply.CreatedAt = time.Now().UTC()

	_, err := r.DB.NamedExecContext(ctx, query, reply)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return apperr.NotFound("post %s not found", reply.PostID)
		case isCheckViolation(err):
			return apperr.Validation("reply content must not be empty")
		}
		return upstream(err, "error creating reply")
	}

	return nil
}
