package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

type CreatePostRequest struct {
	AuthorID string  `json:"authorId"`
	Title    string  `json:"title" validate:"required"`
	Body     string  `json:"body" validate:"required"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,url"`
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (post_id, title, body, photo_url, author_id, created_at)
		VALUES (:post_id, :title, :body, :photo_url, :author_id, :created_at)
	`

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	post.CreatedAt = time.Now().UTC()

	_, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return apperr.NotFound("author %s not found", post.AuthorID)
		case isCheckViolation(err):
			return apperr.Validation("post title and body must not be empty")
		}
		return upstream(err, "error creating post")
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT * FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperr.NotFound("post %s not found", postID)
		}
		return nil, upstream(err, "error getting post")
	}

	return &post, nil
}

// GetLatestByAuthor returns nil without error when the author has no posts.
func (r *PostRepositoryImpl) GetLatestByAuthor(ctx context.Context, authorID string) (*models.Post, error) {
	query := `
		SELECT * FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC, post_id DESC
		LIMIT 1
	`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, authorID)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, upstream(err, "error getting latest post")
	}

	return &post, nil
}

// feedQuery hydrates every post in a single statement, so the whole feed comes
// from one snapshot. Replies and reactions are aggregated as JSON per post.
const feedQuery = `
	SELECT
		p.post_id, p.title, p.body, p.photo_url, p.created_at,
		u.user_id AS author_id, u.name AS author_name, u.image_url AS author_image,
		COALESCE((
			SELECT json_agg(json_build_object(
				'replyId', r.reply_id,
				'content', r.content,
				'photoUrl', r.photo_url,
				'postId', r.post_id,
				'createdAt', r.created_at,
				'author', json_build_object('id', ru.user_id, 'name', ru.name, 'image', ru.image_url),
				'reactions', COALESCE((
					SELECT json_agg(json_build_object(
						'reactionId', rr.reaction_id,
						'type', rr.type,
						'createdAt', rr.created_at,
						'author', json_build_object('id', rru.user_id, 'name', rru.name)
					))
					FROM reactions rr
					JOIN users rru ON rru.user_id = rr.author_id
					WHERE rr.reply_id = r.reply_id
				), '[]'::json)
			) ORDER BY r.created_at ASC, r.reply_id ASC)
			FROM replies r
			JOIN users ru ON ru.user_id = r.author_id
			WHERE r.post_id = p.post_id
		), '[]'::json) AS replies,
		COALESCE((
			SELECT json_agg(json_build_object(
				'reactionId', pr.reaction_id,
				'type', pr.type,
				'createdAt', pr.created_at,
				'author', json_build_object('id', pru.user_id, 'name', pru.name)
			))
			FROM reactions pr
			JOIN users pru ON pru.user_id = pr.author_id
			WHERE pr.post_id = p.post_id
		), '[]'::json) AS reactions
	FROM posts p
	JOIN users u ON u.user_id = p.author_id
	ORDER BY p.created_at DESC, p.post_id DESC
`

type feedRow struct {
	PostID      string    `db:"post_id"`
	Title       string    `db:"title"`
	Body        string    `db:"body"`
	PhotoURL    *string   `db:"photo_url"`
	CreatedAt   time.Time `db:"created_at"`
	AuthorID    string    `db:"author_id"`
	AuthorName  string    `db:"author_name"`
	AuthorImage *string   `db:"author_image"`
	Replies     []byte    `db:"replies"`
	Reactions   []byte    `db:"reactions"`
}

func (r *PostRepositoryImpl) ListFeed(ctx context.Context) ([]models.FeedPost, error) {
	var rows []feedRow
	if err := r.DB.SelectContext(ctx, &rows, feedQuery); err != nil {
		return nil, upstream(err, "error listing posts")
	}

	posts := make([]models.FeedPost, 0, len(rows))
	for _, row := range rows {
		post, err := row.toFeedPost()
		if err != nil {
			return nil, fmt.Errorf("error decoding post %s: %w", row.PostID, err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func (row feedRow) toFeedPost() (models.FeedPost, error) {
	post := models.FeedPost{
		PostID:    row.PostID,
		Title:     row.Title,
		Body:      row.Body,
		PhotoURL:  row.PhotoURL,
		CreatedAt: row.CreatedAt,
		Author: models.AuthorSummary{
			ID:    row.AuthorID,
			Name:  row.AuthorName,
			Image: row.AuthorImage,
		},
		Replies:   []models.FeedReply{},
		Reactions: []models.FeedReaction{},
	}

	if err := decodeJSONColumn(row.Replies, &post.Replies); err != nil {
		return post, fmt.Errorf("replies: %w", err)
	}
	if err := decodeJSONColumn(row.Reactions, &post.Reactions); err != nil {
		return post, fmt.Errorf("reactions: %w", err)
	}

	for i := range post.Replies {
		if post.Replies[i].Reactions == nil {
			post.Replies[i].Reactions = []models.FeedReaction{}
		}
	}

	// replies read oldest first
	sort.SliceStable(post.Replies, func(i, j int) bool {
		return post.Replies[i].CreatedAt.Before(post.Replies[j].CreatedAt)
	})

	post.FillCounts()
	return post, nil
}

func decodeJSONColumn(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
