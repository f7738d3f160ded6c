package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
	"jcbcommunity/internal/validation"
)

type PostService interface {
	Hello(text string) string
	ListPosts(ctx context.Context) ([]models.FeedPost, error)
	GetLatest(ctx context.Context, authorID string) (*models.Post, error)
	CreatePost(ctx context.Context, req repository.CreatePostRequest) (*models.Post, error)
	CreateReply(ctx context.Context, req repository.CreateReplyRequest) (*models.Reply, error)
}

type postService struct {
	postRepo  repository.PostRepository
	replyRepo repository.ReplyRepository
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewPostService(postRepo repository.PostRepository, replyRepo repository.ReplyRepository, logger *zap.Logger) PostService {
	return &postService{
		postRepo:  postRepo,
		replyRepo: replyRepo,
		validate:  validation.New(),
		logger:    logger,
	}
}

func (p *postService) Hello(text string) string {
	return "Hello " + text
}

func (p *postService) ListPosts(ctx context.Context) ([]models.FeedPost, error) {
	return p.postRepo.ListFeed(ctx)
}

// GetLatest returns nil when the author has not posted yet.
func (p *postService) GetLatest(ctx context.Context, authorID string) (*models.Post, error) {
	return p.postRepo.GetLatestByAuthor(ctx, authorID)
}

func (p *postService) CreatePost(ctx context.Context, req repository.CreatePostRequest) (*models.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	req.PhotoURL = normalizeURL(req.PhotoURL)

	if req.Title == "" || req.Body == "" {
		return nil, apperr.Validation("post title and body must not be empty")
	}
	if err := validation.Struct(p.validate, req); err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID: req.AuthorID,
		Title:    req.Title,
		Body:     req.Body,
		PhotoURL: req.PhotoURL,
	}

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	p.logger.Debug("post created", zap.String("post_id", post.PostID), zap.String("author_id", post.AuthorID))
	return post, nil
}

func (p *postService) CreateReply(ctx context.Context, req repository.CreateReplyRequest) (*models.Reply, error) {
	req.Content = strings.TrimSpace(req.Content)
	req.PhotoURL = normalizeURL(req.PhotoURL)

	if req.Content == "" {
		return nil, apperr.Validation("reply content must not be empty")
	}
	if err := validation.Struct(p.validate, req); err != nil {
		return nil, err
	}

	// The replies foreign key still backs this up.
	if _, err := p.postRepo.GetByID(ctx, req.PostID); err != nil {
		return nil, err
	}

	reply := &models.Reply{
		Content:  req.Content,
		PhotoURL: req.PhotoURL,
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
	}

	if err := p.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	p.logger.Debug("reply created", zap.String("reply_id", reply.ReplyID), zap.String("post_id", reply.PostID))
	return reply, nil
}

// normalizeURL maps a blank optional URL to nil.
func normalizeURL(u *string) *string {
	if u == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*u)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
