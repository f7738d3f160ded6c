package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
)

func newTestPostService() (PostService, *MockPostRepository, *MockReplyRepository) {
	postRepo := new(MockPostRepository)
	replyRepo := new(MockReplyRepository)
	return NewPostService(postRepo, replyRepo, zap.NewNop()), postRepo, replyRepo
}

func strPtr(s string) *string {
	return &s
}

func TestPostService_Hello(t *testing.T) {
	svc, _, _ := newTestPostService()

	assert.Equal(t, "Hello world", svc.Hello("world"))
	assert.Equal(t, "Hello ", svc.Hello(""))
}

func TestPostService_CreatePost(t *testing.T) {
	t.Run("stores post for author", func(t *testing.T) {
		svc, postRepo, _ := newTestPostService()

		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.AuthorID == "user-1" && p.Title == "Hello" && p.Body == "World" && p.PhotoURL == nil
		})).Return(nil)

		post, err := svc.CreatePost(context.Background(), repository.CreatePostRequest{
			AuthorID: "user-1",
			Title:    "Hello",
			Body:     "World",
			PhotoURL: strPtr("  "),
		})

		require.NoError(t, err)
		assert.Equal(t, "user-1", post.AuthorID)
		postRepo.AssertExpectations(t)
	})

	t.Run("keeps photo url", func(t *testing.T) {
		svc, postRepo, _ := newTestPostService()

		postRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
			return p.PhotoURL != nil && *p.PhotoURL == "https://placehold.co/600x400"
		})).Return(nil)

		_, err := svc.CreatePost(context.Background(), repository.CreatePostRequest{
			AuthorID: "user-1", Title: "t", Body: "b", PhotoURL: strPtr("https://placehold.co/600x400"),
		})

		require.NoError(t, err)
	})

	tests := []struct {
		name string
		req  repository.CreatePostRequest
	}{
		{"empty title", repository.CreatePostRequest{AuthorID: "user-1", Title: "", Body: "World"}},
		{"whitespace title", repository.CreatePostRequest{AuthorID: "user-1", Title: " \t\n", Body: "World"}},
		{"empty body", repository.CreatePostRequest{AuthorID: "user-1", Title: "Hello", Body: "  "}},
		{"bad photo url", repository.CreatePostRequest{AuthorID: "user-1", Title: "Hello", Body: "World", PhotoURL: strPtr("not a url")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, postRepo, _ := newTestPostService()

			_, err := svc.CreatePost(context.Background(), tt.req)

			assert.True(t, apperr.Is(err, apperr.KindValidation))
			postRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPostService_CreateReply(t *testing.T) {
	t.Run("stores reply", func(t *testing.T) {
		svc, postRepo, replyRepo := newTestPostService()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(&models.Post{PostID: "post-1"}, nil)
		replyRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *models.Reply) bool {
			return r.PostID == "post-1" && r.AuthorID == "user-2" && r.Content == "nice"
		})).Return(nil)

		reply, err := svc.CreateReply(context.Background(), repository.CreateReplyRequest{
			AuthorID: "user-2", PostID: "post-1", Content: " nice ",
		})

		require.NoError(t, err)
		assert.Equal(t, "nice", reply.Content)
	})

	t.Run("empty content", func(t *testing.T) {
		svc, _, replyRepo := newTestPostService()

		_, err := svc.CreateReply(context.Background(), repository.CreateReplyRequest{
			AuthorID: "user-2", PostID: "post-1", Content: "   ",
		})

		assert.True(t, apperr.Is(err, apperr.KindValidation))
		replyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown post", func(t *testing.T) {
		svc, postRepo, replyRepo := newTestPostService()

		postRepo.On("GetByID", mock.Anything, "ghost").Return(nil, apperr.NotFound("post ghost not found"))

		_, err := svc.CreateReply(context.Background(), repository.CreateReplyRequest{
			AuthorID: "user-2", PostID: "ghost", Content: "hi",
		})

		assert.True(t, apperr.Is(err, apperr.KindNotFound))
		replyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("post removed before insert", func(t *testing.T) {
		svc, postRepo, replyRepo := newTestPostService()

		postRepo.On("GetByID", mock.Anything, "post-1").Return(&models.Post{PostID: "post-1"}, nil)
		replyRepo.On("Create", mock.Anything, mock.Anything).Return(apperr.NotFound("post post-1 not found"))

		_, err := svc.CreateReply(context.Background(), repository.CreateReplyRequest{
			AuthorID: "user-2", PostID: "post-1", Content: "hi",
		})

		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestPostService_GetLatest(t *testing.T) {
	svc, postRepo, _ := newTestPostService()

	postRepo.On("GetLatestByAuthor", mock.Anything, "user-1").Return(&models.Post{PostID: "post-9"}, nil)
	postRepo.On("GetLatestByAuthor", mock.Anything, "user-2").Return(nil, nil)

	post, err := svc.GetLatest(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "post-9", post.PostID)

	post, err = svc.GetLatest(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestPostService_ListPosts(t *testing.T) {
	svc, postRepo, _ := newTestPostService()

	feed := []models.FeedPost{{PostID: "post-2"}, {PostID: "post-1"}}
	postRepo.On("ListFeed", mock.Anything).Return(feed, nil)

	posts, err := svc.ListPosts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, feed, posts)
}
