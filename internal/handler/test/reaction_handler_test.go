package test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
)

func TestReactToPostHandler(t *testing.T) {
	postID := "post-1"

	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(*MockReactionService)
		expectedStatus int
		expectedAction string
	}{
		{
			name: "added",
			body: map[string]string{"type": "LIKE"},
			mockSetup: func(s *MockReactionService) {
				s.On("ReactToPost", mock.Anything, "user-1", postID, "LIKE").Return(&models.ToggleResult{
					Action:   models.ToggleAdded,
					Reaction: models.Reaction{ReactionID: "r-1", Type: models.ReactionLike, AuthorID: "user-1", PostID: &postID},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedAction: "added",
		},
		{
			name: "removed",
			body: map[string]string{"type": "LIKE"},
			mockSetup: func(s *MockReactionService) {
				s.On("ReactToPost", mock.Anything, "user-1", postID, "LIKE").
					Return(&models.ToggleResult{Action: models.ToggleRemoved}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedAction: "removed",
		},
		{
			name: "unknown type",
			body: map[string]string{"type": "MEH"},
			mockSetup: func(s *MockReactionService) {
				s.On("ReactToPost", mock.Anything, "user-1", postID, "MEH").
					Return(nil, apperr.Validation("reaction type must be one of LIKE, LOVE, LAUGH, WOW, SAD, ANGRY"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing type",
			body:           map[string]string{},
			mockSetup:      func(s *MockReactionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown post",
			body: map[string]string{"type": "WOW"},
			mockSetup: func(s *MockReactionService) {
				s.On("ReactToPost", mock.Anything, "user-1", postID, "WOW").Return(nil, apperr.NotFound("post not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mocks := createTestHandler()
			tt.mockSetup(mocks.Reaction)

			req := jsonRequest(t, http.MethodPost, "/api/posts/"+postID+"/reactions", tt.body)
			req = asUser(mux.SetURLVars(req, map[string]string{"postId": postID}), "user-1")
			rr := httptest.NewRecorder()
			handler.ReactToPost(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedAction != "" {
				assert.Equal(t, tt.expectedAction, decodeBody(t, rr)["action"])
			}
			mocks.Reaction.AssertExpectations(t)
		})
	}
}

func TestReactToReplyHandler(t *testing.T) {
	handler, mocks := createTestHandler()
	mocks.Reaction.On("ReactToReply", mock.Anything, "user-1", "reply-4", "love").
		Return(&models.ToggleResult{Action: models.ToggleAdded}, nil)

	req := jsonRequest(t, http.MethodPost, "/api/replies/reply-4/reactions", map[string]string{"type": "love"})
	req = asUser(mux.SetURLVars(req, map[string]string{"replyId": "reply-4"}), "user-1")
	rr := httptest.NewRecorder()
	handler.ReactToReply(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "added", decodeBody(t, rr)["action"])
	mocks.Reaction.AssertExpectations(t)
}
