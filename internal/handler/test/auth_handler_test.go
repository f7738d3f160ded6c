package test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"jcbcommunity/internal/apperr"
	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
)

func TestSignupHandler_Success(t *testing.T) {
	// Arrange
	handler, mocks := createTestHandler()

	mocks.Auth.On("Signup", mock.Anything, repository.CreateUserRequest{
		Email:    "ann@example.com",
		Password: "password123",
		Name:     "Ann",
	}).Return(&models.User{
		UserID: "user-123",
		Email:  "ann@example.com",
		Name:   "Ann",
	}, nil)

	req := jsonRequest(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"email":    "ann@example.com",
		"password": "password123",
		"name":     "Ann",
	})
	rr := httptest.NewRecorder()

	// Act
	handler.Signup(rr, req)

	// Assert
	assert.Equal(t, http.StatusCreated, rr.Code)
	response := decodeBody(t, rr)
	assert.Equal(t, true, response["success"])

	userData, ok := response["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "user-123", userData["userId"])
	assert.Equal(t, "Ann", userData["name"])
	assert.NotContains(t, rr.Body.String(), "password")

	mocks.Auth.AssertExpectations(t)
}

func TestSignupHandler_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedKind   string
	}{
		{
			name:           "malformed body",
			body:           `{"email":`,
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "validation",
		},
		{
			name:           "duplicate email",
			body:           `{"email":"ann@example.com","password":"password123","name":"Ann"}`,
			serviceErr:     apperr.Conflict("email already registered"),
			expectedStatus: http.StatusConflict,
			expectedKind:   "conflict",
		},
		{
			name:           "short password",
			body:           `{"email":"ann@example.com","password":"short","name":"Ann"}`,
			serviceErr:     apperr.Validation("password must be at least 8 characters"),
			expectedStatus: http.StatusBadRequest,
			expectedKind:   "validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mocks := createTestHandler()
			if tt.serviceErr != nil {
				mocks.Auth.On("Signup", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			handler.Signup(rr, req)

			assertJSONError(t, rr, tt.expectedStatus, tt.expectedKind, "")
			mocks.Auth.AssertExpectations(t)
		})
	}
}

func TestSigninHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mocks := createTestHandler()
		mocks.Auth.On("Signin", mock.Anything, "ann@example.com", "password123").
			Return(&models.User{UserID: "user-123", Email: "ann@example.com", Name: "Ann"}, "access-token-123", "refresh-token-123", nil)

		req := jsonRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{
			"email":    "ann@example.com",
			"password": "password123",
		})
		rr := httptest.NewRecorder()
		handler.Signin(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		response := decodeBody(t, rr)
		assert.Equal(t, "access-token-123", response["accessToken"])
		assert.Equal(t, "refresh-token-123", response["refreshToken"])
		mocks.Auth.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		handler, mocks := createTestHandler()
		mocks.Auth.On("Signin", mock.Anything, "ann@example.com", "nope-nope").
			Return(nil, "", "", apperr.Unauthorized("invalid email or password"))

		req := jsonRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{
			"email":    "ann@example.com",
			"password": "nope-nope",
		})
		rr := httptest.NewRecorder()
		handler.Signin(rr, req)

		assertJSONError(t, rr, http.StatusUnauthorized, "unauthorized", "invalid email or password")
	})

	t.Run("missing password", func(t *testing.T) {
		handler, mocks := createTestHandler()

		req := jsonRequest(t, http.MethodPost, "/api/auth/signin", map[string]string{"email": "ann@example.com"})
		rr := httptest.NewRecorder()
		handler.Signin(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "validation", "password is required")
		mocks.Auth.AssertNotCalled(t, "Signin", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRefreshTokenHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler, mocks := createTestHandler()
		mocks.Auth.On("RefreshTokens", mock.Anything, "refresh-1").
			Return(&models.User{UserID: "user-123"}, "access-2", "refresh-2", nil)

		req := jsonRequest(t, http.MethodPost, "/api/auth/refresh-token", map[string]string{"refreshToken": "refresh-1"})
		rr := httptest.NewRecorder()
		handler.RefreshToken(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "refresh-2", decodeBody(t, rr)["refreshToken"])
	})

	t.Run("missing token", func(t *testing.T) {
		handler, _ := createTestHandler()

		req := jsonRequest(t, http.MethodPost, "/api/auth/refresh-token", map[string]string{})
		rr := httptest.NewRecorder()
		handler.RefreshToken(rr, req)

		assertJSONError(t, rr, http.StatusBadRequest, "validation", "refreshToken is required")
	})

	t.Run("expired token", func(t *testing.T) {
		handler, mocks := createTestHandler()
		mocks.Auth.On("RefreshTokens", mock.Anything, "stale").
			Return(nil, "", "", apperr.Unauthorized("refresh token expired"))

		req := jsonRequest(t, http.MethodPost, "/api/auth/refresh-token", map[string]string{"refreshToken": "stale"})
		rr := httptest.NewRecorder()
		handler.RefreshToken(rr, req)

		assertJSONError(t, rr, http.StatusUnauthorized, "unauthorized", "refresh token expired")
	})
}
