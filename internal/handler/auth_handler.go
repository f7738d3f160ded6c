package handlers

import (
	"net/http"

	"jcbcommunity/internal/models"
	"jcbcommunity/internal/repository"
)

type UserResponse struct {
	UserId   string  `json:"userId"`
	Email    string  `json:"email"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imageUrl"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UserId:   user.UserID,
		Email:    user.Email,
		Name:     user.Name,
		ImageURL: user.ImageURL,
	}
}

type SignupResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req repository.CreateUserRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}

	user, err := h.AuthService.Signup(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, SignupResponse{Success: true, User: newUserResponse(user)}, http.StatusCreated)
}

func (h *Handlers) Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}
	if err := h.validate(req); err != nil {
		WriteAppError(w, err)
		return
	}

	user, accessToken, refreshToken, err := h.AuthService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, http.StatusOK)
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}
	if err := h.validate(req); err != nil {
		WriteAppError(w, err)
		return
	}

	// update accessToken and refreshToken
	user, accessToken, refreshToken, err := h.AuthService.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, http.StatusOK)
}
