package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"jcbcommunity/internal/repository"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Me(r.Context(), currentUserID(r))
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, newUserResponse(user), http.StatusOK)
}

// UpdateCurrentUser changes only the fields present in the body.
func (h *Handlers) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var req repository.UpdateProfileRequest
	if err := decodeJSON(w, r, maxJSONBody, &req); err != nil {
		WriteAppError(w, err)
		return
	}
	req.UserID = currentUserID(r)

	user, err := h.UserService.UpdateProfile(r.Context(), req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, newUserResponse(user), http.StatusOK)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	summary, err := h.UserService.GetUser(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		WriteAppError(w, err)
		return
	}

	writeSuccess(w, summary, http.StatusOK)
}
